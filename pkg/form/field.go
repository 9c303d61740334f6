package form

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formbind/pkg/marker"
)

// Kind tags the concrete field type.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindURI
	KindPassword
	KindChoice
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "textline"
	case KindURI:
		return "uri"
	case KindPassword:
		return "password"
	case KindChoice:
		return "choice"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field describes one editable attribute. Implementations are shared across
// requests and must not keep per-request state.
type Field interface {
	Identifier() string
	Title() string
	Description() string
	Required() bool
	Readonly() bool
	Kind() Kind
	// Default returns the field default for f, or marker.Absent when the
	// field has none.
	Default(f *Form) marker.Value
	IsEmpty(value marker.Value) bool
	Validate(ctx context.Context, value marker.Value, f *Form) error
}

// Constraint is an extra predicate a present value must satisfy.
type Constraint func(value any) bool

// DefaultFactory computes a default from the active form.
type DefaultFactory func(f *Form) any

// Base carries the attributes every field kind shares.
type Base struct {
	identifier     string
	title          string
	description    string
	required       bool
	readonly       bool
	defaultValue   marker.Value
	defaultFactory DefaultFactory
	constraint     Constraint
	widget         string
}

// FieldOption configures the shared attributes of a field.
type FieldOption func(*Base)

// WithTitle sets the label.
func WithTitle(title string) FieldOption {
	return func(b *Base) { b.title = title }
}

// WithDescription sets the help text.
func WithDescription(description string) FieldOption {
	return func(b *Base) { b.description = description }
}

// Required marks the field as required.
func Required() FieldOption {
	return func(b *Base) { b.required = true }
}

// Optional clears the required flag.
func Optional() FieldOption {
	return func(b *Base) { b.required = false }
}

// Readonly excludes the field from extraction and writes.
func Readonly() FieldOption {
	return func(b *Base) { b.readonly = true }
}

// WithDefault sets a static default value.
func WithDefault(value any) FieldOption {
	return func(b *Base) {
		b.defaultValue = marker.Of(value)
		b.defaultFactory = nil
	}
}

// WithDefaultFactory computes the default from the form on demand.
func WithDefaultFactory(factory DefaultFactory) FieldOption {
	return func(b *Base) {
		b.defaultFactory = factory
		b.defaultValue = marker.Absent()
	}
}

// WithConstraint adds a predicate checked on present values.
func WithConstraint(constraint Constraint) FieldOption {
	return func(b *Base) { b.constraint = constraint }
}

// WithWidget names the preferred widget, e.g. "radio" for a choice.
func WithWidget(name string) FieldOption {
	return func(b *Base) { b.widget = strings.TrimSpace(name) }
}

func newBase(identifier string, opts []FieldOption) Base {
	b := Base{identifier: strings.TrimSpace(identifier)}
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	return b
}

func (b *Base) Identifier() string  { return b.identifier }
func (b *Base) Description() string { return b.description }
func (b *Base) Required() bool      { return b.required }
func (b *Base) Readonly() bool      { return b.readonly }
func (b *Base) WidgetHint() string  { return b.widget }

// Title returns the label, falling back to the identifier.
func (b *Base) Title() string {
	if b.title != "" {
		return b.title
	}
	return b.identifier
}

// Default resolves the static default or the default factory.
func (b *Base) Default(f *Form) marker.Value {
	if b.defaultFactory != nil {
		return marker.Of(b.defaultFactory(f))
	}
	return b.defaultValue
}

// IsEmpty treats Absent, nil and zero-length strings or collections as empty.
func (b *Base) IsEmpty(value marker.Value) bool {
	return isEmptyValue(value)
}

// Check runs the base rule shared by every kind: required-but-empty first,
// then the constraint on present values. empty is the kind's own verdict on
// value so embedders keep their IsEmpty semantics.
func (b *Base) Check(value marker.Value, empty bool) error {
	if b.required && empty {
		return ValidationError(MessageRequired)
	}
	if b.constraint != nil && value.IsPresent() && !b.constraint(value.Must()) {
		return ValidationError(MessageConstraint)
	}
	return nil
}

func isEmptyValue(value marker.Value) bool {
	switch value.Kind() {
	case marker.KindAbsent:
		return true
	case marker.KindPresent:
	default:
		return false
	}
	raw := value.Must()
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// stringValue returns the string carried by a present value, or a
// validation error for other native types.
func stringValue(value marker.Value) (string, error) {
	s, ok := value.Must().(string)
	if !ok {
		return "", ValidationError(MessageInvalid)
	}
	return s, nil
}
