package form

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formbind/pkg/marker"
)

// TextLine is a single line of text.
type TextLine struct {
	Base
	MinLength int
	// MaxLength of zero means unbounded.
	MaxLength int
}

var _ Field = (*TextLine)(nil)

// NewTextLine creates a text line field.
func NewTextLine(identifier string, opts ...FieldOption) *TextLine {
	return &TextLine{Base: newBase(identifier, opts)}
}

func (t *TextLine) Kind() Kind { return KindText }

func (t *TextLine) Validate(_ context.Context, value marker.Value, _ *Form) error {
	if err := t.Check(value, t.IsEmpty(value)); err != nil {
		return err
	}
	if !value.IsPresent() || t.IsEmpty(value) {
		return nil
	}
	s, err := stringValue(value)
	if err != nil {
		return err
	}
	if strings.ContainsAny(s, "\r\n") {
		return ValidationError("No newlines are allowed.")
	}
	n := utf8.RuneCountInString(s)
	if t.MinLength > 0 && n < t.MinLength {
		return ValidationError("This text is too short.")
	}
	if t.MaxLength > 0 && n > t.MaxLength {
		return ValidationError("This text is too long.")
	}
	return nil
}

var uriPattern = regexp.MustCompile(`^[a-zA-Z0-9+.-]+:\S*$`)

// DefaultTarget is the link target used by URI display widgets.
const DefaultTarget = "_self"

// URI is an absolute URI kept as the submitted string.
type URI struct {
	Base
	MinLength int
	MaxLength int
	// Target is the link target of display widgets.
	Target string
}

var _ Field = (*URI)(nil)

// NewURI creates a URI field.
func NewURI(identifier string, opts ...FieldOption) *URI {
	return &URI{Base: newBase(identifier, opts), Target: DefaultTarget}
}

func (u *URI) Kind() Kind { return KindURI }

// LinkTarget returns Target, falling back to DefaultTarget.
func (u *URI) LinkTarget() string {
	if u.Target == "" {
		return DefaultTarget
	}
	return u.Target
}

func (u *URI) Validate(_ context.Context, value marker.Value, _ *Form) error {
	if err := u.Check(value, u.IsEmpty(value)); err != nil {
		return err
	}
	if !value.IsPresent() || u.IsEmpty(value) {
		return nil
	}
	s, err := stringValue(value)
	if err != nil {
		return err
	}
	if !uriPattern.MatchString(s) {
		return ValidationError("The URI is malformed.")
	}
	n := utf8.RuneCountInString(s)
	if u.MinLength > 0 && n < u.MinLength {
		return ValidationError("The URI is too short.")
	}
	if u.MaxLength > 0 && n > u.MaxLength {
		return ValidationError("The URI is too long.")
	}
	return nil
}

// Password is a secret text. Widgets never echo its value.
type Password struct {
	Base
	MinLength int
	MaxLength int
	// ConfirmIdentifier names a sibling input that must repeat the password.
	ConfirmIdentifier string
}

var _ Field = (*Password)(nil)

// NewPassword creates a password field.
func NewPassword(identifier string, opts ...FieldOption) *Password {
	return &Password{Base: newBase(identifier, opts)}
}

func (p *Password) Kind() Kind { return KindPassword }

func (p *Password) Validate(_ context.Context, value marker.Value, _ *Form) error {
	if err := p.Check(value, p.IsEmpty(value)); err != nil {
		return err
	}
	if !value.IsPresent() || p.IsEmpty(value) {
		return nil
	}
	s, err := stringValue(value)
	if err != nil {
		return err
	}
	n := utf8.RuneCountInString(s)
	if p.MinLength > 0 && n < p.MinLength {
		return ValidationError("This password is too short.")
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return ValidationError("This password is too long.")
	}
	return nil
}

// Object is a composite field whose value is built by a factory from the
// values of its nested fields.
type Object struct {
	Base
	Fields FieldSet
	// Factory builds the value. When nil, FactoryName is looked up in the
	// form's factory registry; when both are empty the nested values are
	// returned as a map.
	Factory     Factory
	FactoryName string
	// DataManager scopes the current value for nested widgets. NewDataManager
	// is used when nil.
	DataManager func(content any) DataManager
}

var _ Field = (*Object)(nil)

// NewObject creates a composite field over fields.
func NewObject(identifier string, fields FieldSet, opts ...FieldOption) *Object {
	return &Object{Base: newBase(identifier, opts), Fields: fields}
}

func (o *Object) Kind() Kind { return KindObject }

// IsEmpty only treats Absent and nil as empty; a built object is content.
func (o *Object) IsEmpty(value marker.Value) bool {
	if value.Kind() == marker.KindAbsent {
		return true
	}
	raw, ok := value.Get()
	return ok && raw == nil
}

func (o *Object) Validate(_ context.Context, value marker.Value, _ *Form) error {
	return o.Check(value, o.IsEmpty(value))
}

// ResolveFactory returns the factory building the composite value.
func (o *Object) ResolveFactory(f *Form) (Factory, error) {
	if o.Factory != nil {
		return o.Factory, nil
	}
	if o.FactoryName == "" {
		return MapFactory, nil
	}
	factory, err := f.Factories().Lookup(o.FactoryName)
	if err != nil {
		return nil, &ConfigurationError{Field: o.Identifier(), Err: err}
	}
	return factory, nil
}

// ScopeContent wraps the current composite value for nested widgets.
func (o *Object) ScopeContent(content any) DataManager {
	if o.DataManager != nil {
		return o.DataManager(content)
	}
	return NewDataManager(content)
}
