package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/marker"
)

// Widget is the per-request presentation of one field. Widgets cache
// resolved choices and nested widgets and must not be reused across
// requests.
type Widget interface {
	Identifier() string
	HTMLID() string
	Field() form.Field
	Mode() marker.Mode
	// Template is the renderer key, e.g. "forms.textline".
	Template() string
	Update(ctx context.Context) error
	Value() string
	Error() *form.Error
	SetError(err *form.Error)
	Data() map[string]any
}

// Widgets is an ordered collection built for one form.
type Widgets []Widget

// Get returns the widget of the field identifier.
func (ws Widgets) Get(identifier string) (Widget, bool) {
	for _, w := range ws {
		if w.Field().Identifier() == identifier {
			return w, true
		}
	}
	return nil, false
}

// Data returns the template data of every widget in order.
func (ws Widgets) Data() []map[string]any {
	out := make([]map[string]any, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Data())
	}
	return out
}

type base struct {
	field    form.Field
	form     *form.Form
	mode     marker.Mode
	template string
	value    string
	err      *form.Error
	errSet   bool
}

func newBase(field form.Field, f *form.Form, mode marker.Mode, template string) base {
	return base{field: field, form: f, mode: mode, template: template}
}

func (b *base) Identifier() string { return b.form.Key(b.field.Identifier()) }
func (b *base) HTMLID() string     { return strings.ReplaceAll(b.Identifier(), ".", "-") }
func (b *base) Field() form.Field  { return b.field }
func (b *base) Mode() marker.Mode  { return b.mode }
func (b *base) Template() string   { return b.template }
func (b *base) Value() string      { return b.value }
func (b *base) Form() *form.Form   { return b.form }
func (b *base) Error() *form.Error { return b.err }

func (b *base) SetError(err *form.Error) {
	b.err = err
	b.errSet = true
}

func (b *base) loadError() {
	if b.errSet {
		return
	}
	if err, ok := b.form.Errors().Get(b.field.Identifier()); ok {
		b.err = err
	}
}

// inputValue returns the raw submission when present. Otherwise it reads the
// stored content, falling back to the field default, and stringifies it.
func (b *base) inputValue(toString func(marker.Value) string) (string, error) {
	if raw, ok := firstValue(b.form, b.Identifier()); ok {
		return raw, nil
	}
	value, err := b.contentValue()
	if err != nil {
		return "", err
	}
	return toString(value), nil
}

func (b *base) contentValue() (marker.Value, error) {
	if !b.form.IgnoreContent() {
		stored, err := b.form.ContentData().Get(b.field.Identifier())
		if err == nil {
			return marker.Of(stored), nil
		}
		if !errors.Is(err, form.ErrNoSuchField) {
			return marker.Value{}, fmt.Errorf("widget: %s: %w", b.field.Identifier(), err)
		}
	}
	return b.field.Default(b.form), nil
}

func (b *base) data() map[string]any {
	d := map[string]any{
		"identifier":  b.Identifier(),
		"id":          b.HTMLID(),
		"field":       b.field.Identifier(),
		"kind":        b.field.Kind().String(),
		"title":       b.field.Title(),
		"description": b.field.Description(),
		"required":    b.field.Required(),
		"readonly":    b.field.Readonly(),
		"mode":        b.mode.Name(),
		"template":    b.template,
		"value":       b.value,
	}
	if b.err != nil {
		d["error"] = b.err.Message
	}
	return d
}

func stringify(value marker.Value) string {
	raw, ok := value.Get()
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

func firstValue(f *form.Form, key string) (string, bool) {
	values, ok := f.Input().Lookup(key)
	if !ok {
		return "", false
	}
	if len(values) == 0 {
		return "", true
	}
	return values[0], true
}
