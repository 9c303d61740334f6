// Package formbind is the top level entry point: it loads a field set from
// an OpenAPI component schema and binds submissions against it with the
// default widget registry. The packages under pkg/ expose every stage on its
// own for callers that need more control.
package formbind

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/widget"
)

// Input aliases form.Input so simple callers need a single import.
type Input = form.Input

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewLoader constructs a schema document loader.
func NewLoader(options ...schema.LoaderOption) *schema.Loader {
	return schema.NewLoader(options...)
}

// LoadFields reads the OpenAPI document at src and translates the component
// schema called name.
func LoadFields(ctx context.Context, src schema.Source, name string, options ...schema.LoaderOption) (form.FieldSet, error) {
	data, err := schema.NewLoader(options...).Read(ctx, src)
	if err != nil {
		return form.FieldSet{}, err
	}
	return schema.LoadComponent(ctx, data, name)
}

// NewForm creates a form over fields that extracts through the default
// widget registry. Options given later override the registry.
func NewForm(fields form.FieldSet, input Input, options ...form.Option) *form.Form {
	base := []form.Option{
		form.WithInput(input),
		form.WithExtractors(widget.NewRegistry()),
	}
	return form.New(fields, append(base, options...)...)
}

// Bind extracts input against fields and returns the values and user errors.
// A non-nil error is a configuration problem or a cancelled context.
func Bind(ctx context.Context, fields form.FieldSet, input Input, options ...form.Option) (*form.Data, form.Errors, error) {
	return NewForm(fields, input, options...).ExtractData(ctx, form.FieldSet{})
}

// EmbeddedTemplates exposes the built-in widget templates so callers can
// reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
