package schema

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/form"
)

// LoadComponent parses an OpenAPI document and translates the component
// schema called name with the default translator.
func LoadComponent(ctx context.Context, data []byte, name string) (form.FieldSet, error) {
	return NewTranslator().LoadComponent(ctx, data, name)
}

// LoadComponent parses an OpenAPI document and translates the component
// schema called name.
func (t *Translator) LoadComponent(ctx context.Context, data []byte, name string) (form.FieldSet, error) {
	schemas, err := Components(ctx, data)
	if err != nil {
		return form.FieldSet{}, err
	}
	ref, ok := schemas[name]
	if !ok || ref == nil {
		return form.FieldSet{}, fmt.Errorf("schema: component %q not found", name)
	}
	return t.Fields(ref)
}

// Components returns the component schemas of an OpenAPI document with
// local references resolved.
func Components(ctx context.Context, data []byte) (openapi3.Schemas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, fmt.Errorf("schema: document has no component schemas")
	}
	return doc.Components.Schemas, nil
}
