package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
)

const articleDocument = `
openapi: 3.0.3
info:
  title: Articles
  version: "1.0"
paths: {}
components:
  schemas:
    Address:
      type: object
      required: [street]
      properties:
        street:
          type: string
        city:
          type: string
    Article:
      type: object
      required: [title, password]
      properties:
        title:
          type: string
          title: Title
          maxLength: 80
          x-order: 1
        link:
          type: string
          format: uri
          x-order: 2
        password:
          type: string
          format: password
          minLength: 8
          x-confirm: confirm
        color:
          type: string
          enum: [red, green]
          default: red
        category:
          type: string
          x-vocabulary: categories
        slug:
          type: string
          readOnly: true
        address:
          $ref: '#/components/schemas/Address'
        meta:
          type: object
          x-factory: metadata
          properties:
            note:
              type: string
    Counter:
      type: object
      properties:
        count:
          type: integer
`

func TestLoadComponent_TranslatesProperties(t *testing.T) {
	fields, err := LoadComponent(context.Background(), []byte(articleDocument), "Article")
	if err != nil {
		t.Fatalf("load component: %v", err)
	}

	want := []string{"title", "link", "address", "category", "color", "meta", "password", "slug"}
	if diff := cmp.Diff(want, fields.Identifiers()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]form.Kind{}
	for _, field := range fields.All() {
		kinds[field.Identifier()] = field.Kind()
	}
	wantKinds := map[string]form.Kind{
		"title":    form.KindText,
		"link":     form.KindURI,
		"address":  form.KindObject,
		"category": form.KindChoice,
		"color":    form.KindChoice,
		"meta":     form.KindObject,
		"password": form.KindPassword,
		"slug":     form.KindText,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	title, _ := fields.Get("title")
	text := title.(*form.TextLine)
	if !text.Required() || text.Title() != "Title" || text.MaxLength != 80 {
		t.Fatalf("unexpected title field: required=%v title=%q max=%d", text.Required(), text.Title(), text.MaxLength)
	}
	slug, _ := fields.Get("slug")
	if !slug.Readonly() {
		t.Fatalf("slug should be readonly")
	}
	password, _ := fields.Get("password")
	if p := password.(*form.Password); p.MinLength != 8 || p.ConfirmIdentifier != "confirm" {
		t.Fatalf("unexpected password field %+v", p)
	}

	color, _ := fields.Get("color")
	choice := color.(*form.Choice)
	if choice.SourceState() != form.SourceStatic {
		t.Fatalf("enum should give a static source, got %s", choice.SourceState())
	}
	if got, _ := choice.Default(nil).Get(); got != "red" {
		t.Fatalf("default: want red, got %v", got)
	}
	category, _ := fields.Get("category")
	if c := category.(*form.Choice); c.SourceState() != form.SourceNamed || c.VocabularyName() != "categories" {
		t.Fatalf("x-vocabulary should give a named source, got %s %q", c.SourceState(), c.VocabularyName())
	}

	address, _ := fields.Get("address")
	object := address.(*form.Object)
	if object.FactoryName != "Address" {
		t.Fatalf("ref factory: want Address, got %q", object.FactoryName)
	}
	street, ok := object.Fields.Get("street")
	if !ok || !street.Required() {
		t.Fatalf("nested required street missing")
	}

	if diff := cmp.Diff([]string{"Address", "metadata"}, FactoryNames(fields)); diff != "" {
		t.Fatalf("factory names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadComponent_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := LoadComponent(ctx, []byte(articleDocument), "Missing"); err == nil {
		t.Fatalf("expected missing component error")
	}
	if _, err := LoadComponent(ctx, []byte(articleDocument), "Counter"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for integers, got %v", err)
	}
	if _, err := LoadComponent(ctx, []byte("not: [valid"), "Article"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTranslator_CustomRuleWins(t *testing.T) {
	tr := NewTranslator()
	tr.MustRegister(Rule{
		Name:     "counter",
		Priority: 50,
		Match:    func(p Property) bool { return typeIs(p.Schema, "integer") },
		Build: func(_ *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
			return form.NewTextLine(p.Name, opts...), nil
		},
	})
	fields, err := tr.LoadComponent(context.Background(), []byte(articleDocument), "Counter")
	if err != nil {
		t.Fatalf("load component: %v", err)
	}
	if diff := cmp.Diff([]string{"count"}, fields.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_ReadsSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(path, []byte(articleDocument), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewLoader(WithFileSystem(fstest.MapFS{"api/openapi.yaml": {Data: []byte(articleDocument)}}))

	src, err := ParseSource(path)
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	fromFile, err := loader.Read(context.Background(), src)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	fromFS, err := loader.Read(context.Background(), SourceFromFS("api/openapi.yaml"))
	if err != nil {
		t.Fatalf("read fs: %v", err)
	}
	if string(fromFile) != string(fromFS) {
		t.Fatalf("file and fs reads differ")
	}

	url, err := ParseSource("https://example.com/openapi.yaml")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if _, err := loader.Read(context.Background(), url); err == nil {
		t.Fatalf("url sources need an http client")
	}
	if _, err := SourceFromURL("ftp://example.com/x"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}
