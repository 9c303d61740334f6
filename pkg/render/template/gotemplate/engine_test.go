package gotemplate

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte(`Hello {{ name }}`)},
		"use-global.tmpl": {Data: []byte(`env={{ settings.env }}`)},
		"use-filter.tmpl": {Data: []byte(`{{ name|formbind_shout }}`)},
		"struct.tmpl":     {Data: []byte(`{{ title }}:{{ count }}`)},
	}
	engine, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesOutputs(t *testing.T) {
	engine := newEngine(t)
	var sb strings.Builder
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &sb)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada" || sb.String() != got {
		t.Fatalf("unexpected output %q / %q", got, sb.String())
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("want env=staging, got %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("formbind_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("formbind_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	got, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("want ADA!, got %q", got)
	}
}

func TestEngine_RenderConvertsStructsAndStrings(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}{Title: "Report", Count: 2}
	got, err := engine.Render("struct", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Report:2" {
		t.Fatalf("want Report:2, got %q", got)
	}

	got, err = engine.Render("{{ title|upper }}", map[string]any{"title": "inline"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "INLINE" {
		t.Fatalf("want INLINE, got %q", got)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
