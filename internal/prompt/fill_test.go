package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/internal/prompt"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
	"github.com/goliatone/go-formbind/pkg/widget"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	selects   []int
	asked     []string
	options   [][]string
	err       error
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.err != nil {
		return "", s.err
	}
	out := s.inputs[0]
	s.inputs = s.inputs[1:]
	return out, nil
}

func (s *stubDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	out := s.passwords[0]
	s.passwords = s.passwords[1:]
	return out, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	s.options = append(s.options, cfg.Options)
	out := s.selects[0]
	s.selects = s.selects[1:]
	return out, nil
}

func articleFields() form.FieldSet {
	password := form.NewPassword("secret", form.WithTitle("Secret"))
	password.ConfirmIdentifier = "secret_confirm"
	address := form.NewObject("address", form.MustFieldSet(
		form.NewTextLine("street", form.Required(), form.WithTitle("Street")),
	), form.WithTitle("Address"))
	return form.MustFieldSet(
		form.NewTextLine("title", form.Required(), form.WithTitle("Title")),
		form.NewURI("link", form.WithTitle("Link")),
		form.NewChoice("color", form.WithTitle("Color")).SetSource(vocabulary.MustSimple(
			vocabulary.Term{Token: "r", Value: "red", Title: "Red"},
			vocabulary.Term{Token: "g", Value: "green", Title: "Green"},
		)),
		password,
		address,
		form.NewTextLine("slug", form.Readonly()),
	)
}

func TestFill_BuildsBindableInput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Hello", "", "Main St"},
		passwords: []string{"s3cret", "s3cret"},
		selects:   []int{2},
	}
	f := form.New(articleFields(), form.WithExtractors(widget.NewRegistry()))

	input, err := prompt.Fill(context.Background(), driver, f)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := form.MapInput{
		"form.field.title":                {"Hello"},
		"form.field.color":                {"g"},
		"form.field.secret":               {"s3cret"},
		"form.field.secret_confirm":       {"s3cret"},
		"form.field.address":              {"1"},
		"form.field.address.field.street": {"Main St"},
	}
	if diff := cmp.Diff(want, input); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	wantAsked := []string{"Title *", "Link", "Color", "Secret", "Confirm Secret", "Street *"}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{prompt.NoneOption, "Red", "Green"}}, driver.options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	bound := form.New(articleFields(), form.WithExtractors(widget.NewRegistry()), form.WithInput(input))
	data, errs, err := bound.ExtractData(context.Background(), form.FieldSet{})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}
	color, _ := data.Get("color")
	if color.Must() != "green" {
		t.Fatalf("want color green, got %v", color)
	}
	address, _ := data.Get("address")
	if diff := cmp.Diff(map[string]any{"street": "Main St"}, address.Must()); diff != "" {
		t.Fatalf("address mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_NoneLeavesChoiceAbsent(t *testing.T) {
	fields := form.MustFieldSet(
		form.NewChoice("color").SetSource(vocabulary.MustSimple(
			vocabulary.Term{Token: "r", Value: "red"},
		)),
	)
	driver := &stubDriver{selects: []int{0}}
	input, err := prompt.Fill(context.Background(), driver, form.New(fields, form.WithPrefix("")))
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(input) != 0 {
		t.Fatalf("expected no input, got %v", input)
	}
	if diff := cmp.Diff([][]string{{prompt.NoneOption, "r"}}, driver.options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_PropagatesAbort(t *testing.T) {
	fields := form.MustFieldSet(form.NewTextLine("title"))
	driver := &stubDriver{err: prompt.ErrAborted}
	_, err := prompt.Fill(context.Background(), driver, form.New(fields))
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
