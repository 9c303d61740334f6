// Package prompt collects a form submission interactively. Fill asks one
// question per extractable field and produces the raw input the binder
// expects, so terminal answers go through the same extraction and validation
// as an HTTP post.
package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/request"
)

// NoneOption is the select entry leaving an optional choice unset.
const NoneOption = "(none)"

// Fill walks the fields of f and records every answer under its raw input
// key. Empty answers are left out so the field reads as absent.
func Fill(ctx context.Context, d Driver, f *form.Form) (form.MapInput, error) {
	input := form.MapInput{}
	if err := fill(ctx, d, f, input); err != nil {
		return nil, err
	}
	return input, nil
}

func fill(ctx context.Context, d Driver, f *form.Form, input form.MapInput) error {
	for _, field := range f.Fields().All() {
		if field.Readonly() || !f.Mode(field).Extractable() {
			continue
		}
		key := f.Key(field.Identifier())

		switch typed := field.(type) {
		case *form.Password:
			if err := askPassword(ctx, d, f, typed, input); err != nil {
				return err
			}
		case *form.Choice:
			token, err := askChoice(ctx, d, f, typed)
			if err != nil {
				return err
			}
			if token != "" {
				input[key] = []string{token}
			}
		case *form.Object:
			input[key] = []string{request.ObjectMarker}
			sub := f.Clone(typed.Fields, nil, key)
			if err := fill(ctx, d, sub, input); err != nil {
				return err
			}
		default:
			answer, err := d.Input(ctx, InputConfig{
				Message:  label(field),
				Help:     field.Description(),
				Default:  defaultText(field, f),
				Required: field.Required(),
			})
			if err != nil {
				return fmt.Errorf("prompt %q: %w", field.Identifier(), err)
			}
			if answer != "" {
				input[key] = []string{answer}
			}
		}
	}
	return nil
}

func askPassword(ctx context.Context, d Driver, f *form.Form, field *form.Password, input form.MapInput) error {
	answer, err := d.Password(ctx, InputConfig{
		Message:  label(field),
		Help:     field.Description(),
		Required: field.Required(),
	})
	if err != nil {
		return fmt.Errorf("prompt %q: %w", field.Identifier(), err)
	}
	if answer == "" {
		return nil
	}
	input[f.Key(field.Identifier())] = []string{answer}

	if field.ConfirmIdentifier == "" {
		return nil
	}
	confirm, err := d.Password(ctx, InputConfig{Message: "Confirm " + field.Title()})
	if err != nil {
		return fmt.Errorf("prompt %q: %w", field.ConfirmIdentifier, err)
	}
	input[f.Key(field.ConfirmIdentifier)] = []string{confirm}
	return nil
}

func askChoice(ctx context.Context, d Driver, f *form.Form, field *form.Choice) (string, error) {
	choices, err := field.ResolveSource(ctx, f)
	if err != nil {
		return "", err
	}
	terms := choices.Terms()

	var options, tokens []string
	if !field.Required() {
		options = append(options, NoneOption)
		tokens = append(tokens, "")
	}
	for _, term := range terms {
		title := term.Title
		if title == "" {
			title = term.Token
		}
		options = append(options, title)
		tokens = append(tokens, term.Token)
	}

	selected := 0
	if current := field.Default(f); current.IsPresent() {
		if term, ok := choices.TermByValue(current.Must()); ok {
			selected = indexOf(tokens, term.Token)
		}
	}

	idx, err := d.Select(ctx, SelectConfig{
		Message: label(field),
		Help:    field.Description(),
		Options: options,
		Default: selected,
	})
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", field.Identifier(), err)
	}
	if idx < 0 || idx >= len(tokens) {
		return "", nil
	}
	return tokens[idx], nil
}

func label(field form.Field) string {
	if field.Required() {
		return field.Title() + " *"
	}
	return field.Title()
}

func defaultText(field form.Field, f *form.Form) string {
	value := field.Default(f)
	if !value.IsPresent() {
		return ""
	}
	if s, ok := value.Must().(string); ok {
		return s
	}
	return ""
}
