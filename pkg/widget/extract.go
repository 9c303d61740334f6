package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/marker"
)

// MessagePasswordMismatch is reported when the confirmation input differs.
const MessagePasswordMismatch = "The passwords do not match."

// ErrKindMismatch is returned when a widget or extractor is paired with a
// field of another kind.
var ErrKindMismatch = errors.New("widget: field kind mismatch")

type extractor struct {
	field form.Field
	form  *form.Form
}

func (e extractor) key() string { return e.form.Key(e.field.Identifier()) }

func (e extractor) finish(ctx context.Context, value marker.Value) (marker.Value, error) {
	if err := e.field.Validate(ctx, value, e.form); err != nil {
		return marker.Value{}, err
	}
	return value, nil
}

// TextExtractor reads a single string. An explicit empty string is a present
// value.
type TextExtractor struct{ extractor }

// NewTextExtractor builds the extractor for text lines and URIs.
func NewTextExtractor(field form.Field, f *form.Form) form.Extractor {
	return TextExtractor{extractor{field: field, form: f}}
}

func (e TextExtractor) Extract(ctx context.Context) (marker.Value, error) {
	raw, ok := firstValue(e.form, e.key())
	if !ok {
		return marker.Absent(), nil
	}
	return e.finish(ctx, marker.Of(raw))
}

// PasswordExtractor returns Unchanged for an empty password on forms editing
// existing content, and checks the optional confirmation input. A
// confirmation without a password is a mismatch.
type PasswordExtractor struct{ extractor }

// NewPasswordExtractor builds the extractor for password fields.
func NewPasswordExtractor(field form.Field, f *form.Form) form.Extractor {
	return PasswordExtractor{extractor{field: field, form: f}}
}

func (e PasswordExtractor) Extract(ctx context.Context) (marker.Value, error) {
	raw, ok := firstValue(e.form, e.key())
	if !ok {
		return marker.Absent(), nil
	}
	if raw == "" && !e.form.IgnoreContent() {
		if e.confirmation() != "" {
			return marker.Value{}, form.ValidationError(MessagePasswordMismatch)
		}
		return marker.Unchanged(), nil
	}
	value, err := e.finish(ctx, marker.Of(raw))
	if err != nil {
		return marker.Value{}, err
	}
	if e.confirms() && e.confirmation() != raw {
		return marker.Value{}, form.ValidationError(MessagePasswordMismatch)
	}
	return value, nil
}

func (e PasswordExtractor) confirms() bool {
	password, ok := e.field.(*form.Password)
	return ok && password.ConfirmIdentifier != ""
}

// confirmation returns the submitted confirmation, or "" when the field has
// none.
func (e PasswordExtractor) confirmation() string {
	if !e.confirms() {
		return ""
	}
	confirm, _ := firstValue(e.form, e.form.Key(e.field.(*form.Password).ConfirmIdentifier))
	return confirm
}

// ChoiceExtractor maps the submitted token to its term value. An empty
// token reads as Absent; an unknown one is a parse error.
type ChoiceExtractor struct{ extractor }

// NewChoiceExtractor builds the extractor for choice fields.
func NewChoiceExtractor(field form.Field, f *form.Form) form.Extractor {
	return ChoiceExtractor{extractor{field: field, form: f}}
}

func (e ChoiceExtractor) Extract(ctx context.Context) (marker.Value, error) {
	token, ok := firstValue(e.form, e.key())
	if !ok || token == "" {
		return marker.Absent(), nil
	}
	choice, ok := e.field.(*form.Choice)
	if !ok {
		return marker.Value{}, &form.ConfigurationError{Field: e.field.Identifier(), Err: ErrKindMismatch}
	}
	choices, err := choice.ResolveSource(ctx, e.form)
	if err != nil {
		return marker.Value{}, err
	}
	term, ok := choices.TermByToken(token)
	if !ok {
		return marker.Value{}, form.ParseError(form.MessageInvalid)
	}
	return e.finish(ctx, marker.Of(term.Value))
}

// ObjectExtractor runs the binder over the nested fields in a sub-form whose
// prefix is the widget identifier, then builds the value with the object
// factory. A presence marker under the widget identifier is required.
type ObjectExtractor struct{ extractor }

// NewObjectExtractor builds the extractor for composite fields.
func NewObjectExtractor(field form.Field, f *form.Form) form.Extractor {
	return ObjectExtractor{extractor{field: field, form: f}}
}

func (e ObjectExtractor) Extract(ctx context.Context) (marker.Value, error) {
	if _, ok := e.form.Input().Lookup(e.key()); !ok {
		return marker.Absent(), nil
	}
	object, ok := e.field.(*form.Object)
	if !ok {
		return marker.Value{}, &form.ConfigurationError{Field: e.field.Identifier(), Err: ErrKindMismatch}
	}

	sub := e.form.Clone(object.Fields, nil, e.key())
	data, errs, err := sub.ExtractData(ctx, object.Fields)
	if err != nil {
		return marker.Value{}, err
	}
	if len(errs) > 0 {
		return marker.Value{}, form.NestedError(object.Identifier(), errs)
	}

	factory, err := object.ResolveFactory(e.form)
	if err != nil {
		return marker.Value{}, err
	}
	built, err := factory(data.Values())
	if err != nil {
		return marker.Value{}, fmt.Errorf("widget: object %q factory: %w", object.Identifier(), err)
	}
	return e.finish(ctx, marker.Of(built))
}
