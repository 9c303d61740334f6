package form

import (
	"context"
	"errors"

	"github.com/goliatone/go-formbind/pkg/marker"
)

// Extractor turns the raw submission for one field into a value. A returned
// *Error (or Errors) is a user error; any other error aborts the pass.
type Extractor interface {
	Extract(ctx context.Context) (marker.Value, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context) (marker.Value, error)

func (fn ExtractorFunc) Extract(ctx context.Context) (marker.Value, error) { return fn(ctx) }

// ExtractorLookup finds the extractor of field for f. A nil Extractor with a
// nil error means the field is not extracted.
type ExtractorLookup interface {
	Extractor(field Field, f *Form) (Extractor, error)
}

// ExtractData runs every field's extractor and collects values and user
// errors without short-circuiting. The zero FieldSet means the form fields.
// Configuration errors and context cancellation abort the pass and are
// returned as err.
func (f *Form) ExtractData(ctx context.Context, fields FieldSet) (*Data, Errors, error) {
	if fields.Len() == 0 {
		fields = f.fields
	}
	if f.extractors == nil && fields.Len() > 0 {
		return nil, nil, ErrNoExtractors
	}

	data := NewData()
	var errs Errors
	for _, field := range fields.All() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if field.Readonly() || !f.Mode(field).Extractable() {
			continue
		}

		extractor, err := f.extractors.Extractor(field, f)
		if err != nil {
			return nil, nil, err
		}
		if extractor == nil {
			continue
		}

		value, err := f.extractField(ctx, field, extractor)
		if err != nil {
			userErr, ok := userError(err, field.Identifier())
			if !ok {
				return nil, nil, err
			}
			errs = append(errs, userErr)
			continue
		}
		data.Set(field.Identifier(), value)
	}

	f.data, f.errors = data, errs
	return data, errs, nil
}

func (f *Form) extractField(ctx context.Context, field Field, extractor Extractor) (marker.Value, error) {
	value, err := extractor.Extract(ctx)
	if err != nil {
		return marker.Value{}, err
	}

	switch value.Kind() {
	case marker.KindPresent:
		return value, nil
	case marker.KindUseDefault:
		value = field.Default(f)
	}
	// Sentinels skip extractor validation, so required-ness is checked here.
	if err := field.Validate(ctx, value, f); err != nil {
		return marker.Value{}, err
	}
	return value, nil
}

func userError(err error, identifier string) (*Error, bool) {
	var single *Error
	if errors.As(err, &single) {
		return single.withIdentifier(identifier), true
	}
	var many Errors
	if errors.As(err, &many) {
		return NestedError(identifier, many), true
	}
	return nil, false
}
