package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// User facing messages shared by every field kind.
const (
	MessageRequired   = "Required field"
	MessageConstraint = "Constraint not satisfied."
	MessageInvalid    = "Invalid value"
	MessageNested     = "There were errors."
)

var (
	// ErrNoSource is returned when a choice field has neither a vocabulary nor
	// a factory bound.
	ErrNoSource = errors.New("form: no vocabulary source available")
	// ErrInvalidVocabulary is returned when a resolved vocabulary is nil or
	// breaks the token/value round trip.
	ErrInvalidVocabulary = errors.New("form: invalid vocabulary")
	// ErrFactoryNotFound is returned when an object field's factory cannot be
	// located.
	ErrFactoryNotFound = errors.New("form: object factory not found")
	// ErrNoExtractors is returned when a form is asked to extract data without
	// an extractor lookup.
	ErrNoExtractors = errors.New("form: no extractor lookup configured")
)

// ErrorKind classifies user facing errors.
type ErrorKind uint8

const (
	ErrorValidation ErrorKind = iota
	ErrorParse
	ErrorNested
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorParse:
		return "parse"
	case ErrorNested:
		return "nested"
	default:
		return "validation"
	}
}

// Error is a recoverable, per field error. Nested errors carry the sub-errors
// of a composite field.
type Error struct {
	Identifier string
	Message    string
	Kind       ErrorKind
	Nested     Errors
}

// ParseError reports raw input that cannot be converted to the field type.
func ParseError(message string) *Error {
	return &Error{Message: message, Kind: ErrorParse}
}

// ValidationError reports a well typed value that violates a rule.
func ValidationError(message string) *Error {
	return &Error{Message: message, Kind: ErrorValidation}
}

// NestedError wraps the errors of a composite field under its identifier.
func NestedError(identifier string, nested Errors) *Error {
	return &Error{Identifier: identifier, Message: MessageNested, Kind: ErrorNested, Nested: nested}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == ErrorNested && len(e.Nested) > 0 {
		return fmt.Sprintf("%s: %s", e.Identifier, e.Nested.Error())
	}
	if e.Identifier == "" {
		return e.Message
	}
	return e.Identifier + ": " + e.Message
}

func (e *Error) withIdentifier(identifier string) *Error {
	if e.Identifier == identifier {
		return e
	}
	clone := *e
	clone.Identifier = identifier
	return &clone
}

// Errors is the collection produced by one extraction pass.
type Errors []*Error

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, err := range es {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// Len counts every leaf error, descending into nested errors.
func (es Errors) Len() int {
	total := 0
	for _, err := range es {
		if err == nil {
			continue
		}
		if err.Kind == ErrorNested && len(err.Nested) > 0 {
			total += err.Nested.Len()
			continue
		}
		total++
	}
	return total
}

// Get returns the top level error recorded for identifier.
func (es Errors) Get(identifier string) (*Error, bool) {
	for _, err := range es {
		if err != nil && err.Identifier == identifier {
			return err, true
		}
	}
	return nil, false
}

// Flatten maps dotted identifier paths to their leaf messages.
func (es Errors) Flatten() map[string][]string {
	out := make(map[string][]string)
	es.flatten("", out)
	return out
}

func (es Errors) flatten(prefix string, out map[string][]string) {
	for _, err := range es {
		if err == nil {
			continue
		}
		path := err.Identifier
		if prefix != "" {
			path = prefix + "." + path
		}
		if err.Kind == ErrorNested && len(err.Nested) > 0 {
			err.Nested.flatten(path, out)
			continue
		}
		out[path] = append(out[path], err.Message)
	}
}

// Paths returns the flattened error paths sorted.
func (es Errors) Paths() []string {
	flat := es.Flatten()
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// AsErrors extracts the user error collection from err.
func AsErrors(err error) (Errors, bool) {
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	var single *Error
	if errors.As(err, &single) {
		return Errors{single}, true
	}
	return nil, false
}

// ConfigurationError is a programmer error that aborts the request instead of
// being reported beside a field.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("form: field %q: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfg *ConfigurationError
	return errors.As(err, &cfg)
}
