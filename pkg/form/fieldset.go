package form

import (
	"errors"
	"fmt"
)

// FieldSet is an ordered collection of fields with unique identifiers. The
// zero value is an empty set.
type FieldSet struct {
	fields []Field
	index  map[string]int
}

// NewFieldSet builds a set, rejecting nil fields and empty or duplicate
// identifiers.
func NewFieldSet(fields ...Field) (FieldSet, error) {
	var set FieldSet
	return set.Extend(fields...)
}

// MustFieldSet panics when NewFieldSet fails.
func MustFieldSet(fields ...Field) FieldSet {
	set, err := NewFieldSet(fields...)
	if err != nil {
		panic(err)
	}
	return set
}

// Extend returns a new set with fields appended.
func (s FieldSet) Extend(fields ...Field) (FieldSet, error) {
	out := FieldSet{
		fields: make([]Field, 0, len(s.fields)+len(fields)),
		index:  make(map[string]int, len(s.fields)+len(fields)),
	}
	for _, field := range s.fields {
		out.index[field.Identifier()] = len(out.fields)
		out.fields = append(out.fields, field)
	}
	for _, field := range fields {
		if field == nil {
			return FieldSet{}, errors.New("form: field set: nil field")
		}
		id := field.Identifier()
		if id == "" {
			return FieldSet{}, errors.New("form: field set: empty identifier")
		}
		if _, exists := out.index[id]; exists {
			return FieldSet{}, fmt.Errorf("form: field set: duplicate identifier %q", id)
		}
		out.index[id] = len(out.fields)
		out.fields = append(out.fields, field)
	}
	return out, nil
}

// All returns the fields in order.
func (s FieldSet) All() []Field {
	return append([]Field(nil), s.fields...)
}

// Len returns the number of fields.
func (s FieldSet) Len() int { return len(s.fields) }

// Get returns the field with identifier.
func (s FieldSet) Get(identifier string) (Field, bool) {
	idx, ok := s.index[identifier]
	if !ok {
		return nil, false
	}
	return s.fields[idx], true
}

// Identifiers returns the identifiers in order.
func (s FieldSet) Identifiers() []string {
	ids := make([]string, len(s.fields))
	for i, field := range s.fields {
		ids[i] = field.Identifier()
	}
	return ids
}

// Select keeps only the named fields, in set order.
func (s FieldSet) Select(identifiers ...string) FieldSet {
	keep := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		keep[id] = struct{}{}
	}
	return s.filter(func(f Field) bool {
		_, ok := keep[f.Identifier()]
		return ok
	})
}

// Omit drops the named fields.
func (s FieldSet) Omit(identifiers ...string) FieldSet {
	drop := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		drop[id] = struct{}{}
	}
	return s.filter(func(f Field) bool {
		_, ok := drop[f.Identifier()]
		return !ok
	})
}

func (s FieldSet) filter(keep func(Field) bool) FieldSet {
	out := FieldSet{index: make(map[string]int)}
	for _, field := range s.fields {
		if !keep(field) {
			continue
		}
		out.index[field.Identifier()] = len(out.fields)
		out.fields = append(out.fields, field)
	}
	return out
}
