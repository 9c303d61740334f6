package vocabulary

import (
	"fmt"
	"strings"
)

// Simple is an in-memory vocabulary preserving term order.
type Simple struct {
	terms   []Term
	byToken map[string]int
	byValue map[any]int
}

var _ Vocabulary = (*Simple)(nil)

// NewSimple builds a vocabulary from terms. Tokens must be non-empty and
// unique; values must be comparable and unique.
func NewSimple(terms ...Term) (*Simple, error) {
	v := &Simple{
		terms:   make([]Term, 0, len(terms)),
		byToken: make(map[string]int, len(terms)),
		byValue: make(map[any]int, len(terms)),
	}
	for _, term := range terms {
		token := strings.TrimSpace(term.Token)
		if token == "" {
			return nil, fmt.Errorf("vocabulary: term %v has an empty token", term.Value)
		}
		if token != term.Token {
			return nil, fmt.Errorf("vocabulary: token %q has surrounding whitespace", term.Token)
		}
		if !isComparable(term.Value) {
			return nil, fmt.Errorf("vocabulary: value %T of token %q is not comparable", term.Value, token)
		}
		if _, exists := v.byToken[token]; exists {
			return nil, fmt.Errorf("vocabulary: duplicate token %q", token)
		}
		if _, exists := v.byValue[term.Value]; exists {
			return nil, fmt.Errorf("vocabulary: duplicate value %v", term.Value)
		}
		v.byToken[token] = len(v.terms)
		v.byValue[term.Value] = len(v.terms)
		v.terms = append(v.terms, term)
	}
	return v, nil
}

// MustSimple panics when NewSimple fails. Useful for package-level fixtures.
func MustSimple(terms ...Term) *Simple {
	v, err := NewSimple(terms...)
	if err != nil {
		panic(err)
	}
	return v
}

// FromValues builds a vocabulary whose tokens and titles are the string
// form of each value.
func FromValues(values ...any) (*Simple, error) {
	terms := make([]Term, 0, len(values))
	for _, value := range values {
		token := fmt.Sprint(value)
		terms = append(terms, Term{Token: token, Value: value, Title: token})
	}
	return NewSimple(terms...)
}

// Terms returns the terms in declaration order.
func (v *Simple) Terms() []Term {
	if v == nil {
		return nil
	}
	return append([]Term(nil), v.terms...)
}

// TermByValue looks a term up by domain value.
func (v *Simple) TermByValue(value any) (Term, bool) {
	if v == nil || !isComparable(value) {
		return Term{}, false
	}
	idx, ok := v.byValue[value]
	if !ok {
		return Term{}, false
	}
	return v.terms[idx], true
}

// TermByToken looks a term up by token.
func (v *Simple) TermByToken(token string) (Term, bool) {
	if v == nil {
		return Term{}, false
	}
	idx, ok := v.byToken[token]
	if !ok {
		return Term{}, false
	}
	return v.terms[idx], true
}

// Len returns the number of terms.
func (v *Simple) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}
