package vocabulary

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNotFound is returned when a named vocabulary is not registered.
	ErrNotFound = errors.New("vocabulary: not found")
	// ErrRoundTrip is returned when token and value lookups disagree.
	ErrRoundTrip = errors.New("vocabulary: token/value lookups disagree")
)

// Term is one selectable option. Token is transport safe, Value is the domain
// value and Title is what users read.
type Term struct {
	Token string
	Value any
	Title string
}

// DisplayTitle returns the title, falling back to the token.
func (t Term) DisplayTitle() string {
	if strings.TrimSpace(t.Title) != "" {
		return t.Title
	}
	return t.Token
}

// Vocabulary is a finite set of terms queryable by value and by token.
type Vocabulary interface {
	Terms() []Term
	TermByValue(value any) (Term, bool)
	TermByToken(token string) (Term, bool)
}

// Verify checks the round-trip invariant on every term of v: looking a term
// up by its token or by its value must return the same term.
func Verify(v Vocabulary) error {
	if v == nil {
		return errors.New("vocabulary: vocabulary is nil")
	}
	for _, term := range v.Terms() {
		if !isComparable(term.Value) {
			return fmt.Errorf("%w: value %T of token %q is not comparable", ErrRoundTrip, term.Value, term.Token)
		}
		byToken, ok := v.TermByToken(term.Token)
		if !ok || !SameTerm(byToken, term) {
			return fmt.Errorf("%w: token %q", ErrRoundTrip, term.Token)
		}
		byValue, ok := v.TermByValue(term.Value)
		if !ok || !SameTerm(byValue, term) {
			return fmt.Errorf("%w: value %v", ErrRoundTrip, term.Value)
		}
	}
	return nil
}

// SameTerm compares two terms without panicking on non-comparable values.
func SameTerm(a, b Term) bool {
	if a.Token != b.Token || a.Title != b.Title {
		return false
	}
	if !isComparable(a.Value) || !isComparable(b.Value) {
		return false
	}
	return a.Value == b.Value
}

// Contains reports whether value belongs to v. Non-comparable values are
// never members.
func Contains(v Vocabulary, value any) bool {
	if v == nil || !isComparable(value) {
		return false
	}
	_, ok := v.TermByValue(value)
	return ok
}

func isComparable(value any) bool {
	if value == nil {
		return true
	}
	return reflect.TypeOf(value).Comparable()
}
