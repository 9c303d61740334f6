package action

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultName is used when no seed produces a usable slug.
const DefaultName = "item"

// NameChooser picks the container key of a new object.
type NameChooser interface {
	ChooseName(container Container, obj any, seed string) (string, error)
}

// NameChooserFunc adapts a function to NameChooser.
type NameChooserFunc func(container Container, obj any, seed string) (string, error)

func (fn NameChooserFunc) ChooseName(container Container, obj any, seed string) (string, error) {
	return fn(container, obj, seed)
}

// SlugNameChooser slugifies the seed and appends -2, -3 and so on until the
// name is free in the container.
type SlugNameChooser struct {
	Fallback string
	// MaxAttempts bounds the suffix search. Zero means 1000.
	MaxAttempts int
}

func (c SlugNameChooser) ChooseName(container Container, _ any, seed string) (string, error) {
	base := Slugify(seed)
	if base == "" {
		base = c.Fallback
	}
	if base == "" {
		base = DefaultName
	}
	if container == nil || !container.Has(base) {
		return base, nil
	}
	limit := c.MaxAttempts
	if limit <= 0 {
		limit = 1000
	}
	for i := 2; i <= limit; i++ {
		name := fmt.Sprintf("%s-%d", base, i)
		if !container.Has(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("action: no free name for %q after %d attempts", base, limit)
}

// Slugify lowercases s, strips diacritics and collapses every run of non
// alphanumeric characters into a single dash.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
