package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is an extra hidden input emitted with the form, such as a
// CSRF token.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken returns a hidden field carrying token under name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields drops empty names, lets later fields win on name
// collisions and sorts by name.
func SortedHiddenFields(fields ...HiddenField) []HiddenField {
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}
