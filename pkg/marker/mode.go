package marker

import "strings"

// Mode selects how a widget presents a field. Non-extractable modes never
// read submitted input.
type Mode struct {
	name        string
	extractable bool
}

var (
	ModeInput   = NewMode("input", true)
	ModeDisplay = NewMode("display", false)
	ModeHidden  = NewMode("hidden", true)
	ModeLink    = NewMode("link", false)
)

// NewMode declares a custom mode.
func NewMode(name string, extractable bool) Mode {
	return Mode{name: strings.ToLower(strings.TrimSpace(name)), extractable: extractable}
}

// Name returns the lower-cased mode name used by widget lookups.
func (m Mode) Name() string {
	if m.name == "" {
		return ModeInput.name
	}
	return m.name
}

// Extractable reports whether widgets in this mode parse submitted input.
// The zero Mode behaves like ModeInput.
func (m Mode) Extractable() bool {
	if m.name == "" {
		return true
	}
	return m.extractable
}

func (m Mode) String() string { return m.Name() }
