package marker

import "fmt"

// Kind tags the state carried by a Value.
type Kind uint8

const (
	// KindAbsent means no input was submitted for the field. It is the zero
	// Kind so an uninitialised Value reads as absent.
	KindAbsent Kind = iota
	// KindUnchanged means the widget asked to keep the existing value.
	KindUnchanged
	// KindUseDefault means the value should resolve to the field default.
	KindUseDefault
	// KindPresent means the Value carries a real domain value.
	KindPresent
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindUnchanged:
		return "unchanged"
	case KindUseDefault:
		return "use-default"
	case KindPresent:
		return "present"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is either one of the sentinels or a present domain value. Present
// values may legitimately be nil, an empty string or zero.
type Value struct {
	kind  Kind
	value any
}

// Absent returns the "no input supplied" sentinel.
func Absent() Value { return Value{kind: KindAbsent} }

// Unchanged returns the "retain the existing value" sentinel.
func Unchanged() Value { return Value{kind: KindUnchanged} }

// UseDefault returns the "resolve to the field default" sentinel.
func UseDefault() Value { return Value{kind: KindUseDefault} }

// Of wraps a domain value.
func Of(v any) Value { return Value{kind: KindPresent, value: v} }

// Kind reports which state the value is in.
func (v Value) Kind() Kind { return v.kind }

// IsSentinel reports whether the value is not a domain value.
func (v Value) IsSentinel() bool { return v.kind != KindPresent }

// IsPresent reports whether the value carries a domain value.
func (v Value) IsPresent() bool { return v.kind == KindPresent }

// Get returns the domain value and whether one is present.
func (v Value) Get() (any, bool) {
	if v.kind != KindPresent {
		return nil, false
	}
	return v.value, true
}

// Must returns the domain value and panics on sentinels. Use only after a
// Kind check.
func (v Value) Must() any {
	if v.kind != KindPresent {
		panic(fmt.Sprintf("marker: value is %s", v.kind))
	}
	return v.value
}

// String renders the value for logs and test failures.
func (v Value) String() string {
	if v.kind == KindPresent {
		return fmt.Sprintf("%v", v.value)
	}
	return "<" + v.kind.String() + ">"
}
