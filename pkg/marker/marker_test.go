package marker

import "testing"

func TestValue_ZeroIsAbsent(t *testing.T) {
	var v Value
	if v.Kind() != KindAbsent {
		t.Fatalf("zero value kind: want absent, got %s", v.Kind())
	}
	if !v.IsSentinel() {
		t.Fatalf("zero value should be a sentinel")
	}
}

func TestValue_PresentDistinguishesEmptyValues(t *testing.T) {
	cases := []struct {
		name  string
		value any
	}{
		{name: "nil", value: nil},
		{name: "empty string", value: ""},
		{name: "zero", value: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Of(tc.value)
			if v.IsSentinel() {
				t.Fatalf("Of(%#v) reported as sentinel", tc.value)
			}
			got, ok := v.Get()
			if !ok || got != tc.value {
				t.Fatalf("Get: want %#v, got %#v (ok=%v)", tc.value, got, ok)
			}
		})
	}
}

func TestValue_SentinelsCarryNoValue(t *testing.T) {
	for _, v := range []Value{Absent(), Unchanged(), UseDefault()} {
		if _, ok := v.Get(); ok {
			t.Fatalf("%s should not carry a value", v)
		}
	}
	if Unchanged().Kind() == Absent().Kind() {
		t.Fatalf("unchanged and absent must differ")
	}
}

func TestValue_MustPanicsOnSentinel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = Unchanged().Must()
}

func TestMode_Extractable(t *testing.T) {
	if !ModeInput.Extractable() || !(Mode{}).Extractable() {
		t.Fatalf("input and zero modes must be extractable")
	}
	if ModeLink.Extractable() || ModeDisplay.Extractable() {
		t.Fatalf("link and display modes must not be extractable")
	}
	if got := (Mode{}).Name(); got != "input" {
		t.Fatalf("zero mode name: want input, got %q", got)
	}
}
