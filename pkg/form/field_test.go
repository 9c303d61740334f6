package form

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/pkg/marker"
)

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	if fe, ok := err.(*Error); ok {
		return fe.Message
	}
	return err.Error()
}

func TestFieldValidate_Messages(t *testing.T) {
	ctx := context.Background()

	text := NewTextLine("title", Required())
	text.MinLength, text.MaxLength = 3, 5
	uri := NewURI("homepage")
	uri.MaxLength = 12
	password := NewPassword("secret")
	password.MinLength = 4
	constrained := NewTextLine("code", WithConstraint(func(v any) bool {
		return strings.HasPrefix(v.(string), "x")
	}))

	cases := []struct {
		name  string
		field Field
		value marker.Value
		want  string
	}{
		{name: "required absent", field: text, value: marker.Absent(), want: MessageRequired},
		{name: "required empty string", field: text, value: marker.Of(""), want: MessageRequired},
		{name: "newline", field: text, value: marker.Of("a\nb"), want: "No newlines are allowed."},
		{name: "too short", field: text, value: marker.Of("ab"), want: "This text is too short."},
		{name: "too long", field: text, value: marker.Of("abcdef"), want: "This text is too long."},
		{name: "text ok", field: text, value: marker.Of("abcd")},
		{name: "uri malformed", field: uri, value: marker.Of("not a uri"), want: "The URI is malformed."},
		{name: "uri too long", field: uri, value: marker.Of("https://example.com"), want: "The URI is too long."},
		{name: "uri ok", field: uri, value: marker.Of("mailto:a@b")},
		{name: "uri optional empty", field: uri, value: marker.Of("")},
		{name: "password too short", field: password, value: marker.Of("abc"), want: "This password is too short."},
		{name: "password unchanged skips checks", field: password, value: marker.Unchanged()},
		{name: "constraint", field: constrained, value: marker.Of("abc"), want: MessageConstraint},
		{name: "constraint ok", field: constrained, value: marker.Of("xyz")},
		{name: "wrong native type", field: uri, value: marker.Of(42), want: MessageInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := messageOf(tc.field.Validate(ctx, tc.value, nil))
			if got != tc.want {
				t.Fatalf("message: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFieldValidate_SentinelsOnlyCheckRequired(t *testing.T) {
	ctx := context.Background()
	required := NewPassword("secret", Required())
	required.MinLength = 10

	if err := required.Validate(ctx, marker.Unchanged(), nil); err != nil {
		t.Fatalf("unchanged required password: unexpected error %v", err)
	}
	if got := messageOf(required.Validate(ctx, marker.Absent(), nil)); got != MessageRequired {
		t.Fatalf("absent required password: want %q, got %q", MessageRequired, got)
	}
}

func TestBase_Defaults(t *testing.T) {
	static := NewTextLine("title", WithDefault("untitled"))
	if got := static.Default(nil); got.Must() != "untitled" {
		t.Fatalf("static default: got %s", got)
	}

	computed := NewTextLine("title", WithDefaultFactory(func(f *Form) any {
		return f.Object().(string) + "!"
	}))
	f := New(FieldSet{}, WithObject("hello"))
	if got := computed.Default(f); got.Must() != "hello!" {
		t.Fatalf("factory default: got %s", got)
	}

	if got := NewTextLine("plain").Default(nil); got.Kind() != marker.KindAbsent {
		t.Fatalf("no default: want absent, got %s", got.Kind())
	}
}

func TestField_TitleFallsBackToIdentifier(t *testing.T) {
	if got := NewTextLine("name").Title(); got != "name" {
		t.Fatalf("title: want %q, got %q", "name", got)
	}
	if got := NewTextLine("name", WithTitle("Full name")).Title(); got != "Full name" {
		t.Fatalf("title: want %q, got %q", "Full name", got)
	}
}

func TestFieldSet_RejectsDuplicates(t *testing.T) {
	if _, err := NewFieldSet(NewTextLine("a"), NewTextLine("a")); err == nil {
		t.Fatalf("expected duplicate identifier error")
	}
	if _, err := NewFieldSet(NewTextLine(" ")); err == nil {
		t.Fatalf("expected empty identifier error")
	}

	set := MustFieldSet(NewTextLine("a"), NewTextLine("b"), NewTextLine("c"))
	if got := set.Omit("b").Identifiers(); strings.Join(got, ",") != "a,c" {
		t.Fatalf("omit: got %v", got)
	}
	if got := set.Select("c", "a").Identifiers(); strings.Join(got, ",") != "a,c" {
		t.Fatalf("select keeps set order: got %v", got)
	}
}
