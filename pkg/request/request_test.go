package request

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
)

func TestFromJSON_FlattensNestedObjects(t *testing.T) {
	body := `{
		"_action": "save",
		"title": "Hello",
		"count": 3,
		"draft": false,
		"tags": ["a", "b"],
		"note": null,
		"address": {"street": "Main", "zip": 1234}
	}`
	got, err := FromJSON(strings.NewReader(body), "form")
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	want := form.MapInput{
		"form.action.save":                {"save"},
		"form.field.title":                {"Hello"},
		"form.field.count":                {"3"},
		"form.field.draft":                {"false"},
		"form.field.tags":                 {"a", "b"},
		"form.field.address":              {ObjectMarker},
		"form.field.address.field.street": {"Main"},
		"form.field.address.field.zip":    {"1234"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"not an object":  `["a"]`,
		"nested arrays":  `{"tags": [["a"]]}`,
		"malformed json": `{"title": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromJSON(strings.NewReader(body), ""); err == nil {
				t.Fatalf("expected error for %s", body)
			}
		})
	}
}

func TestFromHTTP_PicksDecoder(t *testing.T) {
	values := url.Values{"form.field.title": {"Hello"}, "form.action.save": {"Save"}}
	r := httptest.NewRequest("POST", "/articles/1", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	input, err := FromHTTP(r, "form")
	if err != nil {
		t.Fatalf("from http: %v", err)
	}
	if got, ok := input.Lookup("form.field.title"); !ok || got[0] != "Hello" {
		t.Fatalf("urlencoded title: got %v", got)
	}

	r = httptest.NewRequest("POST", "/articles/1", strings.NewReader(`{"title":"Hi"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	input, err = FromHTTP(r, "")
	if err != nil {
		t.Fatalf("from http json: %v", err)
	}
	if got, ok := input.Lookup("title"); !ok || got[0] != "Hi" {
		t.Fatalf("json title: got %v", got)
	}
	if _, ok := input.Lookup("missing"); ok {
		t.Fatalf("missing key must be absent")
	}
}
