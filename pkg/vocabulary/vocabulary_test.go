package vocabulary_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

func colors(t *testing.T) *vocabulary.Simple {
	t.Helper()
	v, err := vocabulary.NewSimple(
		vocabulary.Term{Token: "red", Value: 1, Title: "Red"},
		vocabulary.Term{Token: "green", Value: 2, Title: "Green"},
		vocabulary.Term{Token: "blue", Value: 3, Title: "Blue"},
	)
	if err != nil {
		t.Fatalf("new simple: %v", err)
	}
	return v
}

func TestSimple_RoundTrip(t *testing.T) {
	v := colors(t)
	if err := vocabulary.Verify(v); err != nil {
		t.Fatalf("verify: %v", err)
	}
	for _, term := range v.Terms() {
		byToken, ok := v.TermByToken(term.Token)
		if !ok {
			t.Fatalf("token %q not found", term.Token)
		}
		if diff := cmp.Diff(term, byToken); diff != "" {
			t.Fatalf("token round trip mismatch (-want +got):\n%s", diff)
		}
		byValue, ok := v.TermByValue(byToken.Value)
		if !ok {
			t.Fatalf("value %v not found", byToken.Value)
		}
		if diff := cmp.Diff(term, byValue); diff != "" {
			t.Fatalf("value round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNewSimple_RejectsInvalidTerms(t *testing.T) {
	cases := []struct {
		name  string
		terms []vocabulary.Term
		want  string
	}{
		{
			name:  "empty token",
			terms: []vocabulary.Term{{Token: "", Value: 1}},
			want:  "empty token",
		},
		{
			name:  "duplicate token",
			terms: []vocabulary.Term{{Token: "a", Value: 1}, {Token: "a", Value: 2}},
			want:  "duplicate token",
		},
		{
			name:  "duplicate value",
			terms: []vocabulary.Term{{Token: "a", Value: 1}, {Token: "b", Value: 1}},
			want:  "duplicate value",
		},
		{
			name:  "non comparable value",
			terms: []vocabulary.Term{{Token: "a", Value: []string{"x"}}},
			want:  "not comparable",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := vocabulary.NewSimple(tc.terms...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

type skewed struct{ *vocabulary.Simple }

func (s skewed) TermByToken(token string) (vocabulary.Term, bool) {
	term, ok := s.Simple.TermByToken(token)
	term.Title = strings.ToUpper(term.Title)
	return term, ok
}

func TestVerify_DetectsDisagreeingLookups(t *testing.T) {
	err := vocabulary.Verify(skewed{colors(t)})
	if !errors.Is(err, vocabulary.ErrRoundTrip) {
		t.Fatalf("expected ErrRoundTrip, got %v", err)
	}
}

func TestContains(t *testing.T) {
	v := colors(t)
	if !vocabulary.Contains(v, 2) {
		t.Fatalf("expected 2 to be a member")
	}
	if vocabulary.Contains(v, "2") {
		t.Fatalf("string \"2\" must not match int 2")
	}
	if vocabulary.Contains(v, []int{1}) {
		t.Fatalf("non comparable values are never members")
	}
}

func TestRegistry_LookupAndDuplicates(t *testing.T) {
	reg := vocabulary.NewRegistry()
	if err := reg.RegisterVocabulary("colors", colors(t)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterVocabulary("colors", colors(t)); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	factory, err := reg.Lookup("colors")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	v, err := factory(context.Background(), nil)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if len(v.Terms()) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(v.Terms()))
	}

	if _, err := reg.Lookup("sizes"); !errors.Is(err, vocabulary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"colors"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_RegistersYAMLVocabularies(t *testing.T) {
	fsys := fstest.MapFS{
		"vocabularies/colors.yaml": {Data: []byte(`
vocabularies:
  colors:
    - token: red
      title: Red
    - token: blue
      value: 2
      title: Blue
`)},
		"vocabularies/readme.txt": {Data: []byte("ignored")},
	}

	reg := vocabulary.NewRegistry()
	if err := vocabulary.LoadFS(fsys, reg); err != nil {
		t.Fatalf("load fs: %v", err)
	}
	factory, err := reg.Lookup("colors")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	v, err := factory(context.Background(), nil)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	want := []vocabulary.Term{
		{Token: "red", Value: "red", Title: "Red"},
		{Token: "blue", Value: 2, Title: "Blue"},
	}
	if diff := cmp.Diff(want, v.Terms()); diff != "" {
		t.Fatalf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsDuplicateTokens(t *testing.T) {
	_, err := vocabulary.Parse([]byte(`
vocabularies:
  sizes:
    - token: s
    - token: s
`))
	if err == nil || !strings.Contains(err.Error(), `"sizes"`) {
		t.Fatalf("expected error naming the vocabulary, got %v", err)
	}
}
