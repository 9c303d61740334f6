package redisvocab_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/pkg/vocabulary"
	"github.com/goliatone/go-formbind/pkg/vocabulary/redisvocab"
)

func newSource(t *testing.T) (*miniredis.Miniredis, *redisvocab.Source) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisvocab.NewFromClient(client, redisvocab.WithPrefix("test:vocab:"))
}

func TestSource_LoadOrdersTermsByToken(t *testing.T) {
	mr, source := newSource(t)
	mr.HSet("test:vocab:sections", "sports", "Sports", "news", "News", "arts", "Arts")

	v, err := source.Load(context.Background(), "sections")
	require.NoError(t, err)

	want := []vocabulary.Term{
		{Token: "arts", Value: "arts", Title: "Arts"},
		{Token: "news", Value: "news", Title: "News"},
		{Token: "sports", Value: "sports", Title: "Sports"},
	}
	assert.Equal(t, want, v.Terms())
	assert.NoError(t, vocabulary.Verify(v))
}

func TestSource_LoadMissingHash(t *testing.T) {
	_, source := newSource(t)

	_, err := source.Load(context.Background(), "missing")
	assert.True(t, errors.Is(err, vocabulary.ErrNotFound), "got %v", err)
}

func TestSource_SaveReplacesHash(t *testing.T) {
	mr, source := newSource(t)
	mr.HSet("test:vocab:sizes", "xl", "Extra large")
	ctx := context.Background()

	err := source.Save(ctx, "sizes",
		vocabulary.Term{Token: "s", Title: "Small"},
		vocabulary.Term{Token: "m"},
	)
	require.NoError(t, err)

	assert.Equal(t, "Small", mr.HGet("test:vocab:sizes", "s"))
	assert.Equal(t, "m", mr.HGet("test:vocab:sizes", "m"))
	assert.Equal(t, "", mr.HGet("test:vocab:sizes", "xl"))
}

func TestSource_RegisterResolvesThroughRegistry(t *testing.T) {
	mr, source := newSource(t)
	mr.HSet("test:vocab:colors", "red", "Red")

	registry := vocabulary.NewRegistry()
	require.NoError(t, source.Register(registry, "colors"))

	factory, err := registry.Lookup("colors")
	require.NoError(t, err)
	v, err := factory(context.Background(), nil)
	require.NoError(t, err)

	term, ok := v.TermByToken("red")
	require.True(t, ok)
	assert.Equal(t, "Red", term.Title)
}
