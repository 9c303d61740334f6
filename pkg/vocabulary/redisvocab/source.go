// Package redisvocab serves named vocabularies stored as Redis hashes. Each
// hash field is a term token and its value is the term title; term values are
// the tokens themselves.
package redisvocab

import (
	"context"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

const defaultPrefix = "formbind:vocabulary:"

// Source reads vocabularies from Redis.
type Source struct {
	client backend.Cmdable
	prefix string
}

type Option func(*Source)

// WithPrefix sets the key prefix for vocabulary hashes.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// New dials a Redis client and wraps it in a Source.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client backend.Cmdable, opts ...Option) *Source {
	source := &Source{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

func (s *Source) key(name string) string {
	return s.prefix + name
}

// Load fetches the vocabulary stored under name. Terms are ordered by token.
// A missing hash returns vocabulary.ErrNotFound.
func (s *Source) Load(ctx context.Context, name string) (*vocabulary.Simple, error) {
	entries, err := s.client.HGetAll(ctx, s.key(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisvocab: load %q: %w", name, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", vocabulary.ErrNotFound, name)
	}

	tokens := make([]string, 0, len(entries))
	for token := range entries {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	terms := make([]vocabulary.Term, 0, len(tokens))
	for _, token := range tokens {
		terms = append(terms, vocabulary.Term{Token: token, Value: token, Title: entries[token]})
	}
	v, err := vocabulary.NewSimple(terms...)
	if err != nil {
		return nil, fmt.Errorf("redisvocab: %q: %w", name, err)
	}
	return v, nil
}

// Save replaces the hash stored under name with the given terms. Term values
// are ignored; the token is the value on load.
func (s *Source) Save(ctx context.Context, name string, terms ...vocabulary.Term) error {
	key := s.key(name)
	fields := make(map[string]any, len(terms))
	for _, term := range terms {
		fields[term.Token] = term.DisplayTitle()
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisvocab: save %q: %w", name, err)
	}
	return nil
}

// Factory returns a vocabulary factory that loads name on every call. Forms
// cache the result for the lifetime of one request.
func (s *Source) Factory(name string) vocabulary.Factory {
	return func(ctx context.Context, _ any) (vocabulary.Vocabulary, error) {
		return s.Load(ctx, name)
	}
}

// Register adds a factory for each name to registry.
func (s *Source) Register(registry *vocabulary.Registry, names ...string) error {
	for _, name := range names {
		if err := registry.Register(name, s.Factory(name)); err != nil {
			return err
		}
	}
	return nil
}
