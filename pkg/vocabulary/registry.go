package vocabulary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a vocabulary bound to the domain object a form is viewing.
// Factories may reach external collaborators, hence the context.
type Factory func(ctx context.Context, object any) (Vocabulary, error)

// Static adapts a fixed vocabulary into a Factory.
func Static(v Vocabulary) Factory {
	return func(context.Context, any) (Vocabulary, error) {
		return v, nil
	}
}

// Registry stores named vocabulary factories. It is injected into forms
// rather than consulted globally.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory by name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("vocabulary: name is required")
	}
	if factory == nil {
		return fmt.Errorf("vocabulary: factory for %q is required", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("vocabulary: %q already registered", key)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// RegisterVocabulary registers a fixed vocabulary under name.
func (r *Registry) RegisterVocabulary(name string, v Vocabulary) error {
	if v == nil {
		return fmt.Errorf("vocabulary: vocabulary for %q is required", normalizeName(name))
	}
	return r.Register(name, Static(v))
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	key := normalizeName(name)
	if r == nil {
		return nil, fmt.Errorf("%w: %q (no registry)", ErrNotFound, key)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return factory, nil
}

// Names returns the registered names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
