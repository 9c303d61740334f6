package form

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Factory builds a composite value from the extracted nested values. Values
// never contain sentinels.
type Factory func(values map[string]any) (any, error)

// MapFactory returns a copy of the values as a map.
func MapFactory(values map[string]any) (any, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}

// StructFactory decodes the values into a new *T. Struct fields match the
// `form` tag, then the field name.
func StructFactory[T any]() Factory {
	return func(values map[string]any) (any, error) {
		out := new(T)
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "form",
			Result:           out,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("form: struct factory: %w", err)
		}
		if err := decoder.Decode(values); err != nil {
			return nil, fmt.Errorf("form: struct factory: %w", err)
		}
		return out, nil
	}
}

// Factories is a registry of composite factories keyed by identifier.
type Factories struct {
	mu      sync.RWMutex
	entries map[string]Factory
}

// NewFactories creates an empty registry.
func NewFactories() *Factories {
	return &Factories{entries: make(map[string]Factory)}
}

// Register adds a factory. Duplicate identifiers return an error.
func (r *Factories) Register(identifier string, factory Factory) error {
	key := strings.TrimSpace(identifier)
	if key == "" {
		return fmt.Errorf("form: factory identifier is required")
	}
	if factory == nil {
		return fmt.Errorf("form: factory %q is nil", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("form: factory %q already registered", key)
	}
	r.entries[key] = factory
	return nil
}

// MustRegister panics on registration failure.
func (r *Factories) MustRegister(identifier string, factory Factory) {
	if err := r.Register(identifier, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under identifier.
func (r *Factories) Lookup(identifier string) (Factory, error) {
	key := strings.TrimSpace(identifier)
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, key)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, key)
	}
	return factory, nil
}

// Identifiers lists the registered identifiers sorted.
func (r *Factories) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
