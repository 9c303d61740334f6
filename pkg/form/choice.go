package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formbind/pkg/marker"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

// MessageNotInChoices is reported when a value is not a member of the
// resolved vocabulary.
const MessageNotInChoices = "The selected value is not among the possible choices."

// SourceState reports how a choice field obtains its vocabulary.
type SourceState uint8

const (
	SourceUnset SourceState = iota
	SourceStatic
	SourceContext
	SourceFormBound
	SourceNamed
)

func (s SourceState) String() string {
	switch s {
	case SourceStatic:
		return "static"
	case SourceContext:
		return "context"
	case SourceFormBound:
		return "form-bound"
	case SourceNamed:
		return "named"
	default:
		return "unset"
	}
}

// FormBinder builds a vocabulary from the whole form, typically when the
// choices depend on other submitted state.
type FormBinder func(ctx context.Context, f *Form) (vocabulary.Vocabulary, error)

// Choice selects one term of a vocabulary. Its native value is the term
// value.
type Choice struct {
	Base

	mu      sync.RWMutex
	state   SourceState
	static  vocabulary.Vocabulary
	factory vocabulary.Factory
	binder  FormBinder
	name    string
}

var _ Field = (*Choice)(nil)

// NewChoice creates a choice field with no source bound.
func NewChoice(identifier string, opts ...FieldOption) *Choice {
	return &Choice{Base: newBase(identifier, opts)}
}

func (c *Choice) Kind() Kind { return KindChoice }

// SetSource binds a static vocabulary.
func (c *Choice) SetSource(v vocabulary.Vocabulary) *Choice {
	c.rebind(func() {
		c.static = v
		c.state = SourceStatic
	})
	return c
}

// SetContextSource binds a factory called with the form's domain object.
func (c *Choice) SetContextSource(factory vocabulary.Factory) *Choice {
	c.rebind(func() {
		c.factory = factory
		c.state = SourceContext
	})
	return c
}

// SetFormSource binds a factory called with the whole form.
func (c *Choice) SetFormSource(binder FormBinder) *Choice {
	c.rebind(func() {
		c.binder = binder
		c.state = SourceFormBound
	})
	return c
}

// SetVocabularyName binds a vocabulary looked up by name in the registry
// injected into the form.
func (c *Choice) SetVocabularyName(name string) *Choice {
	c.rebind(func() {
		c.name = name
		c.state = SourceNamed
	})
	return c
}

func (c *Choice) rebind(apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.static, c.factory, c.binder, c.name = nil, nil, nil, ""
	c.state = SourceUnset
	apply()
}

// SourceState reports the current binding.
func (c *Choice) SourceState() SourceState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// VocabularyName returns the bound name for SourceNamed.
func (c *Choice) VocabularyName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// ResolveSource returns the vocabulary for f. The result is cached on f so
// factories run at most once per request. Every failure is a
// ConfigurationError except context cancellation, which is returned as is.
func (c *Choice) ResolveSource(ctx context.Context, f *Form) (vocabulary.Vocabulary, error) {
	if f != nil {
		if cached, ok := f.cachedChoices(c); ok {
			return cached, nil
		}
	}

	v, err := c.resolve(ctx, f)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		var cfg *ConfigurationError
		if errors.As(err, &cfg) {
			return nil, err
		}
		return nil, &ConfigurationError{Field: c.Identifier(), Err: err}
	}
	if v == nil {
		return nil, &ConfigurationError{Field: c.Identifier(), Err: ErrInvalidVocabulary}
	}
	if err := vocabulary.Verify(v); err != nil {
		return nil, &ConfigurationError{Field: c.Identifier(), Err: fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)}
	}

	if f != nil {
		f.storeChoices(c, v)
	}
	return v, nil
}

func (c *Choice) resolve(ctx context.Context, f *Form) (vocabulary.Vocabulary, error) {
	c.mu.RLock()
	state, static, factory, binder, name := c.state, c.static, c.factory, c.binder, c.name
	c.mu.RUnlock()

	switch state {
	case SourceStatic:
		return static, nil
	case SourceContext:
		if factory == nil {
			return nil, ErrNoSource
		}
		return factory(ctx, f.Object())
	case SourceFormBound:
		if binder == nil {
			return nil, ErrNoSource
		}
		return binder(ctx, f)
	case SourceNamed:
		named, err := f.Vocabularies().Lookup(name)
		if err != nil {
			return nil, err
		}
		return named(ctx, f.Object())
	default:
		return nil, ErrNoSource
	}
}

func (c *Choice) Validate(ctx context.Context, value marker.Value, f *Form) error {
	if err := c.Check(value, c.IsEmpty(value)); err != nil {
		return err
	}
	if !value.IsPresent() {
		return nil
	}
	choices, err := c.ResolveSource(ctx, f)
	if err != nil {
		return err
	}
	if !vocabulary.Contains(choices, value.Must()) {
		return ValidationError(MessageNotInChoices)
	}
	return nil
}
