package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/lifecycle"
)

// DefaultNameField names the field whose value seeds the name of new objects.
const DefaultNameField = "title"

// ContentFactory creates an empty domain object.
type ContentFactory func(ctx context.Context) (any, error)

// Container stores named objects. Add forms use it as their content.
type Container interface {
	Has(name string) bool
	Set(name string, obj any) error
}

// MapContainer is an in-memory Container.
type MapContainer map[string]any

func (m MapContainer) Has(name string) bool {
	_, ok := m[name]
	return ok
}

func (m MapContainer) Set(name string, obj any) error {
	if m == nil {
		return errors.New("action: nil container")
	}
	m[name] = obj
	return nil
}

// Add creates a new object from the submission and inserts it into the
// form's content container.
type Add struct {
	descriptor
	factory   ContentFactory
	names     NameChooser
	fieldName string
	nextURL   func(f *form.Form, obj any) string
}

var _ Action = (*Add)(nil)

// AddOption configures an Add action.
type AddOption func(*Add)

// WithNameChooser replaces the slug based name chooser.
func WithNameChooser(names NameChooser) AddOption {
	return func(a *Add) {
		if names != nil {
			a.names = names
		}
	}
}

// WithNameField selects the field whose value seeds the object name. An
// empty name disables seeding.
func WithNameField(identifier string) AddOption {
	return func(a *Add) { a.fieldName = identifier }
}

// WithNextURL overrides the redirect target computed from the new object.
func WithNextURL(fn func(f *form.Form, obj any) string) AddOption {
	return func(a *Add) {
		if fn != nil {
			a.nextURL = fn
		}
	}
}

// WithActionOptions applies generic action options.
func WithActionOptions(opts ...Option) AddOption {
	return func(a *Add) {
		for _, opt := range opts {
			if opt != nil {
				opt(&a.cfg)
			}
		}
	}
}

// NewAdd returns an add action titled title whose objects come from factory.
func NewAdd(title string, factory ContentFactory, opts ...AddOption) *Add {
	a := &Add{
		descriptor: descriptor{title: title, cfg: newConfig(title, nil)},
		factory:    factory,
		names:      SlugNameChooser{},
		fieldName:  DefaultNameField,
		nextURL:    func(f *form.Form, obj any) string { return f.URL(obj) },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Run extracts with stored content ignored, builds the object, applies the data through a generic data
// manager, notifies creation, inserts the object and redirects.
func (a *Add) Run(ctx context.Context, f *form.Form) (Outcome, error) {
	// The content is the container, so there is no stored value to keep.
	form.WithIgnoreContent(true)(f)
	data, out, done, err := a.extract(ctx, f)
	if done {
		return out, err
	}

	container, ok := f.Content().(Container)
	if !ok {
		return a.fail(ctx, fmt.Errorf("%w: %T", ErrNotContainer, f.Content()), out)
	}
	if a.factory == nil {
		return a.fail(ctx, errors.New("action: add requires a content factory"), out)
	}
	obj, err := a.factory(ctx)
	if err != nil {
		return a.fail(ctx, fmt.Errorf("action: create object: %w", err), out)
	}

	target := form.NewDataManager(obj)
	written, err := ApplyData(f, target, data)
	out.Written = written
	if err != nil {
		return a.fail(ctx, err, out)
	}
	obj = target.Content()
	out.Object = obj
	a.cfg.notifier.Notify(ctx, lifecycle.Created(obj))

	name, err := a.names.ChooseName(container, obj, a.seedName(target))
	if err != nil {
		return a.fail(ctx, fmt.Errorf("action: choose name: %w", err), out)
	}
	if err := container.Set(name, obj); err != nil {
		return a.fail(ctx, fmt.Errorf("action: insert %q: %w", name, err), out)
	}

	out.Redirect = a.nextURL(f, obj)
	f.Redirect(out.Redirect)
	out.State = StateSuccess
	return a.succeed(ctx, out), nil
}

func (a *Add) seedName(dm form.DataManager) string {
	if a.fieldName == "" {
		return ""
	}
	value, err := dm.Get(a.fieldName)
	if err != nil || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
