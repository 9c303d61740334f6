package form

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/marker"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

// DefaultPrefix namespaces widget and action keys of a top level form.
const DefaultPrefix = "form"

// Input is the raw submission.
type Input interface {
	// Lookup returns the values submitted under key and whether the key was
	// present at all.
	Lookup(key string) ([]string, bool)
}

// MapInput is an Input over a plain map, handy in tests and CLIs.
type MapInput map[string][]string

func (m MapInput) Lookup(key string) ([]string, bool) {
	values, ok := m[key]
	return values, ok
}

// URLResolver computes the URL of a domain object.
type URLResolver interface {
	URL(obj any) string
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(obj any) string

func (fn URLResolverFunc) URL(obj any) string { return fn(obj) }

// Form is the per-request context a submission is bound against. It is not
// safe for concurrent use and must not outlive the request.
type Form struct {
	fields        FieldSet
	object        any
	content       any
	hasContent    bool
	input         Input
	prefix        string
	ignoreContent bool
	mode          marker.Mode
	fieldModes    map[string]marker.Mode

	urls         URLResolver
	extractors   ExtractorLookup
	vocabularies *vocabulary.Registry
	factories    *Factories
	dataManager  func(content any) DataManager

	contentData DataManager
	choices     map[*Choice]vocabulary.Vocabulary
	data        *Data
	errors      Errors
	status      string
	redirect    string
}

// Option configures a Form.
type Option func(*Form)

// WithObject sets the domain object the form is viewing. It is also the
// content unless WithContent is given.
func WithObject(obj any) Option {
	return func(f *Form) { f.object = obj }
}

// WithContent sets the target the form reads and writes.
func WithContent(content any) Option {
	return func(f *Form) {
		f.content = content
		f.hasContent = true
	}
}

// WithInput sets the raw submission.
func WithInput(input Input) Option {
	return func(f *Form) { f.input = input }
}

// WithPrefix overrides DefaultPrefix. An empty prefix uses bare identifiers.
func WithPrefix(prefix string) Option {
	return func(f *Form) { f.prefix = strings.TrimSpace(prefix) }
}

// WithIgnoreContent makes widgets ignore the stored content, as add forms do.
func WithIgnoreContent(ignore bool) Option {
	return func(f *Form) { f.ignoreContent = ignore }
}

// WithMode sets the default widget mode.
func WithMode(mode marker.Mode) Option {
	return func(f *Form) { f.mode = mode }
}

// WithFieldMode overrides the widget mode of one field.
func WithFieldMode(identifier string, mode marker.Mode) Option {
	return func(f *Form) {
		if f.fieldModes == nil {
			f.fieldModes = make(map[string]marker.Mode)
		}
		f.fieldModes[identifier] = mode
	}
}

// WithURLs sets the URL resolver.
func WithURLs(resolver URLResolver) Option {
	return func(f *Form) { f.urls = resolver }
}

// WithExtractors sets the extractor lookup, usually a widget registry.
func WithExtractors(lookup ExtractorLookup) Option {
	return func(f *Form) { f.extractors = lookup }
}

// WithVocabularies injects the named vocabulary registry.
func WithVocabularies(registry *vocabulary.Registry) Option {
	return func(f *Form) { f.vocabularies = registry }
}

// WithFactories injects the composite factory registry.
func WithFactories(factories *Factories) Option {
	return func(f *Form) { f.factories = factories }
}

// WithDataManager overrides how the content is wrapped.
func WithDataManager(fn func(content any) DataManager) Option {
	return func(f *Form) { f.dataManager = fn }
}

// New creates the form context for one request.
func New(fields FieldSet, opts ...Option) *Form {
	f := &Form{
		fields: fields,
		prefix: DefaultPrefix,
		mode:   marker.ModeInput,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.input == nil {
		f.input = MapInput{}
	}
	return f
}

// Clone derives a sub-form scope over fields sharing the request, registries
// and domain object, bound to content under prefix. Choice caches, data,
// errors and status are not shared.
func (f *Form) Clone(fields FieldSet, content any, prefix string) *Form {
	clone := &Form{
		fields:        fields,
		object:        f.object,
		content:       content,
		hasContent:    true,
		input:         f.input,
		prefix:        prefix,
		ignoreContent: f.ignoreContent,
		mode:          f.mode,
		urls:          f.urls,
		extractors:    f.extractors,
		vocabularies:  f.vocabularies,
		factories:     f.factories,
	}
	if content == nil {
		clone.ignoreContent = true
	}
	return clone
}

func (f *Form) Fields() FieldSet { return f.fields }
func (f *Form) Input() Input     { return f.input }
func (f *Form) Prefix() string   { return f.prefix }

// Object returns the domain object being viewed or edited.
func (f *Form) Object() any {
	if f == nil {
		return nil
	}
	return f.object
}

// Content returns the target, defaulting to the domain object.
func (f *Form) Content() any {
	if f.hasContent {
		return f.content
	}
	return f.object
}

// ContentData returns the data manager over Content, built once.
func (f *Form) ContentData() DataManager {
	if f.contentData != nil {
		return f.contentData
	}
	content := f.Content()
	if f.dataManager != nil {
		f.contentData = f.dataManager(content)
	} else {
		f.contentData = NewDataManager(content)
	}
	return f.contentData
}

// IgnoreContent reports whether widgets should skip stored values.
func (f *Form) IgnoreContent() bool { return f.ignoreContent || f.Content() == nil }

// Mode returns the widget mode for field.
func (f *Form) Mode(field Field) marker.Mode {
	if mode, ok := f.fieldModes[field.Identifier()]; ok {
		return mode
	}
	return f.mode
}

// SetMode changes the default widget mode.
func (f *Form) SetMode(mode marker.Mode) { f.mode = mode }

// Key builds the raw input key of a field identifier.
func (f *Form) Key(identifier string) string {
	if f.prefix == "" {
		return identifier
	}
	return f.prefix + ".field." + identifier
}

// ActionKey builds the raw input key of an action identifier.
func (f *Form) ActionKey(identifier string) string {
	if f.prefix == "" {
		return "action." + identifier
	}
	return f.prefix + ".action." + identifier
}

// URL computes the URL of obj, or of the domain object when obj is nil.
func (f *Form) URL(obj any) string {
	if obj == nil {
		obj = f.object
	}
	if f.urls == nil {
		return ""
	}
	return f.urls.URL(obj)
}

// Redirect records a redirect target.
func (f *Form) Redirect(url string) { f.redirect = url }

// RedirectURL returns the recorded redirect, if any.
func (f *Form) RedirectURL() string { return f.redirect }

func (f *Form) Status() string           { return f.status }
func (f *Form) SetStatus(message string) { f.status = message }

// Vocabularies returns the injected registry, nil when none was given.
func (f *Form) Vocabularies() *vocabulary.Registry {
	if f == nil {
		return nil
	}
	return f.vocabularies
}

// Factories returns the injected factory registry.
func (f *Form) Factories() *Factories {
	if f == nil {
		return nil
	}
	return f.factories
}

// Extractors returns the injected extractor lookup.
func (f *Form) Extractors() ExtractorLookup { return f.extractors }

// Data returns the snapshot of the last extraction, nil before one ran.
func (f *Form) Data() *Data { return f.data }

// Errors returns the errors of the last extraction.
func (f *Form) Errors() Errors { return f.errors }

func (f *Form) cachedChoices(c *Choice) (vocabulary.Vocabulary, bool) {
	v, ok := f.choices[c]
	return v, ok
}

func (f *Form) storeChoices(c *Choice, v vocabulary.Vocabulary) {
	if f.choices == nil {
		f.choices = make(map[*Choice]vocabulary.Vocabulary)
	}
	f.choices[c] = v
}
