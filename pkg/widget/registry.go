package widget

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/marker"
)

// Built-in widget names exposed by the registry.
const (
	NameTextLine      = "textline"
	NameURI           = "uri"
	NameURIDisplay    = "uri-display"
	NamePassword      = "password"
	NameChoice        = "choice"
	NameChoiceDisplay = "choice-display"
	NameRadio         = "radio"
	NameObject        = "object"
	NameObjectDisplay = "object-display"
	NameDisplay       = "display"
	NameHidden        = "hidden"
	NameLink          = "link"
)

// ErrNoWidget is returned when no registered rule accepts a field.
var ErrNoWidget = errors.New("widget: no widget registered")

// Matcher decides whether a rule handles the supplied field.
type Matcher func(field form.Field) bool

// Constructor builds the widget of a rule.
type Constructor func(field form.Field, f *form.Form, mode marker.Mode) Widget

// ExtractorConstructor builds the extractor of a rule. Rules without one are
// never extracted.
type ExtractorConstructor func(field form.Field, f *form.Form) form.Extractor

// Rule describes one widget registration.
type Rule struct {
	Name string
	// Mode is the widget mode name the rule serves ("input", "display", ...).
	Mode      string
	Priority  int
	Match     Matcher
	Widget    Constructor
	Extractor ExtractorConstructor
}

type rule struct {
	Rule
	order int
}

// Registry selects widgets and extractors for fields. Rules are keyed by
// mode; within a mode an explicit widget hint on the field wins, then higher
// priority, then registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

var _ form.ExtractorLookup = (*Registry)(nil)

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without rules.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule. The latest registration of a name does not replace
// earlier ones; priorities decide.
func (r *Registry) Register(rule Rule) error {
	if r == nil {
		return errors.New("widget: registry is nil")
	}
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return errors.New("widget: rule name is required")
	}
	if rule.Match == nil || rule.Widget == nil {
		return fmt.Errorf("widget: rule %q needs a matcher and a constructor", rule.Name)
	}
	rule.Mode = strings.TrimSpace(rule.Mode)
	if rule.Mode == "" {
		rule.Mode = marker.ModeInput.Name()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, ruleFrom(rule, len(r.rules)))
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

func ruleFrom(r Rule, order int) rule {
	return rule{Rule: r, order: order}
}

// Resolve returns the rule serving field in mode.
func (r *Registry) Resolve(field form.Field, mode marker.Mode) (Rule, bool) {
	if r == nil || field == nil {
		return Rule{}, false
	}
	r.mu.RLock()
	candidates := make([]rule, 0, len(r.rules))
	for _, entry := range r.rules {
		if entry.Mode == mode.Name() && entry.Match(field) {
			candidates = append(candidates, entry)
		}
	}
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return Rule{}, false
	}

	if hint := widgetHint(field); hint != "" {
		for i := len(candidates) - 1; i >= 0; i-- {
			if candidates[i].Name == hint {
				return candidates[i].Rule, true
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority == candidates[j].Priority {
			return candidates[i].order < candidates[j].order
		}
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates[0].Rule, true
}

// Widget builds the widget of field for f in the form's mode for that field.
func (r *Registry) Widget(field form.Field, f *form.Form) (Widget, error) {
	mode := f.Mode(field)
	rule, ok := r.Resolve(field, mode)
	if !ok {
		return nil, noWidget(field, mode)
	}
	return rule.Widget(field, f, mode), nil
}

// Widgets builds and updates the widgets of every field of f, in order.
func (r *Registry) Widgets(ctx context.Context, f *form.Form) (Widgets, error) {
	fields := f.Fields().All()
	out := make(Widgets, 0, len(fields))
	for _, field := range fields {
		w, err := r.Widget(field, f)
		if err != nil {
			return nil, err
		}
		if err := w.Update(ctx); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Extractor implements form.ExtractorLookup. Fields in non-extractable
// modes, or whose rule has no extractor, yield nil.
func (r *Registry) Extractor(field form.Field, f *form.Form) (form.Extractor, error) {
	mode := f.Mode(field)
	if !mode.Extractable() {
		return nil, nil
	}
	rule, ok := r.Resolve(field, mode)
	if !ok {
		return nil, noWidget(field, mode)
	}
	if rule.Extractor == nil {
		return nil, nil
	}
	return rule.Extractor(field, f), nil
}

func noWidget(field form.Field, mode marker.Mode) error {
	return &form.ConfigurationError{
		Field: field.Identifier(),
		Err:   fmt.Errorf("%w for kind %s in mode %s", ErrNoWidget, field.Kind(), mode.Name()),
	}
}

func widgetHint(field form.Field) string {
	if hinted, ok := field.(interface{ WidgetHint() string }); ok {
		return strings.TrimSpace(hinted.WidgetHint())
	}
	return ""
}

func kindIs(kinds ...form.Kind) Matcher {
	return func(field form.Field) bool {
		for _, kind := range kinds {
			if field.Kind() == kind {
				return true
			}
		}
		return false
	}
}

func anyField(form.Field) bool { return true }

func extractorFor(field form.Field, f *form.Form) form.Extractor {
	switch field.Kind() {
	case form.KindPassword:
		return NewPasswordExtractor(field, f)
	case form.KindChoice:
		return NewChoiceExtractor(field, f)
	case form.KindObject:
		return NewObjectExtractor(field, f)
	default:
		return NewTextExtractor(field, f)
	}
}

func (r *Registry) registerBuiltins() {
	input := marker.ModeInput.Name()
	display := marker.ModeDisplay.Name()
	hidden := marker.ModeHidden.Name()

	r.MustRegister(Rule{Name: NameTextLine, Mode: input, Priority: 10, Match: kindIs(form.KindText), Widget: NewTextWidget(TemplateTextLine), Extractor: NewTextExtractor})
	r.MustRegister(Rule{Name: NameURI, Mode: input, Priority: 10, Match: kindIs(form.KindURI), Widget: NewTextWidget(TemplateURI), Extractor: NewTextExtractor})
	r.MustRegister(Rule{Name: NamePassword, Mode: input, Priority: 10, Match: kindIs(form.KindPassword), Widget: newPasswordWidget(TemplatePassword), Extractor: NewPasswordExtractor})
	r.MustRegister(Rule{Name: NameChoice, Mode: input, Priority: 10, Match: kindIs(form.KindChoice), Widget: newChoiceWidget(TemplateChoice, false), Extractor: NewChoiceExtractor})
	r.MustRegister(Rule{Name: NameRadio, Mode: input, Priority: 5, Match: kindIs(form.KindChoice), Widget: newRadioWidget(TemplateRadio), Extractor: NewChoiceExtractor})
	r.MustRegister(Rule{Name: NameObject, Mode: input, Priority: 10, Match: kindIs(form.KindObject), Widget: r.newObjectWidget(TemplateObject), Extractor: NewObjectExtractor})

	r.MustRegister(Rule{Name: NameDisplay, Mode: display, Priority: 0, Match: kindIs(form.KindText), Widget: NewTextWidget(TemplateDisplay)})
	r.MustRegister(Rule{Name: NameDisplay, Mode: display, Priority: 0, Match: kindIs(form.KindPassword), Widget: newPasswordWidget(TemplateDisplay)})
	r.MustRegister(Rule{Name: NameURIDisplay, Mode: display, Priority: 10, Match: kindIs(form.KindURI), Widget: newURIDisplayWidget(TemplateURIDisplay)})
	r.MustRegister(Rule{Name: NameChoiceDisplay, Mode: display, Priority: 10, Match: kindIs(form.KindChoice), Widget: newChoiceWidget(TemplateChoiceDisplay, true)})
	r.MustRegister(Rule{Name: NameObjectDisplay, Mode: display, Priority: 10, Match: kindIs(form.KindObject), Widget: r.newObjectWidget(TemplateObjectDisplay)})

	r.MustRegister(Rule{Name: NameHidden, Mode: hidden, Priority: 0, Match: kindIs(form.KindText, form.KindURI), Widget: NewTextWidget(TemplateHidden), Extractor: extractorFor})
	r.MustRegister(Rule{Name: NameHidden, Mode: hidden, Priority: 0, Match: kindIs(form.KindPassword), Widget: newPasswordWidget(TemplateHidden), Extractor: extractorFor})
	r.MustRegister(Rule{Name: NameHidden, Mode: hidden, Priority: 0, Match: kindIs(form.KindChoice), Widget: newChoiceWidget(TemplateHidden, false), Extractor: extractorFor})
	r.MustRegister(Rule{Name: NameHidden, Mode: hidden, Priority: 0, Match: kindIs(form.KindObject), Widget: r.newObjectWidget(TemplateObjectHidden), Extractor: NewObjectExtractor})

	r.MustRegister(Rule{Name: NameLink, Mode: marker.ModeLink.Name(), Priority: 0, Match: anyField, Widget: newLinkWidget(TemplateLink)})
}

// NewTextWidget returns a constructor of text widgets rendered with
// template. Custom rules use it to give text kinds their own template.
func NewTextWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &TextWidget{base: newBase(field, f, mode, template)}
	}
}

func newURIDisplayWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &URIDisplayWidget{TextWidget{base: newBase(field, f, mode, template)}}
	}
}

func newPasswordWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &PasswordWidget{base: newBase(field, f, mode, template)}
	}
}

func newChoiceWidget(template string, display bool) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &ChoiceWidget{base: newBase(field, f, mode, template), display: display}
	}
}

func newRadioWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &RadioWidget{ChoiceWidget{base: newBase(field, f, mode, template)}}
	}
}

func (r *Registry) newObjectWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &ObjectWidget{base: newBase(field, f, mode, template), registry: r}
	}
}

func newLinkWidget(template string) Constructor {
	return func(field form.Field, f *form.Form, mode marker.Mode) Widget {
		return &LinkWidget{base: newBase(field, f, mode, template)}
	}
}
