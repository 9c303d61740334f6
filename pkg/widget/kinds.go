package widget

import (
	"context"
	"strconv"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/marker"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

// Template keys of the built-in widgets.
const (
	TemplateTextLine      = "forms.textline"
	TemplateURI           = "forms.uri"
	TemplateURIDisplay    = "forms.uri-display"
	TemplatePassword      = "forms.password"
	TemplateChoice        = "forms.choice"
	TemplateChoiceDisplay = "forms.choice-display"
	TemplateRadio         = "forms.radio"
	TemplateObject        = "forms.object"
	TemplateObjectDisplay = "forms.object-display"
	TemplateObjectHidden  = "forms.object-hidden"
	TemplateDisplay       = "forms.display"
	TemplateHidden        = "forms.hidden"
	TemplateLink          = "forms.link"
)

// TextWidget renders string valued fields: text lines, URIs, hidden inputs
// and generic displays.
type TextWidget struct {
	base
}

func (w *TextWidget) Update(context.Context) error {
	w.loadError()
	value, err := w.inputValue(stringify)
	if err != nil {
		return err
	}
	w.value = value
	return nil
}

func (w *TextWidget) Data() map[string]any {
	d := w.data()
	switch field := w.field.(type) {
	case *form.TextLine:
		addLengths(d, field.MinLength, field.MaxLength)
	case *form.URI:
		addLengths(d, field.MinLength, field.MaxLength)
	}
	return d
}

// URIDisplayWidget renders a URI as a link.
type URIDisplayWidget struct {
	TextWidget
}

// Target returns the link target of the URI field.
func (w *URIDisplayWidget) Target() string {
	if uri, ok := w.field.(*form.URI); ok {
		return uri.LinkTarget()
	}
	return form.DefaultTarget
}

func (w *URIDisplayWidget) Data() map[string]any {
	d := w.TextWidget.Data()
	d["target"] = w.Target()
	return d
}

// PasswordWidget never echoes stored or submitted values.
type PasswordWidget struct {
	base
}

func (w *PasswordWidget) Update(context.Context) error {
	w.loadError()
	w.value = ""
	return nil
}

func (w *PasswordWidget) Data() map[string]any {
	d := w.data()
	if field, ok := w.field.(*form.Password); ok {
		addLengths(d, field.MinLength, field.MaxLength)
		if field.ConfirmIdentifier != "" {
			d["confirm"] = w.form.Key(field.ConfirmIdentifier)
		}
	}
	return d
}

// ChoiceWidget renders a select over the resolved vocabulary. Its value is
// the token of the current term.
type ChoiceWidget struct {
	base
	display bool
	choices vocabulary.Vocabulary
}

func (w *ChoiceWidget) Update(ctx context.Context) error {
	w.loadError()
	choice, ok := w.field.(*form.Choice)
	if !ok {
		return &form.ConfigurationError{Field: w.field.Identifier(), Err: ErrKindMismatch}
	}
	choices, err := choice.ResolveSource(ctx, w.form)
	if err != nil {
		return err
	}
	w.choices = choices

	if raw, ok := firstValue(w.form, w.Identifier()); ok && !w.display {
		w.value = raw
		return nil
	}
	current, err := w.contentValue()
	if err != nil {
		return err
	}
	w.value = w.ValueToString(current)
	return nil
}

// Choices returns the vocabulary resolved by Update.
func (w *ChoiceWidget) Choices() vocabulary.Vocabulary { return w.choices }

// LookupTerm finds the term of value, falling back to the term of the field
// default when the stored value is not a member.
func (w *ChoiceWidget) LookupTerm(value marker.Value) (vocabulary.Term, bool) {
	if w.choices == nil {
		return vocabulary.Term{}, false
	}
	if raw, ok := value.Get(); ok {
		if term, ok := w.choices.TermByValue(raw); ok {
			return term, true
		}
	}
	if def, ok := w.field.Default(w.form).Get(); ok {
		return w.choices.TermByValue(def)
	}
	return vocabulary.Term{}, false
}

// ValueToString returns the token, or the title for display widgets.
func (w *ChoiceWidget) ValueToString(value marker.Value) string {
	term, ok := w.LookupTerm(value)
	if !ok {
		return ""
	}
	if w.display {
		return term.DisplayTitle()
	}
	return term.Token
}

func (w *ChoiceWidget) Data() map[string]any {
	d := w.data()
	options := make([]map[string]any, 0)
	if w.choices != nil {
		for _, term := range w.choices.Terms() {
			options = append(options, map[string]any{
				"token":    term.Token,
				"title":    term.DisplayTitle(),
				"selected": term.Token == w.value,
			})
		}
	}
	d["choices"] = options
	return d
}

// RadioWidget renders one radio input per term.
type RadioWidget struct {
	ChoiceWidget
}

// RenderableChoices lists the terms with ids derived from the widget id.
func (w *RadioWidget) RenderableChoices() []map[string]any {
	if w.choices == nil {
		return nil
	}
	terms := w.choices.Terms()
	out := make([]map[string]any, 0, len(terms))
	for i, term := range terms {
		out = append(out, map[string]any{
			"token":   term.Token,
			"title":   term.DisplayTitle(),
			"checked": term.Token == w.value,
			"id":      w.HTMLID() + "-" + strconv.Itoa(i),
		})
	}
	return out
}

func (w *RadioWidget) Data() map[string]any {
	d := w.ChoiceWidget.Data()
	d["choices"] = w.RenderableChoices()
	return d
}

// ObjectWidget renders the nested fields of a composite in a cloned form
// scope whose prefix is the widget identifier.
type ObjectWidget struct {
	base
	registry *Registry
	nested   Widgets
}

func (w *ObjectWidget) Update(ctx context.Context) error {
	w.loadError()
	object, ok := w.field.(*form.Object)
	if !ok {
		return &form.ConfigurationError{Field: w.field.Identifier(), Err: ErrKindMismatch}
	}

	var scoped any
	current, err := w.contentValue()
	if err != nil {
		return err
	}
	if raw, ok := current.Get(); ok && raw != nil {
		scoped = object.ScopeContent(raw)
	}

	sub := w.form.Clone(object.Fields, scoped, w.Identifier())
	sub.SetMode(w.mode)
	nested, err := w.registry.Widgets(ctx, sub)
	if err != nil {
		return err
	}
	if w.err != nil && w.err.Kind == form.ErrorNested {
		for _, child := range nested {
			if childErr, ok := w.err.Nested.Get(child.Field().Identifier()); ok {
				child.SetError(childErr)
			}
		}
	}
	w.nested = nested
	return nil
}

// Widgets returns the nested widgets built by Update.
func (w *ObjectWidget) Widgets() Widgets { return w.nested }

func (w *ObjectWidget) Data() map[string]any {
	d := w.data()
	d["widgets"] = w.nested.Data()
	return d
}

// LinkWidget renders the URL of the form's domain object. It is never
// extracted.
type LinkWidget struct {
	base
	url string
}

func (w *LinkWidget) Update(context.Context) error {
	w.url = w.form.URL(nil)
	// Link fields often label objects that are not structs; a missing value
	// only leaves the label empty.
	if value, err := w.contentValue(); err == nil {
		w.value = stringify(value)
	}
	return nil
}

// URL returns the absolute URL of the form object.
func (w *LinkWidget) URL() string { return w.url }

func (w *LinkWidget) Data() map[string]any {
	d := w.data()
	d["url"] = w.url
	return d
}

func addLengths(d map[string]any, minLength, maxLength int) {
	if minLength > 0 {
		d["minlength"] = minLength
	}
	if maxLength > 0 {
		d["maxlength"] = maxLength
	}
}
