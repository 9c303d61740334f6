// Package schema translates OpenAPI component schemas into form field sets.
// Each property is matched against priority ordered rules; the first match
// builds the field.
package schema

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
)

// Extension keys read from property schemas.
const (
	ExtensionOrder      = "x-order"
	ExtensionFactory    = "x-factory"
	ExtensionVocabulary = "x-vocabulary"
	ExtensionWidget     = "x-widget"
)

var (
	// ErrUnsupported is returned when no rule matches a property.
	ErrUnsupported = errors.New("schema: no field rule matches")
	// ErrNotObject is returned when a field set is requested from a
	// non-object schema.
	ErrNotObject = errors.New("schema: schema is not an object")
)

// Property is one schema property being translated.
type Property struct {
	Name     string
	Ref      string
	Schema   *openapi3.Schema
	Required bool
}

// Matcher reports whether a rule handles p.
type Matcher func(p Property) bool

// FieldFactory builds the field for p. opts carry the title, description,
// required, readonly, default and widget derived from the schema.
type FieldFactory func(t *Translator, p Property, opts []form.FieldOption) (form.Field, error)

// Rule pairs a matcher with a field factory.
type Rule struct {
	Name     string
	Priority int
	Match    Matcher
	Build    FieldFactory
}

type rule struct {
	Rule
	order int
}

// Translator maps schemas to fields.
type Translator struct {
	mu    sync.RWMutex
	rules []rule
}

// NewTranslator returns a translator with the built-in rules: choice for
// enum or x-vocabulary, object for object schemas with properties, uri and
// password by format, and text for the remaining strings.
func NewTranslator() *Translator {
	t := &Translator{}
	t.MustRegister(Rule{Name: "choice", Priority: 30, Match: isChoice, Build: buildChoice})
	t.MustRegister(Rule{Name: "object", Priority: 20, Match: isObject, Build: buildObject})
	t.MustRegister(Rule{Name: "uri", Priority: 10, Match: hasFormat("uri", "url"), Build: buildURI})
	t.MustRegister(Rule{Name: "password", Priority: 10, Match: hasFormat("password"), Build: buildPassword})
	t.MustRegister(Rule{Name: "textline", Priority: 0, Match: isString, Build: buildText})
	return t
}

// Register adds a rule. Higher priorities are tried first; equal priorities
// keep registration order.
func (t *Translator) Register(r Rule) error {
	if strings.TrimSpace(r.Name) == "" || r.Match == nil || r.Build == nil {
		return errors.New("schema: rule needs a name, a matcher and a factory")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = append(t.rules, rule{Rule: r, order: len(t.rules)})
	sort.SliceStable(t.rules, func(i, j int) bool {
		if t.rules[i].Priority != t.rules[j].Priority {
			return t.rules[i].Priority > t.rules[j].Priority
		}
		return t.rules[i].order < t.rules[j].order
	})
	return nil
}

// MustRegister panics when Register fails.
func (t *Translator) MustRegister(r Rule) {
	if err := t.Register(r); err != nil {
		panic(err)
	}
}

// Fields translates the properties of an object schema in x-order, then
// name, order.
func (t *Translator) Fields(ref *openapi3.SchemaRef) (form.FieldSet, error) {
	if ref == nil || ref.Value == nil {
		return form.FieldSet{}, fmt.Errorf("%w: schema is empty", ErrNotObject)
	}
	s := ref.Value
	if len(s.Properties) == 0 && !typeIs(s, "object") {
		return form.FieldSet{}, fmt.Errorf("%w: %q", ErrNotObject, ref.Ref)
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	fields := make([]form.Field, 0, len(s.Properties))
	for _, name := range orderedNames(s.Properties) {
		prop := s.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		field, err := t.Field(Property{Name: name, Ref: prop.Ref, Schema: prop.Value, Required: required[name]})
		if err != nil {
			return form.FieldSet{}, err
		}
		fields = append(fields, field)
	}
	return form.NewFieldSet(fields...)
}

// Field translates one property with the first matching rule.
func (t *Translator) Field(p Property) (form.Field, error) {
	t.mu.RLock()
	rules := append([]rule(nil), t.rules...)
	t.mu.RUnlock()

	for _, r := range rules {
		if !r.Match(p) {
			continue
		}
		field, err := r.Build(t, p, commonOptions(p))
		if err != nil {
			return nil, fmt.Errorf("schema: property %q (%s): %w", p.Name, r.Name, err)
		}
		return field, nil
	}
	return nil, fmt.Errorf("%w: property %q of type %v", ErrUnsupported, p.Name, schemaTypes(p.Schema))
}

func commonOptions(p Property) []form.FieldOption {
	s := p.Schema
	opts := []form.FieldOption{form.WithDescription(s.Description)}
	if s.Title != "" {
		opts = append(opts, form.WithTitle(s.Title))
	}
	if p.Required {
		opts = append(opts, form.Required())
	}
	if s.ReadOnly {
		opts = append(opts, form.Readonly())
	}
	if s.Default != nil {
		opts = append(opts, form.WithDefault(s.Default))
	}
	if name, ok := s.Extensions[ExtensionWidget].(string); ok && name != "" {
		opts = append(opts, form.WithWidget(name))
	}
	return opts
}

// orderedNames sorts properties carrying an x-order first, by that order,
// then the rest by name.
func orderedNames(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		if prop := props[name]; prop != nil && prop.Value != nil {
			if n, ok := number(prop.Value.Extensions[ExtensionOrder]); ok {
				return n
			}
		}
		return math.Inf(1)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func schemaTypes(s *openapi3.Schema) []string {
	if s == nil || s.Type == nil {
		return nil
	}
	return s.Type.Slice()
}

func typeIs(s *openapi3.Schema, typ string) bool {
	for _, t := range schemaTypes(s) {
		if t == typ {
			return true
		}
	}
	return false
}

func isString(p Property) bool {
	types := schemaTypes(p.Schema)
	return (len(types) == 0 && len(p.Schema.Properties) == 0) || typeIs(p.Schema, "string")
}

func isObject(p Property) bool {
	return len(p.Schema.Properties) > 0 && (typeIs(p.Schema, "object") || len(schemaTypes(p.Schema)) == 0)
}

func isChoice(p Property) bool {
	if len(p.Schema.Enum) > 0 {
		return true
	}
	name, ok := p.Schema.Extensions[ExtensionVocabulary].(string)
	return ok && name != ""
}

func hasFormat(formats ...string) Matcher {
	return func(p Property) bool {
		if !isString(p) {
			return false
		}
		for _, f := range formats {
			if strings.EqualFold(p.Schema.Format, f) {
				return true
			}
		}
		return false
	}
}

func lengths(s *openapi3.Schema) (int, int) {
	maxLength := 0
	if s.MaxLength != nil {
		maxLength = int(*s.MaxLength)
	}
	return int(s.MinLength), maxLength
}

func buildText(_ *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
	field := form.NewTextLine(p.Name, opts...)
	field.MinLength, field.MaxLength = lengths(p.Schema)
	return field, nil
}

func buildURI(_ *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
	field := form.NewURI(p.Name, opts...)
	field.MinLength, field.MaxLength = lengths(p.Schema)
	if target, ok := p.Schema.Extensions["x-target"].(string); ok {
		field.Target = target
	}
	return field, nil
}

func buildPassword(_ *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
	field := form.NewPassword(p.Name, opts...)
	field.MinLength, field.MaxLength = lengths(p.Schema)
	if confirm, ok := p.Schema.Extensions["x-confirm"].(string); ok {
		field.ConfirmIdentifier = confirm
	}
	return field, nil
}

// buildChoice prefers a named vocabulary. Enum values become a static
// vocabulary whose tokens are their string form.
func buildChoice(_ *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
	field := form.NewChoice(p.Name, opts...)
	if name, ok := p.Schema.Extensions[ExtensionVocabulary].(string); ok && name != "" {
		return field.SetVocabularyName(name), nil
	}
	v, err := vocabulary.FromValues(p.Schema.Enum...)
	if err != nil {
		return nil, err
	}
	return field.SetSource(v), nil
}

// buildObject names the factory after x-factory, else the referenced
// component.
func buildObject(t *Translator, p Property, opts []form.FieldOption) (form.Field, error) {
	nested, err := t.Fields(&openapi3.SchemaRef{Ref: p.Ref, Value: p.Schema})
	if err != nil {
		return nil, err
	}
	field := form.NewObject(p.Name, nested, opts...)
	if name, ok := p.Schema.Extensions[ExtensionFactory].(string); ok && name != "" {
		field.FactoryName = name
	} else if p.Ref != "" {
		field.FactoryName = componentName(p.Ref)
	}
	return field, nil
}

func componentName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// FactoryNames lists the factory identifiers used by object fields in
// fields, nested ones included, sorted and without duplicates.
func FactoryNames(fields form.FieldSet) []string {
	seen := map[string]bool{}
	var walk func(form.FieldSet)
	walk = func(fs form.FieldSet) {
		for _, field := range fs.All() {
			object, ok := field.(*form.Object)
			if !ok {
				continue
			}
			if object.FactoryName != "" {
				seen[object.FactoryName] = true
			}
			walk(object.Fields)
		}
	}
	walk(fields)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
