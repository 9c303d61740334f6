package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/widget"
)

// DefaultPartials maps template keys to the built-in template paths.
func DefaultPartials() map[string]string {
	return map[string]string{
		FormTemplate:                 "form",
		widget.TemplateTextLine:      "widgets/textline",
		widget.TemplateURI:           "widgets/uri",
		widget.TemplateURIDisplay:    "widgets/uri-display",
		widget.TemplatePassword:      "widgets/password",
		widget.TemplateChoice:        "widgets/choice",
		widget.TemplateChoiceDisplay: "widgets/display",
		widget.TemplateRadio:         "widgets/radio",
		widget.TemplateObject:        "widgets/object",
		widget.TemplateObjectDisplay: "widgets/object",
		widget.TemplateObjectHidden:  "widgets/object-hidden",
		widget.TemplateDisplay:       "widgets/display",
		widget.TemplateHidden:        "widgets/hidden",
		widget.TemplateLink:          "widgets/link",
	}
}

// Theme resolves the renderer configuration for a theme selection. Without
// a selector only the default partials are returned. Manifest templates
// override the defaults and variant templates override the manifest.
func (r *Renderer) Theme(name, variant string) (*theme.RendererConfig, error) {
	cfg := &theme.RendererConfig{Partials: DefaultPartials()}
	if r.selector == nil {
		return cfg, nil
	}
	if name == "" {
		name = r.themeName
	}
	if variant == "" {
		variant = r.themeVariant
	}
	selection, err := r.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil {
		return cfg, nil
	}

	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant
	tokens := map[string]string{}
	if manifest := selection.Manifest; manifest != nil {
		merge(cfg.Partials, manifest.Templates)
		merge(tokens, manifest.Tokens)
		if v, ok := manifest.Variants[selection.Variant]; ok {
			merge(cfg.Partials, v.Templates)
			merge(tokens, v.Tokens)
		}
	}
	if len(tokens) > 0 {
		cfg.Tokens = tokens
		cfg.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cfg.CSSVars["--"+key] = value
		}
	}
	return cfg, nil
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		if strings.TrimSpace(value) != "" {
			dst[key] = value
		}
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
