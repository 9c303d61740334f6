// Package render turns widgets into HTML through a template engine. Widget
// template keys map to partials that a go-theme selection can override.
package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/action"
	"github.com/goliatone/go-formbind/pkg/form"
	rendertemplate "github.com/goliatone/go-formbind/pkg/render/template"
	"github.com/goliatone/go-formbind/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbind/pkg/widget"
)

// FormTemplate is the partial key of the form layout.
const FormTemplate = "forms.form"

// ContentType of rendered output.
const ContentType = "text/html; charset=utf-8"

// ErrUnknownTemplate is returned for widget template keys without a partial.
var ErrUnknownTemplate = errors.New("render: unknown template key")

// RenderOptions carry per-request data.
type RenderOptions struct {
	// Action is the URL the form posts to.
	Action string
	// Method defaults to POST.
	Method string
	// ThemeName and ThemeVariant pick a theme from the configured selector.
	// Empty values use the renderer defaults.
	ThemeName    string
	ThemeVariant string
	// Locale and Translator localize titles, descriptions and messages.
	// Translator falls back to the renderer default.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Hidden inputs emitted before the widgets.
	Hidden []HiddenField
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	translator       Translator
	logger           *slog.Logger
}

// WithTemplatesFS replaces the built-in templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector enables themed partials. name and variant are used when
// a request does not pick its own.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithTranslator sets the default translator.
func WithTranslator(t Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders forms and widgets.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	translator   Translator
	logger       *slog.Logger
}

// New builds a renderer on the pongo2 engine unless one is injected.
func New(options ...Option) (*Renderer, error) {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		selector:     cfg.selector,
		themeName:    cfg.themeName,
		themeVariant: cfg.themeVariant,
		translator:   cfg.translator,
		logger:       cfg.logger,
	}, nil
}

// ContentType of rendered output.
func (r *Renderer) ContentType() string { return ContentType }

// Widgets renders each widget, in order, and returns the fragments.
func (r *Renderer) Widgets(ctx context.Context, widgets widget.Widgets, opts RenderOptions) ([]string, error) {
	cfg, err := r.Theme(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, err
	}
	l := r.localizer(opts)
	out := make([]string, 0, len(widgets))
	for _, data := range widgets.Data() {
		html, err := r.renderWidget(ctx, cfg.Partials, l, data)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// Form renders the whole form: status, top level error, widgets and one
// submit button per action.
func (r *Renderer) Form(ctx context.Context, f *form.Form, widgets widget.Widgets, actions action.Actions, opts RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("render: template renderer is nil")
	}
	cfg, err := r.Theme(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, err
	}

	l := r.localizer(opts)
	rendered := make([]map[string]any, 0, len(widgets))
	for _, data := range widgets.Data() {
		html, err := r.renderWidget(ctx, cfg.Partials, l, data)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, map[string]any{"html": html})
	}

	buttons := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		buttons = append(buttons, map[string]any{"key": f.ActionKey(a.Identifier()), "title": l.text(a.Title())})
	}
	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, field := range SortedHiddenFields(opts.Hidden...) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "post"
	}
	data := map[string]any{
		"id":       strings.ReplaceAll(f.Prefix(), ".", "-"),
		"method":   method,
		"action":   opts.Action,
		"status":   l.text(f.Status()),
		"hidden":   hidden,
		"widgets":  rendered,
		"actions":  buttons,
		"css_vars": cssVarsStyle(cfg.CSSVars),
	}
	if len(f.Errors()) > 0 {
		data["error"] = l.text(form.MessageNested)
	}

	path, err := partial(cfg.Partials, FormTemplate)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate(path, data)
	if err != nil {
		return nil, fmt.Errorf("render: render form: %w", err)
	}
	r.logger.DebugContext(ctx, "form rendered", "prefix", f.Prefix(), "widgets", len(widgets), "theme", cfg.Theme)
	return []byte(result), nil
}

// renderWidget renders nested widgets first so object templates can embed
// them as html.
func (r *Renderer) renderWidget(ctx context.Context, partials map[string]string, l localizer, data map[string]any) (string, error) {
	if children, ok := data["widgets"].([]map[string]any); ok {
		for _, child := range children {
			html, err := r.renderWidget(ctx, partials, l, child)
			if err != nil {
				return "", err
			}
			child["html"] = html
		}
	}
	l.localize(data)
	if description, _ := data["description"].(string); description != "" {
		data["description_html"] = SanitizeDescription(description)
	}

	key, _ := data["template"].(string)
	path, err := partial(partials, key)
	if err != nil {
		return "", err
	}
	html, err := r.templates.RenderTemplate(path, data)
	if err != nil {
		return "", fmt.Errorf("render: widget %v: %w", data["identifier"], err)
	}
	return html, nil
}

func (r *Renderer) localizer(opts RenderOptions) localizer {
	t := opts.Translator
	if t == nil {
		t = r.translator
	}
	return localizer{locale: opts.Locale, translator: t, onMissing: opts.OnMissing}
}

func partial(partials map[string]string, key string) (string, error) {
	path, ok := partials[key]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return path, nil
}
