// Package gotemplate implements template.Engine on a pongo2
// template set.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. Later loaders win over earlier ones
// only when the earlier ones miss.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension appended to bare names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine caches compiled templates per path.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	extension string
}

var _ template.Engine = (*Engine)(nil)

// New builds an engine. At least one of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		set:       pongo2.NewSet("formbind", loaders...),
		templates: make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}
	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return engine, nil
}

// Render treats name as inline content when it contains template tags.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, path, data, out)
}

func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, "string", data, out)
}

// RegisterFilter registers a process wide pongo2 filter. Registering a name
// twice is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var p any
		if param != nil {
			p = param.Interface()
		}
		result, err := fn(in.Interface(), p)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(globals)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// toContext accepts maps directly and round-trips any other value through
// JSON so struct tags decide the template names. Numbers stay json.Number
// so they print the way they were written.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	out := pongo2.Context{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
