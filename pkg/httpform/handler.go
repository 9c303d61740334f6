// Package httpform serves a form over HTTP. GET renders the widgets, POST
// binds the submission, runs the submitted action and answers with a
// redirect, a re-rendered form carrying field errors, or the status message.
package httpform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/action"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/request"
	"github.com/goliatone/go-formbind/pkg/widget"
)

var (
	// ErrNoAction is reported when a POST names none of the handler's actions.
	ErrNoAction = errors.New("httpform: no action submitted")
	// ErrNotFound may be returned by a FormBuilder when the request names an
	// object that does not exist.
	ErrNotFound = errors.New("httpform: not found")
)

// FormBuilder creates the per-request form over input. input is empty for
// GET requests.
type FormBuilder func(r *http.Request, input form.Input) (*form.Form, error)

// OptionsFunc computes the render options of a request.
type OptionsFunc func(r *http.Request) render.RenderOptions

// Option configures a Handler.
type Option func(*Handler)

// WithPrefix sets the prefix request bodies are decoded with. It must match
// the prefix of the forms the builder creates.
func WithPrefix(prefix string) Option {
	return func(h *Handler) { h.prefix = prefix }
}

// WithRenderOptions sets the per-request render options.
func WithRenderOptions(fn OptionsFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.options = fn
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler binds one form and its actions to HTTP.
type Handler struct {
	build    FormBuilder
	widgets  *widget.Registry
	renderer *render.Renderer
	actions  action.Actions
	prefix   string
	options  OptionsFunc
	logger   *slog.Logger
}

// New creates a handler. The widget registry doubles as the extractor
// lookup of built forms that do not set one.
func New(build FormBuilder, widgets *widget.Registry, renderer *render.Renderer, actions action.Actions, opts ...Option) *Handler {
	h := &Handler{
		build:    build,
		widgets:  widgets,
		renderer: renderer,
		actions:  actions,
		prefix:   form.DefaultPrefix,
		options:  func(*http.Request) render.RenderOptions { return render.RenderOptions{} },
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes returns a router serving the form at its root.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Show)
	r.Post("/", h.Submit)
	return r
}

// Show renders the form without a submission.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	f, err := h.build(r, form.MapInput{})
	if err != nil {
		h.fail(w, r, "build form", err)
		return
	}
	h.ensureExtractors(f)
	h.render(w, r, f, http.StatusOK)
}

// Submit binds the request body and runs the submitted action.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	input, err := request.FromHTTP(r, h.prefix)
	if err != nil {
		h.logger.WarnContext(r.Context(), "decode submission", "err", err)
		status := http.StatusBadRequest
		if errors.Is(err, request.ErrUnsupportedBody) {
			status = http.StatusUnsupportedMediaType
		}
		http.Error(w, err.Error(), status)
		return
	}
	f, err := h.build(r, input)
	if err != nil {
		h.fail(w, r, "build form", err)
		return
	}
	h.ensureExtractors(f)

	submitted, ok := h.actions.Submitted(f)
	if !ok {
		h.logger.WarnContext(r.Context(), "submission without action", "prefix", f.Prefix())
		http.Error(w, ErrNoAction.Error(), http.StatusBadRequest)
		return
	}
	out, err := submitted.Run(r.Context(), f)
	if err != nil {
		h.fail(w, r, "run action "+submitted.Identifier(), err)
		return
	}

	h.logger.DebugContext(r.Context(), "action finished",
		"action", submitted.Identifier(),
		"result", out.Result.String(),
		"state", out.State.String(),
	)
	switch {
	case out.Result == action.Failure:
		h.render(w, r, f, http.StatusUnprocessableEntity)
	case out.Redirect != "":
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
	default:
		h.render(w, r, f, http.StatusOK)
	}
}

func (h *Handler) ensureExtractors(f *form.Form) {
	if f.Extractors() == nil && h.widgets != nil {
		form.WithExtractors(h.widgets)(f)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, f *form.Form, status int) {
	body, err := h.page(r.Context(), r, f)
	if err != nil {
		h.fail(w, r, "render form", err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "write response", "err", err)
	}
}

func (h *Handler) page(ctx context.Context, r *http.Request, f *form.Form) ([]byte, error) {
	widgets, err := h.widgets.Widgets(ctx, f)
	if err != nil {
		return nil, err
	}
	opts := h.options(r)
	if opts.Action == "" {
		opts.Action = r.URL.Path
	}
	return h.renderer.Form(ctx, f, widgets, h.actions, opts)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), msg, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
