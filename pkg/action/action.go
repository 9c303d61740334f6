// Package action implements the commit step of a submission: extraction is
// gated on errors, values are staged and applied through a DataManager, and a
// single lifecycle notification follows a successful commit.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/lifecycle"
)

// Result is the terminal verdict of one run.
type Result uint8

const (
	Failure Result = iota
	Success
)

func (r Result) String() string {
	if r == Success {
		return "success"
	}
	return "failure"
}

// State tracks a run through Invoked, Extracting, then Failure or
// Committing and Success. Cancel goes straight to Redirected.
type State uint8

const (
	StateInvoked State = iota
	StateExtracting
	StateFailure
	StateCommitting
	StateSuccess
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateInvoked:
		return "invoked"
	case StateExtracting:
		return "extracting"
	case StateFailure:
		return "failure"
	case StateCommitting:
		return "committing"
	case StateSuccess:
		return "success"
	case StateRedirected:
		return "redirected"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Outcome describes a finished run.
type Outcome struct {
	Result   Result
	State    State
	Errors   form.Errors
	Written  []string
	Redirect string
	Object   any
}

// Action is a stateless commit descriptor. Run is called once per
// submission.
type Action interface {
	Identifier() string
	Title() string
	Run(ctx context.Context, f *form.Form) (Outcome, error)
}

// Observer is told about every run. The metrics package provides a
// Prometheus implementation.
type Observer interface {
	ObserveRun(action string, result Result)
	ObserveFieldErrors(action string, errs form.Errors)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, Result)              {}
func (nopObserver) ObserveFieldErrors(string, form.Errors) {}

// ErrNotContainer is returned when an add form's content cannot hold new
// objects.
var ErrNotContainer = errors.New("action: content is not a container")

type config struct {
	identifier string
	logger     *slog.Logger
	notifier   lifecycle.Notifier
	observer   Observer
	status     string
}

// Option configures an action.
type Option func(*config)

// WithIdentifier overrides the identifier derived from the title.
func WithIdentifier(id string) Option {
	return func(c *config) { c.identifier = strings.TrimSpace(id) }
}

// WithLogger sets the logger used for commit outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier sets the lifecycle notifier.
func WithNotifier(n lifecycle.Notifier) Option {
	return func(c *config) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithObserver sets the run observer.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithStatus overrides the status message of a successful edit.
func WithStatus(message string) Option {
	return func(c *config) { c.status = message }
}

func newConfig(title string, opts []Option) config {
	cfg := config{
		identifier: Slugify(title),
		logger:     slog.New(slog.DiscardHandler),
		notifier:   lifecycle.Nop,
		observer:   nopObserver{},
		status:     StatusSaved,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type descriptor struct {
	title string
	cfg   config
}

func (d descriptor) Identifier() string { return d.cfg.identifier }
func (d descriptor) Title() string      { return d.title }

// extract runs the binder and reports failures. done is true when the run
// ended in Failure.
func (d descriptor) extract(ctx context.Context, f *form.Form) (*form.Data, Outcome, bool, error) {
	data, errs, err := f.ExtractData(ctx, form.FieldSet{})
	if err != nil {
		d.cfg.logger.WarnContext(ctx, "extraction aborted", "action", d.cfg.identifier, "error", err)
		d.cfg.observer.ObserveRun(d.cfg.identifier, Failure)
		return nil, Outcome{Result: Failure, State: StateFailure}, true, err
	}
	if len(errs) > 0 {
		d.cfg.logger.DebugContext(ctx, "submission rejected", "action", d.cfg.identifier, "errors", errs.Len())
		d.cfg.observer.ObserveFieldErrors(d.cfg.identifier, errs)
		d.cfg.observer.ObserveRun(d.cfg.identifier, Failure)
		return nil, Outcome{Result: Failure, State: StateFailure, Errors: errs}, true, nil
	}
	return data, Outcome{State: StateCommitting}, false, nil
}

func (d descriptor) fail(ctx context.Context, err error, out Outcome) (Outcome, error) {
	d.cfg.logger.WarnContext(ctx, "commit failed", "action", d.cfg.identifier, "error", err)
	d.cfg.observer.ObserveRun(d.cfg.identifier, Failure)
	out.Result, out.State = Failure, StateFailure
	return out, err
}

func (d descriptor) succeed(ctx context.Context, out Outcome) Outcome {
	d.cfg.logger.DebugContext(ctx, "commit applied", "action", d.cfg.identifier, "fields", out.Written)
	d.cfg.observer.ObserveRun(d.cfg.identifier, Success)
	out.Result = Success
	return out
}

// Actions is an ordered set of actions offered by one form.
type Actions []Action

// Get returns the action with identifier.
func (as Actions) Get(identifier string) (Action, bool) {
	for _, a := range as {
		if a.Identifier() == identifier {
			return a, true
		}
	}
	return nil, false
}

// Submitted returns the first action whose key is present in the form input.
func (as Actions) Submitted(f *form.Form) (Action, bool) {
	for _, a := range as {
		if _, ok := f.Input().Lookup(f.ActionKey(a.Identifier())); ok {
			return a, true
		}
	}
	return nil, false
}
