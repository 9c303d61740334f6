package action

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/form"
)

// Cancel discards the submission and redirects to the object URL.
type Cancel struct {
	descriptor
}

var _ Action = (*Cancel)(nil)

// NewCancel returns a cancel action titled title.
func NewCancel(title string, opts ...Option) *Cancel {
	return &Cancel{descriptor{title: title, cfg: newConfig(title, opts)}}
}

// Run never extracts input.
func (a *Cancel) Run(ctx context.Context, f *form.Form) (Outcome, error) {
	url := f.URL(nil)
	f.Redirect(url)
	a.cfg.observer.ObserveRun(a.cfg.identifier, Success)
	a.cfg.logger.DebugContext(ctx, "submission cancelled", "action", a.cfg.identifier, "redirect", url)
	return Outcome{Result: Success, State: StateRedirected, Redirect: url}, nil
}
