package action

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/lifecycle"
)

// StatusSaved is the status message of a successful edit.
const StatusSaved = "Modification saved."

// Edit applies extracted data to the form's content.
type Edit struct {
	descriptor
}

var _ Action = (*Edit)(nil)

// NewEdit returns an edit action titled title.
func NewEdit(title string, opts ...Option) *Edit {
	return &Edit{descriptor{title: title, cfg: newConfig(title, opts)}}
}

// Run extracts, applies the writes through the form's data manager and
// sends one modified notification naming the written fields.
func (a *Edit) Run(ctx context.Context, f *form.Form) (Outcome, error) {
	data, out, done, err := a.extract(ctx, f)
	if done {
		return out, err
	}

	content := f.ContentData()
	written, err := ApplyData(f, content, data)
	out.Written = written
	if err != nil {
		return a.fail(ctx, err, out)
	}

	out.Object = content.Content()
	a.cfg.notifier.Notify(ctx, lifecycle.Modified(out.Object, written...))
	f.SetStatus(a.cfg.status)
	out.State = StateSuccess
	return a.succeed(ctx, out), nil
}
