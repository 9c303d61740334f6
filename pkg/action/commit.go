package action

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/marker"
)

// CommitError reports a write that failed. When Applied is empty nothing was
// written; otherwise the target holds the Applied values and lacks the rest.
type CommitError struct {
	Applied []string
	Failed  string
	Err     error
}

func (e *CommitError) Error() string {
	if len(e.Applied) == 0 {
		return fmt.Sprintf("action: cannot write %q: %v", e.Failed, e.Err)
	}
	return fmt.Sprintf("action: write %q failed after applying %s: %v", e.Failed, strings.Join(e.Applied, ", "), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Partial reports whether some writes were applied before the failure.
func (e *CommitError) Partial() bool { return len(e.Applied) > 0 }

type write struct {
	identifier string
	value      any
}

// stage lists the writes of data in field order. Absent optional values
// resolve to the field default; remaining sentinels are skipped.
func stage(f *form.Form, data *form.Data) []write {
	var writes []write
	for _, field := range f.Fields().All() {
		value, ok := data.Get(field.Identifier())
		if !ok {
			continue
		}
		if value.Kind() == marker.KindAbsent && !field.Required() {
			value = data.Default(field, f)
		}
		raw, present := value.Get()
		if !present {
			continue
		}
		writes = append(writes, write{identifier: field.Identifier(), value: raw})
	}
	return writes
}

// apply checks every write with CanSet when dm supports it, then performs
// them in one pass.
func apply(dm form.DataManager, writes []write) ([]string, error) {
	if preparer, ok := dm.(form.Preparer); ok {
		for _, w := range writes {
			if err := preparer.CanSet(w.identifier, w.value); err != nil {
				return nil, &CommitError{Failed: w.identifier, Err: err}
			}
		}
	}
	applied := make([]string, 0, len(writes))
	for _, w := range writes {
		if err := dm.Set(w.identifier, w.value); err != nil {
			return applied, &CommitError{Applied: applied, Failed: w.identifier, Err: err}
		}
		applied = append(applied, w.identifier)
	}
	return applied, nil
}

// ApplyData writes data to dm the way Edit does and returns the written
// identifiers.
func ApplyData(f *form.Form, dm form.DataManager, data *form.Data) ([]string, error) {
	return apply(dm, stage(f, data))
}
