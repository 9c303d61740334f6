package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formbind/pkg/action"
	"github.com/goliatone/go-formbind/pkg/form"
)

func TestRecorder_CountsRunsAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	r.ObserveRun("save", action.Success)
	r.ObserveRun("save", action.Failure)
	r.ObserveRun("save", action.Failure)

	nested := form.NestedError("address", form.Errors{
		{Identifier: "street", Message: form.MessageRequired},
	})
	r.ObserveFieldErrors("save", form.Errors{nested})

	if got := testutil.ToFloat64(r.runs.WithLabelValues("save", "failure")); got != 2 {
		t.Fatalf("failure runs: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues("save", "success")); got != 1 {
		t.Fatalf("success runs: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(r.errors.WithLabelValues("address.street")); got != 1 {
		t.Fatalf("address.street errors: want 1, got %v", got)
	}
}

func TestNewRecorder_RejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	r.ObserveRun("add", action.Success)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `formbind_action_runs_total{action="add",result="success"} 1`) {
		t.Fatalf("metrics output missing run counter:\n%s", rec.Body.String())
	}
}
