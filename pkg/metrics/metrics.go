// Package metrics counts action runs and field errors with Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbind/pkg/action"
	"github.com/goliatone/go-formbind/pkg/form"
)

// Recorder implements action.Observer.
type Recorder struct {
	runs   *prometheus.CounterVec
	errors *prometheus.CounterVec
}

var _ action.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg. A nil reg
// uses the default registerer.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formbind_action_runs_total",
				Help: "Total number of form action runs by result",
			},
			[]string{"action", "result"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formbind_field_errors_total",
				Help: "Total number of field errors reported to users",
			},
			[]string{"field"},
		),
	}
	for _, c := range []prometheus.Collector{r.runs, r.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRun counts one run.
func (r *Recorder) ObserveRun(name string, result action.Result) {
	r.runs.WithLabelValues(name, result.String()).Inc()
}

// ObserveFieldErrors counts one error per leaf path, so nested errors are
// reported as address.street.
func (r *Recorder) ObserveFieldErrors(_ string, errs form.Errors) {
	for path, messages := range errs.Flatten() {
		r.errors.WithLabelValues(path).Add(float64(len(messages)))
	}
}

// Handler exposes the metrics of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
