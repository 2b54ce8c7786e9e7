package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the form module.
type Metrics struct {
	Evaluations        prometheus.Counter
	EvaluateDuration   prometheus.Histogram
	ValidationFailures prometheus.Counter
}

// New creates a Metrics instance with all form module metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendkit_form_evaluations_total",
			Help: "Total number of form evaluations",
		}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lendkit_form_evaluate_duration_seconds",
			Help:    "Duration of form evaluation (borrower-facing critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendkit_form_validation_failures_total",
			Help: "Form submissions rejected with missing required fields",
		}),
	}
}

// ObserveEvaluate records one evaluation and its duration.
func (m *Metrics) ObserveEvaluate(start time.Time) {
	m.Evaluations.Inc()
	m.EvaluateDuration.Observe(time.Since(start).Seconds())
}

// IncrementValidationFailure records a submission that failed validation.
func (m *Metrics) IncrementValidationFailure() {
	m.ValidationFailures.Inc()
}
