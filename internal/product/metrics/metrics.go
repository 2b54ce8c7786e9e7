package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the product module.
type Metrics struct {
	EligibilityChecks *prometheus.CounterVec
	CheckDuration     prometheus.Histogram
}

// New creates a Metrics instance with all product module metrics registered.
func New() *Metrics {
	return &Metrics{
		EligibilityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lendkit_product_eligibility_checks_total",
			Help: "Eligibility checks by outcome",
		}, []string{"outcome"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lendkit_product_eligibility_duration_seconds",
			Help:    "Duration of a single product eligibility check",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCheck records one eligibility check, its outcome and duration.
func (m *Metrics) ObserveCheck(eligible bool, start time.Time) {
	m.CountCheck(eligible)
	m.CheckDuration.Observe(time.Since(start).Seconds())
}

// CountCheck records an outcome without timing, used for batched checks.
func (m *Metrics) CountCheck(eligible bool) {
	outcome := "ineligible"
	if eligible {
		outcome = "eligible"
	}
	m.EligibilityChecks.WithLabelValues(outcome).Inc()
}
