package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the tenant module: onboarding volume
// and the per-request resolution path.
type Metrics struct {
	TenantCreated      prometheus.Counter
	Resolutions        *prometheus.CounterVec
	ResolutionFailures prometheus.Counter
}

// New creates a Metrics instance with all tenant module metrics registered.
func New() *Metrics {
	return &Metrics{
		TenantCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendkit_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lendkit_tenant_resolutions_total",
			Help: "Successful tenant resolutions by signal source",
		}, []string{"source"}),
		ResolutionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendkit_tenant_resolution_failures_total",
			Help: "Requests for which no tenant could be resolved",
		}),
	}
}

// IncrementTenantCreated records a successful tenant creation.
func (m *Metrics) IncrementTenantCreated() {
	m.TenantCreated.Inc()
}

// IncrementResolution records a successful resolution by source
// ("claim", "subdomain", or "domain").
func (m *Metrics) IncrementResolution(source string) {
	m.Resolutions.WithLabelValues(source).Inc()
}

// IncrementResolutionFailure records a request with no resolvable tenant.
func (m *Metrics) IncrementResolutionFailure() {
	m.ResolutionFailures.Inc()
}
