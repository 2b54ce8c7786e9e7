package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"slices"
	"strings"

	tenantmetrics "lendkit/internal/tenant/metrics"
	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
	"lendkit/pkg/platform/sentinel"
)

// ErrNoTenant is returned when no signal resolves to a tenant. It is not
// fatal inside this core; protected endpoints reject the request downstream.
var ErrNoTenant = errors.New("no tenant resolved")

// Signals carries the per-request inputs tenant resolution works from.
type Signals struct {
	// TenantClaim is an already-authenticated tenant id (header or token
	// claim). When present it always wins and no lookup runs.
	TenantClaim string

	// Host is the raw Host header, possibly including a port.
	Host string
}

// Resolver determines the active tenant for a request.
//
// Precedence is fixed, stopping at the first success:
//  1. explicit tenant claim
//  2. host's leading label as a subdomain (reserved labels, loopback and
//     numeric hosts never resolve)
//  3. full host, minus port, as a custom domain
//
// The resolver performs its lookups before the scope is published for the
// request; the published scope is immutable afterward.
type Resolver struct {
	tenants  TenantStore
	reserved []string
	logger   *slog.Logger
	metrics  *tenantmetrics.Metrics
}

// NewResolver constructs a Resolver. reserved lists subdomain labels that
// never map to a tenant (typically "www" and "api").
func NewResolver(tenants TenantStore, reserved []string, logger *slog.Logger, metrics *tenantmetrics.Metrics) *Resolver {
	lowered := make([]string, len(reserved))
	for i, r := range reserved {
		lowered[i] = strings.ToLower(r)
	}
	return &Resolver{tenants: tenants, reserved: lowered, logger: logger, metrics: metrics}
}

// Resolve returns the tenant id for the given request signals, or ErrNoTenant.
func (r *Resolver) Resolve(ctx context.Context, sig Signals) (id.TenantID, error) {
	if sig.TenantClaim != "" {
		tenantID, err := id.ParseTenantID(sig.TenantClaim)
		if err != nil {
			return id.TenantID{}, dErrors.New(dErrors.CodeBadRequest, "invalid tenant claim")
		}
		r.observe("claim")
		return tenantID, nil
	}

	host := hostname(sig.Host)
	if host == "" {
		return r.failed()
	}

	if sub, ok := r.subdomainOf(host); ok {
		t, err := r.tenants.FindBySubdomain(ctx, sub)
		switch {
		case err == nil && t.IsActive():
			r.observe("subdomain")
			return t.ID, nil
		case err != nil && !errors.Is(err, sentinel.ErrNotFound):
			return id.TenantID{}, dErrors.Wrap(err, dErrors.CodeInternal, "tenant lookup failed")
		}
		// Unknown or inactive subdomain: fall through to custom domain.
	}

	t, err := r.tenants.FindByDomain(ctx, host)
	switch {
	case err == nil && t.IsActive():
		r.observe("domain")
		return t.ID, nil
	case err != nil && !errors.Is(err, sentinel.ErrNotFound):
		return id.TenantID{}, dErrors.Wrap(err, dErrors.CodeInternal, "tenant lookup failed")
	}

	return r.failed()
}

// subdomainOf extracts the leading label candidate, rejecting hosts that can
// never carry one: loopback names, bare IPs, single-label hosts, and
// reserved labels.
func (r *Resolver) subdomainOf(host string) (string, bool) {
	if host == "localhost" || net.ParseIP(host) != nil {
		return "", false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return "", false
	}
	sub := labels[0]
	if slices.Contains(r.reserved, sub) {
		return "", false
	}
	return sub, true
}

func (r *Resolver) failed() (id.TenantID, error) {
	if r.metrics != nil {
		r.metrics.IncrementResolutionFailure()
	}
	return id.TenantID{}, ErrNoTenant
}

func (r *Resolver) observe(source string) {
	if r.metrics != nil {
		r.metrics.IncrementResolution(source)
	}
}

// hostname lowercases the Host header and strips any port.
func hostname(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.Trim(host, "[]")
}
