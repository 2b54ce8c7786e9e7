package models

import (
	"strings"
	"time"

	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
)

// Tenant is the aggregate root for a customer organization. It is one of
// the few tenant-global entities: every loan-specific record is partitioned
// by its ID, but the tenant itself is looked up without a scope (resolution
// has to happen before a scope can exist).
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Subdomain is a valid lowercase DNS label, unique platform-wide
//   - Domain, when set, is a lowercase hostname, unique platform-wide
//   - Status is either active or inactive; transitions: active ↔ inactive
//   - ID and CreatedAt are immutable after construction
//
// Deactivation is the soft-delete path: an inactive tenant stops resolving,
// which cuts off every request for that organization at the scope boundary
// without touching any of its rows.
type Tenant struct {
	ID        id.TenantID  `json:"id"`
	Name      string       `json:"name"`
	Subdomain string       `json:"subdomain"`
	Domain    string       `json:"domain,omitempty"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TenantStatus is the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// CanDeactivate checks if the tenant can transition to inactive status.
func (t *Tenant) CanDeactivate() error {
	if t.Status == TenantStatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already inactive")
	}
	return nil
}

// ApplyDeactivation transitions the tenant to inactive status.
// Call CanDeactivate first to validate the transition.
func (t *Tenant) ApplyDeactivation(now time.Time) {
	t.Status = TenantStatusInactive
	t.UpdatedAt = now
}

// CanReactivate checks if the tenant can transition to active status.
func (t *Tenant) CanReactivate() error {
	if t.Status == TenantStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	return nil
}

// ApplyReactivation transitions the tenant to active status.
// Call CanReactivate first to validate the transition.
func (t *Tenant) ApplyReactivation(now time.Time) {
	t.Status = TenantStatusActive
	t.UpdatedAt = now
}

// NewTenant constructs a tenant, enforcing invariants.
func NewTenant(tenantID id.TenantID, name, subdomain, domain string, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	domain = strings.ToLower(strings.TrimSpace(domain))

	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	if !validLabel(subdomain) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant subdomain must be a valid DNS label")
	}
	if domain != "" && !validHostname(domain) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant domain must be a valid hostname")
	}

	return &Tenant{
		ID:        tenantID,
		Name:      name,
		Subdomain: subdomain,
		Domain:    domain,
		Status:    TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// validLabel accepts a single lowercase DNS label: letters, digits, hyphens,
// no leading/trailing hyphen, 1-63 characters.
func validLabel(s string) bool {
	if len(s) == 0 || len(s) > 63 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// validHostname accepts dot-separated labels with at least two parts.
func validHostname(s string) bool {
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if !validLabel(l) {
			return false
		}
	}
	return true
}
