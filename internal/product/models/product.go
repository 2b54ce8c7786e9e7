package models

import (
	"time"

	"lendkit/internal/rules"
	id "lendkit/pkg/domain"
)

// Product is a tenant-owned loan offering with eligibility constraints.
// Rules arrive as already-deserialized structured data from the storage
// layer; they are ordered lists so eligibility output is deterministic.
type Product struct {
	ID       id.ProductID `json:"id"`
	TenantID id.TenantID  `json:"tenant_id"`
	Name     string       `json:"name"`
	Enabled  bool         `json:"enabled"`

	// PropertyTypes restricts the product to the listed property types.
	// Empty means no restriction.
	PropertyTypes []string `json:"property_types,omitempty"`

	// RequiredFields are dotted paths that must be present in borrower
	// form data for the product to be eligible.
	RequiredFields []string `json:"required_fields,omitempty"`

	// ConditionalLogic holds named hard requirements; a failing entry makes
	// the borrower ineligible.
	ConditionalLogic []Rule `json:"conditional_logic,omitempty"`

	// UnderwritingRules are severity-aware: a failing "warning" rule is
	// surfaced without affecting eligibility, anything else is a hard fail.
	UnderwritingRules []Rule `json:"underwriting_rules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantRef and StampTenant implement scope.Entity.
func (p *Product) TenantRef() id.TenantID           { return p.TenantID }
func (p *Product) StampTenant(tenantID id.TenantID) { p.TenantID = tenantID }

// Rule is a named single-field constraint on borrower data. Operator is an
// open string from stored data; entries without a recognized operator are
// skipped during evaluation.
type Rule struct {
	Name     string         `json:"name"`
	Field    string         `json:"field"`
	Operator rules.Operator `json:"operator"`
	Value    any            `json:"value"`
	Message  string         `json:"message,omitempty"`
	Severity string         `json:"severity,omitempty"`
}

// SeverityWarning marks an underwriting rule as advisory.
const SeverityWarning = "warning"

// EligibilityCheck is the outcome of evaluating a borrower against one
// product. Warnings never affect Eligible.
type EligibilityCheck struct {
	Eligible      bool     `json:"eligible"`
	Reasons       []string `json:"reasons"`
	MissingFields []string `json:"missing_fields"`
	Warnings      []string `json:"warnings"`
}
