// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-type assignment (a ProductID can never be passed where a TenantID
// is expected). Construct via the Parse* functions at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "lendkit/pkg/domain-errors"
)

// TenantID identifies a tenant organization.
type TenantID uuid.UUID

// TemplateID identifies a form template.
type TemplateID uuid.UUID

// ProductID identifies a loan product.
type ProductID uuid.UUID

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}

// ParseTenantID validates and returns a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s, "tenant")
	return TenantID(u), err
}

// ParseTemplateID validates and returns a TemplateID.
func ParseTemplateID(s string) (TemplateID, error) {
	u, err := parseUUID(s, "template")
	return TemplateID(u), err
}

// ParseProductID validates and returns a ProductID.
func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID(s, "product")
	return ProductID(u), err
}

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id TemplateID) String() string { return uuid.UUID(id).String() }
func (id ProductID) String() string  { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id TemplateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Text marshalling so IDs render as UUID strings in JSON payloads and
// scan cleanly from database drivers.

func (id TenantID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id TemplateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ProductID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *TenantID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid tenant id")
	}
	*id = TenantID(u)
	return nil
}

func (id *TemplateID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid template id")
	}
	*id = TemplateID(u)
	return nil
}

func (id *ProductID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid product id")
	}
	*id = ProductID(u)
	return nil
}
