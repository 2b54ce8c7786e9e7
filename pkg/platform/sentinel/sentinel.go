package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store (or is invisible to the
//   caller's tenant scope, which must look identical)
// - ErrConflict: uniqueness or state conflict
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrNoTenantScope: a tenant-scoped operation was attempted with no active
//   scope; this is a programming error upstream and must never be widened
//   into an unscoped query
// - ErrTenantMismatch: an entity's tenant id diverges from the active scope
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidState   = errors.New("invalid state")
	ErrNoTenantScope  = errors.New("no tenant scope")
	ErrTenantMismatch = errors.New("tenant mismatch")
	ErrUnavailable    = errors.New("unavailable")
)
