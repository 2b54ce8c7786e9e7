// Package scope enforces tenant isolation on data access. Every store for a
// tenant-owned entity kind routes its operations through the Interceptor,
// which injects the active tenant scope so no call site can read or write
// another tenant's rows, and no call site has to remember to ask.
//
// Tenant-global kinds (the Tenant entity itself) do not pass through here;
// their stores are the only code allowed to query without a scope.
package scope

import (
	"context"
	"log/slog"

	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

// Entity is implemented by tenant-owned models so the interceptor can read
// and stamp their tenant id without knowing the concrete type.
type Entity interface {
	TenantRef() id.TenantID
	StampTenant(id.TenantID)
}

// Interceptor augments proposed data operations with the tenant scope read
// from the request context. It holds no mutable state: the scope is
// read-only for the duration of a request, so no locking is needed.
type Interceptor struct {
	logger *slog.Logger
}

// New constructs an Interceptor. The logger is used to report isolation
// violations, which indicate a bug elsewhere and must fail loud.
func New(logger *slog.Logger) *Interceptor {
	return &Interceptor{logger: logger}
}

// ReadFilter returns the tenant id every find-one/find-many operation must
// additionally filter by. A missing scope is never widened into an unscoped
// query: the operation is refused instead.
func (i *Interceptor) ReadFilter(ctx context.Context) (id.TenantID, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		i.reportViolation(ctx, "read without tenant scope", id.TenantID{})
		return id.TenantID{}, sentinel.ErrNoTenantScope
	}
	return tenantID, nil
}

// PrepareCreate stamps the active scope onto an entity about to be written.
// An entity arriving with a different tenant id already set is a cross-tenant
// write attempt and is rejected.
func (i *Interceptor) PrepareCreate(ctx context.Context, e Entity) error {
	tenantID, err := i.ReadFilter(ctx)
	if err != nil {
		return err
	}
	if ref := e.TenantRef(); !ref.IsNil() && ref != tenantID {
		i.reportViolation(ctx, "create with mismatched tenant id", ref)
		return sentinel.ErrTenantMismatch
	}
	e.StampTenant(tenantID)
	return nil
}

// PrepareUpdate verifies an entity about to be updated belongs to the active
// scope. Stores additionally filter the update statement itself by tenant id
// so the check holds even under concurrent modification.
func (i *Interceptor) PrepareUpdate(ctx context.Context, e Entity) error {
	tenantID, err := i.ReadFilter(ctx)
	if err != nil {
		return err
	}
	if e.TenantRef() != tenantID {
		i.reportViolation(ctx, "update with mismatched tenant id", e.TenantRef())
		return sentinel.ErrTenantMismatch
	}
	return nil
}

// Verify guards a loaded entity after a find. A mismatch is reported loudly
// but surfaces to the caller as ErrNotFound, so the existence of another
// tenant's entity is indistinguishable from non-existence.
func (i *Interceptor) Verify(ctx context.Context, e Entity) error {
	tenantID, err := i.ReadFilter(ctx)
	if err != nil {
		return err
	}
	if e.TenantRef() != tenantID {
		i.reportViolation(ctx, "loaded entity outside tenant scope", e.TenantRef())
		return sentinel.ErrNotFound
	}
	return nil
}

func (i *Interceptor) reportViolation(ctx context.Context, detail string, entityTenant id.TenantID) {
	if i.logger == nil {
		return
	}
	i.logger.ErrorContext(ctx, "tenant isolation violation",
		"detail", detail,
		"scope_tenant_id", requestcontext.TenantID(ctx).String(),
		"entity_tenant_id", entityTenant.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
