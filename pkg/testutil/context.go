package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	id "lendkit/pkg/domain"
	"lendkit/pkg/requestcontext"
)

// NewTenantID returns a fresh random tenant id for tests.
func NewTenantID(t *testing.T) id.TenantID {
	t.Helper()
	return id.TenantID(uuid.New())
}

// ScopedContext returns a context carrying the given tenant scope.
// This simulates what the tenant resolution middleware does for a request.
func ScopedContext(tenantID id.TenantID) context.Context {
	return requestcontext.WithTenantID(context.Background(), tenantID)
}

// WithTenant adds a tenant scope to the request context.
func WithTenant(req *http.Request, tenantID id.TenantID) *http.Request {
	ctx := requestcontext.WithTenantID(req.Context(), tenantID)
	return req.WithContext(ctx)
}
