package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lendkit/pkg/domain"
	dErrors "lendkit/pkg/domain-errors"
)

func TestNewTenant(t *testing.T) {
	now := time.Now()
	tenantID := id.TenantID(uuid.New())

	t.Run("valid tenant", func(t *testing.T) {
		tenant, err := NewTenant(tenantID, "  Acme Lending  ", "ACME", "Loans.Acme.COM", now)
		require.NoError(t, err)
		assert.Equal(t, "Acme Lending", tenant.Name)
		assert.Equal(t, "acme", tenant.Subdomain)
		assert.Equal(t, "loans.acme.com", tenant.Domain)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.True(t, tenant.IsActive())
	})

	t.Run("domain optional", func(t *testing.T) {
		tenant, err := NewTenant(tenantID, "Beta", "beta", "", now)
		require.NoError(t, err)
		assert.Empty(t, tenant.Domain)
	})

	invalid := []struct {
		name      string
		tname     string
		subdomain string
		domain    string
	}{
		{"empty name", "", "acme", ""},
		{"name too long", strings.Repeat("x", 129), "acme", ""},
		{"empty subdomain", "Acme", "", ""},
		{"subdomain with dot", "Acme", "a.b", ""},
		{"subdomain leading hyphen", "Acme", "-acme", ""},
		{"subdomain too long", "Acme", strings.Repeat("a", 64), ""},
		{"single-label domain", "Acme", "acme", "intranet"},
		{"domain bad label", "Acme", "acme", "a_b.com"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTenant(tenantID, tc.tname, tc.subdomain, tc.domain, now)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func TestTenantLifecycle(t *testing.T) {
	now := time.Now()
	tenant, err := NewTenant(id.TenantID(uuid.New()), "Acme", "acme", "", now)
	require.NoError(t, err)

	t.Run("deactivate active tenant", func(t *testing.T) {
		require.NoError(t, tenant.CanDeactivate())
		tenant.ApplyDeactivation(now.Add(time.Hour))
		assert.False(t, tenant.IsActive())
		assert.Equal(t, now.Add(time.Hour), tenant.UpdatedAt)
	})

	t.Run("deactivate twice rejected", func(t *testing.T) {
		assert.Error(t, tenant.CanDeactivate())
	})

	t.Run("reactivate inactive tenant", func(t *testing.T) {
		require.NoError(t, tenant.CanReactivate())
		tenant.ApplyReactivation(now.Add(2 * time.Hour))
		assert.True(t, tenant.IsActive())
	})

	t.Run("reactivate twice rejected", func(t *testing.T) {
		assert.Error(t, tenant.CanReactivate())
	})
}
