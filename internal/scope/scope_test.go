package scope

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lendkit/pkg/domain"
	"lendkit/pkg/platform/sentinel"
	"lendkit/pkg/requestcontext"
)

type testEntity struct {
	tenantID id.TenantID
}

func (e *testEntity) TenantRef() id.TenantID           { return e.tenantID }
func (e *testEntity) StampTenant(tenantID id.TenantID) { e.tenantID = tenantID }

func scoped(tenantID id.TenantID) context.Context {
	return requestcontext.WithTenantID(context.Background(), tenantID)
}

func TestReadFilter(t *testing.T) {
	i := New(nil)
	tenantID := id.TenantID(uuid.New())

	t.Run("returns active scope", func(t *testing.T) {
		got, err := i.ReadFilter(scoped(tenantID))
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("refuses unscoped context", func(t *testing.T) {
		_, err := i.ReadFilter(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrNoTenantScope)
	})
}

func TestPrepareCreate(t *testing.T) {
	i := New(nil)
	tenantID := id.TenantID(uuid.New())

	t.Run("stamps the active scope", func(t *testing.T) {
		e := &testEntity{}
		require.NoError(t, i.PrepareCreate(scoped(tenantID), e))
		assert.Equal(t, tenantID, e.tenantID)
	})

	t.Run("accepts matching preset tenant", func(t *testing.T) {
		e := &testEntity{tenantID: tenantID}
		require.NoError(t, i.PrepareCreate(scoped(tenantID), e))
	})

	t.Run("rejects mismatched preset tenant", func(t *testing.T) {
		e := &testEntity{tenantID: id.TenantID(uuid.New())}
		err := i.PrepareCreate(scoped(tenantID), e)
		assert.ErrorIs(t, err, sentinel.ErrTenantMismatch)
	})

	t.Run("refuses unscoped context", func(t *testing.T) {
		err := i.PrepareCreate(context.Background(), &testEntity{})
		assert.ErrorIs(t, err, sentinel.ErrNoTenantScope)
	})
}

func TestPrepareUpdate(t *testing.T) {
	i := New(nil)
	tenantID := id.TenantID(uuid.New())

	t.Run("accepts owned entity", func(t *testing.T) {
		require.NoError(t, i.PrepareUpdate(scoped(tenantID), &testEntity{tenantID: tenantID}))
	})

	t.Run("rejects foreign entity", func(t *testing.T) {
		err := i.PrepareUpdate(scoped(tenantID), &testEntity{tenantID: id.TenantID(uuid.New())})
		assert.ErrorIs(t, err, sentinel.ErrTenantMismatch)
	})
}

func TestVerify(t *testing.T) {
	i := New(nil)
	tenantID := id.TenantID(uuid.New())

	t.Run("accepts owned entity", func(t *testing.T) {
		require.NoError(t, i.Verify(scoped(tenantID), &testEntity{tenantID: tenantID}))
	})

	t.Run("foreign entity looks like not found", func(t *testing.T) {
		err := i.Verify(scoped(tenantID), &testEntity{tenantID: id.TenantID(uuid.New())})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

// TestConcurrentScopesStayIsolated drives many goroutines, each carrying its
// own tenant on its own context, through the same interceptor. Because the
// scope travels in the context rather than in any shared variable, every
// read filter must come back with the goroutine's own tenant, no matter how
// the goroutines interleave.
func TestConcurrentScopesStayIsolated(t *testing.T) {
	i := New(nil)

	const workers = 64
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tenantID := id.TenantID(uuid.New())
			ctx := scoped(tenantID)
			for range 500 {
				got, err := i.ReadFilter(ctx)
				if err != nil || got != tenantID {
					t.Errorf("scope leaked: want %s, got %s (err=%v)", tenantID, got, err)
					return
				}
				e := &testEntity{}
				if err := i.PrepareCreate(ctx, e); err != nil || e.tenantID != tenantID {
					t.Errorf("create stamped wrong tenant: want %s, got %s (err=%v)", tenantID, e.tenantID, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
