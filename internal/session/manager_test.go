package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// posBackend fakes the subset of the POS API the session manager talks to.
type posBackend struct {
	user   models.User
	tenant *models.Tenant
	store  *models.Store

	accessToken   string
	loginFails    bool
	contextFails  bool
	logoutStatus  int
	logoutDelay   time.Duration
	stores        []models.Store
	tenants       []models.Tenant
	roles         []models.Role
	requests      int32
	roleListCalls int32

	lastStoresTenantHeader string
}

func envelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func (b *posBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.requests, 1)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			if b.loginFails {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
				return
			}
			envelope(w, models.LoginResponse{
				User:         b.user,
				AccessToken:  b.accessToken,
				RefreshToken: "refresh-1",
				ExpiresIn:    900,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
			if b.logoutDelay > 0 {
				time.Sleep(b.logoutDelay)
			}
			status := b.logoutStatus
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			envelope(w, map[string]string{})
		case r.Method == http.MethodGet && r.URL.Path == "/dashboard":
			if b.contextFails {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "context unavailable"})
				return
			}
			envelope(w, models.DashboardContext{
				User:         b.user,
				Tenant:       b.tenant,
				Store:        b.store,
				IsSuperadmin: b.user.IsSuperadmin(),
			})
		case r.Method == http.MethodGet && r.URL.Path == "/stores":
			b.lastStoresTenantHeader = r.Header.Get("X-Tenant-ID")
			envelope(w, b.stores)
		case r.Method == http.MethodGet && r.URL.Path == "/tenants":
			envelope(w, b.tenants)
		case r.Method == http.MethodGet && r.URL.Path == "/roles":
			atomic.AddInt32(&b.roleListCalls, 1)
			envelope(w, b.roles)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func strPtr(s string) *string { return &s }

func newTestManager(t *testing.T, backend *posBackend, opts ...ManagerOption) (*Manager, *Store, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	client, err := api.NewClient(api.Config{
		BaseURL:     server.URL,
		Credentials: store,
		MaxTries:    1,
	})
	require.NoError(t, err)

	return NewManager(store, client, opts...), store, server
}

func TestManager_Initialize(t *testing.T) {
	t.Run("no stored token lands on unauthenticated without a network call", func(t *testing.T) {
		backend := &posBackend{}
		manager, _, _ := newTestManager(t, backend)

		require.NoError(t, manager.Initialize(context.Background()))
		assert.Equal(t, StateUnauthenticated, manager.Snapshot().State)
		assert.Equal(t, int32(0), atomic.LoadInt32(&backend.requests))
	})

	t.Run("stored token restores the full context", func(t *testing.T) {
		backend := &posBackend{
			user:   models.User{ID: "u-1", TenantID: "t-1", Email: "jane@example.com"},
			tenant: &models.Tenant{ID: "t-1", Name: "Acme"},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))

		require.NoError(t, manager.Initialize(context.Background()))

		snap := manager.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		require.NotNil(t, snap.User)
		assert.Equal(t, "u-1", snap.User.ID)
		require.NotNil(t, snap.Tenant)
		assert.Equal(t, "Acme", snap.Tenant.Name)
	})

	t.Run("failed context fetch lands on unauthenticated but keeps tokens", func(t *testing.T) {
		backend := &posBackend{contextFails: true}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))

		require.NoError(t, manager.Initialize(context.Background()))
		assert.Equal(t, StateUnauthenticated, manager.Snapshot().State)
		assert.Equal(t, "access-1", store.AccessToken())
	})
}

func TestManager_Login(t *testing.T) {
	t.Run("validation failures never reach the network", func(t *testing.T) {
		backend := &posBackend{}
		manager, _, _ := newTestManager(t, backend)

		err := manager.Login(context.Background(), "not-an-email", "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, int32(0), atomic.LoadInt32(&backend.requests))
	})

	t.Run("successful login adopts tokens, home tenant and default store", func(t *testing.T) {
		backend := &posBackend{
			user: models.User{
				ID:             "u-1",
				TenantID:       "t-1",
				DefaultStoreID: strPtr("s-1"),
				Email:          "jane@example.com",
			},
			tenant:      &models.Tenant{ID: "t-1", Name: "Acme"},
			store:       &models.Store{ID: "s-1", TenantID: "t-1", Name: "Main"},
			accessToken: "access-1",
		}
		manager, store, _ := newTestManager(t, backend)

		require.NoError(t, manager.Login(context.Background(), "jane@example.com", "secret123"))

		assert.Equal(t, "access-1", store.AccessToken())
		assert.Equal(t, "refresh-1", store.RefreshToken())
		assert.Equal(t, "t-1", store.TenantID())
		assert.Equal(t, "s-1", store.StoreID())

		snap := manager.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		require.NotNil(t, snap.Store)
		assert.Equal(t, "Main", snap.Store.Name)
	})

	t.Run("rejected credentials surface ErrInvalidCredentials", func(t *testing.T) {
		backend := &posBackend{loginFails: true}
		manager, store, _ := newTestManager(t, backend)

		err := manager.Login(context.Background(), "jane@example.com", "wrongpass1")
		require.ErrorIs(t, err, api.ErrInvalidCredentials)
		assert.EqualError(t, err, "invalid email or password")
		assert.Empty(t, store.AccessToken())
		assert.Equal(t, StateUninitialized, manager.Snapshot().State)
	})
}

func TestManager_Logout(t *testing.T) {
	t.Run("clears the session even when the server call fails", func(t *testing.T) {
		backend := &posBackend{logoutStatus: http.StatusInternalServerError}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))

		require.NoError(t, manager.Logout(context.Background()))

		assert.Empty(t, store.AccessToken())
		assert.Empty(t, store.TenantID())
		assert.Equal(t, StateUnauthenticated, manager.Snapshot().State)
	})

	t.Run("a hanging server cannot stall logout past the timeout", func(t *testing.T) {
		backend := &posBackend{logoutDelay: 2 * time.Second}
		manager, store, _ := newTestManager(t, backend, WithLogoutTimeout(100*time.Millisecond))
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))

		start := time.Now()
		require.NoError(t, manager.Logout(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
		assert.Empty(t, store.AccessToken())
	})
}

func TestManager_TenantStoreSelection(t *testing.T) {
	t.Run("switching tenant drops the cached store entity", func(t *testing.T) {
		backend := &posBackend{
			user:   models.User{ID: "u-1", TenantID: "t-1", Roles: []string{models.SuperadminRole}},
			store:  &models.Store{ID: "s-1", Name: "Main"},
			tenant: &models.Tenant{ID: "t-1", Name: "Acme"},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))
		require.NoError(t, store.SetStoreID("s-1"))
		require.NoError(t, manager.Initialize(context.Background()))
		require.NotNil(t, manager.Snapshot().Store)

		require.NoError(t, manager.SetTenantID("t-2"))

		snap := manager.Snapshot()
		assert.Equal(t, "t-2", snap.TenantID)
		assert.Empty(t, snap.StoreID)
		assert.Nil(t, snap.Store)
	})

	t.Run("stores for a tenant use a request override and filter inactive", func(t *testing.T) {
		backend := &posBackend{
			stores: []models.Store{
				{ID: "s-1", Name: "Open", IsActive: true},
				{ID: "s-2", Name: "Closed", IsActive: false},
			},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))

		stores, err := manager.StoresForTenant(context.Background(), "t-other")
		require.NoError(t, err)
		require.Len(t, stores, 1)
		assert.Equal(t, "Open", stores[0].Name)
		assert.Equal(t, "t-other", backend.lastStoresTenantHeader)
		// The ambient selection is untouched.
		assert.Equal(t, "t-1", store.TenantID())
	})
}

func TestManager_Tenants(t *testing.T) {
	t.Run("superadmin lists all tenants", func(t *testing.T) {
		backend := &posBackend{
			user: models.User{ID: "u-1", Roles: []string{models.SuperadminRole}},
			tenants: []models.Tenant{
				{ID: "t-1", Name: "Acme"},
				{ID: "t-2", Name: "Globex"},
			},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, manager.Initialize(context.Background()))

		tenants, err := manager.Tenants(context.Background())
		require.NoError(t, err)
		assert.Len(t, tenants, 2)
	})

	t.Run("regular user only sees the session tenant", func(t *testing.T) {
		backend := &posBackend{
			user:    models.User{ID: "u-1", TenantID: "t-1", Roles: []string{"admin"}},
			tenant:  &models.Tenant{ID: "t-1", Name: "Acme"},
			tenants: []models.Tenant{{ID: "t-1"}, {ID: "t-2"}},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, manager.Initialize(context.Background()))

		before := atomic.LoadInt32(&backend.requests)
		tenants, err := manager.Tenants(context.Background())
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, "Acme", tenants[0].Name)
		assert.Equal(t, before, atomic.LoadInt32(&backend.requests))
	})
}

func TestManager_HasPermission(t *testing.T) {
	adminRole := models.Role{
		ID:   "r-1",
		Name: "admin",
		Permissions: []models.Permission{
			{ID: "p-1", Resource: "stores", Action: "create"},
		},
	}

	t.Run("superadmin bypasses permission checks", func(t *testing.T) {
		backend := &posBackend{user: models.User{ID: "u-1", Roles: []string{models.SuperadminRole}}}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, manager.Initialize(context.Background()))

		ok, err := manager.HasPermission(context.Background(), "anything", "delete")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int32(0), atomic.LoadInt32(&backend.roleListCalls))
	})

	t.Run("role permissions are matched and cached", func(t *testing.T) {
		backend := &posBackend{
			user:  models.User{ID: "u-1", TenantID: "t-1", Roles: []string{"admin"}},
			roles: []models.Role{adminRole},
		}
		manager, store, _ := newTestManager(t, backend)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, manager.Initialize(context.Background()))

		ok, err := manager.HasPermission(context.Background(), "stores", "create")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = manager.HasPermission(context.Background(), "stores", "delete")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.Equal(t, int32(1), atomic.LoadInt32(&backend.roleListCalls))
	})

	t.Run("unauthenticated user has no permissions", func(t *testing.T) {
		backend := &posBackend{}
		manager, _, _ := newTestManager(t, backend)
		require.NoError(t, manager.Initialize(context.Background()))

		ok, err := manager.HasPermission(context.Background(), "stores", "read")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
