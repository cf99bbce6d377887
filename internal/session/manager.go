package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

// String returns the state name for log fields.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

const defaultLogoutTimeout = 5 * time.Second

// Snapshot is a synchronous view of the session used by the route guard
// and the CLI. TenantID/StoreID are the active context, which can differ
// from the user's home tenant when a superadmin operates cross-tenant.
type Snapshot struct {
	State        State
	User         *models.User
	Tenant       *models.Tenant
	Store        *models.Store
	TenantID     string
	StoreID      string
	IsSuperadmin bool
}

// Manager orchestrates login, registration, logout, context reconciliation
// and tenant/store selection on top of the token store and the API client.
type Manager struct {
	store  *Store
	client *api.Client

	logoutTimeout time.Duration

	mu           sync.Mutex
	state        State
	user         *models.User
	tenant       *models.Tenant
	storeEntity  *models.Store
	isSuperadmin bool
	roleCache    []models.Role
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithLogoutTimeout bounds the best-effort server logout call.
func WithLogoutTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.logoutTimeout = d }
}

// NewManager creates a session manager. The manager starts uninitialized;
// call Initialize before reading the snapshot.
func NewManager(store *Store, client *api.Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:         store,
		client:        client,
		logoutTimeout: defaultLogoutTimeout,
		state:         StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:        m.state,
		User:         m.user,
		Tenant:       m.tenant,
		Store:        m.storeEntity,
		TenantID:     m.store.TenantID(),
		StoreID:      m.store.StoreID(),
		IsSuperadmin: m.isSuperadmin,
	}
}

// Initialize restores the session from the persisted token, reconciling
// against the server. Without a stored token the session is simply
// unauthenticated. A failing context fetch also lands on unauthenticated:
// the token store is left alone, the gateway's own 401 handling decides
// whether the token is actually dead.
func (m *Manager) Initialize(ctx context.Context) error {
	m.setState(StateLoading)

	token := m.store.AccessToken()
	if token == "" {
		log.Debug().Msg("no stored access token")
		m.setState(StateUnauthenticated)
		return nil
	}

	log.Debug().
		Str("access_token", api.TokenFingerprint(token)).
		Msg("restoring session from stored token")

	if err := m.RefreshContext(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
		m.setState(StateUnauthenticated)
		return nil
	}

	return nil
}

// Login validates credentials client-side, exchanges them for tokens, and
// reconciles the full context. Validation failures never reach the
// network. A context-refresh failure after a successful token exchange is
// surfaced but leaves the stored tokens valid for a manual retry.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}

	resp, err := m.client.Auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	if err := m.adoptLoginResponse(resp); err != nil {
		return err
	}

	log.Info().
		Str("user_id", resp.User.ID).
		Bool("superadmin", resp.User.IsSuperadmin()).
		Msg("login succeeded")

	if err := m.RefreshContext(ctx); err != nil {
		return fmt.Errorf("logged in but context refresh failed: %w", err)
	}
	return nil
}

// Register creates an account and establishes a session, symmetric to
// Login.
func (m *Manager) Register(ctx context.Context, params RegisterParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := m.client.Auth.Register(ctx, models.RegisterRequest{
		Email:      params.Email,
		Password:   params.Password,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		TenantID:   params.TenantID,
		TenantName: params.TenantName,
		RoleID:     params.RoleID,
	})
	if err != nil {
		return err
	}

	if err := m.adoptLoginResponse(resp); err != nil {
		return err
	}

	log.Info().Str("user_id", resp.User.ID).Msg("registration succeeded")

	if err := m.RefreshContext(ctx); err != nil {
		return fmt.Errorf("registered but context refresh failed: %w", err)
	}
	return nil
}

// adoptLoginResponse stores the token pair and provisional user, and
// adopts the user's home tenant and default store as the active context.
func (m *Manager) adoptLoginResponse(resp *models.LoginResponse) error {
	if err := m.store.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}
	user := resp.User
	if err := m.store.SetUser(&user); err != nil {
		return err
	}
	if err := m.store.SetTenantID(user.TenantID); err != nil {
		return err
	}
	if user.DefaultStoreID != nil && *user.DefaultStoreID != "" {
		if err := m.store.SetStoreID(*user.DefaultStoreID); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = &user
	m.tenant = nil
	m.storeEntity = nil
	m.isSuperadmin = user.IsSuperadmin()
	m.roleCache = nil
	m.mu.Unlock()

	return nil
}

// RefreshContext fetches the canonical user/tenant/store context from the
// server and replaces the session view wholesale.
func (m *Manager) RefreshContext(ctx context.Context) error {
	dash, err := m.client.Dashboard.Context(ctx)
	if err != nil {
		return err
	}

	user := dash.User
	if err := m.store.SetUser(&user); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = &user
	m.tenant = dash.Tenant
	m.storeEntity = dash.Store
	m.isSuperadmin = dash.IsSuperadmin || user.IsSuperadmin()
	m.mu.Unlock()

	log.Debug().
		Str("user_id", user.ID).
		Str("tenant_id", m.store.TenantID()).
		Str("store_id", m.store.StoreID()).
		Bool("superadmin", dash.IsSuperadmin).
		Msg("session context refreshed")

	return nil
}

// Logout tears the session down. The server call is best-effort under a
// bounded timeout; the local clear always runs and its failure is the only
// error surfaced. Logout cannot get stuck on a hung network call.
func (m *Manager) Logout(ctx context.Context) error {
	logoutCtx, cancel := context.WithTimeout(ctx, m.logoutTimeout)
	defer cancel()

	if err := m.client.Auth.Logout(logoutCtx); err != nil {
		log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}

	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}

	m.mu.Lock()
	m.state = StateUnauthenticated
	m.user = nil
	m.tenant = nil
	m.storeEntity = nil
	m.isSuperadmin = false
	m.roleCache = nil
	m.mu.Unlock()

	log.Info().Msg("logged out")

	return nil
}

// SetTenantID switches the active tenant context. The store selection is
// cleared in the same operation.
func (m *Manager) SetTenantID(tenantID string) error {
	if err := m.store.SetTenantID(tenantID); err != nil {
		return err
	}
	m.mu.Lock()
	m.tenant = nil
	m.storeEntity = nil
	m.mu.Unlock()
	return nil
}

// SetStoreID switches the active store context. An empty ID clears it.
func (m *Manager) SetStoreID(storeID string) error {
	if err := m.store.SetStoreID(storeID); err != nil {
		return err
	}
	m.mu.Lock()
	m.storeEntity = nil
	m.mu.Unlock()
	return nil
}

// Tenants enumerates tenants for selection. Only a superadmin may list all
// tenants; everyone else gets their session tenant.
func (m *Manager) Tenants(ctx context.Context) ([]models.Tenant, error) {
	snap := m.Snapshot()
	if !snap.IsSuperadmin {
		if snap.Tenant != nil {
			return []models.Tenant{*snap.Tenant}, nil
		}
		return nil, nil
	}
	return m.client.Tenants.List(ctx)
}

// StoresForTenant enumerates a tenant's active stores using a per-request
// tenant override, leaving the ambient context untouched.
func (m *Manager) StoresForTenant(ctx context.Context, tenantID string) ([]models.Store, error) {
	stores, err := m.client.Stores.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	active := stores[:0]
	for _, st := range stores {
		if st.IsActive {
			active = append(active, st)
		}
	}
	return active, nil
}

// HasPermission reports whether the current user may perform the given
// resource/action. Superadmin bypasses the check; other users are matched
// against the permission sets of their roles.
func (m *Manager) HasPermission(ctx context.Context, resource, action string) (bool, error) {
	snap := m.Snapshot()
	if snap.User == nil {
		return false, nil
	}
	if snap.IsSuperadmin {
		return true, nil
	}

	roles, err := m.cachedRoles(ctx)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if snap.User.HasRole(role.Name) && role.Allows(resource, action) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) cachedRoles(ctx context.Context) ([]models.Role, error) {
	m.mu.Lock()
	cached := m.roleCache
	m.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	roles, err := m.client.Roles.List(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.roleCache = roles
	m.mu.Unlock()
	return roles, nil
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
