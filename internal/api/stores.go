package api

import (
	"context"
	"net/url"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// StoresService covers store CRUD. Listings are scoped by the X-Tenant-ID
// header, so a superadmin can enumerate another tenant's stores with a
// per-request tenant override.
type StoresService struct {
	client *Client
}

// StoreParams carries the mutable store fields for create and update.
type StoreParams struct {
	Name     string         `json:"name"`
	Code     string         `json:"code,omitempty"`
	Address  string         `json:"address,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Email    string         `json:"email,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	IsActive *bool          `json:"isActive,omitempty"`
}

// List returns the stores of the active tenant context.
func (s *StoresService) List(ctx context.Context, opts ...RequestOption) ([]models.Store, error) {
	var out []models.Store
	if err := s.client.Get(ctx, "/stores", &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForTenant returns the stores of the given tenant without touching
// the ambient tenant/store selection.
func (s *StoresService) ListForTenant(ctx context.Context, tenantID string) ([]models.Store, error) {
	return s.List(ctx, WithTenantID(tenantID))
}

// Get returns a single store by ID.
func (s *StoresService) Get(ctx context.Context, id string) (*models.Store, error) {
	var out models.Store
	if err := s.client.Get(ctx, "/stores/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create provisions a store under the active tenant.
func (s *StoresService) Create(ctx context.Context, params StoreParams) (*models.Store, error) {
	var out models.Store
	if err := s.client.Post(ctx, "/stores", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an existing store.
func (s *StoresService) Update(ctx context.Context, id string, params StoreParams) (*models.Store, error) {
	var out models.Store
	if err := s.client.Put(ctx, "/stores/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a store.
func (s *StoresService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/stores/"+url.PathEscape(id), nil)
}
