package api

import (
	"context"
	"net/url"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// TenantsService covers tenant CRUD. Listing all tenants is a superadmin
// operation; the server scopes everyone else to their own tenant.
type TenantsService struct {
	client *Client
}

// TenantParams carries the mutable tenant fields for create and update.
type TenantParams struct {
	Name     string         `json:"name"`
	Domain   string         `json:"domain,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	IsActive *bool          `json:"isActive,omitempty"`
}

// List returns all tenants visible to the caller.
func (s *TenantsService) List(ctx context.Context) ([]models.Tenant, error) {
	var out []models.Tenant
	if err := s.client.Get(ctx, "/tenants", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single tenant by ID.
func (s *TenantsService) Get(ctx context.Context, id string) (*models.Tenant, error) {
	var out models.Tenant
	if err := s.client.Get(ctx, "/tenants/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create provisions a new tenant.
func (s *TenantsService) Create(ctx context.Context, params TenantParams) (*models.Tenant, error) {
	var out models.Tenant
	if err := s.client.Post(ctx, "/tenants", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an existing tenant.
func (s *TenantsService) Update(ctx context.Context, id string, params TenantParams) (*models.Tenant, error) {
	var out models.Tenant
	if err := s.client.Put(ctx, "/tenants/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a tenant.
func (s *TenantsService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/tenants/"+url.PathEscape(id), nil)
}
