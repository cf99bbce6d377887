package api

import (
	"context"
	"net/url"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// RolesService covers role and permission administration.
type RolesService struct {
	client *Client
}

// RoleParams carries the mutable role fields for create and update.
type RoleParams struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// List returns the roles of the active tenant context.
func (s *RolesService) List(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	if err := s.client.Get(ctx, "/roles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create provisions a role under the active tenant.
func (s *RolesService) Create(ctx context.Context, params RoleParams) (*models.Role, error) {
	var out models.Role
	if err := s.client.Post(ctx, "/roles", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an existing role.
func (s *RolesService) Update(ctx context.Context, id string, params RoleParams) (*models.Role, error) {
	var out models.Role
	if err := s.client.Put(ctx, "/roles/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a role.
func (s *RolesService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/roles/"+url.PathEscape(id), nil)
}

// Permissions returns the full permission catalogue.
func (s *RolesService) Permissions(ctx context.Context) ([]models.Permission, error) {
	var out []models.Permission
	if err := s.client.Get(ctx, "/permissions", &out); err != nil {
		return nil, err
	}
	return out, nil
}
