package api

import (
	"context"
	"net/url"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// UsersService covers user administration within the active tenant.
type UsersService struct {
	client *Client
}

// UserParams carries the mutable user fields for create and update.
type UserParams struct {
	Email          string  `json:"email,omitempty"`
	Password       string  `json:"password,omitempty"`
	FirstName      string  `json:"firstName,omitempty"`
	LastName       string  `json:"lastName,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	DefaultStoreID *string `json:"defaultStoreId,omitempty"`
	RoleID         string  `json:"roleId,omitempty"`
	IsActive       *bool   `json:"isActive,omitempty"`
}

// List returns the users of the active tenant context.
func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.client.Get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single user by ID.
func (s *UsersService) Get(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := s.client.Get(ctx, "/users/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create provisions a user under the active tenant.
func (s *UsersService) Create(ctx context.Context, params UserParams) (*models.User, error) {
	var out models.User
	if err := s.client.Post(ctx, "/users", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an existing user.
func (s *UsersService) Update(ctx context.Context, id string, params UserParams) (*models.User, error) {
	var out models.User
	if err := s.client.Put(ctx, "/users/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deactivates a user.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/users/"+url.PathEscape(id), nil)
}

// AssignRole grants the user a role.
func (s *UsersService) AssignRole(ctx context.Context, userID, roleID string) error {
	body := map[string]string{"roleId": roleID}
	return s.client.Post(ctx, "/users/"+url.PathEscape(userID)+"/roles", body, nil)
}
