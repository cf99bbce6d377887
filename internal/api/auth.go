package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// AuthService covers the /auth endpoint group. Login and register bypass
// the 401 refresh path: an unauthorized answer there is a credential
// failure, not an expired session.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token pair and the provisional user.
// A 401 is surfaced as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := s.client.Post(ctx, "/auth/login", req, &out, skipAuthRetry(), withoutAuth())
	if err != nil {
		return nil, asCredentialError(err)
	}
	return &out, nil
}

// Register creates an account, optionally targeting an existing tenant or
// requesting a new one, and returns the same shape as Login.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := s.client.Post(ctx, "/auth/register", req, &out, skipAuthRetry(), withoutAuth())
	if err != nil {
		return nil, asCredentialError(err)
	}
	return &out, nil
}

// Logout invalidates the session server-side. Callers treat failure as
// best-effort; local state is cleared regardless.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", nil, nil, skipAuthRetry())
}

// Profile fetches the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.client.Get(ctx, "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile updates mutable profile fields and returns the result.
func (s *AuthService) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	var out models.User
	if err := s.client.Put(ctx, "/auth/profile", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword rotates the user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return s.client.Post(ctx, "/auth/change-password", req, nil)
}

func asCredentialError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return &APIError{
			Status:    apiErr.Status,
			Message:   apiErr.Message,
			RequestID: apiErr.RequestID,
			Err:       ErrInvalidCredentials,
		}
	}
	return err
}
