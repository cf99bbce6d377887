package models

import (
	"strings"
	"time"
)

// SuperadminRole is the role name that bypasses tenant-scoped role checks.
const SuperadminRole = "superadmin"

// User represents an account as returned by the POS API.
// TenantID is the user's home tenant; the active tenant for a client may
// differ when a superadmin operates across tenants.
type User struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenantId"`
	DefaultStoreID *string    `json:"defaultStoreId,omitempty"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Phone          *string    `json:"phone,omitempty"`
	IsActive       bool       `json:"isActive"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Roles          []string   `json:"roles,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsSuperadmin reports whether the user holds the superadmin role.
func (u *User) IsSuperadmin() bool {
	return u.HasRole(SuperadminRole)
}
