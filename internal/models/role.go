package models

// Role groups a set of permissions under a tenant.
type Role struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenantId,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Permission is a single resource/action pair (e.g. "stores"/"write").
type Permission struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Allows reports whether the role grants the given resource/action pair.
func (r *Role) Allows(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
