// Package guard decides whether the current session may enter a view or
// run a command. Access rules live here and nowhere else, so the
// superadmin bypass is checkable in one place.
package guard

import (
	"github.com/qaiserfcc/cloud-pos-cli/internal/session"
)

// Role enumerates the role names the guard understands. Superadmin is the
// only role with cross-tenant meaning.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
)

// Requirements declares what a view or command needs before it may run.
type Requirements struct {
	RequireAuth   bool
	RequireTenant bool
	RequireStore  bool

	// AnyOfRoles grants access when the user holds at least one of the
	// listed roles. Superadmin bypasses this check entirely.
	AnyOfRoles []Role
}

// Action is the guard's verdict.
type Action int

const (
	// Wait means the session is still loading; the caller must hold off,
	// not redirect.
	Wait Action = iota
	Allow
	RedirectToLogin
	RedirectToDashboard
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict plus the context needed to act on it.
// ReturnTo preserves the originally requested target across a login
// redirect.
type Decision struct {
	Action   Action
	ReturnTo string
	Reason   string
}

// Evaluate applies the access rules in order, first match wins:
// loading, authentication, tenant context, store context, roles.
// Superadmin short-circuits the role check only; tenant/store presence is
// still required, since the guard cannot know which tenant a superadmin
// intends to operate against.
func Evaluate(snap session.Snapshot, req Requirements, requested string) Decision {
	if snap.State == session.StateUninitialized || snap.State == session.StateLoading {
		return Decision{Action: Wait, Reason: "session still loading"}
	}

	if req.RequireAuth && snap.User == nil {
		return Decision{
			Action:   RedirectToLogin,
			ReturnTo: requested,
			Reason:   "authentication required",
		}
	}

	if req.RequireTenant && snap.TenantID == "" {
		return Decision{Action: RedirectToDashboard, Reason: "no tenant selected"}
	}

	if req.RequireStore && snap.StoreID == "" {
		return Decision{Action: RedirectToDashboard, Reason: "no store selected"}
	}

	if len(req.AnyOfRoles) > 0 && !snap.IsSuperadmin {
		if snap.User == nil || !holdsAny(snap.User.Roles, req.AnyOfRoles) {
			return Decision{Action: RedirectToDashboard, Reason: "missing required role"}
		}
	}

	return Decision{Action: Allow}
}

func holdsAny(held []string, wanted []Role) bool {
	for _, w := range wanted {
		for _, h := range held {
			if h == string(w) {
				return true
			}
		}
	}
	return false
}
