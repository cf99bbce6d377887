package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// UsersCmd manages users within the active tenant.
type UsersCmd struct {
	List       UsersListCmd       `cmd:"" help:"List users"`
	Create     UsersCreateCmd     `cmd:"" help:"Create a user"`
	Deactivate UsersDeactivateCmd `cmd:"" help:"Deactivate a user"`
	AssignRole UsersAssignRoleCmd `cmd:"" name:"assign-role" help:"Assign a role to a user"`
}

var userAdminRoles = []guard.Role{guard.RoleAdmin}

// UsersListCmd lists users of the active tenant.
type UsersListCmd struct{}

func (c *UsersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	users, err := app.client.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLES\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName(), orDash(strings.Join(u.Roles, ",")), yesNo(u.IsActive))
	}
	w.Flush()

	return nil
}

// UsersCreateCmd creates a user under the active tenant.
type UsersCreateCmd struct {
	Email     string `arg:"" help:"Account email"`
	FirstName string `required:"" help:"First name"`
	LastName  string `required:"" help:"Last name"`
	Password  string `required:"" help:"Initial password"`
	RoleID    string `help:"Initial role"`
	StoreID   string `help:"Default store"`
}

func (c *UsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	params := api.UserParams{
		Email:     c.Email,
		Password:  c.Password,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		RoleID:    c.RoleID,
	}
	if c.StoreID != "" {
		params.DefaultStoreID = &c.StoreID
	}

	user, err := app.client.Users.Create(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	return nil
}

// UsersDeactivateCmd deactivates a user.
type UsersDeactivateCmd struct {
	ID string `arg:"" help:"User ID"`
}

func (c *UsersDeactivateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	if err := app.client.Users.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	fmt.Printf("Deactivated user %s\n", c.ID)
	return nil
}

// UsersAssignRoleCmd assigns a role to a user.
type UsersAssignRoleCmd struct {
	UserID string `arg:"" help:"User ID"`
	RoleID string `arg:"" help:"Role ID"`
}

func (c *UsersAssignRoleCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	if err := app.client.Users.AssignRole(ctx, c.UserID, c.RoleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	fmt.Printf("Assigned role %s to user %s\n", c.RoleID, c.UserID)
	return nil
}
