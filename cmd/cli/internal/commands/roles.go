package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// RolesCmd manages roles and shows the permission catalogue.
type RolesCmd struct {
	List        RolesListCmd        `cmd:"" help:"List roles"`
	Create      RolesCreateCmd      `cmd:"" help:"Create a role"`
	Delete      RolesDeleteCmd      `cmd:"" help:"Delete a role"`
	Permissions RolesPermissionsCmd `cmd:"" help:"List the permission catalogue"`
}

// RolesListCmd lists roles with their permission counts.
type RolesListCmd struct{}

func (c *RolesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	roles, err := app.client.Roles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tPERMISSIONS")
	for _, r := range roles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.ID, r.Name, orDash(r.Description), len(r.Permissions))
	}
	w.Flush()

	return nil
}

// RolesCreateCmd creates a role.
type RolesCreateCmd struct {
	Name        string   `arg:"" help:"Role name"`
	Description string   `help:"Role description"`
	Permissions []string `help:"Permission IDs to grant"`
}

func (c *RolesCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	role, err := app.client.Roles.Create(ctx, api.RoleParams{
		Name:          c.Name,
		Description:   c.Description,
		PermissionIDs: c.Permissions,
	})
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	fmt.Printf("Created role %s (%s)\n", role.Name, role.ID)
	return nil
}

// RolesDeleteCmd deletes a role.
type RolesDeleteCmd struct {
	ID string `arg:"" help:"Role ID"`
}

func (c *RolesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: userAdminRoles}); err != nil {
		return err
	}

	if err := app.client.Roles.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	fmt.Printf("Deleted role %s\n", c.ID)
	return nil
}

// RolesPermissionsCmd lists the permission catalogue.
type RolesPermissionsCmd struct{}

func (c *RolesPermissionsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	permissions, err := app.client.Roles.Permissions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list permissions: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRESOURCE\tACTION")
	for _, p := range permissions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Resource, p.Action)
	}
	w.Flush()

	return nil
}
