package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// TenantsCmd manages tenants. Listing and mutation are superadmin
// operations; the server enforces this, the guard gives a friendlier
// answer first.
type TenantsCmd struct {
	List   TenantsListCmd   `cmd:"" help:"List tenants"`
	Create TenantsCreateCmd `cmd:"" help:"Create a tenant"`
	Update TenantsUpdateCmd `cmd:"" help:"Update a tenant"`
	Delete TenantsDeleteCmd `cmd:"" help:"Delete a tenant"`
}

// TenantsListCmd lists all tenants.
type TenantsListCmd struct{}

func (c *TenantsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, AnyOfRoles: []guard.Role{guard.RoleSuperadmin}}); err != nil {
		return err
	}

	tenants, err := app.client.Tenants.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	if len(tenants) == 0 {
		fmt.Println("No tenants found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOMAIN\tACTIVE")
	for _, t := range tenants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, orDash(t.Domain), yesNo(t.IsActive))
	}
	w.Flush()

	return nil
}

// TenantsCreateCmd creates a tenant.
type TenantsCreateCmd struct {
	Name   string `arg:"" help:"Tenant name"`
	Domain string `help:"Tenant domain"`
}

func (c *TenantsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, AnyOfRoles: []guard.Role{guard.RoleSuperadmin}}); err != nil {
		return err
	}

	tenant, err := app.client.Tenants.Create(ctx, api.TenantParams{Name: c.Name, Domain: c.Domain})
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	fmt.Printf("Created tenant %s (%s)\n", tenant.Name, tenant.ID)
	return nil
}

// TenantsUpdateCmd updates a tenant.
type TenantsUpdateCmd struct {
	ID     string `arg:"" help:"Tenant ID"`
	Name   string `help:"New name"`
	Domain string `help:"New domain"`
	Active *bool  `help:"Set active state"`
}

func (c *TenantsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, AnyOfRoles: []guard.Role{guard.RoleSuperadmin}}); err != nil {
		return err
	}

	tenant, err := app.client.Tenants.Update(ctx, c.ID, api.TenantParams{
		Name:     c.Name,
		Domain:   c.Domain,
		IsActive: c.Active,
	})
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	fmt.Printf("Updated tenant %s\n", tenant.ID)
	return nil
}

// TenantsDeleteCmd deletes a tenant.
type TenantsDeleteCmd struct {
	ID string `arg:"" help:"Tenant ID"`
}

func (c *TenantsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, AnyOfRoles: []guard.Role{guard.RoleSuperadmin}}); err != nil {
		return err
	}

	if err := app.client.Tenants.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	fmt.Printf("Deleted tenant %s\n", c.ID)
	return nil
}
