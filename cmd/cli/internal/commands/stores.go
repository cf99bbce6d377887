package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// StoresCmd manages stores within the active tenant.
type StoresCmd struct {
	List   StoresListCmd   `cmd:"" help:"List stores"`
	Create StoresCreateCmd `cmd:"" help:"Create a store"`
	Update StoresUpdateCmd `cmd:"" help:"Update a store"`
	Delete StoresDeleteCmd `cmd:"" help:"Delete a store"`
}

var storeAdminRoles = []guard.Role{guard.RoleAdmin, guard.RoleManager}

// StoresListCmd lists stores. --tenant lets a superadmin list another
// tenant's stores without switching context.
type StoresListCmd struct {
	Tenant string `help:"List stores of a specific tenant (superadmin)"`
	All    bool   `help:"Include inactive stores"`
}

func (c *StoresListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	req := guard.Requirements{RequireAuth: true, RequireTenant: true}
	if c.Tenant != "" {
		req.RequireTenant = false
		req.AnyOfRoles = []guard.Role{guard.RoleSuperadmin}
	}
	if err := app.requireAccess(req); err != nil {
		return err
	}

	var opts []api.RequestOption
	if c.Tenant != "" {
		opts = append(opts, api.WithTenantID(c.Tenant))
	}

	stores, err := app.client.Stores.List(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tADDRESS\tACTIVE")
	for _, st := range stores {
		if !c.All && !st.IsActive {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.ID, st.Name, orDash(st.Code), orDash(st.Address), yesNo(st.IsActive))
	}
	w.Flush()

	return nil
}

// StoresCreateCmd creates a store under the active tenant.
type StoresCreateCmd struct {
	Name    string `arg:"" help:"Store name"`
	Code    string `help:"Store code"`
	Address string `help:"Street address"`
}

func (c *StoresCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: storeAdminRoles}); err != nil {
		return err
	}

	store, err := app.client.Stores.Create(ctx, api.StoreParams{Name: c.Name, Code: c.Code, Address: c.Address})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	fmt.Printf("Created store %s (%s)\n", store.Name, store.ID)
	return nil
}

// StoresUpdateCmd updates a store.
type StoresUpdateCmd struct {
	ID      string `arg:"" help:"Store ID"`
	Name    string `help:"New name"`
	Code    string `help:"New code"`
	Address string `help:"New address"`
	Active  *bool  `help:"Set active state"`
}

func (c *StoresUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: storeAdminRoles}); err != nil {
		return err
	}

	store, err := app.client.Stores.Update(ctx, c.ID, api.StoreParams{
		Name:     c.Name,
		Code:     c.Code,
		Address:  c.Address,
		IsActive: c.Active,
	})
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}

	fmt.Printf("Updated store %s\n", store.ID)
	return nil
}

// StoresDeleteCmd deletes a store.
type StoresDeleteCmd struct {
	ID string `arg:"" help:"Store ID"`
}

func (c *StoresDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true, AnyOfRoles: storeAdminRoles}); err != nil {
		return err
	}

	if err := app.client.Stores.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	fmt.Printf("Deleted store %s\n", c.ID)
	return nil
}
