package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// ContextCmd shows and switches the active tenant/store pair attached to
// outbound requests.
type ContextCmd struct {
	Show       ContextShowCmd       `cmd:"" default:"1" help:"Show the active context"`
	UseTenant  ContextUseTenantCmd  `cmd:"" name:"use-tenant" help:"Switch the active tenant"`
	UseStore   ContextUseStoreCmd   `cmd:"" name:"use-store" help:"Switch the active store"`
	ClearStore ContextClearStoreCmd `cmd:"" name:"clear-store" help:"Clear the active store"`
}

// ContextShowCmd prints the active context and the selectable tenants and
// stores.
type ContextShowCmd struct{}

func (c *ContextShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	snap := app.session.Snapshot()
	fmt.Printf("Tenant: %s\n", orDash(snap.TenantID))
	fmt.Printf("Store:  %s\n", orDash(snap.StoreID))

	tenants, err := app.session.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}
	if len(tenants) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TENANT ID\tNAME\tACTIVE\tSELECTED")
	for _, t := range tenants {
		selected := ""
		if t.ID == snap.TenantID {
			selected = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, yesNo(t.IsActive), selected)
	}
	w.Flush()

	if snap.TenantID == "" {
		return nil
	}

	stores, err := app.session.StoresForTenant(ctx, snap.TenantID)
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STORE ID\tNAME\tCODE\tSELECTED")
	for _, st := range stores {
		selected := ""
		if st.ID == snap.StoreID {
			selected = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Name, st.Code, selected)
	}
	w.Flush()

	return nil
}

// ContextUseTenantCmd switches the active tenant. Any previously selected
// store is cleared in the same operation.
type ContextUseTenantCmd struct {
	TenantID string `arg:"" help:"Tenant to operate against"`
}

func (c *ContextUseTenantCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	if err := app.session.SetTenantID(c.TenantID); err != nil {
		return err
	}

	fmt.Printf("Active tenant set to %s (store selection cleared)\n", c.TenantID)
	return nil
}

// ContextUseStoreCmd switches the active store within the active tenant.
type ContextUseStoreCmd struct {
	StoreID string `arg:"" help:"Store to operate against"`
}

func (c *ContextUseStoreCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true}); err != nil {
		return err
	}

	if err := app.session.SetStoreID(c.StoreID); err != nil {
		return err
	}

	fmt.Printf("Active store set to %s\n", c.StoreID)
	return nil
}

// ContextClearStoreCmd clears the active store selection.
type ContextClearStoreCmd struct{}

func (c *ContextClearStoreCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	if err := app.session.SetStoreID(""); err != nil {
		return err
	}

	fmt.Println("Store selection cleared.")
	return nil
}
