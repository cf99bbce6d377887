package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
)

// DashboardCmd shows the sales summary for the active tenant/store
// context.
type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true, RequireTenant: true}); err != nil {
		return err
	}

	snap := app.session.Snapshot()
	if snap.Tenant != nil {
		fmt.Printf("Tenant: %s\n", snap.Tenant.Name)
	}
	if snap.Store != nil {
		fmt.Printf("Store:  %s\n", snap.Store.Name)
	}

	stats, err := app.client.Dashboard.Sales(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch sales stats: %w", err)
	}

	fmt.Printf("Total sales:     %d\n", stats.TotalSales)
	fmt.Printf("Total revenue:   %.2f\n", stats.TotalRevenue)
	fmt.Printf("Avg order value: %.2f\n", stats.AverageOrderValue)

	if len(stats.TopProducts) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQUANTITY\tREVENUE")
		for _, p := range stats.TopProducts {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", p.ProductName, p.Quantity, p.Revenue)
		}
		w.Flush()
	}

	return nil
}
