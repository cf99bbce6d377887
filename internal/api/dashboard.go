package api

import (
	"context"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

// DashboardService covers the session-context reconciliation endpoint and
// the sales summary behind the dashboard view.
type DashboardService struct {
	client *Client
}

// Context fetches the canonical user/tenant/store context for the current
// session and tenant/store headers.
func (s *DashboardService) Context(ctx context.Context) (*models.DashboardContext, error) {
	var out models.DashboardContext
	if err := s.client.Get(ctx, "/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sales fetches sales statistics for the active tenant/store context.
func (s *DashboardService) Sales(ctx context.Context) (*models.SalesStats, error) {
	var out models.SalesStats
	if err := s.client.Get(ctx, "/dashboard/sales", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
