package models

// DashboardContext is the session-context reconciliation payload returned
// by GET /dashboard: the canonical user plus the tenant and store resolved
// from the request's tenant/store headers.
type DashboardContext struct {
	User         User    `json:"user"`
	Tenant       *Tenant `json:"tenant"`
	Store        *Store  `json:"store"`
	IsSuperadmin bool    `json:"isSuperadmin"`
}

// SalesStats summarises sales activity for the active tenant/store context.
type SalesStats struct {
	TotalSales        int64        `json:"totalSales"`
	TotalRevenue      float64      `json:"totalRevenue"`
	AverageOrderValue float64      `json:"averageOrderValue"`
	TopProducts       []TopProduct `json:"topProducts,omitempty"`
}

// TopProduct is a single entry in the sales leaderboard.
type TopProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}
