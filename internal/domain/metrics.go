package domain

import "fmt"

// StatsRange selects the reporting window for location stats.
type StatsRange string

const (
	RangeToday StatsRange = "today"
	RangeWeek  StatsRange = "week"
	RangeMonth StatsRange = "month"
)

// ParseStatsRange validates a range string from the query surface.
func ParseStatsRange(s string) (StatsRange, error) {
	switch StatsRange(s) {
	case RangeToday, RangeWeek, RangeMonth:
		return StatsRange(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// RevenuePoint is one bucket of the dashboard revenue series.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ProductSales is one row of the dashboard top-products table.
type ProductSales struct {
	Name      string  `json:"name"`
	UnitsSold int     `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// DashboardStats is the aggregate KPI payload for one scope, computed by the
// aggregates backend. Network scope sums across all locations.
type DashboardStats struct {
	TotalRevenue  float64        `json:"totalRevenue"`
	TotalOrders   int            `json:"totalOrders"`
	ProductCount  int            `json:"productCount"`
	LowStockCount int            `json:"lowStockCount"`
	LocationCount int            `json:"locationCount,omitempty"`
	RevenueSeries []RevenuePoint `json:"revenueSeries,omitempty"`
	TopProducts   []ProductSales `json:"topProducts,omitempty"`
}

// LocationRecord describes one franchise location.
type LocationRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Active  bool   `json:"active"`
}

// StatsSummary is the ranged stats payload for a single location.
type StatsSummary struct {
	Range     StatsRange `json:"range"`
	Revenue   float64    `json:"revenue"`
	Orders    int        `json:"orders"`
	ItemsSold int        `json:"itemsSold"`
}
