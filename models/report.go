package models

import "time"

// Customer tiers.
const (
	TierPremium = "Premium"
	TierRegular = "Regular"
	TierLow     = "Low"
)

// Tiers lists the customer tiers from highest to lowest.
var Tiers = []string{TierPremium, TierRegular, TierLow}

// CategoryRevenue names a category together with its completed revenue.
type CategoryRevenue struct {
	Name    string  `json:"name" yaml:"name"`
	Revenue float64 `json:"revenue" yaml:"revenue"`
}

// StatusDistribution holds per-status counts and percentages over all rows.
type StatusDistribution struct {
	Count      KeyedCounts `json:"count" yaml:"count"`
	Percentage KeyedValues `json:"percentage" yaml:"percentage"`
}

// CustomerStat is one row of the top-customers list.
type CustomerStat struct {
	CustomerID    string  `json:"customer_id" yaml:"customer_id"`
	LifetimeValue float64 `json:"lifetime_value" yaml:"lifetime_value"`
	OrderCount    int     `json:"order_count" yaml:"order_count"`
	AvgOrderValue float64 `json:"avg_order_value" yaml:"avg_order_value"`
}

// ProductStat is one row of the top-products list.
type ProductStat struct {
	ProductCategory string  `json:"product_category" yaml:"product_category"`
	ProductName     string  `json:"product_name" yaml:"product_name"`
	Revenue         float64 `json:"revenue" yaml:"revenue"`
	Quantity        int     `json:"quantity" yaml:"quantity"`
	OrderCount      int     `json:"order_count" yaml:"order_count"`
}

// CustomerSegments summarises customers per spending tier.
type CustomerSegments struct {
	CustomerCount KeyedCounts `json:"customer_count" yaml:"customer_count"`
	TotalRevenue  KeyedValues `json:"total_revenue" yaml:"total_revenue"`
	AvgSpending   KeyedValues `json:"avg_spending" yaml:"avg_spending"`
}

// AnalyticsReport is the full metric set computed from one cleaned dataset.
// It is never modified after it is built.
type AnalyticsReport struct {
	TotalRevenue            float64            `json:"total_revenue" yaml:"total_revenue"`
	AverageOrderValue       float64            `json:"average_order_value" yaml:"average_order_value"`
	CustomerCount           int                `json:"customer_count" yaml:"customer_count"`
	OrderCount              int                `json:"order_count" yaml:"order_count"`
	RepeatCustomerRate      float64            `json:"repeat_customer_rate" yaml:"repeat_customer_rate"`
	MostProfitableCategory  CategoryRevenue    `json:"most_profitable_category" yaml:"most_profitable_category"`
	RevenueByCategory       KeyedValues        `json:"revenue_by_category" yaml:"revenue_by_category"`
	MonthlyRevenue          KeyedValues        `json:"monthly_revenue" yaml:"monthly_revenue"`
	MonthlyGrowth           KeyedValues        `json:"monthly_growth" yaml:"monthly_growth"`
	OrderStatusDistribution StatusDistribution `json:"order_status_distribution" yaml:"order_status_distribution"`
	AvgOrderSizeByCategory  KeyedValues        `json:"avg_order_size_by_category" yaml:"avg_order_size_by_category"`
	CustomerSegments        CustomerSegments   `json:"customer_segments" yaml:"customer_segments"`
	TopCustomers            []CustomerStat     `json:"top_customers" yaml:"top_customers"`
	TopProducts             []ProductStat      `json:"top_products" yaml:"top_products"`
	OutlierCount            int                `json:"outlier_count" yaml:"outlier_count"`
}

// ExportResult records the outcome of writing one artifact.
type ExportResult struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Records int    `json:"records"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AmountGroup holds the order amounts of one category, for
// distribution charts.
type AmountGroup struct {
	Category string
	Amounts  []float64
}

// RunManifest lists the artifacts one pipeline run produced.
type RunManifest struct {
	RunID       string         `json:"run_id"`
	Source      string         `json:"source"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	CleanOrders int            `json:"clean_orders"`
	Exports     []ExportResult `json:"exports"`
}

// Failed returns the exports that did not succeed.
func (m *RunManifest) Failed() []ExportResult {
	var out []ExportResult
	for _, e := range m.Exports {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out
}
