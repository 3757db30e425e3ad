package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-analytics/models"
	"sales-analytics/utils"
)

// money formats amounts with thousands separators.
var money = message.NewPrinter(language.English)

// ReportAssembler turns a cleaned dataset into the analytics report and
// renders it for people.
type ReportAssembler struct {
	engine *AnalyticsEngine
	logger *utils.Logger
}

func NewReportAssembler(logger *utils.Logger) *ReportAssembler {
	return &ReportAssembler{engine: NewAnalyticsEngine(logger), logger: logger}
}

// Engine exposes the aggregation engine for callers that need the
// unrounded series, such as the chart renderer.
func (a *ReportAssembler) Engine() *AnalyticsEngine {
	return a.engine
}

// Assemble recomputes the report from ds. It keeps no state between calls.
func (a *ReportAssembler) Assemble(ds *models.Dataset) *models.AnalyticsReport {
	return a.engine.Compute(ds)
}

// Summary renders the plain-text summary report.
func (a *ReportAssembler) Summary(r *models.AnalyticsReport, generatedAt time.Time) string {
	sep := strings.Repeat("=", 60)
	var b strings.Builder

	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "SALES ANALYTICS SUMMARY")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total Revenue: $%s\n", formatMoney(r.TotalRevenue))
	fmt.Fprintf(&b, "Average Order Value: $%s\n", formatMoney(r.AverageOrderValue))
	fmt.Fprintf(&b, "Total Customers: %d\n", r.CustomerCount)
	fmt.Fprintf(&b, "Total Orders: %d\n", r.OrderCount)
	fmt.Fprintf(&b, "Repeat Customer Rate: %.1f%%\n", r.RepeatCustomerRate)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Top Category: %s ($%s)\n", r.MostProfitableCategory.Name, formatMoney(r.MostProfitableCategory.Revenue))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Order Status:")
	for _, c := range r.OrderStatusDistribution.Count {
		pct, _ := r.OrderStatusDistribution.Percentage.Get(c.Key)
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", c.Key, c.Count, pct)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Outlier Orders: %d", r.OutlierCount)

	return b.String()
}

// Print writes the key insights to w with terminal colours.
func (a *ReportAssembler) Print(w io.Writer, r *models.AnalyticsReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 SALES ANALYTICS INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Key Insights\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total revenue        : \033[1;32m$%s\033[0m\n", formatMoney(r.TotalRevenue))
	fmt.Fprintf(w, "  Average order value  : \033[1;32m$%s\033[0m\n", formatMoney(r.AverageOrderValue))
	fmt.Fprintf(w, "  Customers            : \033[1m%d\033[0m\n", r.CustomerCount)
	fmt.Fprintf(w, "  Orders               : \033[1m%d\033[0m\n", r.OrderCount)
	fmt.Fprintf(w, "  Repeat customer rate : \033[1m%.1f%%\033[0m\n", r.RepeatCustomerRate)
	fmt.Fprintf(w, "  Top category         : \033[1m%s\033[0m\n", r.MostProfitableCategory.Name)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Revenue by Category\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.RevenueByCategory) == 0 {
		fmt.Fprintf(w, "  No completed orders\n")
	} else {
		top := r.RevenueByCategory[0].Value
		for _, c := range r.RevenueByCategory {
			width := 0
			if top > 0 {
				width = int(c.Value / top * 20)
			}
			fmt.Fprintf(w, "  %-18s %-20s $%s\n", truncate(c.Key, 16), strings.Repeat("█", width), formatMoney(c.Value))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top 5 Customers\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopCustomers) == 0 {
		fmt.Fprintf(w, "  No customers found\n")
	} else {
		for i, c := range r.TopCustomers {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-20s \033[1;32m$%s\033[0m (%d orders)\n",
				i+1, truncate(c.CustomerID, 20), formatMoney(c.LifetimeValue), c.OrderCount)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Order Status\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range r.OrderStatusDistribution.Count {
		pct, _ := r.OrderStatusDistribution.Percentage.Get(c.Key)
		fmt.Fprintf(w, "  %-12s %5d (%.1f%%)\n", c.Key, c.Count, pct)
	}
	fmt.Fprintf(w, "  Outlier orders: \033[1;31m%d\033[0m\n", r.OutlierCount)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func formatMoney(v float64) string {
	return money.Sprintf("%.2f", v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
