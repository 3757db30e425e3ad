package storage

import (
	"fmt"
	"strconv"
	"time"

	"sales-analytics/models"
)

// Table names used for exports.
const (
	TableCleanSales   = "sales_clean"
	TableTopCustomers = "top_customers"
	TableTopProducts  = "top_products"
)

// Table is a named header plus rows of typed cells, ready for any
// TableWriter.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// CleanSalesTable converts the cleaned dataset into a table holding the
// columns present in the source, in schema order.
func CleanSalesTable(ds *models.Dataset) *Table {
	return RawTable(TableCleanSales, ds.ToRaw())
}

// TopCustomersTable lists the report's top customers.
func TopCustomersTable(r *models.AnalyticsReport) *Table {
	t := &Table{
		Name:   TableTopCustomers,
		Header: []string{"customer_id", "lifetime_value", "order_count", "avg_order_value"},
	}
	for _, c := range r.TopCustomers {
		t.Rows = append(t.Rows, []any{c.CustomerID, c.LifetimeValue, c.OrderCount, c.AvgOrderValue})
	}
	return t
}

// TopProductsTable lists the report's top products.
func TopProductsTable(r *models.AnalyticsReport) *Table {
	t := &Table{
		Name:   TableTopProducts,
		Header: []string{"product_category", "product_name", "revenue", "quantity", "order_count"},
	}
	for _, p := range r.TopProducts {
		t.Rows = append(t.Rows, []any{p.ProductCategory, p.ProductName, p.Revenue, p.Quantity, p.OrderCount})
	}
	return t
}

// formatCell renders a typed cell for text formats. Dates without a time of
// day are written as plain dates.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

// RawTable converts a raw dataset back into a table with its own header.
func RawTable(name string, raw *models.RawDataset) *Table {
	t := &Table{Name: name, Header: raw.Columns, Rows: make([][]any, 0, len(raw.Rows))}
	for _, rec := range raw.Rows {
		row := make([]any, len(raw.Columns))
		for i, col := range raw.Columns {
			row[i] = rec[col]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
