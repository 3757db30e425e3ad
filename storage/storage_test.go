package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/models"
	"sales-analytics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

const sampleCSV = "order_id,customer_id,order_date,product_category,product_name,quantity,unit_price,order_amount,status\n" +
	"ORD1,CUST1,2023-01-05,Books,Atlas,2,10.5,21,completed\n" +
	"ORD2,CUST2,05/02/2023,Toys,Kite,,3,3,\n" +
	"\n" +
	"ORD3,CUST3\n"

func TestCSVReaderTypesCells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...), 0644))

	ds, err := NewCSVReader(newTestLogger()).Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, models.Schema, ds.Columns, "BOM must not leak into the first header")
	require.Len(t, ds.Rows, 3, "blank lines are skipped")

	first := ds.Rows[0]
	assert.Equal(t, "ORD1", first[models.ColOrderID])
	assert.Equal(t, 2, first[models.ColQuantity])
	assert.Equal(t, 10.5, first[models.ColUnitPrice])
	assert.Equal(t, 21, first[models.ColOrderAmount])

	assert.Nil(t, ds.Rows[1][models.ColQuantity])
	assert.Nil(t, ds.Rows[1][models.ColStatus])

	short := ds.Rows[2]
	assert.Contains(t, short, models.ColStatus)
	assert.Nil(t, short[models.ColStatus])
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(newTestLogger()).Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestOpenSourceByExtension(t *testing.T) {
	r, err := OpenSource("data/sales.CSV", newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &CSVReader{}, r)

	r, err = OpenSource("data/sales.xlsx", newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &XLSXReader{}, r)

	_, err = OpenSource("data/sales.parquet", newTestLogger())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func sampleDataset() *models.Dataset {
	date := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.NewDataset([]*models.Order{
		{OrderID: "ORD1", CustomerID: "CUST1", OrderDate: date, ProductCategory: "Books", ProductName: "Atlas",
			Quantity: 2, UnitPrice: 10.5, OrderAmount: 21, Status: models.StatusCompleted},
		{OrderID: "ORD2", CustomerID: "CUST2", OrderDate: date.AddDate(0, 1, 0), ProductCategory: "Toys", ProductName: "Kite",
			Quantity: 1, UnitPrice: 3.25, OrderAmount: 3.25, Status: models.StatusPending},
	}, models.Schema)
}

func TestCSVWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.WriteTable(CleanSalesTable(sampleDataset())))
	require.NoError(t, w.Close())
	assert.Equal(t, filepath.Join(dir, "sales_clean.csv"), w.Path(TableCleanSales))

	content, err := os.ReadFile(w.Path(TableCleanSales))
	require.NoError(t, err)
	assert.Contains(t, string(content), "ORD1,CUST1,2023-03-01,Books,Atlas,2,10.5,21,completed\n")

	ds, err := NewCSVReader(newTestLogger()).Read(context.Background(), w.Path(TableCleanSales))
	require.NoError(t, err)
	assert.Equal(t, models.Schema, ds.Columns)
	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, 3.25, ds.Rows[1][models.ColOrderAmount])
}

func sampleReport() *models.AnalyticsReport {
	return &models.AnalyticsReport{
		TotalRevenue:      24.25,
		RevenueByCategory: models.KeyedValues{{Key: "Toys", Value: 20}, {Key: "Books", Value: 4.25}},
		TopCustomers: []models.CustomerStat{
			{CustomerID: "CUST1", LifetimeValue: 20, OrderCount: 2, AvgOrderValue: 10},
		},
		TopProducts: []models.ProductStat{
			{ProductCategory: "Toys", ProductName: "Kite", Revenue: 20, Quantity: 4, OrderCount: 2},
		},
	}
}

func TestTopListTables(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.WriteTable(TopCustomersTable(sampleReport())))
	require.NoError(t, w.WriteTable(TopProductsTable(sampleReport())))

	customers, err := os.ReadFile(filepath.Join(dir, "top_customers.csv"))
	require.NoError(t, err)
	assert.Equal(t, "customer_id,lifetime_value,order_count,avg_order_value\nCUST1,20,2,10\n", string(customers))

	products, err := os.ReadFile(filepath.Join(dir, "top_products.csv"))
	require.NoError(t, err)
	assert.Equal(t, "product_category,product_name,revenue,quantity,order_count\nToys,Kite,20,4,2\n", string(products))
}

func TestXLSXWriterAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sales.xlsx")
	w, err := NewXLSXWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteTable(CleanSalesTable(sampleDataset())))
	require.NoError(t, w.WriteTable(TopCustomersTable(sampleReport())))
	require.NoError(t, w.Close())

	ds, err := NewXLSXReader(newTestLogger()).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, models.Schema, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "ORD1", ds.Rows[0][models.ColOrderID])
	assert.Equal(t, "2023-03-01", ds.Rows[0][models.ColOrderDate])
	assert.Equal(t, 2, ds.Rows[0][models.ColQuantity])
	assert.Equal(t, 10.5, ds.Rows[0][models.ColUnitPrice])
}

func TestReportWriterJSONKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	require.NoError(t, NewFileReportWriter().WriteReport(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"revenue_by_category\": {\n    \"Toys\": 20,\n    \"Books\": 4.25\n  }")

	var back models.AnalyticsReport
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sampleReport().RevenueByCategory, back.RevenueByCategory)
	assert.Equal(t, 24.25, back.TotalRevenue)
}

func TestReportWriterYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, NewFileReportWriter().WriteReport(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "total_revenue: 24.25\n")
	assert.Contains(t, string(data), "revenue_by_category:\n  Toys: 20\n  Books: 4.25\n")
}

func TestReportWriterRejectsUnknownExtension(t *testing.T) {
	err := NewFileReportWriter().WriteReport(filepath.Join(t.TempDir(), "analytics.xml"), sampleReport())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary_report.txt")
	require.NoError(t, WriteText(path, "hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteSourceRoundTrip(t *testing.T) {
	raw := &models.RawDataset{
		Source:  "test",
		Columns: []string{models.ColOrderID, models.ColQuantity, models.ColStatus},
		Rows: []models.RawRecord{
			{models.ColOrderID: "ORD1", models.ColQuantity: 3, models.ColStatus: "completed"},
			{models.ColOrderID: "ORD2", models.ColQuantity: 1, models.ColStatus: nil},
		},
	}

	for _, name := range []string{"sales.csv", "sales.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", name)
			require.NoError(t, WriteSource(path, raw))

			reader, err := OpenSource(path, newTestLogger())
			require.NoError(t, err)
			got, err := reader.Read(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, raw.Columns, got.Columns)
			require.Len(t, got.Rows, 2)
			assert.Equal(t, "ORD2", got.Rows[1][models.ColOrderID])
			assert.Equal(t, 3, got.Rows[0][models.ColQuantity])
			assert.True(t, utils.IsMissing(got.Rows[1][models.ColStatus]))
		})
	}

	err := WriteSource(filepath.Join(t.TempDir(), "sales.parquet"), raw)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
