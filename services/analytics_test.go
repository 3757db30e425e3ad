package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/models"
)

func order(id, customer string, date time.Time, category, product string, qty int, amount float64, status string) *models.Order {
	return &models.Order{
		OrderID:         id,
		CustomerID:      customer,
		OrderDate:       date,
		ProductCategory: category,
		ProductName:     product,
		Quantity:        qty,
		UnitPrice:       amount / float64(qty),
		OrderAmount:     amount,
		Status:          status,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func fullDataset(orders ...*models.Order) *models.Dataset {
	return models.NewDataset(orders, models.Schema)
}

func TestAnalyticsTwoCategoryExample(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "CUST1", day(2023, 1, 1), "A", "Lamp", 2, 20, models.StatusCompleted),
		order("ORD2", "CUST2", day(2023, 1, 2), "B", "Pen", 1, 5, models.StatusCompleted),
	)

	r := e.Compute(ds)
	assert.Equal(t, 25.0, r.TotalRevenue)
	assert.Equal(t, models.KeyedValues{{Key: "A", Value: 20}, {Key: "B", Value: 5}}, r.RevenueByCategory)
	assert.Equal(t, models.CategoryRevenue{Name: "A", Revenue: 20}, r.MostProfitableCategory)
	assert.Equal(t, 12.5, r.AverageOrderValue)
	assert.Equal(t, 2, r.CustomerCount)
	assert.Equal(t, 2, r.OrderCount)
}

func TestAnalyticsSingleRepeatCustomer(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "CUST1", day(2023, 1, 1), "A", "Lamp", 1, 30, models.StatusCompleted),
		order("ORD2", "CUST1", day(2023, 1, 2), "A", "Lamp", 1, 30, models.StatusCompleted),
		order("ORD3", "CUST1", day(2023, 1, 3), "A", "Lamp", 1, 40, models.StatusCompleted),
	)

	r := e.Compute(ds)
	assert.Equal(t, 100.0, r.RepeatCustomerRate)
	require.Len(t, r.TopCustomers, 1)
	assert.Equal(t, models.CustomerStat{CustomerID: "CUST1", LifetimeValue: 100, OrderCount: 3, AvgOrderValue: 33.33}, r.TopCustomers[0])
}

func TestAnalyticsPendingCountsOnlyInStatusDistribution(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "CUST1", day(2023, 1, 1), "A", "Lamp", 1, 10, models.StatusCompleted),
		order("ORD2", "CUST2", day(2023, 1, 1), "A", "Lamp", 1, 99, models.StatusPending),
		order("ORD3", "CUST3", day(2023, 1, 1), "A", "Lamp", 1, 50, models.StatusCancelled),
		order("ORD4", "CUST3", day(2023, 1, 1), "A", "Lamp", 1, 50, models.StatusCompleted),
	)

	r := e.Compute(ds)
	assert.Equal(t, 60.0, r.TotalRevenue)
	assert.Equal(t, 3, r.CustomerCount, "customer count covers every row")
	assert.Equal(t, 4, r.OrderCount)
	assert.Equal(t, models.KeyedCounts{
		{Key: models.StatusCompleted, Count: 2},
		{Key: models.StatusCancelled, Count: 1},
		{Key: models.StatusPending, Count: 1},
	}, r.OrderStatusDistribution.Count)
	assert.Equal(t, models.KeyedValues{
		{Key: models.StatusCompleted, Value: 50},
		{Key: models.StatusCancelled, Value: 25},
		{Key: models.StatusPending, Value: 25},
	}, r.OrderStatusDistribution.Percentage)
	assert.Equal(t, 0.0, r.RepeatCustomerRate)
}

func TestAnalyticsMonthlyRevenueAndGrowth(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "C1", day(2023, 3, 5), "A", "x", 1, 150, models.StatusCompleted),
		order("ORD2", "C1", day(2023, 1, 5), "A", "x", 1, 100, models.StatusCompleted),
		order("ORD3", "C1", day(2023, 2, 5), "A", "x", 1, 120, models.StatusCompleted),
		order("ORD4", "C1", day(2023, 1, 9), "A", "x", 1, 20, models.StatusCompleted),
	)

	r := e.Compute(ds)
	assert.Equal(t, []string{"2023-01", "2023-02", "2023-03"}, r.MonthlyRevenue.Keys())
	assert.Equal(t, models.KeyedValues{{Key: "2023-02", Value: 0}, {Key: "2023-03", Value: 25}}, r.MonthlyGrowth)
}

func TestMonthlyGrowthSkipsZeroPredecessor(t *testing.T) {
	growth := monthlyGrowth(models.KeyedValues{
		{Key: "2023-01", Value: 0},
		{Key: "2023-02", Value: 30},
		{Key: "2023-03", Value: 10},
	})
	assert.Equal(t, models.KeyedValues{{Key: "2023-03", Value: -66.67}}, growth)
}

func TestAnalyticsRevenueByCategorySumsToTotal(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := NewCleaner(newTestLogger()).Clean(GenerateSales(500, 11))

	byCategory := e.RevenueByCategory(ds)
	var total float64
	for _, o := range completedOrders(ds) {
		total += o.OrderAmount
	}
	assert.InDelta(t, total, byCategory.Sum(), 1e-6)
	for i := 1; i < len(byCategory); i++ {
		assert.GreaterOrEqual(t, byCategory[i-1].Value, byCategory[i].Value)
	}
}

func TestAnalyticsTopListsAreCappedAndSorted(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	var orders []*models.Order
	for i := 0; i < 15; i++ {
		orders = append(orders, order(
			fmt.Sprintf("ORD%d", i), fmt.Sprintf("CUST%02d", i), day(2023, 1, 1),
			"Cat", fmt.Sprintf("Item%02d", i), 1, float64(10+i), models.StatusCompleted,
		))
	}
	orders = append(orders, order("ORD99", "CUST00", day(2023, 1, 1), "Cat", "Item00", 2, 100, models.StatusCompleted))

	r := e.Compute(fullDataset(orders...))
	require.Len(t, r.TopCustomers, 10)
	require.Len(t, r.TopProducts, 10)

	assert.Equal(t, "CUST00", r.TopCustomers[0].CustomerID)
	assert.Equal(t, 110.0, r.TopCustomers[0].LifetimeValue)
	assert.Equal(t, 2, r.TopCustomers[0].OrderCount)

	assert.Equal(t, models.ProductStat{
		ProductCategory: "Cat", ProductName: "Item00", Revenue: 110, Quantity: 3, OrderCount: 2,
	}, r.TopProducts[0])
	for i := 1; i < len(r.TopProducts); i++ {
		assert.GreaterOrEqual(t, r.TopProducts[i-1].Revenue, r.TopProducts[i].Revenue)
	}
}

func TestTopCustomersTiesKeepGroupingOrder(t *testing.T) {
	stats := topCustomers([]customerTotal{
		{id: "A", spend: 10, orders: 1},
		{id: "B", spend: 20, orders: 1},
		{id: "C", spend: 10, orders: 1},
	})
	ids := []string{stats[0].CustomerID, stats[1].CustomerID, stats[2].CustomerID}
	assert.Equal(t, []string{"B", "A", "C"}, ids)
}

func TestAnalyticsAvgOrderSize(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "C1", day(2023, 1, 1), "B", "x", 1, 10, models.StatusCompleted),
		order("ORD2", "C1", day(2023, 1, 1), "B", "x", 2, 10, models.StatusCompleted),
		order("ORD3", "C1", day(2023, 1, 1), "A", "x", 4, 10, models.StatusCompleted),
		order("ORD4", "C1", day(2023, 1, 1), "A", "x", 3, 10, models.StatusPending),
	)

	r := e.Compute(ds)
	assert.Equal(t, models.KeyedValues{{Key: "A", Value: 4}, {Key: "B", Value: 1.5}}, r.AvgOrderSizeByCategory)
}

func TestAnalyticsSegmentsPartitionCustomers(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	var orders []*models.Order
	for i := 1; i <= 10; i++ {
		orders = append(orders, order(
			fmt.Sprintf("ORD%d", i), fmt.Sprintf("CUST%02d", i), day(2023, 1, 1),
			"A", "x", 1, float64(i*10), models.StatusCompleted,
		))
	}

	r := e.Compute(fullDataset(orders...))
	seg := r.CustomerSegments
	assert.Equal(t, []string{models.TierPremium, models.TierRegular, models.TierLow}, seg.TotalRevenue.Keys())
	assert.Equal(t, 10, seg.CustomerCount.Total())

	// p70 = 73, p90 = 91
	premium, _ := seg.CustomerCount.Get(models.TierPremium)
	regular, _ := seg.CustomerCount.Get(models.TierRegular)
	low, _ := seg.CustomerCount.Get(models.TierLow)
	assert.Equal(t, 1, premium)
	assert.Equal(t, 2, regular)
	assert.Equal(t, 7, low)

	rev, _ := seg.TotalRevenue.Get(models.TierRegular)
	assert.Equal(t, 170.0, rev)
	avg, _ := seg.AvgSpending.Get(models.TierLow)
	assert.Equal(t, 40.0, avg)
	assert.InDelta(t, r.TotalRevenue, seg.TotalRevenue.Sum(), 1e-9)
}

func TestAnalyticsSegmentsOnGeneratedData(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := NewCleaner(newTestLogger()).Clean(GenerateSales(400, 3))

	r := e.Compute(ds)
	customers := customerTotals(completedOrders(ds))
	assert.Equal(t, len(customers), r.CustomerSegments.CustomerCount.Total())
}

func TestAnalyticsOutliers(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	var orders []*models.Order
	for i, amt := range []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 500} {
		orders = append(orders, order(fmt.Sprintf("ORD%d", i), "C", day(2023, 1, 1), "A", "x", 1, amt, models.StatusCompleted))
	}
	assert.Equal(t, 1, e.Compute(fullDataset(orders...)).OutlierCount)

	flat := []*models.Order{
		order("ORD1", "C", day(2023, 1, 1), "A", "x", 1, 5, models.StatusCompleted),
		order("ORD2", "C", day(2023, 1, 1), "A", "x", 1, 5, models.StatusCompleted),
		order("ORD3", "C", day(2023, 1, 1), "A", "x", 1, 5, models.StatusCompleted),
		order("ORD4", "C", day(2023, 1, 1), "A", "x", 1, 5, models.StatusCompleted),
		order("ORD5", "C", day(2023, 1, 1), "A", "x", 1, 5000, models.StatusCompleted),
	}
	assert.Equal(t, 0, e.Compute(fullDataset(flat...)).OutlierCount)
}

func TestAnalyticsEmptyAndMissingColumns(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())

	r := e.Compute(fullDataset())
	assert.Equal(t, 0.0, r.TotalRevenue)
	assert.Equal(t, models.CategoryRevenue{}, r.MostProfitableCategory)
	assert.Empty(t, r.RevenueByCategory)
	assert.Empty(t, r.CustomerSegments.CustomerCount)
	assert.Empty(t, r.TopCustomers)

	r = e.Compute(nil)
	assert.Equal(t, 0, r.OrderCount)

	partial := models.NewDataset([]*models.Order{{OrderID: "ORD1", OrderAmount: 12}}, []string{models.ColOrderID, models.ColOrderAmount})
	r = e.Compute(partial)
	assert.Equal(t, 12.0, r.TotalRevenue, "without a status column every row counts")
	assert.Equal(t, 0, r.CustomerCount)
	assert.Empty(t, r.RevenueByCategory)
	assert.Empty(t, r.MonthlyRevenue)
	assert.Empty(t, r.OrderStatusDistribution.Count)
}

func TestAmountsByCategory(t *testing.T) {
	e := NewAnalyticsEngine(newTestLogger())
	ds := fullDataset(
		order("ORD1", "C", day(2023, 1, 1), "B", "x", 1, 3, models.StatusCompleted),
		order("ORD2", "C", day(2023, 1, 1), "A", "x", 1, 1, models.StatusCompleted),
		order("ORD3", "C", day(2023, 1, 1), "B", "x", 1, 4, models.StatusCompleted),
		order("ORD4", "C", day(2023, 1, 1), "A", "x", 1, 9, models.StatusPending),
	)

	assert.Equal(t, []models.AmountGroup{
		{Category: "A", Amounts: []float64{1, 9}},
		{Category: "B", Amounts: []float64{3, 4}},
	}, e.AmountsByCategory(ds))
	assert.Equal(t, []float64{3, 1, 4, 9}, e.OrderAmounts(ds))
}
