package services

import (
	"sort"

	"github.com/samber/lo"

	"sales-analytics/models"
	"sales-analytics/utils"
)

const (
	topListSize = 10
	monthLayout = "2006-01"
)

// AnalyticsEngine computes the aggregate metrics of a cleaned dataset.
// Every method is a pure function of its input; the dataset is never
// modified.
type AnalyticsEngine struct {
	logger *utils.Logger
}

func NewAnalyticsEngine(logger *utils.Logger) *AnalyticsEngine {
	return &AnalyticsEngine{logger: logger}
}

// Compute builds the full report. Revenue metrics only look at completed
// orders; customer count, order count and the status distribution look at
// every row. Missing columns or an empty dataset give zero values.
func (e *AnalyticsEngine) Compute(ds *models.Dataset) *models.AnalyticsReport {
	if ds == nil {
		ds = models.NewDataset(nil, nil)
	}
	completed := completedOrders(ds)

	report := &models.AnalyticsReport{
		OrderCount:              ds.Len(),
		RevenueByCategory:       models.KeyedValues{},
		MonthlyRevenue:          models.KeyedValues{},
		MonthlyGrowth:           models.KeyedValues{},
		AvgOrderSizeByCategory:  models.KeyedValues{},
		OrderStatusDistribution: statusDistribution(ds),
		CustomerSegments:        emptySegments(),
		TopCustomers:            []models.CustomerStat{},
		TopProducts:             []models.ProductStat{},
	}

	if ds.Has(models.ColCustomerID) {
		report.CustomerCount = len(lo.UniqBy(ds.Orders, func(o *models.Order) string { return o.CustomerID }))
	}

	if ds.Has(models.ColOrderAmount) {
		amounts := amountsOf(completed)
		var total float64
		for _, a := range amounts {
			total += a
		}
		report.TotalRevenue = round2(total)
		report.AverageOrderValue = round2(mean(amounts))
		report.OutlierCount = countOutliers(amounts, outlierFence)
	}

	byCategory := e.RevenueByCategory(ds)
	report.RevenueByCategory = roundValues(byCategory)
	if len(byCategory) > 0 {
		report.MostProfitableCategory = models.CategoryRevenue{
			Name:    byCategory[0].Key,
			Revenue: round2(byCategory[0].Value),
		}
	}

	monthly := e.MonthlyRevenue(ds)
	report.MonthlyRevenue = roundValues(monthly)
	report.MonthlyGrowth = monthlyGrowth(monthly)

	if ds.Has(models.ColCustomerID, models.ColOrderAmount) {
		customers := customerTotals(completed)
		report.TopCustomers = topCustomers(customers)
		report.CustomerSegments = segmentCustomers(customers)
	}
	if ds.Has(models.ColCustomerID) {
		report.RepeatCustomerRate = repeatRate(completed)
	}
	if ds.Has(models.ColProductCategory, models.ColProductName, models.ColOrderAmount, models.ColQuantity) {
		report.TopProducts = topProducts(completed)
	}
	if ds.Has(models.ColProductCategory, models.ColQuantity) {
		report.AvgOrderSizeByCategory = avgOrderSize(completed)
	}

	e.logger.Info("[analytics] Computed report: %d orders, %d completed, revenue %.2f",
		report.OrderCount, len(completed), report.TotalRevenue)
	return report
}

// RevenueByCategory sums completed amounts per category, highest first.
// Values are not rounded.
func (e *AnalyticsEngine) RevenueByCategory(ds *models.Dataset) models.KeyedValues {
	if ds == nil || !ds.Has(models.ColProductCategory, models.ColOrderAmount) {
		return models.KeyedValues{}
	}
	sums := sumBy(completedOrders(ds), func(o *models.Order) string { return o.ProductCategory })
	sort.SliceStable(sums, func(i, j int) bool { return sums[i].Value > sums[j].Value })
	return sums
}

// MonthlyRevenue sums completed amounts per calendar month (YYYY-MM),
// oldest first. Values are not rounded.
func (e *AnalyticsEngine) MonthlyRevenue(ds *models.Dataset) models.KeyedValues {
	if ds == nil || !ds.Has(models.ColOrderDate, models.ColOrderAmount) {
		return models.KeyedValues{}
	}
	dated := lo.Filter(completedOrders(ds), func(o *models.Order, _ int) bool { return !o.OrderDate.IsZero() })
	return sumBy(dated, func(o *models.Order) string { return o.OrderDate.Format(monthLayout) })
}

// OrderAmounts returns the amount of every cleaned order, whatever its
// status, in dataset order.
func (e *AnalyticsEngine) OrderAmounts(ds *models.Dataset) []float64 {
	if ds == nil || !ds.Has(models.ColOrderAmount) {
		return nil
	}
	return amountsOf(ds.Orders)
}

// AmountsByCategory groups the amounts of every cleaned order per category,
// in ascending category order.
func (e *AnalyticsEngine) AmountsByCategory(ds *models.Dataset) []models.AmountGroup {
	if ds == nil || !ds.Has(models.ColProductCategory, models.ColOrderAmount) {
		return nil
	}
	grouped := lo.GroupBy(ds.Orders, func(o *models.Order) string { return o.ProductCategory })
	keys := lo.Keys(grouped)
	sort.Strings(keys)

	groups := make([]models.AmountGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, models.AmountGroup{Category: k, Amounts: amountsOf(grouped[k])})
	}
	return groups
}

// completedOrders returns the rows that count toward revenue. Without a
// status column every row counts.
func completedOrders(ds *models.Dataset) []*models.Order {
	if !ds.Has(models.ColStatus) {
		return ds.Orders
	}
	return lo.Filter(ds.Orders, func(o *models.Order, _ int) bool { return o.IsCompleted() })
}

func amountsOf(orders []*models.Order) []float64 {
	return lo.Map(orders, func(o *models.Order, _ int) float64 { return o.OrderAmount })
}

// sumBy totals order amounts per key, in ascending key order.
func sumBy(orders []*models.Order, key func(*models.Order) string) models.KeyedValues {
	totals := make(map[string]float64)
	for _, o := range orders {
		totals[key(o)] += o.OrderAmount
	}
	keys := lo.Keys(totals)
	sort.Strings(keys)

	out := make(models.KeyedValues, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.KeyedValue{Key: k, Value: totals[k]})
	}
	return out
}

func roundValues(kv models.KeyedValues) models.KeyedValues {
	out := make(models.KeyedValues, len(kv))
	for i, v := range kv {
		out[i] = models.KeyedValue{Key: v.Key, Value: round2(v.Value)}
	}
	return out
}

// monthlyGrowth is the percent change against the previous month of the
// series. The first month, and any month following a zero month, has no
// value.
func monthlyGrowth(monthly models.KeyedValues) models.KeyedValues {
	growth := models.KeyedValues{}
	for i := 1; i < len(monthly); i++ {
		prev := monthly[i-1].Value
		if prev == 0 {
			continue
		}
		pct := (monthly[i].Value - prev) / prev * 100
		growth = append(growth, models.KeyedValue{Key: monthly[i].Key, Value: round2(pct)})
	}
	return growth
}

// statusDistribution counts every row per status, most frequent first.
func statusDistribution(ds *models.Dataset) models.StatusDistribution {
	dist := models.StatusDistribution{Count: models.KeyedCounts{}, Percentage: models.KeyedValues{}}
	if !ds.Has(models.ColStatus) || ds.Len() == 0 {
		return dist
	}

	counts := lo.CountValuesBy(ds.Orders, func(o *models.Order) string { return o.Status })
	for status, n := range counts {
		dist.Count = append(dist.Count, models.KeyedCount{Key: status, Count: n})
	}
	sort.Slice(dist.Count, func(i, j int) bool {
		if dist.Count[i].Count != dist.Count[j].Count {
			return dist.Count[i].Count > dist.Count[j].Count
		}
		return dist.Count[i].Key < dist.Count[j].Key
	})

	total := float64(ds.Len())
	for _, c := range dist.Count {
		dist.Percentage = append(dist.Percentage, models.KeyedValue{
			Key:   c.Key,
			Value: round2(float64(c.Count) / total * 100),
		})
	}
	return dist
}

type customerTotal struct {
	id     string
	spend  float64
	orders int
}

// customerTotals aggregates completed spend per customer, in ascending
// customer id order.
func customerTotals(completed []*models.Order) []customerTotal {
	byID := make(map[string]*customerTotal)
	for _, o := range completed {
		ct, ok := byID[o.CustomerID]
		if !ok {
			ct = &customerTotal{id: o.CustomerID}
			byID[o.CustomerID] = ct
		}
		ct.spend += o.OrderAmount
		ct.orders++
	}

	ids := lo.Keys(byID)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) customerTotal { return *byID[id] })
}

func topCustomers(customers []customerTotal) []models.CustomerStat {
	ranked := append([]customerTotal(nil), customers...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].spend > ranked[j].spend })
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}

	return lo.Map(ranked, func(c customerTotal, _ int) models.CustomerStat {
		return models.CustomerStat{
			CustomerID:    c.id,
			LifetimeValue: round2(c.spend),
			OrderCount:    c.orders,
			AvgOrderValue: round2(c.spend / float64(c.orders)),
		}
	})
}

func topProducts(completed []*models.Order) []models.ProductStat {
	type productKey struct{ category, name string }
	byKey := make(map[productKey]*models.ProductStat)
	for _, o := range completed {
		k := productKey{o.ProductCategory, o.ProductName}
		ps, ok := byKey[k]
		if !ok {
			ps = &models.ProductStat{ProductCategory: k.category, ProductName: k.name}
			byKey[k] = ps
		}
		ps.Revenue += o.OrderAmount
		ps.Quantity += o.Quantity
		ps.OrderCount++
	}

	keys := lo.Keys(byKey)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].name < keys[j].name
	})
	ranked := lo.Map(keys, func(k productKey, _ int) models.ProductStat { return *byKey[k] })
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	for i := range ranked {
		ranked[i].Revenue = round2(ranked[i].Revenue)
	}
	return ranked
}

// avgOrderSize is the mean quantity per category, ascending by category.
func avgOrderSize(completed []*models.Order) models.KeyedValues {
	grouped := lo.GroupBy(completed, func(o *models.Order) string { return o.ProductCategory })
	keys := lo.Keys(grouped)
	sort.Strings(keys)

	out := make(models.KeyedValues, 0, len(keys))
	for _, k := range keys {
		qty := lo.SumBy(grouped[k], func(o *models.Order) int { return o.Quantity })
		out = append(out, models.KeyedValue{Key: k, Value: round2(float64(qty) / float64(len(grouped[k])))})
	}
	return out
}

func emptySegments() models.CustomerSegments {
	return models.CustomerSegments{
		CustomerCount: models.KeyedCounts{},
		TotalRevenue:  models.KeyedValues{},
		AvgSpending:   models.KeyedValues{},
	}
}

// tierFor places spend against the p70/p90 thresholds.
func tierFor(spend, p70, p90 float64) string {
	switch {
	case spend >= p90:
		return models.TierPremium
	case spend >= p70:
		return models.TierRegular
	default:
		return models.TierLow
	}
}

// segmentCustomers splits customers into spending tiers. Each customer lands
// in exactly one tier; empty tiers are left out.
func segmentCustomers(customers []customerTotal) models.CustomerSegments {
	seg := emptySegments()
	if len(customers) == 0 {
		return seg
	}

	spends := lo.Map(customers, func(c customerTotal, _ int) float64 { return c.spend })
	p70 := utils.Quantile(spends, 0.70)
	p90 := utils.Quantile(spends, 0.90)

	byTier := lo.GroupBy(customers, func(c customerTotal) string { return tierFor(c.spend, p70, p90) })
	for _, tier := range models.Tiers {
		members, ok := byTier[tier]
		if !ok {
			continue
		}
		total := lo.SumBy(members, func(c customerTotal) float64 { return c.spend })
		seg.CustomerCount = append(seg.CustomerCount, models.KeyedCount{Key: tier, Count: len(members)})
		seg.TotalRevenue = append(seg.TotalRevenue, models.KeyedValue{Key: tier, Value: round2(total)})
		seg.AvgSpending = append(seg.AvgSpending, models.KeyedValue{Key: tier, Value: round2(total / float64(len(members)))})
	}
	return seg
}

// repeatRate is the share of completed customers with more than one
// completed order, as a percentage.
func repeatRate(completed []*models.Order) float64 {
	perCustomer := lo.CountValuesBy(completed, func(o *models.Order) string { return o.CustomerID })
	if len(perCustomer) == 0 {
		return 0
	}
	repeat := lo.CountBy(lo.Values(perCustomer), func(n int) bool { return n > 1 })
	return round2(float64(repeat) / float64(len(perCustomer)) * 100)
}
