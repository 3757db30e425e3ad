package charts

import (
	"math"

	"sales-analytics/models"
	"sales-analytics/utils"
)

// Chart file names, without extension.
const (
	RevenueByCategory      = "revenue_by_category"
	MonthlyRevenueTrend    = "monthly_revenue_trend"
	OrderValueDistribution = "order_value_distribution"
	CategoryBoxplot        = "category_boxplot"
)

const histogramBins = 30

// Input is everything the charts are drawn from.
type Input struct {
	RevenueByCategory models.KeyedValues
	MonthlyRevenue    models.KeyedValues
	OrderAmounts      []float64
	AmountsByCategory []models.AmountGroup
}

// Build renders every chart that has data, keyed by file name.
func Build(in Input) map[string][]byte {
	out := make(map[string][]byte, 4)
	if len(in.RevenueByCategory) > 0 {
		out[RevenueByCategory] = BarChart(in.RevenueByCategory)
	}
	if len(in.MonthlyRevenue) > 0 {
		out[MonthlyRevenueTrend] = LineChart(in.MonthlyRevenue)
	}
	if len(in.OrderAmounts) > 0 {
		out[OrderValueDistribution] = Histogram(in.OrderAmounts, histogramBins)
	}
	if len(in.AmountsByCategory) > 0 {
		out[CategoryBoxplot] = BoxPlot(in.AmountsByCategory)
	}
	return out
}

// BarChart draws revenue per category, in the given order.
func BarChart(kv models.KeyedValues) []byte {
	c := newCanvas("Revenue by Product Category")
	top := 0.0
	for _, e := range kv {
		top = math.Max(top, e.Value)
	}
	c.setYRange(0, top)
	c.axes("Product Category", "Revenue ($)", dollars)

	slot := c.plotWidth() / float64(max(len(kv), 1))
	for i, e := range kv {
		x := marginLeft + slot*float64(i) + slot*0.15
		y := c.y(e.Value)
		c.rect(x, y, slot*0.7, c.y(0)-y, palette[i*len(palette)/max(len(kv), 1)], "none")
		c.rotatedLabel(x+slot*0.35, e.Key)
	}
	return c.bytes()
}

// LineChart draws the monthly revenue series with a shaded area under it.
func LineChart(kv models.KeyedValues) []byte {
	const color = "#2E86AB"
	c := newCanvas("Monthly Revenue Trend")
	top := 0.0
	for _, e := range kv {
		top = math.Max(top, e.Value)
	}
	c.setYRange(0, top)
	c.axes("Month", "Revenue ($)", dollars)
	if len(kv) == 0 {
		return c.bytes()
	}

	step := c.plotWidth() / float64(max(len(kv), 1))
	points := make([][2]float64, len(kv))
	for i, e := range kv {
		points[i] = [2]float64{marginLeft + step*(float64(i)+0.5), c.y(e.Value)}
	}

	area := append([][2]float64{{points[0][0], c.y(0)}}, points...)
	area = append(area, [2]float64{points[len(points)-1][0], c.y(0)})
	c.polygon(area, color, 0.3)
	c.polyline(points, color)
	for i, p := range points {
		c.circle(p[0], p[1], 4, color)
		c.rotatedLabel(p[0], kv[i].Key)
	}
	return c.bytes()
}

// Histogram draws the distribution of values over equal-width bins.
func Histogram(values []float64, bins int) []byte {
	counts, lo, binWidth := histogram(values, bins)

	c := newCanvas("Distribution of Order Values")
	top := 0
	for _, n := range counts {
		top = max(top, n)
	}
	c.setYRange(0, float64(top))
	c.axes("Order Amount ($)", "Frequency", plain)

	slot := c.plotWidth() / float64(len(counts))
	for i, n := range counts {
		x := marginLeft + slot*float64(i)
		y := c.y(float64(n))
		c.rect(x, y, slot, c.y(0)-y, "#E94560", "#ffffff")
		if i%5 == 0 {
			c.rotatedLabel(x, dollars(lo+binWidth*float64(i)))
		}
	}
	return c.bytes()
}

// histogram counts values into bins of equal width between the minimum and
// maximum. The maximum lands in the last bin.
func histogram(values []float64, bins int) (counts []int, lo, binWidth float64) {
	if bins < 1 {
		bins = 1
	}
	counts = make([]int, bins)
	if len(values) == 0 {
		return counts, 0, 1
	}

	lo = values[0]
	hi := values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	binWidth = (hi - lo) / float64(bins)
	if binWidth == 0 {
		counts[bins/2] = len(values)
		return counts, lo, 1
	}
	for _, v := range values {
		idx := int((v - lo) / binWidth)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts, lo, binWidth
}

// boxStats are the five numbers a box plot is drawn from. Whiskers reach
// the furthest points within 1.5 IQR of the box.
type boxStats struct {
	q1, median, q3      float64
	lowWhisk, highWhisk float64
	outliers            []float64
}

func summarize(values []float64) boxStats {
	s := boxStats{
		q1:     utils.Quantile(values, 0.25),
		median: utils.Quantile(values, 0.5),
		q3:     utils.Quantile(values, 0.75),
	}
	iqr := s.q3 - s.q1
	lowFence, highFence := s.q1-1.5*iqr, s.q3+1.5*iqr

	s.lowWhisk, s.highWhisk = s.q1, s.q3
	for _, v := range values {
		if v < lowFence || v > highFence {
			s.outliers = append(s.outliers, v)
			continue
		}
		s.lowWhisk = math.Min(s.lowWhisk, v)
		s.highWhisk = math.Max(s.highWhisk, v)
	}
	return s
}

// BoxPlot draws one box per category.
func BoxPlot(groups []models.AmountGroup) []byte {
	c := newCanvas("Order Value Distribution by Category")
	top := 0.0
	for _, g := range groups {
		for _, v := range g.Amounts {
			top = math.Max(top, v)
		}
	}
	c.setYRange(0, top)
	c.axes("Product Category", "Order Amount ($)", dollars)

	slot := c.plotWidth() / float64(max(len(groups), 1))
	for i, g := range groups {
		center := marginLeft + slot*(float64(i)+0.5)
		c.rotatedLabel(center, g.Category)
		if len(g.Amounts) == 0 {
			continue
		}

		s := summarize(g.Amounts)
		half := slot * 0.25
		color := palette[i*len(palette)/max(len(groups), 1)]

		c.line(center, c.y(s.lowWhisk), center, c.y(s.q1), "#333333", 1)
		c.line(center, c.y(s.q3), center, c.y(s.highWhisk), "#333333", 1)
		c.line(center-half/2, c.y(s.lowWhisk), center+half/2, c.y(s.lowWhisk), "#333333", 1)
		c.line(center-half/2, c.y(s.highWhisk), center+half/2, c.y(s.highWhisk), "#333333", 1)
		c.rect(center-half, c.y(s.q3), 2*half, c.y(s.q1)-c.y(s.q3), color, "#333333")
		c.line(center-half, c.y(s.median), center+half, c.y(s.median), "#ffffff", 2)
		for _, o := range s.outliers {
			c.circle(center, c.y(o), 3, "#999999")
		}
	}
	return c.bytes()
}
