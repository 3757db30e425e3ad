package services

import (
	"math"

	"github.com/shopspring/decimal"

	"sales-analytics/utils"
)

// outlierFence is the Tukey multiplier applied to the IQR.
const outlierFence = 2.0

// countOutliers counts values strictly outside [Q1 - k·IQR, Q3 + k·IQR].
// A zero IQR yields zero outliers.
func countOutliers(values []float64, k float64) int {
	if len(values) == 0 {
		return 0
	}
	q1 := utils.Quantile(values, 0.25)
	q3 := utils.Quantile(values, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return 0
	}

	low, high := q1-k*iqr, q3+k*iqr
	count := 0
	for _, v := range values {
		if v < low || v > high {
			count++
		}
	}
	return count
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
