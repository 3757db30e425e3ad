package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"sales-analytics/models"
	"sales-analytics/utils"
)

var numericColumns = []string{models.ColOrderAmount, models.ColUnitPrice, models.ColQuantity}

// Cleaner transforms a raw dataset into clean, validated orders.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// dropStats counts rows removed per cleaning rule.
type dropStats struct {
	quantity  int
	amount    int
	date      int
	identity  int
	duplicate int
}

func (d dropStats) total() int {
	return d.quantity + d.amount + d.date + d.identity + d.duplicate
}

// Clean normalises every raw row and filters out the ones that break the
// dataset invariants. Steps run in a fixed order: status, string trimming,
// numeric coercion, quantity filter, amount filter, date filter and finally
// order_id de-duplication (first occurrence wins). raw is not modified.
// Rules for a column are skipped when the column is absent from the source.
func (c *Cleaner) Clean(raw *models.RawDataset) *models.Dataset {
	if raw == nil {
		return models.NewDataset(nil, nil)
	}

	has := func(col string) bool { return raw.Has(col) }
	seen := utils.NewKeySet()
	var drops dropStats
	orders := make([]*models.Order, 0, len(raw.Rows))

	for _, rec := range raw.Rows {
		o := &models.Order{}

		if has(models.ColStatus) {
			o.Status = models.NormalizeStatus(utils.ToString(rec[models.ColStatus]))
		}

		o.ProductCategory = utils.ToString(rec[models.ColProductCategory])
		o.ProductName = utils.ToString(rec[models.ColProductName])
		o.CustomerID = utils.ToString(rec[models.ColCustomerID])
		o.OrderID = utils.ToString(rec[models.ColOrderID])

		o.OrderAmount = coerceNumber(rec[models.ColOrderAmount])
		o.UnitPrice = math.Max(coerceNumber(rec[models.ColUnitPrice]), 0)
		o.Quantity = coerceQuantity(rec[models.ColQuantity])

		if has(models.ColQuantity) && o.Quantity <= 0 {
			drops.quantity++
			continue
		}
		if has(models.ColOrderAmount) && o.OrderAmount < 0 {
			drops.amount++
			continue
		}
		if has(models.ColOrderDate) {
			date, ok := utils.ParseDate(rec[models.ColOrderDate])
			if !ok {
				drops.date++
				continue
			}
			o.OrderDate = date
		}
		if (has(models.ColOrderID) && o.OrderID == "") || (has(models.ColCustomerID) && o.CustomerID == "") {
			drops.identity++
			continue
		}
		if has(models.ColOrderID) && !seen.Add(o.OrderID) {
			c.logger.Debug("[cleaner] Duplicate order skipped: %s", o.OrderID)
			drops.duplicate++
			continue
		}

		orders = append(orders, o)
	}

	if drops.total() > 0 {
		c.logger.Debug("[cleaner] Dropped rows: quantity=%d amount=%d date=%d identity=%d duplicate=%d",
			drops.quantity, drops.amount, drops.date, drops.identity, drops.duplicate)
	}
	c.logger.Info("[cleaner] Cleaned %d → %d orders (dropped %d)",
		len(raw.Rows), len(orders), drops.total())

	return models.NewDataset(orders, raw.Columns)
}

// Inspect summarises the raw dataset: its shape, missing values per column
// and the number of rows that repeat an earlier row exactly.
func (c *Cleaner) Inspect(raw *models.RawDataset) *models.Inspection {
	info := &models.Inspection{
		MissingValues: make(map[string]int),
	}
	if raw == nil {
		return info
	}

	info.Rows = len(raw.Rows)
	info.Columns = len(raw.Columns)
	info.ColumnNames = append([]string(nil), raw.Columns...)
	for _, col := range raw.Columns {
		info.MissingValues[col] = 0
	}

	seen := utils.NewKeySet()
	for _, rec := range raw.Rows {
		var key strings.Builder
		for _, col := range raw.Columns {
			v := rec[col]
			if isMissingCell(col, v) {
				info.MissingValues[col]++
			}
			fmt.Fprintf(&key, "%v\x1f", v)
		}
		if !seen.Add(key.String()) {
			info.Duplicates++
		}
	}

	c.logger.Debug("[cleaner] Inspected %d rows × %d columns, %d distinct, %d duplicates",
		info.Rows, info.Columns, seen.Size(), info.Duplicates)
	return info
}

// isMissingCell treats unparseable numbers and dates as missing, the same
// way they are typed at load time.
func isMissingCell(col string, v any) bool {
	if utils.IsMissing(v) {
		return true
	}
	if lo.Contains(numericColumns, col) {
		_, ok := utils.ToFloat(v)
		return !ok
	}
	if col == models.ColOrderDate {
		_, ok := utils.ParseDate(v)
		return !ok
	}
	return false
}

// coerceNumber returns v as a float, or 0 when it does not parse.
func coerceNumber(v any) float64 {
	f, ok := utils.ToFloat(v)
	if !ok {
		return 0
	}
	return f
}

// coerceQuantity returns v as a whole number; fractional or unparseable
// quantities become 0.
func coerceQuantity(v any) int {
	f, ok := utils.ToFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}
