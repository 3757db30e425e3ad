package services

import (
	"fmt"
	"math/rand"
	"time"

	"sales-analytics/models"
)

var catalog = []struct {
	category string
	products []string
}{
	{"Electronics", []string{"Laptop", "Phone", "Tablet", "Headphones"}},
	{"Clothing", []string{"T-Shirt", "Jeans", "Jacket", "Shoes"}},
	{"Home & Garden", []string{"Lamp", "Plant", "Cushion", "Rug"}},
	{"Sports", []string{"Yoga Mat", "Dumbbell", "Running Shoes", "Bike"}},
	{"Books", []string{"Fiction", "Science", "History", "Art"}},
}

// statusWeights gives the cumulative share of each generated status. The
// remaining 5% of rows get no status at all.
var statusWeights = []struct {
	status string
	upTo   float64
}{
	{models.StatusCompleted, 0.70},
	{models.StatusPending, 0.85},
	{models.StatusCancelled, 0.95},
}

var generatorStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateSales builds n synthetic orders spread over 2023. The same seed
// always yields the same rows.
func GenerateSales(n int, seed int64) *models.RawDataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &models.RawDataset{
		Source:  "generated",
		Columns: append([]string(nil), models.Schema...),
		Rows:    make([]models.RawRecord, 0, max(n, 0)),
	}

	for i := 0; i < n; i++ {
		entry := catalog[rng.Intn(len(catalog))]
		product := entry.products[rng.Intn(len(entry.products))]
		qty := 1 + rng.Intn(4)
		unitPrice := round2(10 + rng.Float64()*490)

		var status any
		roll := rng.Float64()
		for _, w := range statusWeights {
			if roll < w.upTo {
				status = w.status
				break
			}
		}

		ds.Rows = append(ds.Rows, models.RawRecord{
			models.ColOrderID:         fmt.Sprintf("ORD%d", 1000+i),
			models.ColCustomerID:      fmt.Sprintf("CUST%d", 1+rng.Intn(49)),
			models.ColOrderDate:       generatorStart.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02"),
			models.ColProductCategory: entry.category,
			models.ColProductName:     product,
			models.ColQuantity:        qty,
			models.ColUnitPrice:       unitPrice,
			models.ColOrderAmount:     round2(float64(qty) * unitPrice),
			models.ColStatus:          status,
		})
	}
	return ds
}
