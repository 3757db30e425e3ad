package models

import "time"

// Column names of the transaction schema.
const (
	ColOrderID         = "order_id"
	ColCustomerID      = "customer_id"
	ColOrderDate       = "order_date"
	ColProductCategory = "product_category"
	ColProductName     = "product_name"
	ColQuantity        = "quantity"
	ColUnitPrice       = "unit_price"
	ColOrderAmount     = "order_amount"
	ColStatus          = "status"
)

// Schema lists the transaction columns in export order.
var Schema = []string{
	ColOrderID,
	ColCustomerID,
	ColOrderDate,
	ColProductCategory,
	ColProductName,
	ColQuantity,
	ColUnitPrice,
	ColOrderAmount,
	ColStatus,
}

// Order statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// IsValidStatus reports whether s is one of the canonical statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// RawRecord is one unprocessed row keyed by column name. A missing cell is
// either an absent key or a nil value.
type RawRecord map[string]any

// RawDataset is a loaded but uncleaned record set.
type RawDataset struct {
	Source  string
	Columns []string
	Rows    []RawRecord
}

// Has reports whether every named column is present in the source header.
func (d *RawDataset) Has(cols ...string) bool {
	for _, c := range cols {
		found := false
		for _, have := range d.Columns {
			if have == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Order is one cleaned sales transaction.
type Order struct {
	OrderID         string    `json:"order_id"`
	CustomerID      string    `json:"customer_id"`
	OrderDate       time.Time `json:"order_date"`
	ProductCategory string    `json:"product_category"`
	ProductName     string    `json:"product_name"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	OrderAmount     float64   `json:"order_amount"`
	Status          string    `json:"status"`
}

// IsCompleted reports whether the order counts toward revenue metrics.
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Dataset is the cleaned record set of one pipeline run.
type Dataset struct {
	Orders  []*Order
	columns map[string]bool
}

// NewDataset creates a Dataset whose schema holds the given columns.
func NewDataset(orders []*Order, columns []string) *Dataset {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}
	return &Dataset{Orders: orders, columns: cols}
}

// Has reports whether every named column was present in the source.
func (d *Dataset) Has(cols ...string) bool {
	for _, c := range cols {
		if !d.columns[c] {
			return false
		}
	}
	return true
}

// Columns returns the schema columns present, in Schema order.
func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(Schema))
	for _, c := range Schema {
		if d.columns[c] {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of orders.
func (d *Dataset) Len() int {
	return len(d.Orders)
}

// ToRaw converts the cleaned orders back into raw records so the dataset can
// be cleaned again or written out. Only present columns are emitted.
func (d *Dataset) ToRaw() *RawDataset {
	cols := d.Columns()
	rows := make([]RawRecord, 0, len(d.Orders))
	for _, o := range d.Orders {
		full := RawRecord{
			ColOrderID:         o.OrderID,
			ColCustomerID:      o.CustomerID,
			ColOrderDate:       o.OrderDate,
			ColProductCategory: o.ProductCategory,
			ColProductName:     o.ProductName,
			ColQuantity:        o.Quantity,
			ColUnitPrice:       o.UnitPrice,
			ColOrderAmount:     o.OrderAmount,
			ColStatus:          o.Status,
		}
		rec := make(RawRecord, len(cols))
		for _, c := range cols {
			rec[c] = full[c]
		}
		rows = append(rows, rec)
	}
	return &RawDataset{Columns: cols, Rows: rows}
}

// Inspection is the diagnostic summary of a raw dataset.
type Inspection struct {
	Rows          int            `json:"rows"`
	Columns       int            `json:"columns"`
	ColumnNames   []string       `json:"column_names"`
	MissingValues map[string]int `json:"missing_values"`
	Duplicates    int            `json:"duplicates"`
}
