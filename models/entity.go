package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"sales-analytics/utils"
)

// Product is a catalogue item.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"base_price"`
}

// Customer is a buyer with an accumulated lifetime value.
type Customer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	LifetimeValue float64 `json:"lifetime_value"`
}

// requireID trims id and rejects it when empty.
func requireID(entity, field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid(entity, field, "cannot be empty")
	}
	return id, nil
}

func requireNonNegative(entity, field string, v float64) error {
	if v < 0 || math.IsNaN(v) {
		return invalid(entity, field, "must be a non-negative number")
	}
	return nil
}

// NewProduct validates and builds a Product.
func NewProduct(id, name, category string, basePrice float64) (*Product, error) {
	id, err := requireID("product", "id", id)
	if err != nil {
		return nil, err
	}
	if name, err = requireID("product", "name", name); err != nil {
		return nil, err
	}
	if category, err = requireID("product", "category", category); err != nil {
		return nil, err
	}
	if err := requireNonNegative("product", "base_price", basePrice); err != nil {
		return nil, err
	}
	return &Product{ID: id, Name: name, Category: category, BasePrice: basePrice}, nil
}

// NewCustomer validates and builds a Customer.
func NewCustomer(id, name, email string, lifetimeValue float64) (*Customer, error) {
	id, err := requireID("customer", "id", id)
	if err != nil {
		return nil, err
	}
	if name, err = requireID("customer", "name", name); err != nil {
		return nil, err
	}
	if email, err = requireID("customer", "email", email); err != nil {
		return nil, err
	}
	if err := requireNonNegative("customer", "lifetime_value", lifetimeValue); err != nil {
		return nil, err
	}
	return &Customer{ID: id, Name: name, Email: email, LifetimeValue: lifetimeValue}, nil
}

// AddPurchase adds a positive purchase amount to the lifetime value.
func (c *Customer) AddPurchase(amount float64) {
	if amount > 0 {
		c.LifetimeValue += amount
	}
}

// NewOrder validates and builds an Order. An empty or unrecognised status
// becomes pending.
func NewOrder(id string, date time.Time, customerID, productName, productCategory string,
	quantity int, unitPrice, amount float64, status string) (*Order, error) {
	id, err := requireID("order", "id", id)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, invalid("order", "date", "must be a valid date")
	}
	if customerID, err = requireID("order", "customer_id", customerID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("order", "quantity", "must be at least 1")
	}
	if err := requireNonNegative("order", "unit_price", unitPrice); err != nil {
		return nil, err
	}
	if err := requireNonNegative("order", "amount", amount); err != nil {
		return nil, err
	}

	return &Order{
		OrderID:         id,
		CustomerID:      customerID,
		OrderDate:       date,
		ProductCategory: strings.TrimSpace(productCategory),
		ProductName:     strings.TrimSpace(productName),
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		OrderAmount:     amount,
		Status:          NormalizeStatus(status),
	}, nil
}

// NormalizeStatus lowercases and trims s; empty or unknown values become
// pending.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !IsValidStatus(s) {
		return StatusPending
	}
	return s
}

// NewProductFromMap builds a Product from loosely typed data. It accepts
// both entity keys (id, name, category, base_price) and transaction column
// names (product_id, product_name, product_category, unit_price).
func NewProductFromMap(data map[string]any) (*Product, error) {
	price, err := floatField("product", data, 0, "base_price", "unit_price")
	if err != nil {
		return nil, err
	}
	return NewProduct(
		stringField(data, "id", "product_id"),
		stringField(data, "name", ColProductName),
		stringField(data, "category", ColProductCategory),
		price,
	)
}

// NewCustomerFromMap builds a Customer from loosely typed data. A missing
// name defaults to "Customer <id>".
func NewCustomerFromMap(data map[string]any) (*Customer, error) {
	ltv, err := floatField("customer", data, 0, "lifetime_value")
	if err != nil {
		return nil, err
	}
	id := stringField(data, "id", ColCustomerID)
	name := stringField(data, "name", "customer_name")
	if name == "" {
		ref := stringField(data, ColCustomerID)
		if ref == "" {
			ref = "Unknown"
		}
		name = "Customer " + ref
	}
	return NewCustomer(id, name, stringField(data, "email"), ltv)
}

// NewOrderFromMap builds an Order from loosely typed data such as a raw
// record. Quantity defaults to 1, prices to 0, status to pending. The date
// must parse.
func NewOrderFromMap(data map[string]any) (*Order, error) {
	date, ok := utils.ParseDate(firstValue(data, "date", ColOrderDate))
	if !ok {
		return nil, invalid("order", "date", "must be a valid date")
	}

	qty, err := floatField("order", data, 1, ColQuantity)
	if err != nil {
		return nil, err
	}
	if qty != math.Trunc(qty) {
		return nil, invalid("order", "quantity", "must be a whole number")
	}
	price, err := floatField("order", data, 0, ColUnitPrice)
	if err != nil {
		return nil, err
	}
	amount, err := floatField("order", data, 0, "amount", ColOrderAmount)
	if err != nil {
		return nil, err
	}

	return NewOrder(
		stringField(data, "id", ColOrderID),
		date,
		stringField(data, ColCustomerID),
		stringField(data, ColProductName),
		stringField(data, ColProductCategory, "category"),
		int(qty),
		price,
		amount,
		stringField(data, ColStatus),
	)
}

// firstValue returns the value of the first key present and non-missing.
func firstValue(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && !utils.IsMissing(v) {
			return v
		}
	}
	return nil
}

func stringField(data map[string]any, keys ...string) string {
	return utils.ToString(firstValue(data, keys...))
}

func floatField(entity string, data map[string]any, fallback float64, keys ...string) (float64, error) {
	v := firstValue(data, keys...)
	if v == nil {
		return fallback, nil
	}
	f, ok := utils.ToFloat(v)
	if !ok {
		return 0, invalid(entity, keys[0], fmt.Sprintf("is not a number: %v", v))
	}
	return f, nil
}
