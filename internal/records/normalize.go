package records

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultReorderPoint is used when an inventory row has no usable reorder point.
	DefaultReorderPoint = 10
	// DefaultCategory labels inventory rows stored without a category.
	DefaultCategory = "Uncategorized"

	// epoch values above this are read as milliseconds
	millisThreshold = 1e12
)

// NormalizeOrder converts a stored order into an Order. It never fails: unusable fields
// take their zero value.
func NormalizeOrder(doc OrderDocument) Order {
	o := Order{
		ID:         doc.OrderID,
		CustomerID: doc.CustomerID,
		Total:      money(doc.Total),
		Status:     ParseStatus(doc.Status),
		CreatedAt:  timestamp(doc.CreatedAt),
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = timestamp(doc.Timestamp)
	}

	o.Items = make([]Item, 0, len(doc.Items))
	for _, raw := range doc.Items {
		price, ok := raw["price"]
		if !ok {
			price = raw["unit_price"]
		}
		o.Items = append(o.Items, Item{
			Name:      text(raw["name"]),
			Quantity:  count(raw["quantity"]),
			UnitPrice: money(price),
		})
	}
	return o
}

// NormalizeInventoryItem converts a stored inventory row into an InventoryItem.
func NormalizeInventoryItem(doc InventoryDocument) InventoryItem {
	item := InventoryItem{
		ID:           doc.ItemID,
		Name:         doc.Name,
		Category:     strings.TrimSpace(doc.Category),
		Stock:        count(doc.Stock),
		ReorderPoint: count(doc.ReorderPoint),
		Price:        money(doc.Price),
	}
	if item.Category == "" {
		item.Category = DefaultCategory
	}
	if item.ReorderPoint <= 0 {
		item.ReorderPoint = DefaultReorderPoint
	}
	return item
}

// NormalizeCustomer converts a stored customer into a Customer.
func NormalizeCustomer(doc CustomerDocument) Customer {
	return Customer{
		ID:          doc.CustomerID,
		Name:        doc.Name,
		Email:       doc.Email,
		Phone:       doc.Phone,
		TotalOrders: count(doc.TotalOrders),
		TotalSpent:  money(doc.TotalSpent),
		CreatedAt:   timestamp(doc.CreatedAt),
		LastOrderAt: timestamp(doc.LastOrderAt),
	}
}

// number reads a float out of a decoded attribute. Strings are parsed; NaN and Inf are rejected.
func number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// money coerces to a non-negative amount.
func money(v interface{}) float64 {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// count coerces to a non-negative integer, truncating fractions.
func count(v interface{}) int {
	f, ok := number(v)
	if !ok || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func text(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// timestamp accepts RFC3339 strings or epoch seconds/milliseconds (as numbers or numeric strings).
func timestamp(v interface{}) time.Time {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	f, ok := number(v)
	if !ok || f <= 0 {
		return time.Time{}
	}
	if f >= millisThreshold {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}
