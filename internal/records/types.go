package records

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

// Order statuses
const (
	StatusUnknown   Status = ""
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists the known statuses in lifecycle order.
var Statuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}

// ParseStatus maps a stored status string onto the closed enumeration.
// Anything unrecognised becomes StatusUnknown.
func ParseStatus(s string) Status {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return StatusUnknown
	}
	return st
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Item is a single order line.
type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is a normalized order snapshot. A zero CreatedAt means the store had no usable timestamp.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id,omitempty"` // empty for guest orders
	Items      []Item    `json:"items"`
	Total      float64   `json:"total"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasTimestamp reports whether the order carries a creation time.
func (o Order) HasTimestamp() bool { return !o.CreatedAt.IsZero() }

// InventoryItem is a normalized stock record.
type InventoryItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Stock        int     `json:"stock"`
	ReorderPoint int     `json:"reorder_point"`
	Price        float64 `json:"price"`
}

// Customer is a normalized customer snapshot.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
	LastOrderAt time.Time `json:"last_order_at"`
}
