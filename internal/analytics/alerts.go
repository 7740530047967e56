package analytics

import (
	"fmt"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// Severity grades an alert for the notification sink.
type Severity string

// Severities, lowest first.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityUrgent   Severity = "urgent"
	SeverityCritical Severity = "critical"
)

// Alert is a (title, message, severity) triple handed to a notifier.
type Alert struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	ItemID   string   `json:"item_id,omitempty"`
	OrderID  string   `json:"order_id,omitempty"`
}

// StockAlert returns the alert for an item's stock level, if any.
func StockAlert(item records.InventoryItem) (Alert, bool) {
	switch ClassifyStock(item.Stock, item.ReorderPoint) {
	case StockOutOfStock:
		return Alert{
			Title:    "Out of Stock",
			Message:  fmt.Sprintf("%s is out of stock! Item unavailable for orders.", item.Name),
			Severity: SeverityCritical,
			ItemID:   item.ID,
		}, true
	case StockCritical:
		return Alert{
			Title:    "Critical Stock Alert",
			Message:  fmt.Sprintf("%s is critically low (%d items). Reorder immediately!", item.Name, item.Stock),
			Severity: SeverityUrgent,
			ItemID:   item.ID,
		}, true
	case StockLow:
		return Alert{
			Title:    "Low Stock Alert",
			Message:  fmt.Sprintf("%s is low (%d items). Consider restocking.", item.Name, item.Stock),
			Severity: SeverityWarning,
			ItemID:   item.ID,
		}, true
	default:
		return Alert{}, false
	}
}

// StockAlerts returns one alert per item that is not in good stock, in input order.
func StockAlerts(items []records.InventoryItem) []Alert {
	var alerts []Alert
	for _, it := range items {
		if a, ok := StockAlert(it); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// RevenueMilestoneAlert fires when revenue reaches a positive target.
func RevenueMilestoneAlert(revenue, target float64) (Alert, bool) {
	if target <= 0 || revenue < target {
		return Alert{}, false
	}
	return Alert{
		Title:    "Revenue Target Achieved!",
		Message:  fmt.Sprintf("Revenue of $%.2f has exceeded target of $%.2f", revenue, target),
		Severity: SeverityInfo,
	}, true
}

// StatusChangeAlert announces an order moving between statuses.
func StatusChangeAlert(orderID string, from, to records.Status) Alert {
	return Alert{
		Title:    "Order Status Updated",
		Message:  fmt.Sprintf("Order #%s changed from %s to %s", orderID, from, to),
		Severity: SeverityInfo,
		OrderID:  orderID,
	}
}
