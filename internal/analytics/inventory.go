package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// StockStatus pairs an item with its classification.
type StockStatus struct {
	records.InventoryItem
	Level StockLevel `json:"level"`
}

// InventoryMetrics summarises stock across the inventory.
type InventoryMetrics struct {
	TotalItems    int            `json:"total_items"`
	InStock       int            `json:"in_stock"`
	LowStock      int            `json:"low_stock"`
	CriticalStock int            `json:"critical_stock"`
	OutOfStock    int            `json:"out_of_stock"`
	TotalValue    float64        `json:"total_value"`
	Categories    map[string]int `json:"categories"`
	// Attention lists every non-Good item in input order.
	Attention []StockStatus `json:"attention"`
}

// ComputeInventoryMetrics classifies every item and totals the stock value.
func ComputeInventoryMetrics(items []records.InventoryItem) InventoryMetrics {
	m := InventoryMetrics{
		TotalItems: len(items),
		Categories: map[string]int{},
		Attention:  []StockStatus{},
	}
	var value decimal.Decimal

	for _, it := range items {
		level := ClassifyStock(it.Stock, it.ReorderPoint)
		switch level {
		case StockOutOfStock:
			m.OutOfStock++
		case StockCritical:
			m.CriticalStock++
		case StockLow:
			m.LowStock++
		default:
			m.InStock++
		}
		if level.NeedsAttention() {
			m.Attention = append(m.Attention, StockStatus{InventoryItem: it, Level: level})
		}

		if it.Stock > 0 {
			value = value.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Stock))))
		}
		category := it.Category
		if category == "" {
			category = records.DefaultCategory
		}
		m.Categories[category]++
	}

	m.TotalValue = value.InexactFloat64()
	return m
}
