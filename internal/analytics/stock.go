package analytics

// StockLevel is the qualitative stock classification of an inventory item.
type StockLevel string

// Stock levels
const (
	StockOutOfStock StockLevel = "out_of_stock"
	StockCritical   StockLevel = "critical"
	StockLow        StockLevel = "low"
	StockGood       StockLevel = "good"
)

// Thresholds are expressed in tenths of the reorder point so the comparison stays in integers:
// critical is stock <= 0.3*reorderPoint, low is stock <= 0.7*reorderPoint.
const (
	criticalTenths = 3
	lowTenths      = 7
)

// ClassifyStock maps a stock count against its reorder point.
// A non-positive reorder point has no thresholds: any positive stock is Good.
func ClassifyStock(stock, reorderPoint int) StockLevel {
	if stock <= 0 {
		return StockOutOfStock
	}
	if reorderPoint <= 0 {
		return StockGood
	}

	switch {
	case stock <= tenthsOf(reorderPoint, criticalTenths):
		return StockCritical
	case stock <= tenthsOf(reorderPoint, lowTenths):
		return StockLow
	default:
		return StockGood
	}
}

// tenthsOf returns floor(n*k/10) for n > 0 and k < 10 without overflowing.
func tenthsOf(n, k int) int {
	return n/10*k + n%10*k/10
}

// NeedsAttention reports whether the level should be surfaced to staff.
func (l StockLevel) NeedsAttention() bool {
	return l != StockGood
}
