package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name         string
		stock        int
		reorderPoint int
		want         StockLevel
	}{
		{"empty", 0, 10, StockOutOfStock},
		{"negative", -3, 10, StockOutOfStock},
		{"empty with zero reorder point", 0, 0, StockOutOfStock},
		{"critical boundary", 3, 10, StockCritical},
		{"just above critical", 4, 10, StockLow},
		{"low boundary", 7, 10, StockLow},
		{"good", 8, 10, StockGood},
		{"zero reorder point", 5, 0, StockGood},
		{"negative reorder point", 1, -4, StockGood},
		{"fractional threshold", 1, 3, StockLow}, // 0.9 < 1 <= 2.1
		{"fractional critical", 1, 4, StockCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStock(tt.stock, tt.reorderPoint))
		})
	}
}

func TestClassifyStock_OutOfStockForAnyReorderPoint(t *testing.T) {
	for rp := 0; rp <= 50; rp++ {
		assert.Equal(t, StockOutOfStock, ClassifyStock(0, rp))
	}
}

func TestClassifyStock_LargeValues(t *testing.T) {
	assert.Equal(t, StockGood, ClassifyStock(math.MaxInt/5, 10))
	assert.Equal(t, StockGood, ClassifyStock(math.MaxInt, 10))
	assert.Equal(t, StockCritical, ClassifyStock(math.MaxInt/10*3, math.MaxInt))
	assert.Equal(t, StockLow, ClassifyStock(math.MaxInt/10*7, math.MaxInt))
	assert.Equal(t, StockGood, ClassifyStock(math.MaxInt-1, math.MaxInt))
}
