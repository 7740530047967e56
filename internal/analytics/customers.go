package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// Customer segmentation defaults.
const (
	DefaultVIPThreshold = 500.0
	DefaultActiveWindow = 30 * 24 * time.Hour
	DefaultNewWindow    = 7 * 24 * time.Hour
)

// CLVAssumptions are the business assumptions behind CalculateCLV.
type CLVAssumptions struct {
	OrdersPerYear float64 `json:"orders_per_year" yaml:"orders_per_year"`
	ProfitMargin  float64 `json:"profit_margin" yaml:"profit_margin"`
	LifetimeYears float64 `json:"lifetime_years" yaml:"lifetime_years"`
}

// DefaultCLVAssumptions returns 12 orders a year, 30% margin, 3 year lifetime.
func DefaultCLVAssumptions() CLVAssumptions {
	return CLVAssumptions{OrdersPerYear: 12, ProfitMargin: 0.3, LifetimeYears: 3}
}

// CustomerOptions parameterises ComputeCustomerMetrics. Zero fields fall back to the defaults.
type CustomerOptions struct {
	VIPThreshold float64
	ActiveWindow time.Duration
	NewWindow    time.Duration
	CLV          CLVAssumptions
}

// DefaultCustomerOptions returns the dashboard's segmentation settings.
func DefaultCustomerOptions() CustomerOptions {
	return CustomerOptions{
		VIPThreshold: DefaultVIPThreshold,
		ActiveWindow: DefaultActiveWindow,
		NewWindow:    DefaultNewWindow,
		CLV:          DefaultCLVAssumptions(),
	}
}

func (o CustomerOptions) withDefaults() CustomerOptions {
	def := DefaultCustomerOptions()
	if o.VIPThreshold <= 0 {
		o.VIPThreshold = def.VIPThreshold
	}
	if o.ActiveWindow <= 0 {
		o.ActiveWindow = def.ActiveWindow
	}
	if o.NewWindow <= 0 {
		o.NewWindow = def.NewWindow
	}
	if o.CLV == (CLVAssumptions{}) {
		o.CLV = def.CLV
	}
	return o
}

// CustomerMetrics summarises the customer base relative to a reference time.
type CustomerMetrics struct {
	Total                 int               `json:"total"`
	VIP                   int               `json:"vip"`
	Regular               int               `json:"regular"`
	New                   int               `json:"new"`
	Active                int               `json:"active"`
	Churned               int               `json:"churned"`
	Repeat                int               `json:"repeat"`
	RetentionRate         float64           `json:"retention_rate"`
	AverageOrderFrequency float64           `json:"average_order_frequency"`
	TotalRevenue          float64           `json:"total_revenue"`
	AverageLifetimeValue  float64           `json:"average_lifetime_value"`
	AverageCLV            float64           `json:"average_clv"`
	TopCustomer           *records.Customer `json:"top_customer,omitempty"`
}

// ComputeCustomerMetrics segments customers. now is the reference point for the new and active
// windows; customers without a creation or last-order time are neither new nor active.
func ComputeCustomerMetrics(customers []records.Customer, now time.Time, opts CustomerOptions) CustomerMetrics {
	opts = opts.withDefaults()
	newSince := now.Add(-opts.NewWindow)
	activeSince := now.Add(-opts.ActiveWindow)

	m := CustomerMetrics{Total: len(customers)}
	var (
		spent  decimal.Decimal
		clv    float64
		orders int
	)
	top := -1

	for i, c := range customers {
		if c.TotalSpent >= opts.VIPThreshold {
			m.VIP++
		} else {
			m.Regular++
		}
		if !c.CreatedAt.IsZero() && !c.CreatedAt.Before(newSince) {
			m.New++
		}

		active := !c.LastOrderAt.IsZero() && !c.LastOrderAt.Before(activeSince)
		if active {
			m.Active++
		} else if c.TotalOrders > 0 {
			m.Churned++
		}
		if c.TotalOrders > 1 {
			m.Repeat++
		}

		orders += c.TotalOrders
		spent = spent.Add(decimal.NewFromFloat(c.TotalSpent))
		clv += CalculateCLV(c, opts.CLV)

		if top < 0 || c.TotalSpent > customers[top].TotalSpent {
			top = i
		}
	}

	m.TotalRevenue = spent.InexactFloat64()
	if returning := m.Total - m.New; returning > 0 {
		m.RetentionRate = float64(m.Active) / float64(returning) * 100
	}
	if m.Total > 0 {
		m.AverageOrderFrequency = float64(orders) / float64(m.Total)
		m.AverageLifetimeValue = m.TotalRevenue / float64(m.Total)
		m.AverageCLV = clv / float64(m.Total)
	}
	if top >= 0 {
		c := customers[top]
		m.TopCustomer = &c
	}
	return m
}

// CalculateCLV estimates a customer's lifetime value from their average order value.
func CalculateCLV(c records.Customer, a CLVAssumptions) float64 {
	if c.TotalOrders <= 0 {
		return 0
	}
	avg := c.TotalSpent / float64(c.TotalOrders)
	return avg * a.OrdersPerYear * a.ProfitMargin * a.LifetimeYears
}
