package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// DefaultTopItems is the dashboard's top-items list size.
const DefaultTopItems = 5

// OrderOptions parameterises ComputeOrderMetrics.
type OrderOptions struct {
	// Window restricts the pass to orders created in [Start, End). Orders without a
	// timestamp fall outside any window.
	Window *TimeRange
	// TopN sizes TopItems; <= 0 means DefaultTopItems.
	TopN int
	// Location is the zone used for hour-of-day; nil means time.Local.
	Location *time.Location
}

// ItemSales is the per-item aggregate used for rankings.
type ItemSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// HourBucket is one hour-of-day slot of the order histogram.
type HourBucket struct {
	Hour    int     `json:"hour"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Label   string  `json:"label"`
}

// OrderMetrics summarises a set of orders.
type OrderMetrics struct {
	Total                int                    `json:"total"`
	CountByStatus        map[records.Status]int `json:"count_by_status"`
	TotalRevenue         float64                `json:"total_revenue"`
	AverageOrderValue    float64                `json:"average_order_value"`
	ItemsSold            int                    `json:"items_sold"`
	AverageItemsPerOrder float64                `json:"average_items_per_order"`
	TopItems             []ItemSales            `json:"top_items"`
	// PeakHour is -1 when no order carries a timestamp.
	PeakHour           int          `json:"peak_hour"`
	HourlyDistribution []HourBucket `json:"hourly_distribution"`
}

type itemTally struct {
	quantity int
	revenue  decimal.Decimal
}

// ComputeOrderMetrics aggregates orders in a single pass. Only completed orders contribute
// revenue; item counts, rankings and the hourly histogram use every order in the pass.
func ComputeOrderMetrics(orders []records.Order, opts OrderOptions) OrderMetrics {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopItems
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	m := OrderMetrics{
		CountByStatus: make(map[records.Status]int, len(records.Statuses)),
		PeakHour:      -1,
	}
	for _, st := range records.Statuses {
		m.CountByStatus[st] = 0
	}

	var (
		revenue     decimal.Decimal
		hourCounts  [24]int
		hourRevenue [24]decimal.Decimal
		timestamped int
		names       []string // first-occurrence order
	)
	tallies := map[string]*itemTally{}

	for _, o := range orders {
		if opts.Window != nil && (!o.HasTimestamp() || !opts.Window.Contains(o.CreatedAt)) {
			continue
		}

		m.Total++
		if o.Status.Valid() {
			m.CountByStatus[o.Status]++
		}

		completed := o.Status == records.StatusCompleted
		total := decimal.NewFromFloat(o.Total)
		if completed {
			revenue = revenue.Add(total)
		}

		for _, it := range o.Items {
			m.ItemsSold += it.Quantity
			t, ok := tallies[it.Name]
			if !ok {
				t = &itemTally{}
				tallies[it.Name] = t
				names = append(names, it.Name)
			}
			t.quantity += it.Quantity
			t.revenue = t.revenue.Add(decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		if o.HasTimestamp() {
			h := o.CreatedAt.In(loc).Hour()
			hourCounts[h]++
			timestamped++
			if completed {
				hourRevenue[h] = hourRevenue[h].Add(total)
			}
		}
	}

	m.TotalRevenue = revenue.InexactFloat64()
	if n := m.CountByStatus[records.StatusCompleted]; n > 0 {
		m.AverageOrderValue = m.TotalRevenue / float64(n)
	}
	if m.Total > 0 {
		m.AverageItemsPerOrder = float64(m.ItemsSold) / float64(m.Total)
	}

	m.HourlyDistribution = make([]HourBucket, 24)
	best := 0
	for h := 0; h < 24; h++ {
		m.HourlyDistribution[h] = HourBucket{
			Hour:    h,
			Orders:  hourCounts[h],
			Revenue: hourRevenue[h].InexactFloat64(),
			Label:   fmt.Sprintf("%d:00 - %d:59", h, h),
		}
		if hourCounts[h] > hourCounts[best] {
			best = h
		}
	}
	if timestamped > 0 {
		m.PeakHour = best
	}

	m.TopItems = rankItems(names, tallies, topN)
	return m
}

// rankItems orders items by quantity, keeping first-occurrence order among equals.
func rankItems(names []string, tallies map[string]*itemTally, n int) []ItemSales {
	ranked := make([]ItemSales, 0, len(names))
	for _, name := range names {
		t := tallies[name]
		ranked = append(ranked, ItemSales{
			Name:     name,
			Quantity: t.quantity,
			Revenue:  t.revenue.InexactFloat64(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
