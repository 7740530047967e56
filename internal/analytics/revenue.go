package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// Period is the reporting granularity; it sets the lookback from the end date.
type Period string

// Periods
const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists every valid period, shortest first.
var Periods = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}

const dateLayout = "2006-01-02"

// ParsePeriod validates a period name. Unknown names are an error, never a guessed default.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: day, week, month, year)", ErrInvalidPeriod, s)
	}
}

// Start returns end minus the period's lookback. Month and year step by calendar.
func (p Period) Start(end time.Time) (time.Time, error) {
	switch p {
	case PeriodDay:
		return end.AddDate(0, 0, -1), nil
	case PeriodWeek:
		return end.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return end.AddDate(0, -1, 0), nil
	case PeriodYear:
		return end.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
}

// RevenuePoint is one calendar day of the series.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// PeriodTotals are the completed-order totals of a window.
type PeriodTotals struct {
	Range   TimeRange `json:"range"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// RevenueSeries is the revenue chart for a period plus its comparison to the prior period.
type RevenueSeries struct {
	Period            Period         `json:"period"`
	Range             TimeRange      `json:"range"`
	Points            []RevenuePoint `json:"points"`
	TotalRevenue      float64        `json:"total_revenue"`
	TotalOrders       int            `json:"total_orders"`
	AverageOrderValue float64        `json:"average_order_value"`
	GrowthPct         float64        `json:"growth_pct"`
	OrderGrowthPct    float64        `json:"order_growth_pct"`
	Previous          PeriodTotals   `json:"previous"`
}

type dayTally struct {
	revenue decimal.Decimal
	orders  int
}

// ComputeRevenueSeries buckets completed orders created in [end-lookback, end] by calendar day in
// end's location, with one point per day even when nothing sold. The previous window is
// [start-lookback, start). orders should cover both windows; anything else is ignored.
func ComputeRevenueSeries(orders []records.Order, period Period, end time.Time) (RevenueSeries, error) {
	start, err := period.Start(end)
	if err != nil {
		return RevenueSeries{}, err
	}
	prevStart, _ := period.Start(start)

	loc := end.Location()
	current := TimeRange{Start: start, End: end}
	previous := TimeRange{Start: prevStart, End: start}

	days := map[string]*dayTally{}
	var revenue, prevRevenue decimal.Decimal
	var count, prevCount int
	for _, o := range orders {
		if o.Status != records.StatusCompleted || !o.HasTimestamp() {
			continue
		}
		total := decimal.NewFromFloat(o.Total)
		switch {
		case current.Covers(o.CreatedAt):
			key := o.CreatedAt.In(loc).Format(dateLayout)
			d, ok := days[key]
			if !ok {
				d = &dayTally{}
				days[key] = d
			}
			d.revenue = d.revenue.Add(total)
			d.orders++
			revenue = revenue.Add(total)
			count++
		case previous.Contains(o.CreatedAt):
			prevRevenue = prevRevenue.Add(total)
			prevCount++
		}
	}

	s := RevenueSeries{
		Period:       period,
		Range:        current,
		TotalRevenue: revenue.InexactFloat64(),
		TotalOrders:  count,
		Previous: PeriodTotals{
			Range:   previous,
			Revenue: prevRevenue.InexactFloat64(),
			Orders:  prevCount,
		},
	}
	if count > 0 {
		s.AverageOrderValue = s.TotalRevenue / float64(count)
	}
	s.GrowthPct = growth(s.TotalRevenue, s.Previous.Revenue)
	s.OrderGrowthPct = growth(float64(count), float64(prevCount))

	first := midnight(start.In(loc))
	last := midnight(end.In(loc))
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		p := RevenuePoint{Date: key}
		if d, ok := days[key]; ok {
			p.Revenue = d.revenue.InexactFloat64()
			p.Orders = d.orders
		}
		s.Points = append(s.Points, p)
	}
	return s, nil
}

// growth is the percentage change from previous to current; 0 when there is no baseline.
func growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
