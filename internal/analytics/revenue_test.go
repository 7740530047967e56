package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

func completed(total float64, ts time.Time) records.Order {
	return records.Order{Status: records.StatusCompleted, Total: total, CreatedAt: ts}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"day", "week", "Month", " year "} {
		_, err := ParsePeriod(s)
		assert.NoError(t, err, s)
	}
	_, err := ParsePeriod("fortnight")
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
	_, err = ParsePeriod("")
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestPeriodStart(t *testing.T) {
	end := time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)
	tests := map[Period]time.Time{
		PeriodDay:   time.Date(2026, 3, 30, 15, 0, 0, 0, time.UTC),
		PeriodWeek:  time.Date(2026, 3, 24, 15, 0, 0, 0, time.UTC),
		PeriodMonth: time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC), // Feb 31 normalises to Mar 3
		PeriodYear:  time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC),
	}
	for p, want := range tests {
		got, err := p.Start(end)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(p))
	}
	_, err := Period("decade").Start(end)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestComputeRevenueSeries_Week(t *testing.T) {
	end := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	orders := []records.Order{
		completed(10, time.Date(2026, 10, 12, 16, 0, 0, 0, time.UTC)),   // first day, after start
		completed(99, time.Date(2026, 10, 12, 14, 0, 0, 0, time.UTC)),   // before start: previous period
		completed(20.5, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)),  // mid
		completed(4.25, time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)), // same day
		completed(5, end), // end is inclusive
		{Status: records.StatusPending, Total: 1000, CreatedAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)},
		{Status: records.StatusCompleted, Total: 7},                  // no timestamp
		completed(1, time.Date(2026, 10, 19, 15, 0, 1, 0, time.UTC)), // after end
	}

	s, err := ComputeRevenueSeries(orders, PeriodWeek, end)
	require.NoError(t, err)

	require.Len(t, s.Points, 8) // Oct 12 .. Oct 19 inclusive
	assert.Equal(t, "2026-10-12", s.Points[0].Date)
	assert.Equal(t, "2026-10-19", s.Points[7].Date)
	assert.Equal(t, RevenuePoint{Date: "2026-10-15", Revenue: 24.75, Orders: 2}, s.Points[3])
	assert.Equal(t, RevenuePoint{Date: "2026-10-13"}, s.Points[1])

	assert.Equal(t, 39.75, s.TotalRevenue)
	assert.Equal(t, 4, s.TotalOrders)
	assert.InDelta(t, 39.75/4, s.AverageOrderValue, 1e-12)

	var sum float64
	for _, p := range s.Points {
		sum += p.Revenue
	}
	assert.Equal(t, s.TotalRevenue, sum)

	assert.Equal(t, 99.0, s.Previous.Revenue)
	assert.Equal(t, 1, s.Previous.Orders)
	assert.InDelta(t, (39.75-99)/99*100, s.GrowthPct, 1e-9)
	assert.InDelta(t, 300.0, s.OrderGrowthPct, 1e-9)
}

func TestComputeRevenueSeries_NoPreviousRevenueMeansZeroGrowth(t *testing.T) {
	end := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	orders := []records.Order{completed(50, end.Add(-time.Hour))}

	s, err := ComputeRevenueSeries(orders, PeriodDay, end)
	require.NoError(t, err)

	assert.Equal(t, 50.0, s.TotalRevenue)
	assert.Zero(t, s.GrowthPct)
	assert.Zero(t, s.OrderGrowthPct)
	assert.Len(t, s.Points, 2)
}

func TestComputeRevenueSeries_EmptyIsZeroFilled(t *testing.T) {
	end := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s, err := ComputeRevenueSeries(nil, PeriodMonth, end)
	require.NoError(t, err)

	assert.Len(t, s.Points, 31) // Sep 19 .. Oct 19
	for _, p := range s.Points {
		assert.Zero(t, p.Revenue)
		assert.Zero(t, p.Orders)
	}
	assert.Zero(t, s.AverageOrderValue)
	assert.Zero(t, s.GrowthPct)
}

func TestComputeRevenueSeries_BucketsInEndLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	end := time.Date(2026, 10, 19, 12, 0, 0, 0, loc)
	// 02:00 UTC on Oct 19 is 21:00 on Oct 18 in UTC-5
	orders := []records.Order{completed(8, time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC))}

	s, err := ComputeRevenueSeries(orders, PeriodDay, end)
	require.NoError(t, err)

	require.Len(t, s.Points, 2)
	assert.Equal(t, RevenuePoint{Date: "2026-10-18", Revenue: 8, Orders: 1}, s.Points[0])
}

func TestComputeRevenueSeries_InvalidPeriod(t *testing.T) {
	_, err := ComputeRevenueSeries(nil, Period("hour"), refNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
