package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// DefaultPopularItems is the size of the report's popular-items list.
const DefaultPopularItems = 10

// Fetchers are the report's data sources. Orders receives an inclusive range.
type Fetchers struct {
	Orders    func(ctx context.Context, r TimeRange) ([]records.Order, error)
	Customers func(ctx context.Context) ([]records.Customer, error)
	Inventory func(ctx context.Context) ([]records.InventoryItem, error)
}

// ReportOptions parameterises GenerateReport.
type ReportOptions struct {
	Customer     CustomerOptions
	TopItems     int
	PopularItems int
}

// Dashboard groups the headline metrics of a report.
type Dashboard struct {
	Orders    OrderMetrics     `json:"orders"`
	Customers CustomerMetrics  `json:"customers"`
	Inventory InventoryMetrics `json:"inventory"`
}

// Report is one internally consistent snapshot: every section shares the same period, window and now.
type Report struct {
	ID                 string        `json:"id"`
	Period             Period        `json:"period"`
	GeneratedAt        time.Time     `json:"generated_at"`
	Range              TimeRange     `json:"range"`
	Dashboard          Dashboard     `json:"dashboard"`
	Revenue            RevenueSeries `json:"revenue"`
	PopularItems       []ItemSales   `json:"popular_items"`
	HourlyDistribution []HourBucket  `json:"hourly_distribution"`
}

// GenerateReport fetches orders, customers and inventory concurrently and runs every engine over
// them. A failed fetch fails the whole report with a *FetchError; a bad period or missing
// fetcher fails before anything is fetched.
func GenerateReport(ctx context.Context, period Period, now time.Time, f Fetchers, opts ReportOptions) (*Report, error) {
	period, err := ParsePeriod(string(period))
	if err != nil {
		return nil, err
	}
	if f.Orders == nil || f.Customers == nil || f.Inventory == nil {
		return nil, ErrMissingFetcher
	}
	if opts.PopularItems <= 0 {
		opts.PopularItems = DefaultPopularItems
	}

	start, _ := period.Start(now)
	prevStart, _ := period.Start(start)
	window := TimeRange{Start: start, End: now}

	log.Printf("[analytics.report] start period=%s range=%s..%s", period, start.Format(time.RFC3339), now.Format(time.RFC3339))

	var (
		orders    []records.Order
		customers []records.Customer
		inventory []records.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := f.Orders(gctx, TimeRange{Start: prevStart, End: now})
		if err != nil {
			return &FetchError{Source: "orders", Err: err}
		}
		orders = out
		return nil
	})
	g.Go(func() error {
		out, err := f.Customers(gctx)
		if err != nil {
			return &FetchError{Source: "customers", Err: err}
		}
		customers = out
		return nil
	})
	g.Go(func() error {
		out, err := f.Inventory(gctx)
		if err != nil {
			return &FetchError{Source: "inventory", Err: err}
		}
		inventory = out
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("[analytics.report] ERROR period=%s err=%v", period, err)
		return nil, err
	}

	orderOpts := OrderOptions{Window: &window, TopN: opts.TopItems, Location: now.Location()}
	orderMetrics := ComputeOrderMetrics(orders, orderOpts)
	orderOpts.TopN = opts.PopularItems
	popular := ComputeOrderMetrics(orders, orderOpts).TopItems

	revenue, err := ComputeRevenueSeries(orders, period, now)
	if err != nil {
		return nil, fmt.Errorf("revenue series: %w", err)
	}

	r := &Report{
		ID:          uuid.NewString(),
		Period:      period,
		GeneratedAt: now,
		Range:       window,
		Dashboard: Dashboard{
			Orders:    orderMetrics,
			Customers: ComputeCustomerMetrics(customers, now, opts.Customer),
			Inventory: ComputeInventoryMetrics(inventory),
		},
		Revenue:            revenue,
		PopularItems:       popular,
		HourlyDistribution: orderMetrics.HourlyDistribution,
	}

	log.Printf("[analytics.report] done id=%s orders=%d customers=%d items=%d revenue=%.2f",
		r.ID, len(orders), len(customers), len(inventory), revenue.TotalRevenue)
	return r, nil
}
