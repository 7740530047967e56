package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/notify"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/runs"
)

// Reports requested further than this from the worker's clock are backfills and stay out of the cache.
const cacheSkew = 5 * time.Minute

// RunStore is implemented by *runs.Store.
type RunStore interface {
	Begin(ctx context.Context, key, period string, attempt int) (bool, error)
	Get(ctx context.Context, key string) (*runs.Run, error)
	MarkDone(ctx context.Context, key, reportID string) error
	MarkFailed(ctx context.Context, key, note string) error
}

// MetricsSink is implemented by *aws.MetricsPublisher.
type MetricsSink interface {
	Publish(ctx context.Context, ts time.Time, metrics []aws.Metric) error
}

// ReportWriter is implemented by *cache.Reports.
type ReportWriter interface {
	Set(ctx context.Context, rep *analytics.Report) error
}

// Processor turns report requests from SQS into published metrics and alerts.
type Processor struct {
	runs          RunStore
	fetchers      analytics.Fetchers
	opts          analytics.ReportOptions
	metrics       MetricsSink
	notifier      notify.Notifier
	cache         ReportWriter // optional
	revenueTarget float64
	nowFunc       func() time.Time
}

// NewProcessor creates a new worker processor with its collaborators injected.
func NewProcessor(rs RunStore, f analytics.Fetchers, opts analytics.ReportOptions, m MetricsSink, n notify.Notifier) *Processor {
	return &Processor{
		runs:     rs,
		fetchers: f,
		opts:     opts,
		metrics:  m,
		notifier: n,
		nowFunc:  time.Now,
	}
}

// Handle processes an SQS batch and reports the messages that should be retried.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda will redeliver just this message. If it fails too many times, it goes to the DLQ.
			log.Printf("[worker] error message=%s err=%v", rec.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg RunMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.RunKey == "" {
		return errors.New("invalid message body: missing run_key")
	}
	period, err := analytics.ParsePeriod(msg.Period)
	if err != nil {
		return fmt.Errorf("run=%s: %w", msg.RunKey, err)
	}
	at := msg.RequestedAt
	if at.IsZero() {
		at = p.nowFunc()
	}
	attempt, _ := strconv.Atoi(rec.Attributes["ApproximateReceiveCount"])

	log.Printf("[worker] received run=%s period=%s at=%s attempt=%d", msg.RunKey, period, at.Format(time.RFC3339), attempt)

	// Step 1: claim the run
	claimed, err := p.runs.Begin(ctx, msg.RunKey, string(period), attempt)
	if err != nil {
		return fmt.Errorf("failed to claim run: %w", err)
	}
	if !claimed {
		// Already finished or a competing delivery holds it.
		run, err := p.runs.Get(ctx, msg.RunKey)
		if err != nil {
			return fmt.Errorf("failed to fetch run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("run=%s vanished after conflicting claim", msg.RunKey)
		}
		switch run.Status {
		case runs.StatusDone:
			log.Printf("[worker] already done run=%s report=%s", msg.RunKey, run.ReportID)
			return nil
		case runs.StatusInProgress:
			log.Printf("[worker] duplicate delivery for run=%s", msg.RunKey)
			return nil
		default:
			return fmt.Errorf("unexpected status for run=%s: %s", msg.RunKey, run.Status)
		}
	}

	// Step 2: build the report
	rep, err := analytics.GenerateReport(ctx, period, at, p.fetchers, p.opts)
	if err != nil {
		p.fail(ctx, msg.RunKey, err)
		return fmt.Errorf("generate report: %w", err)
	}

	// Step 3: publish KPIs
	if err := p.metrics.Publish(ctx, rep.GeneratedAt, reportMetrics(rep)); err != nil {
		p.fail(ctx, msg.RunKey, err)
		return fmt.Errorf("publish metrics: %w", err)
	}

	// Step 4: alerts are best effort; a redelivery would publish the metrics twice
	alerts := reportAlerts(rep, p.revenueTarget)
	sent, err := notify.NotifyAll(ctx, p.notifier, alerts)
	if err != nil {
		log.Printf("[worker] run=%s sent %d/%d alerts, first error: %v", msg.RunKey, sent, len(alerts), err)
	}

	if p.cache != nil && p.current(at) {
		if err := p.cache.Set(ctx, rep); err != nil {
			log.Printf("[worker] cache warm failed run=%s err=%v", msg.RunKey, err)
		}
	}

	// Step 5: mark the run DONE
	if err := p.runs.MarkDone(ctx, msg.RunKey, rep.ID); err != nil {
		if errors.Is(err, runs.ErrConditionFailed) {
			log.Printf("[worker] run=%s changed state before completion", msg.RunKey)
			return nil
		}
		return fmt.Errorf("failed to mark run done: %w", err)
	}

	log.Printf("[worker] completed run=%s report=%s revenue=%.2f alerts=%d", msg.RunKey, rep.ID, rep.Revenue.TotalRevenue, sent)
	return nil
}

// current reports whether a report generated at t can stand in for a live one.
func (p *Processor) current(t time.Time) bool {
	d := p.nowFunc().Sub(t)
	return d <= cacheSkew && d >= -cacheSkew
}

func (p *Processor) fail(ctx context.Context, key string, cause error) {
	if err := p.runs.MarkFailed(ctx, key, cause.Error()); err != nil {
		log.Printf("[worker] failed to mark run=%s failed: %v", key, err)
	}
}

// reportMetrics flattens the report's headline numbers into CloudWatch datums.
func reportMetrics(rep *analytics.Report) []aws.Metric {
	dims := map[string]string{"Period": string(rep.Period)}
	inv := rep.Dashboard.Inventory
	return []aws.Metric{
		{Name: "Revenue", Value: rep.Revenue.TotalRevenue, Dimensions: dims},
		{Name: "CompletedOrders", Value: float64(rep.Revenue.TotalOrders), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
		{Name: "AverageOrderValue", Value: rep.Revenue.AverageOrderValue, Dimensions: dims},
		{Name: "RevenueGrowth", Value: rep.Revenue.GrowthPct, Unit: cwtypes.StandardUnitPercent, Dimensions: dims},
		{Name: "Orders", Value: float64(rep.Dashboard.Orders.Total), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
		{Name: "ActiveCustomers", Value: float64(rep.Dashboard.Customers.Active), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
		{Name: "LowStockItems", Value: float64(inv.LowStock), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
		{Name: "CriticalStockItems", Value: float64(inv.CriticalStock), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
		{Name: "OutOfStockItems", Value: float64(inv.OutOfStock), Unit: cwtypes.StandardUnitCount, Dimensions: dims},
	}
}

// reportAlerts raises one alert per item needing attention plus the revenue milestone, if reached.
func reportAlerts(rep *analytics.Report, revenueTarget float64) []analytics.Alert {
	var alerts []analytics.Alert
	for _, st := range rep.Dashboard.Inventory.Attention {
		if a, ok := analytics.StockAlert(st.InventoryItem); ok {
			alerts = append(alerts, a)
		}
	}
	if a, ok := analytics.RevenueMilestoneAlert(rep.Revenue.TotalRevenue, revenueTarget); ok {
		alerts = append(alerts, a)
	}
	return alerts
}
