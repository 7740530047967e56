package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/cache"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/config"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/customers"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/inventory"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/notify"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/orders"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/runs"
)

func newProcessor(ctx context.Context, cfg *config.Config) (*Processor, error) {
	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		return nil, err
	}

	fetchers := analytics.Fetchers{
		Orders:    orders.NewStore(clients.DynamoDB, cfg.OrdersTable).ListRange,
		Customers: customers.NewStore(clients.DynamoDB, cfg.CustomersTable).List,
		Inventory: inventory.NewStore(clients.DynamoDB, cfg.InventoryTable).List,
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.AlertsQueueURL != "" {
		notifier = notify.NewSQSNotifier(aws.NewPublisher(clients.SQS, cfg.AlertsQueueURL))
	} else {
		log.Println("[worker] ALERTS_QUEUE_URL not set, alerts go to the log")
	}

	metrics := aws.NewMetricsPublisher(clients.CloudWatch, cfg.MetricsNamespace)
	metrics.Dimensions = map[string]string{"Service": "report-worker"}

	p := NewProcessor(
		runs.NewStore(clients.DynamoDB, cfg.RunsTable, cfg.RunTTL),
		fetchers,
		cfg.Analytics.ReportOptions(),
		metrics,
		notifier,
	)
	p.revenueTarget = cfg.Analytics.RevenueTarget

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			// the worker still does its job without a warm cache
			log.Printf("[worker] redis unavailable, cache warming disabled: %v", err)
		} else {
			p.cache = cache.NewReports(rdb, cfg.Analytics.CacheTTL)
		}
	}
	return p, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	p, err := newProcessor(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to init worker: %v", err)
	}

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"run_key":"local-` + time.Now().UTC().Format("20060102T1504") + `","period":"` + cfg.Analytics.DefaultPeriod + `"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					MessageId: "local-1",
					Body:      testBody,
				},
			},
		}
		resp, err := p.Handle(context.Background(), event)
		if err != nil || len(resp.BatchItemFailures) > 0 {
			log.Fatalf("local handler error: %v failures=%d", err, len(resp.BatchItemFailures))
		}
		return
	}

	lambda.Start(p.Handle)
}
