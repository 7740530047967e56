package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/cache"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/config"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/customers"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/handlers"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/inventory"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/notify"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestID())

	handlers.RegisterRoutes(r, cfg)

	return r
}

// notifier sends order status alerts to the alerts queue, or to the log when none is configured.
func notifier(cfg *config.Config, clients *aws.AWSClients) notify.Notifier {
	if cfg.AlertsQueueURL == "" {
		return notify.LogNotifier{}
	}
	return notify.NewSQSNotifier(aws.NewPublisher(clients.SQS, cfg.AlertsQueueURL))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	if cfg.AdminJWTSecret == "" {
		log.Println("[api] ADMIN_JWT_SECRET not set, every admin route will answer 401")
	}

	hc := handlers.HandlerConfig{
		Orders:    orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
		Customers: customers.NewStore(clients.DynamoDB, cfg.CustomersTable),
		Inventory: inventory.NewStore(clients.DynamoDB, cfg.InventoryTable),
		Gate:      handlers.JWTGate{Secret: []byte(cfg.AdminJWTSecret), Role: cfg.AdminRole},
		Analytics: cfg.Analytics,
		Notifier:  notifier(cfg, clients),
	}

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[api] redis unavailable, report cache disabled: %v", err)
		} else {
			hc.Cache = cache.NewReports(rdb, cfg.Analytics.CacheTTL)
		}
	}

	r := setupRouter(hc)

	// if RUN_LOCAL is "true", run local HTTP server for development.
	if cfg.RunLocal {
		addr := ":" + cfg.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
