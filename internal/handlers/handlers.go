package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/config"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/notify"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/validation"
)

// OrderStore is implemented by *orders.Store.
type OrderStore interface {
	List(ctx context.Context) ([]records.Order, error)
	ListRange(ctx context.Context, r analytics.TimeRange) ([]records.Order, error)
	UpdateStatus(ctx context.Context, orderID string, expected, newStatus records.Status) error
}

// CustomerStore is implemented by *customers.Store.
type CustomerStore interface {
	List(ctx context.Context) ([]records.Customer, error)
}

// InventoryStore is implemented by *inventory.Store.
type InventoryStore interface {
	List(ctx context.Context) ([]records.InventoryItem, error)
}

// ReportCache is implemented by *cache.Reports.
type ReportCache interface {
	Get(ctx context.Context, p analytics.Period) (*analytics.Report, error)
	Set(ctx context.Context, rep *analytics.Report) error
	Invalidate(ctx context.Context) error
}

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Orders    OrderStore
	Customers CustomerStore
	Inventory InventoryStore
	Cache     ReportCache // optional
	Gate      AdminGate
	Analytics config.Analytics // zero value means config.DefaultAnalytics()
	Notifier  notify.Notifier  // optional, receives order status alerts
	Now       func() time.Time // defaults to time.Now
}

// errMisconfigured marks failures caused by the handler's own configuration rather than the request.
var errMisconfigured = errors.New("handler misconfigured")

type api struct {
	cfg HandlerConfig
	v   *validatorv10.Validate
}

// RegisterRoutes registers the back-office routes. Everything except /health requires an admin.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Analytics == (config.Analytics{}) {
		cfg.Analytics = config.DefaultAnalytics()
	}
	h := &api{cfg: cfg, v: validation.New()}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := r.Group("/", RequireAdmin(cfg.Gate))
	admin.GET("/reports", h.getReport)
	admin.GET("/revenue", h.getRevenue)
	admin.GET("/orders/metrics", h.getOrderMetrics)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)
	admin.GET("/customers/metrics", h.getCustomerMetrics)
	admin.GET("/inventory/stock", h.getInventoryStock)
}

func (h *api) fetchers() analytics.Fetchers {
	return analytics.Fetchers{
		Orders:    h.cfg.Orders.ListRange,
		Customers: h.cfg.Customers.List,
		Inventory: h.cfg.Inventory.List,
	}
}

// period resolves a query value, falling back to the configured default.
// An unparseable default is a server error, not the caller's.
func (h *api) period(q string) (analytics.Period, error) {
	if q != "" {
		return analytics.ParsePeriod(q)
	}
	p, err := analytics.ParsePeriod(h.cfg.Analytics.DefaultPeriod)
	if err != nil {
		return "", fmt.Errorf("%w: default period %q", errMisconfigured, h.cfg.Analytics.DefaultPeriod)
	}
	return p, nil
}

// writeError maps a failure onto the API's error responses. Load failures are retryable.
func writeError(c *gin.Context, source string, err error) {
	var fe *analytics.FetchError
	switch {
	case errors.As(err, &fe):
		log.Printf("[api] %s unavailable source=%s err=%v", source, fe.Source, fe.Err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": source + "_unavailable", "source": fe.Source, "retryable": true})
	case errors.Is(err, errMisconfigured):
		log.Printf("[api] %s misconfigured err=%v", source, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "config_error"})
	case errors.Is(err, analytics.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_period", "msg": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": source + "_unavailable", "retryable": true})
	default:
		log.Printf("[api] %s failed err=%v", source, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
