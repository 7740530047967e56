package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/validation"
)

// getCustomerMetrics serves GET /customers/metrics?vip_threshold=.
func (h *api) getCustomerMetrics(c *gin.Context) {
	var q validation.CustomerMetricsQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}
	opts := h.cfg.Analytics.ReportOptions().Customer
	if q.VIPThreshold != nil {
		opts.VIPThreshold = *q.VIPThreshold
	}

	list, err := h.cfg.Customers.List(c.Request.Context())
	if err != nil {
		writeError(c, "customers", &analytics.FetchError{Source: "customers", Err: err})
		return
	}
	c.JSON(http.StatusOK, analytics.ComputeCustomerMetrics(list, h.cfg.Now(), opts))
}

// getInventoryStock serves GET /inventory/stock: stock classification plus the alerts it raises.
func (h *api) getInventoryStock(c *gin.Context) {
	items, err := h.cfg.Inventory.List(c.Request.Context())
	if err != nil {
		writeError(c, "inventory", &analytics.FetchError{Source: "inventory", Err: err})
		return
	}
	alerts := analytics.StockAlerts(items)
	if alerts == nil {
		alerts = []analytics.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics": analytics.ComputeInventoryMetrics(items),
		"alerts":  alerts,
	})
}
