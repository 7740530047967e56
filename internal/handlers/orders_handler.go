package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/orders"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/validation"
)

// getOrderMetrics serves GET /orders/metrics?period=&top=. Without a period every order is counted.
func (h *api) getOrderMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	var q validation.OrderMetricsQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}
	now := h.cfg.Now()
	opts := analytics.OrderOptions{TopN: h.cfg.Analytics.TopItems, Location: now.Location()}
	if q.Top > 0 {
		opts.TopN = q.Top
	}

	var (
		list []records.Order
		err  error
	)
	if q.Period == "" {
		list, err = h.cfg.Orders.List(ctx)
	} else {
		period, perr := h.period(q.Period)
		if perr != nil {
			writeError(c, "orders", perr)
			return
		}
		start, _ := period.Start(now)
		window := analytics.TimeRange{Start: start, End: now}
		opts.Window = &window
		list, err = h.cfg.Orders.ListRange(ctx, window)
	}
	if err != nil {
		writeError(c, "orders", &analytics.FetchError{Source: "orders", Err: err})
		return
	}

	c.JSON(http.StatusOK, analytics.ComputeOrderMetrics(list, opts))
}

// updateOrderStatus serves PATCH /orders/:id/status. The move only happens if the order is
// still in the status the caller last saw.
func (h *api) updateOrderStatus(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	var req validation.StatusUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		// BindAndValidate already wrote a 400
		return
	}
	from := records.ParseStatus(req.From)
	to := records.ParseStatus(req.To)

	err := h.cfg.Orders.UpdateStatus(ctx, orderID, from, to)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found", "order_id": orderID})
		return
	case errors.Is(err, orders.ErrStatusMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "status_mismatch", "order_id": orderID, "expected": from})
		return
	case err != nil:
		writeError(c, "orders", err)
		return
	}

	log.Printf("[api] order %s status %s -> %s", orderID, from, to)
	if h.cfg.Cache != nil {
		if err := h.cfg.Cache.Invalidate(ctx); err != nil {
			log.Printf("[api] report cache invalidate failed err=%v", err)
		}
	}
	if h.cfg.Notifier != nil {
		if err := h.cfg.Notifier.Notify(ctx, analytics.StatusChangeAlert(orderID, from, to)); err != nil {
			log.Printf("[api] status alert failed order=%s err=%v", orderID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": to})
}
