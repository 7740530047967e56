package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/cache"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/validation"
)

// getReport serves GET /reports?period=, from the cache when a fresh copy exists.
func (h *api) getReport(c *gin.Context) {
	ctx := c.Request.Context()

	var q validation.ReportQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}
	period, err := h.period(q.Period)
	if err != nil {
		writeError(c, "report", err)
		return
	}

	if h.cfg.Cache != nil {
		rep, err := h.cfg.Cache.Get(ctx, period)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, rep)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("[api] report cache read failed period=%s err=%v", period, err)
		}
	}

	rep, err := analytics.GenerateReport(ctx, period, h.cfg.Now(), h.fetchers(), h.cfg.Analytics.ReportOptions())
	if err != nil {
		writeError(c, "report", err)
		return
	}

	if h.cfg.Cache != nil {
		if err := h.cfg.Cache.Set(ctx, rep); err != nil {
			log.Printf("[api] report cache write failed id=%s err=%v", rep.ID, err)
		}
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, rep)
}

// getRevenue serves GET /revenue?period=.
func (h *api) getRevenue(c *gin.Context) {
	ctx := c.Request.Context()

	var q validation.ReportQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}
	period, err := h.period(q.Period)
	if err != nil {
		writeError(c, "revenue", err)
		return
	}
	now := h.cfg.Now()

	start, err := period.Start(now)
	if err != nil {
		writeError(c, "revenue", err)
		return
	}
	prevStart, _ := period.Start(start)

	orders, err := h.cfg.Orders.ListRange(ctx, analytics.TimeRange{Start: prevStart, End: now})
	if err != nil {
		writeError(c, "revenue", &analytics.FetchError{Source: "orders", Err: err})
		return
	}

	series, err := analytics.ComputeRevenueSeries(orders, period, now)
	if err != nil {
		writeError(c, "revenue", err)
		return
	}
	c.JSON(http.StatusOK, series)
}
