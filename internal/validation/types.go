package validation

// DefaultPeriod is used when a request names no period.
const DefaultPeriod = "week"

// ReportQuery is the query string of GET /reports and GET /revenue.
type ReportQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=day week month year"`
}

// OrderMetricsQuery is the query string of GET /orders/metrics. An empty period means all orders.
type OrderMetricsQuery struct {
	Period string `form:"period" validate:"omitempty,oneof=day week month year"`
	Top    int    `form:"top" validate:"omitempty,min=1,max=100"`
}

// CustomerMetricsQuery is the query string of GET /customers/metrics.
type CustomerMetricsQuery struct {
	VIPThreshold *float64 `form:"vip_threshold" validate:"omitempty,gt=0"`
}

// StatusUpdateRequest is the payload for PATCH /orders/:id/status
type StatusUpdateRequest struct {
	From string `json:"from" validate:"required,order_status"` // status the caller last saw
	To   string `json:"to" validate:"required,order_status,nefield=From"`
}
