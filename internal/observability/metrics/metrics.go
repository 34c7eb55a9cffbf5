package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	stockMovements  *prometheus.CounterVec
	stockRejections *prometheus.CounterVec
	lowStockQueries prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tavolo_stock_movements_total",
			Help: "Committed stock-ledger mutations by change type.",
		}, []string{"change_type"}),
		stockRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tavolo_stock_rejections_total",
			Help: "Stock mutations rejected by a business rule.",
		}, []string{"reason"}),
		lowStockQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tavolo_low_stock_queries_total",
			Help: "Low-stock report reads.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tavolo_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{
		m.stockMovements,
		m.stockRejections,
		m.lowStockQueries,
		m.httpDuration,
	} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) RecordStockMovement(changeType string) {
	if m == nil {
		return
	}
	m.stockMovements.WithLabelValues(changeType).Inc()
}

func (m *Metrics) RecordStockRejection(reason string) {
	if m == nil {
		return
	}
	m.stockRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordLowStockQuery() {
	if m == nil {
		return
	}
	m.lowStockQueries.Inc()
}

// GinMiddleware observes request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
