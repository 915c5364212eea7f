// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records per-request counters and latency.
type Collector struct {
	registry    *prometheus.Registry
	httpStatus  *prometheus.CounterVec
	httpLatency prometheus.Histogram
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "godsaeng_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "godsaeng_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	c.registry.MustRegister(c.httpStatus, c.httpLatency)
	return c
}

// Record counts one finished request.
func (c *Collector) Record(method, path string, status int, d time.Duration) {
	c.httpStatus.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(d.Seconds())
}

// Handler serves the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware returns an Echo middleware that records every request. The
// route template, not the raw URL, is used as the path label to keep
// cardinality bounded.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			start := time.Now()
			err := next(ec)
			status := ec.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			c.Record(ec.Request().Method, ec.Path(), status, time.Since(start))
			return err
		}
	}
}
