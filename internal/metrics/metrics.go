// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application metrics into a Prometheus registry.
type Collector struct {
	httpStatus      *prometheus.CounterVec
	catalogSuccess  prometheus.Counter
	catalogFail     prometheus.Counter
	catalogLatency  prometheus.Histogram
	bookmarkToggles *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skineedipping_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
		catalogSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skineedipping_catalog_fetch_success_total",
			Help: "Successful catalog API fetches",
		}),
		catalogFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skineedipping_catalog_fetch_fail_total",
			Help: "Failed catalog API fetches",
		}),
		catalogLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skineedipping_catalog_fetch_latency_seconds",
			Help:    "Catalog API fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		bookmarkToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skineedipping_bookmark_toggles_total",
			Help: "Bookmark toggles by outcome",
		}, []string{"action"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.catalogSuccess,
		c.catalogFail,
		c.catalogLatency,
		c.bookmarkToggles,
	)

	return c
}

// RecordHTTPStatus counts a response status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordCatalogSuccess counts a successful catalog fetch.
func (c *Collector) RecordCatalogSuccess() {
	c.catalogSuccess.Inc()
}

// RecordCatalogFailure counts a failed catalog fetch.
func (c *Collector) RecordCatalogFailure() {
	c.catalogFail.Inc()
}

// RecordCatalogLatency observes one catalog fetch duration.
func (c *Collector) RecordCatalogLatency(duration time.Duration) {
	c.catalogLatency.Observe(duration.Seconds())
}

// RecordBookmarkToggle counts a toggle by outcome ("added"/"removed").
func (c *Collector) RecordBookmarkToggle(action string) {
	c.bookmarkToggles.WithLabelValues(action).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records the status code of every response.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.RecordHTTPStatus(rec.status)
	})
}
