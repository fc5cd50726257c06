// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "algoref"

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Collector records HTTP and domain metrics. A nil *Collector records nothing.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	loginAttempts  *prometheus.CounterVec
	algorithmViews prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		algorithmViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "algorithm_views_total",
			Help:      "Successful algorithm detail reads.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.loginAttempts,
		c.algorithmViews,
	)
	return c
}

// RecordRequest records one finished HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.loginAttempts.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAlgorithmView() {
	if c == nil {
		return
	}
	c.algorithmViews.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
