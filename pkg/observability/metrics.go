package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector owns
// its registry so several can coexist in one process (tests, CLI).
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// LLM metrics
	LLMCalls    *prometheus.CounterVec
	LLMDuration *prometheus.HistogramVec

	// Business metrics
	InsightsSaved   *prometheus.CounterVec
	Syntheses       *prometheus.CounterVec
	DocumentsRouted *prometheus.CounterVec
	DegradedSlices  *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LLMCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "Total number of LLM completion calls",
			},
			[]string{"provider", "outcome"},
		),
		LLMDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_call_duration_seconds",
				Help:      "LLM completion latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"provider"},
		),
		InsightsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insights_saved_total",
				Help:      "Insight entries persisted, by source",
			},
			[]string{"source"},
		),
		Syntheses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_syntheses_total",
				Help:      "Profile synthesis decisions, by reason",
			},
			[]string{"ran", "reason"},
		),
		DocumentsRouted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_routed_total",
				Help:      "Documents routed, by detected type",
			},
			[]string{"type"},
		),
		DegradedSlices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "context_degraded_slices_total",
				Help:      "Context slices that failed and were replaced by empty values",
			},
			[]string{"slice"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.LLMCalls,
		c.LLMDuration,
		c.InsightsSaved,
		c.Syntheses,
		c.DocumentsRouted,
		c.DegradedSlices,
	)

	return c
}

// Handler exposes the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveLLM records a completed LLM call
func (c *Collector) ObserveLLM(provider string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.LLMCalls.WithLabelValues(provider, outcome).Inc()
	c.LLMDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

// ObserveHTTP records a completed HTTP request
func (c *Collector) ObserveHTTP(method, route, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
