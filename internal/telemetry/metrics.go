package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ragward service.
type Metrics struct {
	RequestTotal         *prometheus.CounterVec
	RequestDurationMs    *prometheus.HistogramVec
	GuardrailViolations  *prometheus.CounterVec
	GuardrailBlocked     *prometheus.CounterVec
	GenerationDurationMs *prometheus.HistogramVec
	EmbeddingCacheTotal  *prometheus.CounterVec
	RateLimitHits        *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragward_request_total",
			Help: "Total number of requests processed.",
		}, []string{"endpoint", "status"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragward_request_duration_ms",
			Help:    "Total request duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"endpoint"}),

		GuardrailViolations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragward_guardrail_violation_total",
			Help: "Total guardrail violations detected, by check kind and severity.",
		}, []string{"kind", "severity"}),

		GuardrailBlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragward_guardrail_blocked_total",
			Help: "Total requests blocked by the guardrail gateway, by policy mode.",
		}, []string{"mode"}),

		GenerationDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragward_generation_duration_ms",
			Help:    "LLM answer generation duration in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"provider", "model"}),

		EmbeddingCacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragward_embedding_cache_total",
			Help: "Embedding cache lookups, by outcome (hit or miss).",
		}, []string{"outcome"}),

		RateLimitHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ragward_ratelimit_hit_total",
			Help: "Total requests rejected by the rate limiter.",
		}, []string{"identity"}),
	}
}

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(endpoint, status string, durationMs float64) {
	m.RequestTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDurationMs.WithLabelValues(endpoint).Observe(durationMs)
}

// RecordViolation records one detected guardrail violation.
func (m *Metrics) RecordViolation(kind, severity string) {
	m.GuardrailViolations.WithLabelValues(kind, severity).Inc()
}

// RecordBlocked records a request blocked by the guardrail gateway.
func (m *Metrics) RecordBlocked(mode string) {
	m.GuardrailBlocked.WithLabelValues(mode).Inc()
}

// RecordGeneration records an LLM generation (successful or not).
func (m *Metrics) RecordGeneration(provider, model string, durationMs float64) {
	m.GenerationDurationMs.WithLabelValues(provider, model).Observe(durationMs)
}

// RecordCacheLookup records an embedding cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.EmbeddingCacheTotal.WithLabelValues(outcome).Inc()
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit(identity string) {
	m.RateLimitHits.WithLabelValues(identity).Inc()
}
