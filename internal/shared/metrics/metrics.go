package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the claim pipeline.
type Metrics struct {
	registry *prometheus.Registry

	claimsTotal      *prometheus.CounterVec
	documentsTotal   *prometheus.CounterVec
	claimDuration    prometheus.Histogram
	llmRequestsTotal *prometheus.CounterVec
}

// New constructs a Metrics with its own registry.
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	claimsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claims",
			Name:        "processed_total",
			Help:        "Total claim runs by final decision status.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"decision"},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claims",
			Name:        "documents_total",
			Help:        "Total documents processed by type and status.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"type", "status"},
	)
	claimDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "claims",
			Name:        "processing_seconds",
			Help:        "End-to-end claim processing duration in seconds.",
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	llmRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claims",
			Subsystem:   "llm",
			Name:        "requests_total",
			Help:        "Total LLM calls by outcome.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"outcome"},
	)

	registry.MustRegister(claimsTotal, documentsTotal, claimDuration, llmRequestsTotal)

	return &Metrics{
		registry:         registry,
		claimsTotal:      claimsTotal,
		documentsTotal:   documentsTotal,
		claimDuration:    claimDuration,
		llmRequestsTotal: llmRequestsTotal,
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordClaim records one completed claim run.
func (m *Metrics) RecordClaim(decision string, duration time.Duration) {
	if m == nil {
		return
	}
	m.claimsTotal.WithLabelValues(decision).Inc()
	m.claimDuration.Observe(duration.Seconds())
}

// RecordDocument records one per-document processing result.
func (m *Metrics) RecordDocument(docType, status string) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(docType, status).Inc()
}

// RecordLLMRequest records one LLM call outcome ("ok" or "error").
func (m *Metrics) RecordLLMRequest(outcome string) {
	if m == nil {
		return
	}
	m.llmRequestsTotal.WithLabelValues(outcome).Inc()
}
