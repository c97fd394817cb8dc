// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCompletionDuration tracks generative completion latency.
	LLMCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "Generative completion duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// TrendingCacheHits tracks trending cache hits.
	TrendingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_cache_hits_total",
			Help: "Trending page-1 requests served from cache",
		},
	)

	// TrendingCacheMisses tracks trending cache misses and bypasses.
	TrendingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_cache_misses_total",
			Help: "Trending requests that required a fresh fetch",
		},
	)

	// FallbackServed counts responses degraded to the static catalog.
	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallback_served_total",
			Help: "Responses served from the fallback catalog",
		},
		[]string{"surface"},
	)

	// RecommendationsTotal counts recommendation lists produced.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation lists produced",
		},
		[]string{"surface", "source"},
	)

	// SessionsActive tracks live chat sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Number of live recommendation chat sessions",
		},
	)

	// SessionsSwept counts sessions removed by the periodic sweep.
	SessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sessions_swept_total",
			Help: "Sessions removed by the retention sweep",
		},
	)

	// EventsPublished counts events published to JetStream.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published to the event stream",
		},
		[]string{"subject_class", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCompletion records metrics for one generative completion.
func RecordCompletion(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMCompletionDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
