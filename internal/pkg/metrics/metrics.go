package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yieldgate_provider_attempts_total",
		Help: "AI provider attempts by outcome (success, transport_error, extract_error, skipped)",
	}, []string{"provider", "outcome"})

	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yieldgate_source_fetch_total",
		Help: "Market data source fetches by outcome",
	}, []string{"source", "outcome"})

	RecommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yieldgate_recommendations_total",
		Help: "Recommendation batches served, labelled by data source",
	}, []string{"source"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yieldgate_http_requests_total",
		Help: "HTTP requests by route template and status class",
	}, []string{"endpoint", "status"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yieldgate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
