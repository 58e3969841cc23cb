package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider call outcomes.
const (
	ProviderStatusOK      = "ok"
	ProviderStatusEmpty   = "empty"
	ProviderStatusError   = "error"
	ProviderStatusSkipped = "skipped"
)

// Search provider Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_provider_requests_total",
			Help:      "Search provider calls by outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_provider_request_duration_seconds",
			Help:      "Search provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"provider", "result"},
	)

	ProviderQuotaRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_provider_quota_remaining",
			Help:      "Requests left in the provider's daily quota",
		},
		[]string{"provider"},
	)
)
