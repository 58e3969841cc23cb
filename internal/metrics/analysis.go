package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis pipeline Prometheus metrics.
var (
	AnalysisStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	TopicOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topic_outcomes_total",
			Help:      "Topic analysis results by outcome",
		},
		[]string{"outcome"},
	)

	ArticleFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_fetch_total",
			Help:      "Article fetches by role and status",
		},
		[]string{"role", "status"}, // role: original / alternative
	)

	AlternativesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alternatives_returned",
			Help:      "Alternative articles returned per analysis after enrichment",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

var registerOnce sync.Once

// Register registers every newslens metric with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			HTTPRequestsTotal,
			HTTPRequestsInFlight,
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			EmbeddingQuotaRemaining,
			ProviderRequestsTotal,
			ProviderRequestDuration,
			SearchCacheTotal,
			ProviderQuotaRemaining,
			AnalysisStageDuration,
			TopicOutcomesTotal,
			ArticleFetchTotal,
			AlternativesReturned,
		)
	})
}
