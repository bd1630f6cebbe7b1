package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and document-loader Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "retrieval_requests_total",
			Help:      "Retrieval calls by outcome",
		},
		[]string{"outcome"},
	)

	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration in seconds, document loading included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DocumentsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docqa",
			Name:      "documents_loaded",
			Help:      "Documents in the most recent snapshot",
		},
	)

	ExtractionFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "extraction_fallbacks_total",
			Help:      "Files served with filename-derived fallback content",
		},
		[]string{"format", "reason"},
	)

	ContentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "content_cache_total",
			Help:      "Extracted-content cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval and loader metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(DocumentsLoaded)
	prometheus.MustRegister(ExtractionFallbacksTotal)
	prometheus.MustRegister(ContentCacheTotal)
	retrievalMetricsRegistered = true
}
