package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and export Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "search_requests_total",
			Help:      "Lead searches by outcome",
		},
		[]string{"outcome"}, // "ok" / "no_index" / "shard_failure" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "leadex",
			Name:      "search_duration_seconds",
			Help:      "Lead search duration in seconds, including retries and count fallback",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SortRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "search_sort_retries_total",
			Help:      "Searches retried without sort after an engine error",
		},
	)

	CountFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "search_count_fallbacks_total",
			Help:      "Exact count queries issued for lower-bound totals",
		},
		[]string{"result"}, // "ok" / "error"
	)

	MappingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "mapping_cache_total",
			Help:      "Mapping cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExportJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "export_jobs_total",
			Help:      "Finished export jobs by terminal status",
		},
		[]string{"status"}, // "done" / "error"
	)

	ExportRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadex",
			Name:      "export_rows_total",
			Help:      "Rows written to export files",
		},
	)

	ExportsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "leadex",
			Name:      "exports_running",
			Help:      "Export jobs currently holding a worker slot",
		},
	)
)

var leadMetricsRegistered bool

// RegisterLeadMetrics registers search and export metrics. Must be called once from main.
func RegisterLeadMetrics() {
	if leadMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SortRetriesTotal)
	prometheus.MustRegister(CountFallbacksTotal)
	prometheus.MustRegister(MappingCacheTotal)
	prometheus.MustRegister(ExportJobsTotal)
	prometheus.MustRegister(ExportRowsTotal)
	prometheus.MustRegister(ExportsRunning)
	leadMetricsRegistered = true
}
