package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the search engine and the
// HTTP surface. A single instance is shared through the application.
type Metrics struct {
	SearchRuns        prometheus.Counter
	SearchRunsFailed  prometheus.Counter
	WorkbooksScanned  prometheus.Counter
	WorkbooksFailed   prometheus.Counter
	MatchesFound      prometheus.Counter
	RunDuration       prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers the application instruments on the given registerer.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescan_search_runs_total",
			Help: "Total number of completed search runs.",
		}),
		SearchRunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescan_search_runs_failed_total",
			Help: "Total number of search runs that terminated with an error.",
		}),
		WorkbooksScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescan_workbooks_scanned_total",
			Help: "Total number of workbooks scanned across all runs.",
		}),
		WorkbooksFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescan_workbooks_failed_total",
			Help: "Total number of workbooks that could not be read.",
		}),
		MatchesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescan_matches_found_total",
			Help: "Total number of cell matches emitted across all runs.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "namescan_run_duration_seconds",
			Help:    "Duration of complete search runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namescan_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namescan_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
