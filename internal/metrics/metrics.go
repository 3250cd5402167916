// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Total number of processed import rows by outcome",
		},
		[]string{"outcome"},
	)

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of submitted evaluations",
		},
		[]string{"category"},
	)

	EvaluationScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_score",
			Help:    "Distribution of submitted total scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"category"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
