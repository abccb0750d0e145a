package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socrates_classifications_total",
			Help: "Total number of classified submissions by outcome category",
		},
		[]string{"category"},
	)

	ExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "socrates_execution_duration_seconds",
			Help:    "Whole-lifecycle duration of one compile+run cycle",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	ExecutionTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socrates_execution_timeouts_total",
			Help: "Total number of runs killed for exceeding the wall-clock budget",
		},
	)

	CleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socrates_cleanup_failures_total",
			Help: "Total number of workspace or container removals that failed",
		},
	)
)
