package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bustracker_ingest_cycles_total",
		Help: "Number of ingest cycles started",
	})
	positionsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bustracker_ingest_positions_total",
		Help: "Number of vehicle positions written to the store",
	})
	rowsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bustracker_ingest_rows_skipped_total",
		Help: "Number of malformed feed rows skipped",
	})
	feedFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bustracker_ingest_feed_failures_total",
		Help: "Number of feed downloads that failed",
	})
	positionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bustracker_ingest_positions_swept_total",
		Help: "Number of positions removed by the retention sweep",
	})
	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bustracker_ingest_cycle_duration_seconds",
		Help:    "Wall clock duration of a full ingest cycle",
		Buckets: prometheus.DefBuckets,
	})
)
