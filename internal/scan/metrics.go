package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signalscan_scans_total",
		Help: "Completed scans.",
	})
	sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signalscan_source_failures_total",
		Help: "Source fetches replaced by a fallback signal.",
	}, []string{"source"})
	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signalscan_scan_duration_seconds",
		Help:    "Wall-clock duration of full scans.",
		Buckets: prometheus.DefBuckets,
	})
)
