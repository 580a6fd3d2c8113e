package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ScanOutcomeCompleted    = "completed"
	ScanOutcomeEmptyCatalog = "empty_catalog"
	ScanOutcomeListFailed   = "list_failed"
	ScanOutcomeInterrupted  = "interrupted"
)

var (
	// ScanCycles counts scheduler scans by outcome.
	ScanCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_cycles_total",
		Help: "The total number of monitoring scans by outcome",
	}, []string{"outcome"})

	// PriceSamplesRecorded counts price samples appended to the history.
	PriceSamplesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_samples_recorded_total",
		Help: "The total number of price samples recorded",
	})

	// ExtractionFailures counts fetch and extraction failures by kind.
	ExtractionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "extraction_failures_total",
		Help: "The total number of vendor fetch or extraction failures by kind",
	}, []string{"kind"})

	// VendorFetchDuration observes the latency of vendor requests.
	VendorFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vendor_fetch_duration_seconds",
		Help:    "Latency of vendor API requests",
		Buckets: prometheus.DefBuckets,
	})

	// MonitorState is 1 while a scan is running and 0 while the scheduler waits.
	MonitorState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "monitor_state",
		Help: "Monitoring scheduler state: 0 idle, 1 scanning",
	})
)
