package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Removal subsystem metrics
var (
	// RemovalsTotal counts top-level removal requests by terminal outcome
	RemovalsTotal *prometheus.CounterVec

	// FilesRemovedTotal counts individual files and symlinks unlinked
	FilesRemovedTotal prometheus.Counter

	// DirsRemovedTotal counts directories removed
	DirsRemovedTotal prometheus.Counter

	// RetriesTotal counts consumed retry slots across all leaf operations
	RetriesTotal prometheus.Counter

	// PermRepairsTotal counts successful one-shot permission repairs
	PermRepairsTotal prometheus.Counter

	// ErrorsTotal counts removal requests that terminated with an error
	ErrorsTotal prometheus.Counter

	// RemovalDuration tracks wall time of top-level removal requests
	RemovalDuration prometheus.Histogram
)

// initRemovalMetrics initializes all removal subsystem metrics
func initRemovalMetrics() {
	RemovalsTotal = NewCounterVec(
		"saferm_removals_total",
		"Total top-level removal requests by outcome.",
		[]string{"outcome"},
	)

	FilesRemovedTotal = NewCounter(
		"saferm_files_removed_total",
		"Total number of files and symlinks removed.",
	)

	DirsRemovedTotal = NewCounter(
		"saferm_dirs_removed_total",
		"Total number of directories removed.",
	)

	RetriesTotal = NewCounter(
		"saferm_retries_total",
		"Total retry slots consumed by transient filesystem errors.",
	)

	PermRepairsTotal = NewCounter(
		"saferm_perm_repairs_total",
		"Total successful permission repairs on stubborn entries.",
	)

	ErrorsTotal = NewCounter(
		"saferm_errors_total",
		"Total removal requests that terminated with an error.",
	)

	RemovalDuration = NewDurationHistogram(
		"saferm_removal_duration_seconds",
		"Duration of top-level removal requests in seconds.",
	)
}

// registerRemovalMetrics registers all removal metrics with Prometheus
func registerRemovalMetrics() {
	prometheus.MustRegister(
		RemovalsTotal,
		FilesRemovedTotal,
		DirsRemovedTotal,
		RetriesTotal,
		PermRepairsTotal,
		ErrorsTotal,
		RemovalDuration,
	)
}
