// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the dampdf service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dampdf_uploads_total",
		Help: "Total number of accepted file uploads by tool type",
	}, []string{"tool"})

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dampdf_jobs_total",
		Help: "Terminal job outcomes by tool type and outcome",
	}, []string{"tool", "outcome"}) // outcome=completed|failed

	processingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dampdf_processing_duration_seconds",
		Help:    "Wall time of a single transform invocation",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"tool"})

	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dampdf_downloads_total",
		Help: "Artifact downloads by tool type",
	}, []string{"tool"})

	// Operational metrics
	storeBackend = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dampdf_store_backend",
		Help: "Active session store backend (1 for the selected backend)",
	}, []string{"backend"}) // backend=redis|memory

	storeWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dampdf_store_write_errors_total",
		Help: "Total number of session store write failures",
	})

	usageEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dampdf_usage_events_dropped_total",
		Help: "Usage-tracking events that could not be recorded",
	})

	expiredDownloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dampdf_expired_downloads_total",
		Help: "Download attempts rejected because the artifact had expired",
	})
)

// RecordUpload counts an accepted upload.
func RecordUpload(tool string) {
	uploadsTotal.WithLabelValues(tool).Inc()
}

// RecordJobOutcome counts a terminal job transition.
func RecordJobOutcome(tool, outcome string) {
	jobsTotal.WithLabelValues(tool, outcome).Inc()
}

// ObserveProcessingDuration records the wall time of one transform.
func ObserveProcessingDuration(tool string, seconds float64) {
	processingDuration.WithLabelValues(tool).Observe(seconds)
}

// RecordDownload counts a served artifact download.
func RecordDownload(tool string) {
	downloadsTotal.WithLabelValues(tool).Inc()
}

// SetStoreBackend marks which store backend is active.
func SetStoreBackend(backend string) {
	storeBackend.Reset()
	storeBackend.WithLabelValues(backend).Set(1)
}

// RecordStoreWriteError counts a failed session store write.
func RecordStoreWriteError() {
	storeWriteErrors.Inc()
}

// RecordUsageEventDropped counts a lost usage-tracking event.
func RecordUsageEventDropped() {
	usageEventsDropped.Inc()
}

// RecordExpiredDownload counts a download rejected as expired.
func RecordExpiredDownload() {
	expiredDownloads.Inc()
}
