// Package metrics exposes Prometheus counters for ledger writes, period
// transitions, statement archiving and live-sync delivery.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paydaypal"

var (
	LedgerUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_updates_total",
			Help:      "Ledger writes by mode (increment or set).",
		},
		[]string{"mode"},
	)

	PeriodTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "period_transitions_total",
			Help:      "Period starts and finishes.",
		},
		[]string{"action"},
	)

	ArchiveUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "Payday statement uploads by outcome.",
		},
		[]string{"status"},
	)

	ArchiveUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_upload_duration_seconds",
			Help:      "Time spent sealing and uploading a statement, retries included.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	BroadcastsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "broadcasts_dropped_total",
			Help:      "Live-sync messages dropped because a client buffer was full.",
		},
	)

	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connected_clients",
			Help:      "Open live-sync connections.",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
