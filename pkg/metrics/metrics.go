package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventboard_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Broadcasts counts fan-out operations by result (success|failure|invalid).
	Broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventboard_broadcasts_total",
			Help: "Total number of notification broadcasts",
		},
		[]string{"result"},
	)

	// FanoutEntries counts recipient ledger rows written by broadcasts.
	FanoutEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventboard_fanout_entries_total",
			Help: "Total number of recipient entries created by fan-out",
		},
	)

	// StaleLinksReconciled counts dangling links removed, by trigger (feed|event_delete|sweep).
	StaleLinksReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventboard_stale_links_reconciled_total",
			Help: "Total number of dangling notification links cleaned up",
		},
		[]string{"trigger"},
	)

	// MaintenanceRemoved counts rows deleted by scheduled maintenance jobs.
	MaintenanceRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventboard_maintenance_removed_total",
			Help: "Rows removed by maintenance jobs",
		},
		[]string{"job"},
	)
)
