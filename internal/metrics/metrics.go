// Package metrics registers the service's Prometheus collectors with the
// default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "otta"

// ── Attendance ───────────────────────────────────────────────────────────────

// EntriesTotal counts persisted entry transitions.
// Labels:
//   - action: "check_in", "check_out" or "manual"
//   - type: the entry type (e.g. "OFFICE_WORK", "SICK_LEAVE")
var EntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_total",
		Help:      "Total number of attendance entries created or closed.",
	},
	[]string{"action", "type"},
)

// RejectedTotal counts attendance requests refused before any write.
// Label:
//   - reason: "already_checked_in", "no_active_entry", "validation"
var RejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_rejected_total",
		Help:      "Total number of attendance requests rejected.",
	},
	[]string{"reason"},
)

// ── Notifications ────────────────────────────────────────────────────────────

// NotificationsTotal counts change notifications by source and outcome.
// Labels:
//   - source: "local" or "remote"
//   - result: "delivered" or "suppressed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of log-changed notifications, by source and result.",
	},
	[]string{"source", "result"},
)

// ── Replication ──────────────────────────────────────────────────────────────

// ReplicationTotal counts replication attempts.
// Labels:
//   - action: "ADD_USER" or "LOG_ATTENDANCE"
//   - result: "sent", "failed" or "dropped"
var ReplicationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replication_total",
		Help:      "Total number of outbound replication envelopes, by result.",
	},
	[]string{"action", "result"},
)

// ReplicationQueueDepth is the number of envelopes waiting to be sent.
var ReplicationQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "replication_queue_depth",
		Help:      "Current number of envelopes pending in the replication queue.",
	},
)

// ── Reports ──────────────────────────────────────────────────────────────────

// ReportDuration measures report compilation and rendering.
// Label:
//   - format: "xlsx" or "json"
var ReportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of attendance report generation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"format"},
)

// InsightRequestsTotal counts insight generations.
// Label:
//   - result: "ok", "fallback" or "unconfigured"
var InsightRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insight_requests_total",
		Help:      "Total number of insight generations, by result.",
	},
	[]string{"result"},
)
