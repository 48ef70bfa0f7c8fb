// Package metrics defines and registers all custom Prometheus metrics for
// the Atom Connect API. It is the single source of truth for metric names,
// labels, and help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "atomconnect"

// LoginsTotal counts sign-in attempts by outcome.
// Labels:
//   - result: "success", "failure", "inactive", "throttled", "oauth"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account creations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// BulkActionsTotal counts bulk administrative actions.
// Labels:
//   - entity: "user", "organization", "training"
//   - action: the action verb from the request body
var BulkActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_actions_total",
		Help:      "Total number of bulk administrative actions, by entity and action.",
	},
	[]string{"entity", "action"},
)

// AuditEventsTotal counts audit trail writes by outcome recorded on the event.
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events persisted, by recorded outcome.",
	},
	[]string{"outcome"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit trail write.",
		Buckets:   prometheus.DefBuckets,
	},
)
