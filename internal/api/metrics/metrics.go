// Package metrics defines and registers all custom Prometheus metrics for
// the certification tracking service. It is the single source of truth for
// metric names, labels, and help strings; metrics register themselves with
// the default registry at init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "certtrack"

// CertificationsCreatedTotal counts certifications added by users.
var CertificationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certifications_created_total",
		Help:      "Total number of certifications added.",
	},
)

// RenewalDecisionsTotal counts admin renewal decisions.
// Label:
//   - decision: "approved" or "rejected"
var RenewalDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renewal_decisions_total",
		Help:      "Total number of renewal requests decided, by decision.",
	},
	[]string{"decision"},
)

// NotificationsGeneratedTotal counts notices written to user lists.
// Label:
//   - type: "expired", "expiring-soon", or "admin-message"
var NotificationsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_generated_total",
		Help:      "Total number of notifications generated, by type.",
	},
	[]string{"type"},
)

// AuditEntriesEvictedTotal counts activity-log entries dropped by the
// 500-entry FIFO cap.
var AuditEntriesEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_evicted_total",
		Help:      "Total number of audit entries evicted by the log cap.",
	},
)

// StoreOperationDuration measures KV store round-trips.
// Labels:
//   - op: "get", "set", or "delete"
//   - driver: "redis" or "mongo"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of key-value store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "driver"},
)
