// Package metrics defines and registers all custom Prometheus metrics for the
// studio backend. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studio"

// ── Identity metrics ──────────────────────────────────────────────────────────

// IdentityOpsTotal counts identity provider calls.
// Labels:
//   - op: "create", "provision", "sign_in", "sign_in_credential", "sign_out", …
//   - result: "ok" or "error"
var IdentityOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_ops_total",
		Help:      "Total number of identity provider operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// SessionsRevokedTotal counts successful sign-outs.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of session tokens revoked by sign-out.",
	},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentOpsTotal counts document store calls.
// Labels:
//   - collection: the addressed collection (e.g. "Lesson")
//   - op: "get", "create", "set", "update", "delete", "query"
//   - result: "ok" or "error"
var DocumentOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_ops_total",
		Help:      "Total number of document store operations.",
	},
	[]string{"collection", "op", "result"},
)

// DocumentOpDuration measures how long a document store call takes.
// Label:
//   - op: same values as DocumentOpsTotal
var DocumentOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_op_duration_seconds",
		Help:      "Duration of document store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)
