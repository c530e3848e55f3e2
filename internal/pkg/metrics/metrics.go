// Package metrics defines and registers the custom Prometheus metrics of the
// DAIN dashboard gateway. Metrics are registered with the default registry on
// package initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dain"

// ── Session metrics ───────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "network_error",
//     "server_error", "store_error", "superseded" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionTransitionsTotal counts session lifecycle transitions.
// Label:
//   - kind: signed_in, signed_out, forced_sign_out, session_restored, session_rejected
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by kind.",
	},
	[]string{"kind"},
)

// ActiveInstances tracks the client instances currently held in memory.
var ActiveInstances = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_client_instances",
		Help:      "Number of client instances with an in-memory session controller.",
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - decision: "render", "redirect" or "loading"
//   - route: the requested route, or "other" for unknown paths
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"decision", "route"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures outbound calls to the REST API.
// Label:
//   - status: HTTP status code, or "network_error" when no response arrived
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of outbound requests to the backend API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// SessionEventsDropped counts audit-trail events that could not be queued
// or stored.
// Label:
//   - reason: "queue_full" or "insert_failed"
var SessionEventsDropped = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_dropped_total",
		Help:      "Total number of session audit events that were dropped.",
	},
	[]string{"reason"},
)
