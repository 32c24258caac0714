// Package metrics defines and registers all custom Prometheus metrics for the
// research tracker dashboard. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto and are exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and signup attempts.
// Labels:
//   - flow: "login" or "signup"
//   - result: "success", "rejected", "superseded" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and signup attempts, by flow and result.",
	},
	[]string{"flow", "result"},
)

// SessionTransitionsTotal counts session lifecycle changes.
// Label:
//   - event: "restored", "discarded", "established", "cleared" or "invalidated"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session lifecycle transitions.",
	},
	[]string{"event"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts redirects issued by the access guard.
// Label:
//   - target: the path redirected to ("/login" or "/projects")
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of redirects issued by the access guard.",
	},
	[]string{"target"},
)

// GuardDenialsTotal counts role checks that failed.
// Label:
//   - route: the echo route path (e.g. "/admin")
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by a role requirement.",
	},
	[]string{"route"},
)

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts requests sent through the authenticated transport.
// Labels:
//   - method: HTTP method
//   - code: response status code, or "error" when no response was received
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the research tracker API.",
	},
	[]string{"method", "code"},
)

// UpstreamRequestDuration measures round-trip latency to the API.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Round-trip duration of requests to the research tracker API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
