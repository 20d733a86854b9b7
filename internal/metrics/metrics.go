// Package metrics defines and registers the Prometheus metrics of the
// DigitalLog console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry on import; the route server
// exposes them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "digitallog"

// ── Action metrics ────────────────────────────────────────────────────────────

// ActionsTotal counts completed actions.
// Labels:
//   - action: "login", "signup", "settings_profile", "settings_password", "logout"
//   - outcome: "ok", or the error code ("ValidationError", "AuthorizationError", "ServerError"),
//     or "redirect" when an action bailed out before the network call
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of client actions, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// ActionDuration measures the time an action spends end-to-end, network included.
var ActionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "action_duration_seconds",
		Help:      "Duration of client actions from submission to result.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// RefreshOutcomesTotal counts token refresh attempts.
// Label:
//   - outcome: "authenticated", "awaiting_login", or "fatal"
var RefreshOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_outcomes_total",
		Help:      "Total number of token refresh attempts, by resulting state.",
	},
	[]string{"outcome"},
)

// SessionClearsTotal counts session wipes.
// Label:
//   - reason: "logout" or "refresh_expired"
var SessionClearsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_clears_total",
		Help:      "Total number of times the local session was cleared.",
	},
	[]string{"reason"},
)

// ── Queue metrics ─────────────────────────────────────────────────────────────

// ActionQueueDepth tracks how many session-mutating actions wait for the serializer.
var ActionQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "action_queue_depth",
		Help:      "Current number of session-mutating actions waiting to run.",
	},
)

// ObserveAction records one finished action.
func ObserveAction(action, outcome string, started time.Time) {
	ActionsTotal.WithLabelValues(action, outcome).Inc()
	ActionDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}
