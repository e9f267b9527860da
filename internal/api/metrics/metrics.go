// Package metrics defines and registers all custom Prometheus metrics for
// the ChemTrack dashboard API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the gate gauge additionally needs ObserveGate wired at startup.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chemtrack"

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// DispatchesTotal counts remote dispatch attempts.
// Labels:
//   - operation: "create", "transfer", "complete", "fetch"
//   - outcome: "ok", "rejected" (validation/gate/sender — never left the
//     process) or "failed" (remote rejection)
var DispatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatches_total",
		Help:      "Total number of batch operation dispatch attempts, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// DispatchDuration measures a dispatch from validation to provider answer.
// Label:
//   - operation: as above
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of batch operation dispatches end-to-end.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "ok" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// ReloadsTotal counts full application reloads.
// Label:
//   - reason: "logout" or "chain-changed"
var ReloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reloads_total",
		Help:      "Total number of full application reloads, by reason.",
	},
	[]string{"reason"},
)

// gateFn holds the current generation's in-flight probe. Swappable so
// that application reloads re-point the gauge instead of re-registering
// it (duplicate registration panics).
var gateFn atomic.Value // func() bool

var _ = promauto.NewGaugeFunc(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_in_flight",
		Help:      "Whether a state-changing dispatch is currently in flight.",
	},
	func() float64 {
		if fn, ok := gateFn.Load().(func() bool); ok && fn() {
			return 1
		}
		return 0
	},
)

// ObserveGate points the dispatch_in_flight gauge at the given probe.
func ObserveGate(inFlight func() bool) {
	gateFn.Store(inFlight)
}
