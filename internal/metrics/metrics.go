// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoundsOpened counts negotiation rounds initiated, labeled by strategy.
	RoundsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_negotiation_rounds_opened_total",
		Help: "Negotiation rounds initiated, by strategy.",
	}, []string{"strategy"})

	// RepliesParsed counts supplier replies processed, labeled by outcome.
	RepliesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_supplier_replies_total",
		Help: "Supplier replies processed, by parse outcome (parsed|insufficient).",
	}, []string{"outcome"})

	// SessionsTerminal counts sessions reaching a terminal state, by status.
	SessionsTerminal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_negotiation_sessions_terminal_total",
		Help: "Negotiation sessions reaching a terminal state, by status.",
	}, []string{"status"})

	// DecisionsMade counts finalized decisions, by result.
	DecisionsMade = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_decisions_total",
		Help: "Finalize-and-decide calls, by result (selected|no_eligible_supplier|error).",
	}, []string{"result"})

	// DecisionDuration tracks finalize-and-decide latency.
	DecisionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "procurement_decision_duration_seconds",
		Help:    "Latency of finalize-and-decide.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
