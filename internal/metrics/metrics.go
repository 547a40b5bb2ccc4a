// Package metrics holds the Prometheus collectors exported on the monitoring server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "line_ai_relay"

// Relay outcomes.
const (
	OutcomeReplied   = "replied"
	OutcomeDuplicate = "duplicate"
	OutcomeFiltered  = "filtered"
	OutcomeFailed    = "reply_failed"
	OutcomeSkipped   = "skipped"
)

var (
	// CallbacksTotal counts callbacks by verification result.
	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "callbacks_total",
		Help:      "Webhook callbacks received, by result.",
	}, []string{"result"})

	// EventsTotal counts text message events by relay outcome.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Text message events processed, by outcome.",
	}, []string{"outcome"})

	// CompletionsTotal counts completions by backend and failure kind; an empty kind is a success.
	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completions_total",
		Help:      "Completion requests, by backend and failure kind.",
	}, []string{"backend", "failure"})

	// CompletionDuration observes completion latency by backend.
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Completion latency in seconds, by backend.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"backend"})
)
