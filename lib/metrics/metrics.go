// Package metrics exposes Prometheus collectors for the recommendation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendations counts generated lists by variant and source ("ai" or "fallback").
	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodmovies_recommendations_total",
		Help: "Recommendation lists produced, by variant and source.",
	}, []string{"variant", "source"})

	// Normalizations counts sentiment normalizations by outcome.
	Normalizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodmovies_normalizations_total",
		Help: "Mood normalizations, by outcome.",
	}, []string{"outcome"})

	// Enrichments counts metadata lookups by outcome ("found", "not_found", "error").
	Enrichments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodmovies_enrichments_total",
		Help: "Metadata lookups, by outcome.",
	}, []string{"outcome"})

	// Interactions counts tracking attempts by outcome ("inserted", "duplicate", "error").
	Interactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodmovies_interactions_total",
		Help: "Interaction tracking attempts, by outcome.",
	}, []string{"outcome"})

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "moodmovies_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})
)
