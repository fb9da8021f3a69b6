package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	primarySearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_retrieval_primary_total",
		Help: "Searches answered by the full-text index.",
	})
	fallbackSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_retrieval_fallback_total",
		Help: "Searches that fell through to substring matching.",
	})
	emptySearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_retrieval_empty_total",
		Help: "Searches that produced no results from either tier.",
	})
	analysisFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_intent_degraded_total",
		Help: "Questions answered without NLP analysis (lexicon only).",
	})
)
