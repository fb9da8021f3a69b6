package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var generationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "campuslink_generation_fallback_total",
	Help: "Exchanges answered with the fixed fallback content because the language model failed.",
})
