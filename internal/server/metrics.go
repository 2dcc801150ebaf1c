package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for gfm_chat_requests_total.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeProvider = "provider_error"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gfm_chat_requests_total",
			Help: "Chat requests handled by the gateway, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gfm_chat_request_duration_seconds",
			Help:    "Time spent waiting for the model provider.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}
