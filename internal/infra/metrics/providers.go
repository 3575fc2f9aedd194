package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		providerCallsTotal,
		providerCallLatencyMs,
	)
}

var (
	providerCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Outbound provider calls by provider and success.",
		},
		[]string{"provider", "success"},
	)

	providerCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_latency_ms",
			Help:    "Provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)
)

// ObserveProviderCall records one outbound round trip.
func ObserveProviderCall(provider string, latencyMs int64, success bool) {
	s := strconv.FormatBool(success)
	providerCallsTotal.WithLabelValues(provider, s).Inc()
	providerCallLatencyMs.WithLabelValues(provider, s).Observe(float64(latencyMs))
}
