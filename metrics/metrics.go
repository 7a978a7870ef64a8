// Package metrics provides Prometheus metrics for the checker front end.
// It exports:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//   - upstream_requests_total / upstream_request_duration_seconds for calls to the interaction service
//   - checker_outcomes_total for finished interaction checks
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	UpstreamRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls made to the interaction service",
		},
		[]string{"endpoint", "status"},
	)

	// The service scrapes drugs.com on every interaction check, so the
	// buckets go much higher than for our own handlers.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Interaction service call latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)

	CheckOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checker_outcomes_total",
			Help: "Finished interaction checks by outcome",
		},
		[]string{"outcome"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen since the last cleanup)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(UpstreamRequestTotals)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(CheckOutcomes)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}

// ObserveUpstream records one call to the interaction service.
// status is the HTTP status code, or "error" when no response came back.
func ObserveUpstream(endpoint, status string, seconds float64) {
	UpstreamRequestTotals.WithLabelValues(endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}
