package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	votesCastTotal     prometheus.Counter
	pointsWageredTotal prometheus.Counter
	threadsTotal       prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the voting API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spacevote_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spacevote_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spacevote_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		votesCastTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacevote_votes_cast_total",
			Help: "Total number of successfully recorded votes.",
		})

		pointsWageredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacevote_points_wagered_total",
			Help: "Total points debited from voter balances into thread tallies.",
		})

		threadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacevote_threads_created_total",
			Help: "Total number of threads created.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			votesCastTotal,
			pointsWageredTotal,
			threadsTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for served requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// VotesCast exposes the counter for recorded votes.
func VotesCast() prometheus.Counter {
	RegisterMetrics()
	return votesCastTotal
}

// PointsWagered exposes the counter for points moved into tallies.
func PointsWagered() prometheus.Counter {
	RegisterMetrics()
	return pointsWageredTotal
}

// ThreadsCreated exposes the counter for created threads.
func ThreadsCreated() prometheus.Counter {
	RegisterMetrics()
	return threadsTotal
}
