package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	taskTransitionsTotal *prometheus.CounterVec
	taskEventsTotal      *prometheus.CounterVec
	aiGenerationsTotal   *prometheus.CounterVec
	deploymentsTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tdt_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		taskTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_task_transitions_total",
			Help: "Task workflow actions recorded in the activity log.",
		}, []string{"action"})

		taskEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_task_events_published_total",
			Help: "Task events fanned out to brokers.",
		}, []string{"broker", "result"})

		aiGenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_ai_generations_total",
			Help: "CI/CD generations by terminal status.",
		}, []string{"status"})

		deploymentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdt_deployments_total",
			Help: "Deployments by status transition.",
		}, []string{"environment", "status"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			taskTransitionsTotal,
			taskEventsTotal,
			aiGenerationsTotal,
			deploymentsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// TaskTransitions counts workflow actions.
func TaskTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return taskTransitionsTotal
}

// TaskEventsPublished counts broker publishes.
func TaskEventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return taskEventsTotal
}

// AIGenerations counts terminal generation outcomes.
func AIGenerations() *prometheus.CounterVec {
	RegisterMetrics()
	return aiGenerationsTotal
}

// Deployments counts deployment records by status.
func Deployments() *prometheus.CounterVec {
	RegisterMetrics()
	return deploymentsTotal
}
