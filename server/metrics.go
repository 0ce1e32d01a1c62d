package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "iris"

type metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	violations prometheus.Counter
	malformed  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Requests answered, by method and status code.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Time from reading a request to writing its answer.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "contract_violations_total",
			Help:      "Connections aborted by a panicking handler.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_requests_total",
			Help:      "Connections closed because the request could not be read.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.violations, m.malformed)

	return m
}

func (m *metrics) observe(method string, code int, seconds float64) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method).Observe(seconds)
}
