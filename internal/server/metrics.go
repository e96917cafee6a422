package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	selected prometheus.Histogram
	empty    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churnboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "churnboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		selected: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "churnboard",
			Name:      "filtered_customers",
			Help:      "Customers kept by each filter request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		empty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "churnboard",
			Name:      "empty_selections_total",
			Help:      "Filter requests that matched no customers.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.selected, m.empty)
	return m
}

func (m *metrics) observeRequest(route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *metrics) observeSelection(n int) {
	m.selected.Observe(float64(n))
	if n == 0 {
		m.empty.Inc()
	}
}
