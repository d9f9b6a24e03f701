package api

import (
	"strconv"
	"time"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend calls. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the backend collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kopikata",
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Total number of calls made to the catalog backend.",
			},
			[]string{"op", "kind", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kopikata",
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Duration of calls made to the catalog backend.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// observe records one call; code 0 means the request never got a response
func (m *Metrics) observe(op string, kind catalog.Kind, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, string(kind), strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
