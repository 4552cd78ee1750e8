// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	sessions       prometheus.Gauge
	lives          prometheus.Counter
	generations    prometheus.Counter
	stabilized     prometheus.Counter
	advanceSeconds prometheus.Histogram
	evictions      *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "madlife_sessions",
			Help: "Sessions currently held in memory",
		}),
		lives: f.NewCounter(prometheus.CounterOpts{
			Name: "madlife_lives_created_total",
			Help: "Random lives created",
		}),
		generations: f.NewCounter(prometheus.CounterOpts{
			Name: "madlife_generations_computed_total",
			Help: "Generations computed by the kernel",
		}),
		stabilized: f.NewCounter(prometheus.CounterOpts{
			Name: "madlife_lives_stabilized_total",
			Help: "Lives that reached a repeated generation",
		}),
		advanceSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "madlife_advance_duration_seconds",
			Help:    "Time spent computing missing generations for one request",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		evictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "madlife_session_evictions_total",
			Help: "Sessions dropped from memory by reason",
		}, []string{"reason"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "madlife_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// SessionOpened counts a new session.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionEvicted counts a dropped session.
func (m *Metrics) SessionEvicted(reason string) {
	if m == nil {
		return
	}
	m.sessions.Dec()
	m.evictions.WithLabelValues(reason).Inc()
}

// LifeCreated counts a new random life.
func (m *Metrics) LifeCreated() {
	if m == nil {
		return
	}
	m.lives.Inc()
}

// Advanced records n newly computed generations that took d.
func (m *Metrics) Advanced(n int, d time.Duration) {
	if m == nil || n <= 0 {
		return
	}
	m.generations.Add(float64(n))
	m.advanceSeconds.Observe(d.Seconds())
}

// Stabilized counts a life that just became stable.
func (m *Metrics) Stabilized() {
	if m == nil {
		return
	}
	m.stabilized.Inc()
}

// Request counts one served HTTP request.
func (m *Metrics) Request(route, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, code).Inc()
}
