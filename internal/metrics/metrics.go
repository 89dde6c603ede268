// Package metrics exposes Prometheus instruments for match play.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quiz"

// Metrics groups the match and selector instruments. A nil *Metrics is a no-op.
type Metrics struct {
	matchesStarted  prometheus.Counter
	matchesFinished *prometheus.CounterVec
	activeMatches   prometheus.Gauge
	answers         *prometheus.CounterVec
	goals           prometheus.Counter
	poolLow         prometheus.Counter
	selectDuration  prometheus.Histogram
	recordFailures  prometheus.Counter
}

// New registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		matchesStarted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "started_total",
			Help:      "Matches started.",
		}),
		matchesFinished: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "finished_total",
			Help:      "Matches finished, by outcome.",
		}, []string{"outcome"}),
		activeMatches: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "active",
			Help:      "Matches currently running.",
		}),
		answers: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "answers_total",
			Help:      "Submitted answers, by result.",
		}, []string{"result"}),
		goals: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "goals_total",
			Help:      "Goals scored.",
		}),
		poolLow: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "pool_low_total",
			Help:      "Selections that returned fewer questions than requested.",
		}),
		selectDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "select_duration_seconds",
			Help:      "Question selection latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		recordFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "record_failures_total",
			Help:      "Match results that could not be persisted.",
		}),
	}
}

func (m *Metrics) MatchStarted() {
	if m == nil {
		return
	}
	m.matchesStarted.Inc()
	m.activeMatches.Inc()
}

func (m *Metrics) MatchFinished(outcome string) {
	if m == nil {
		return
	}
	m.matchesFinished.WithLabelValues(outcome).Inc()
	m.activeMatches.Dec()
}

// Answer counts a submission; result is accepted, stale or rejected.
func (m *Metrics) Answer(result string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(result).Inc()
}

func (m *Metrics) Goal() {
	if m == nil {
		return
	}
	m.goals.Inc()
}

func (m *Metrics) PoolLow() {
	if m == nil {
		return
	}
	m.poolLow.Inc()
}

func (m *Metrics) ObserveSelect(seconds float64) {
	if m == nil {
		return
	}
	m.selectDuration.Observe(seconds)
}

func (m *Metrics) RecordFailed() {
	if m == nil {
		return
	}
	m.recordFailures.Inc()
}
