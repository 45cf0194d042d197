package observability

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by session hooks.
type Metrics struct {
	Started  *prometheus.CounterVec
	Ended    *prometheus.CounterVec
	Events   *prometheus.CounterVec
	Ticks    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neobabu_sessions_started_total",
				Help: "Total number of interactive sessions started",
			},
			[]string{"session"},
		),
		Ended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neobabu_sessions_ended_total",
				Help: "Total number of interactive sessions ended, by reason",
			},
			[]string{"session", "reason"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neobabu_session_events_total",
				Help: "Total number of interaction events, by how they were handled",
			},
			[]string{"session", "result"},
		),
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neobabu_session_ticks_total",
				Help: "Total number of session ticks",
			},
			[]string{"session"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "neobabu_session_duration_seconds",
				Help:    "Lifetime of interactive sessions",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
			},
			[]string{"session"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Started, m.Ended, m.Events, m.Ticks, m.Duration)
	}
	return m
}

// Hooks returns session hooks that record into m.
func (m *Metrics) Hooks() session.Hooks {
	return session.Hooks{
		OnStart: func(ctx context.Context, info *session.Info) {
			m.Started.WithLabelValues(info.Name).Inc()
		},
		OnEvent: func(ctx context.Context, e *session.EventInfo) {
			m.Events.WithLabelValues(e.Name, string(e.Result)).Inc()
		},
		OnTick: func(ctx context.Context, e *session.TickInfo) {
			m.Ticks.WithLabelValues(e.Name).Inc()
		},
		OnEnd: func(ctx context.Context, e *session.EndInfo) {
			m.Ended.WithLabelValues(e.Name, string(e.Reason)).Inc()
			m.Duration.WithLabelValues(e.Name).Observe(e.Duration.Seconds())
		},
	}
}
