package middleware

import (
	"context"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics holds the collectors fed by NewMetricsMiddleware.
type LedgerMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewLedgerMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neobabu_ledger_operations_total",
				Help: "Total number of ledger operations, by outcome",
			},
			[]string{"op", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "neobabu_ledger_operation_duration_seconds",
				Help:    "Latency of ledger operations",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

// NewMetricsMiddleware counts and times every ledger call.
// Reserve and Commit report "rejected" when they return false.
func NewMetricsMiddleware(m *LedgerMetrics) Middleware {
	return func(next ports.Funds) ports.Funds {
		return &metricsLedger{next: next, m: m}
	}
}

type metricsLedger struct {
	next ports.Funds
	m    *LedgerMetrics
}

func (l *metricsLedger) observe(op string, started time.Time, ok bool, err error) {
	l.m.Operations.WithLabelValues(op, result(ok, err)).Inc()
	l.m.Duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (l *metricsLedger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	started := time.Now()
	ok, err := l.next.Reserve(ctx, referenceID, ttl, user, currency, amount)
	l.observe("reserve", started, ok, err)
	return ok, err
}

func (l *metricsLedger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	started := time.Now()
	ok, err := l.next.Commit(ctx, referenceID, user, currency)
	l.observe("commit", started, ok, err)
	return ok, err
}

func (l *metricsLedger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	started := time.Now()
	err := l.next.Cancel(ctx, referenceID, user, currency)
	l.observe("cancel", started, true, err)
	return err
}

func (l *metricsLedger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	started := time.Now()
	err := l.next.Add(ctx, user, currency, amount)
	l.observe("add", started, true, err)
	return err
}

func (l *metricsLedger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	started := time.Now()
	b, err := l.next.Balance(ctx, user, currency)
	l.observe("balance", started, true, err)
	return b, err
}
