package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/persistence/middleware"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
)

type mockFunds struct {
	mock.Mock
}

func (m *mockFunds) Reserve(ctx context.Context, ref string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	args := m.Called(ctx, ref, ttl, user, currency, amount)
	return args.Bool(0), args.Error(1)
}

func (m *mockFunds) Commit(ctx context.Context, ref string, user domain.UserID, currency domain.Currency) (bool, error) {
	args := m.Called(ctx, ref, user, currency)
	return args.Bool(0), args.Error(1)
}

func (m *mockFunds) Cancel(ctx context.Context, ref string, user domain.UserID, currency domain.Currency) error {
	return m.Called(ctx, ref, user, currency).Error(0)
}

func (m *mockFunds) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	return m.Called(ctx, user, currency, amount).Error(0)
}

func (m *mockFunds) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	args := m.Called(ctx, user, currency)
	return args.Get(0).(domain.Balance), args.Error(1)
}

var _ ports.Funds = (*mockFunds)(nil)

func TestWrapped_Contract(t *testing.T) {
	ports.RunLedgerContract(t, func(t *testing.T, clk clock.PassiveClock) ports.Funds {
		var buf bytes.Buffer
		return middleware.Wrap(memory.NewLedger(memory.WithClock(clk)),
			middleware.NewMetricsMiddleware(middleware.NewLedgerMetrics(nil)),
			middleware.NewLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil))),
		)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := middleware.NewLedgerMetrics(reg)
	next := new(mockFunds)
	ledger := middleware.NewMetricsMiddleware(metrics)(next)

	next.On("Reserve", ctx, "a", time.Minute, domain.UserID("alice"), domain.CurrencyCitrine, int64(5)).Return(true, nil).Once()
	next.On("Reserve", ctx, "b", time.Minute, domain.UserID("alice"), domain.CurrencyCitrine, int64(500)).Return(false, nil).Once()
	next.On("Commit", ctx, "a", domain.UserID("alice"), domain.CurrencyCitrine).Return(false, errors.New("conn reset")).Once()
	next.On("Balance", ctx, domain.UserID("alice"), domain.CurrencyCitrine).Return(domain.Balance{Total: 5}, nil).Once()

	ok, err := ledger.Reserve(ctx, "a", time.Minute, "alice", domain.CurrencyCitrine, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ledger.Reserve(ctx, "b", time.Minute, "alice", domain.CurrencyCitrine, 500)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = ledger.Commit(ctx, "a", "alice", domain.CurrencyCitrine)
	assert.Error(t, err)
	b, err := ledger.Balance(ctx, "alice", domain.CurrencyCitrine)
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.Total)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("reserve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("reserve", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("commit", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("balance", "ok")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.Duration))
	next.AssertExpectations(t)
}

func TestLoggingMiddleware(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	next := new(mockFunds)
	ledger := middleware.NewLoggingMiddleware(logger)(next)

	next.On("Reserve", ctx, "bj-1", time.Minute, domain.UserID("alice"), domain.CurrencyCitrine, int64(500)).Return(false, nil).Once()
	next.On("Add", ctx, domain.UserID("bob"), domain.CurrencyCitrine, int64(3)).Return(errors.New("read only")).Once()

	_, err := ledger.Reserve(ctx, "bj-1", time.Minute, "alice", domain.CurrencyCitrine, 500)
	require.NoError(t, err)
	assert.Error(t, ledger.Add(ctx, "bob", domain.CurrencyCitrine, 3))

	out := buf.String()
	assert.Contains(t, out, `level=DEBUG msg="ledger operation rejected" component=ledger ref=bj-1`)
	assert.Contains(t, out, `level=ERROR msg="ledger operation failed" component=ledger user=bob`)
	assert.Contains(t, out, `err="read only"`)
	next.AssertExpectations(t)
}

func TestWrap_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.Funds) ports.Funds {
			calls = append(calls, name)
			return next
		}
	}
	base := memory.NewLedger()
	assert.Same(t, ports.Funds(base), middleware.Wrap(base, tag("outer"), tag("inner")))
	assert.Equal(t, []string{"inner", "outer"}, calls)
}
