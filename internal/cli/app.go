// Package cli wires configuration, ledger, statistics and observability
// together and runs sessions for the command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/config"
	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	httpadapter "github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/http"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/observability"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/persistence/middleware"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds the process-wide collaborators shared by every session.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Ledger   ports.Funds
	Stats    stats.Store
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	// LedgerMetrics counts every call made through Ledger.
	LedgerMetrics *middleware.LedgerMetrics
	Streams       *httpadapter.StreamManager
	Out           io.Writer

	closeLedger func() error
	closeStats  func() error
}

// AppOption configures an App.
type AppOption func(*App)

// WithLedger uses ledger instead of opening the configured backend.
func WithLedger(ledger ports.Funds) AppOption {
	return func(a *App) {
		a.Ledger = ledger
	}
}

// WithStats uses store instead of opening the configured statistics backend.
func WithStats(store stats.Store) AppOption {
	return func(a *App) {
		a.Stats = store
	}
}

// WithOutput redirects system messages.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		a.Out = w
	}
}

// NewApp opens the configured ledger and statistics store, wraps it with logging and metrics, and
// registers the session collectors.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...AppOption) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	registry := prometheus.NewRegistry()
	a := &App{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Metrics:     observability.NewMetrics(registry),
		Streams:     httpadapter.NewStreamManager(logger),
		Out:         os.Stdout,
		closeLedger: func() error { return nil },
		closeStats:  func() error { return nil },
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Ledger == nil {
		ledger, closeFn, err := openLedger(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.Ledger = ledger
		a.closeLedger = closeFn
	}
	if a.Stats == nil {
		store, closeFn, err := openStats(ctx, cfg, logger)
		if err != nil {
			_ = a.closeLedger()
			return nil, err
		}
		a.Stats = store
		a.closeStats = closeFn
	}
	a.LedgerMetrics = middleware.NewLedgerMetrics(registry)
	a.Ledger = middleware.Wrap(a.Ledger,
		middleware.NewMetricsMiddleware(a.LedgerMetrics),
		middleware.NewLoggingMiddleware(logger),
	)
	return a, nil
}

// Close releases the ledger and statistics backends.
func (a *App) Close() error {
	return errors.Join(a.closeLedger(), a.closeStats())
}

// Hooks combines logging, metrics and the live event stream.
func (a *App) Hooks() session.Hooks {
	return observability.LogHooks(a.Logger).
		Chain(a.Metrics.Hooks()).
		Chain(a.Streams.Hooks())
}

func (a *App) newSession(name string, state session.State, tr ports.Transport, author domain.UserID, opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithName(name),
		session.WithLogger(a.Logger),
		session.WithHooks(a.Hooks()),
	}
	return session.New(state, tr, author, append(base, opts...)...)
}

// EnsureStartingGrant credits the configured starting grant to an account
// that holds nothing yet.
func (a *App) EnsureStartingGrant(ctx context.Context, user domain.UserID) error {
	if a.Config.StartingGrant <= 0 {
		return nil
	}
	b, err := a.Ledger.Balance(ctx, user, domain.CurrencyCitrine)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	if b.Total != 0 || b.Held != 0 {
		return nil
	}
	if err := a.Ledger.Add(ctx, user, domain.CurrencyCitrine, a.Config.StartingGrant); err != nil {
		return fmt.Errorf("starting grant: %w", err)
	}
	printSystemMessage(a.Out, "Granted %d %s to %s.", a.Config.StartingGrant, domain.CurrencyCitrine, user)
	return nil
}

// Balance reports a user's funds.
func (a *App) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	return a.Ledger.Balance(ctx, user, currency)
}

// Grant credits amount to user.
func (a *App) Grant(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if err := a.Ledger.Add(ctx, user, currency, amount); err != nil {
		return fmt.Errorf("grant: %w", err)
	}
	a.Logger.Info("granted funds", "user", user, "currency", currency, "amount", amount)
	return nil
}
