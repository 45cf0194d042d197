package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/config"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/postgres"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/redis"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/sqlite"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/stats"
)

// openLedger initializes the ledger backend selected by cfg.
// The returned close function is never nil.
func openLedger(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Funds, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LedgerBackend {
	case config.BackendMemory, "":
		return memory.NewLedger(), noop, nil

	case config.BackendSQLite:
		l, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite ledger: %w", err)
		}
		logger.Debug("ledger opened", "backend", cfg.LedgerBackend, "path", cfg.SQLitePath)
		return l, l.Close, nil

	case config.BackendRedis:
		l := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithLogger(logger),
		)
		logger.Debug("ledger opened", "backend", cfg.LedgerBackend, "addr", cfg.RedisAddr)
		return l, l.Close, nil

	case config.BackendPostgres:
		l, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres ledger: %w", err)
		}
		logger.Debug("ledger opened", "backend", cfg.LedgerBackend)
		return l, func() error { l.Close(); return nil }, nil

	default:
		return nil, noop, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// openStats initializes the statistics backend selected by cfg.
// The returned close function is never nil.
func openStats(ctx context.Context, cfg config.Config, logger *slog.Logger) (stats.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StatsBackend {
	case config.BackendMemory, "":
		return stats.NewBook(), noop, nil

	case config.BackendSQLite:
		s, err := sqlite.OpenStats(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite stats: %w", err)
		}
		logger.Debug("stats opened", "backend", cfg.StatsBackend, "path", cfg.SQLitePath)
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown stats backend %q", cfg.StatsBackend)
	}
}
