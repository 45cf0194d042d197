// Package sqlite provides a SQLite-backed ledger and statistics store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/sqlitemigrate"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/sqlite/migrations"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"k8s.io/utils/clock"
	_ "modernc.org/sqlite"
)

// Ledger persists balances and holds in SQLite.
// Every operation runs in its own transaction over a single connection,
// which serializes writers without further locking.
type Ledger struct {
	sqlDB *sql.DB
	clock clock.PassiveClock
}

var _ ports.Funds = (*Ledger)(nil)

// Option configures the SQLite ledger.
type Option func(*Ledger)

// WithClock sets the clock used to expire holds.
func WithClock(clk clock.PassiveClock) Option {
	return func(l *Ledger) {
		l.clock = clk
	}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite ledger at path and applies embedded migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Ledger, error) {
	sqlDB, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	l := &Ledger{sqlDB: sqlDB, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// Close closes the SQLite handle.
func (l *Ledger) Close() error {
	if l == nil || l.sqlDB == nil {
		return nil
	}
	return l.sqlDB.Close()
}

func (l *Ledger) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return inTx(ctx, l.sqlDB, fn)
}

func inTx(ctx context.Context, sqlDB *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func total(ctx context.Context, q querier, user domain.UserID, currency domain.Currency) (int64, error) {
	var amount int64
	err := q.QueryRowContext(ctx,
		`SELECT amount FROM balances WHERE user_id = ? AND currency = ?`,
		string(user), int(currency),
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return amount, nil
}

// held sums the live holds of an account, excluding exceptRef.
func held(ctx context.Context, q querier, user domain.UserID, currency domain.Currency, now int64, exceptRef string) (int64, error) {
	var sum int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM holds
		 WHERE user_id = ? AND currency = ? AND expires_at > ? AND reference_id <> ?`,
		string(user), int(currency), now, exceptRef,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum holds: %w", err)
	}
	return sum, nil
}

// Reserve places a timed hold of amount under referenceID.
func (l *Ledger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	now := l.clock.Now()
	nowMs := toMillis(now)
	granted := false
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		var expiresAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT expires_at FROM holds WHERE reference_id = ? AND user_id = ? AND currency = ?`,
			referenceID, string(user), int(currency),
		).Scan(&expiresAt)
		switch {
		case err == nil && nowMs < expiresAt:
			granted = true
			return nil
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("read hold: %w", err)
		}

		bal, err := total(ctx, tx, user, currency)
		if err != nil {
			return err
		}
		h, err := held(ctx, tx, user, currency, nowMs, referenceID)
		if err != nil {
			return err
		}
		if bal-h < amount {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM holds WHERE user_id = ? AND currency = ? AND expires_at <= ?`,
			string(user), int(currency), nowMs,
		); err != nil {
			return fmt.Errorf("prune holds: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO holds (reference_id, user_id, currency, amount, expires_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (reference_id, user_id, currency)
			 DO UPDATE SET amount = excluded.amount, expires_at = excluded.expires_at`,
			referenceID, string(user), int(currency), amount, toMillis(now.Add(ttl)),
		); err != nil {
			return fmt.Errorf("place hold: %w", err)
		}
		granted = true
		return nil
	})
	return granted, err
}

// Commit converts an unexpired hold into a debit.
func (l *Ledger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	now := toMillis(l.clock.Now())
	committed := false
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		var amount, expiresAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT amount, expires_at FROM holds WHERE reference_id = ? AND user_id = ? AND currency = ?`,
			referenceID, string(user), int(currency),
		).Scan(&amount, &expiresAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read hold: %w", err)
		}
		if now >= expiresAt {
			return deleteHold(ctx, tx, referenceID, user, currency)
		}

		bal, err := total(ctx, tx, user, currency)
		if err != nil {
			return err
		}
		if bal < amount {
			return nil
		}
		if err := deleteHold(ctx, tx, referenceID, user, currency); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET amount = amount - ?, updated_at = ? WHERE user_id = ? AND currency = ?`,
			amount, now, string(user), int(currency),
		); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		committed = true
		return nil
	})
	return committed, err
}

func deleteHold(ctx context.Context, tx *sql.Tx, referenceID string, user domain.UserID, currency domain.Currency) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM holds WHERE reference_id = ? AND user_id = ? AND currency = ?`,
		referenceID, string(user), int(currency),
	); err != nil {
		return fmt.Errorf("delete hold: %w", err)
	}
	return nil
}

// Cancel releases a hold. Cancelling a missing hold is not an error.
func (l *Ledger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	return l.inTx(ctx, func(tx *sql.Tx) error {
		return deleteHold(ctx, tx, referenceID, user, currency)
	})
}

// Add credits amount unconditionally.
func (l *Ledger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	_, err := l.sqlDB.ExecContext(ctx,
		`INSERT INTO balances (user_id, currency, amount, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, currency)
		 DO UPDATE SET amount = amount + excluded.amount, updated_at = excluded.updated_at`,
		string(user), int(currency), amount, toMillis(l.clock.Now()),
	)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

// Balance reports total, held and available funds.
func (l *Ledger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	var b domain.Balance
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		bal, err := total(ctx, tx, user, currency)
		if err != nil {
			return err
		}
		h, err := held(ctx, tx, user, currency, toMillis(l.clock.Now()), "")
		if err != nil {
			return err
		}
		b = domain.Balance{Total: bal, Held: h, Available: bal - h}
		return nil
	})
	return b, err
}
