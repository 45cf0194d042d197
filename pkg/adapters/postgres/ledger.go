// Package postgres provides a PostgreSQL-backed ledger using pgx.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"k8s.io/utils/clock"
)

//go:embed schema.sql
var schema embed.FS

// Ledger persists balances and holds in PostgreSQL.
// Writers of one account are serialized by locking its balance row.
type Ledger struct {
	pool  *pgxpool.Pool
	clock clock.PassiveClock
}

var _ ports.Funds = (*Ledger)(nil)

// Option configures the PostgreSQL ledger.
type Option func(*Ledger)

// WithClock sets the clock used to expire holds.
func WithClock(clk clock.PassiveClock) Option {
	return func(l *Ledger) {
		l.clock = clk
	}
}

// Open connects to dsn and applies the schema.
func Open(ctx context.Context, dsn string, opts ...Option) (*Ledger, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	l := NewFromPool(pool, opts...)
	if err := l.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return l, nil
}

// NewFromPool wraps an existing pool. The schema is not applied.
func NewFromPool(pool *pgxpool.Pool, opts ...Option) *Ledger {
	l := &Ledger{pool: pool, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Migrate applies the embedded schema. It is idempotent.
func (l *Ledger) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := l.pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the pool.
func (l *Ledger) Close() {
	l.pool.Close()
}

// lockAccount creates the balance row if needed and locks it for the
// rest of tx. It returns the current total.
func lockAccount(ctx context.Context, tx pgx.Tx, user domain.UserID, currency domain.Currency) (int64, error) {
	if _, err := tx.Exec(ctx, `
        INSERT INTO ledger_balances (user_id, currency) VALUES ($1, $2)
        ON CONFLICT (user_id, currency) DO NOTHING
    `, string(user), int16(currency)); err != nil {
		return 0, fmt.Errorf("ensure account: %w", err)
	}
	var total int64
	if err := tx.QueryRow(ctx, `
        SELECT amount FROM ledger_balances WHERE user_id = $1 AND currency = $2 FOR UPDATE
    `, string(user), int16(currency)).Scan(&total); err != nil {
		return 0, fmt.Errorf("lock account: %w", err)
	}
	return total, nil
}

func (l *Ledger) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // safe if already committed

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Reserve places a timed hold of amount under referenceID.
func (l *Ledger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	now := l.clock.Now().UTC()
	granted := false
	err := l.inTx(ctx, func(tx pgx.Tx) error {
		total, err := lockAccount(ctx, tx, user, currency)
		if err != nil {
			return err
		}

		var live bool
		err = tx.QueryRow(ctx, `
            SELECT expires_at > $4 FROM ledger_holds
            WHERE reference_id = $1 AND user_id = $2 AND currency = $3
        `, referenceID, string(user), int16(currency), now).Scan(&live)
		switch {
		case err == nil && live:
			granted = true
			return nil
		case err != nil && !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("read hold: %w", err)
		}

		var held int64
		if err := tx.QueryRow(ctx, `
            SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ledger_holds
            WHERE user_id = $1 AND currency = $2 AND expires_at > $3 AND reference_id <> $4
        `, string(user), int16(currency), now, referenceID).Scan(&held); err != nil {
			return fmt.Errorf("sum holds: %w", err)
		}
		if total-held < amount {
			return nil
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM ledger_holds WHERE user_id = $1 AND currency = $2 AND expires_at <= $3
        `, string(user), int16(currency), now); err != nil {
			return fmt.Errorf("prune holds: %w", err)
		}
		if _, err := tx.Exec(ctx, `
            INSERT INTO ledger_holds (reference_id, user_id, currency, amount, expires_at)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (reference_id, user_id, currency) DO UPDATE
              SET amount = EXCLUDED.amount,
                  expires_at = EXCLUDED.expires_at
        `, referenceID, string(user), int16(currency), amount, now.Add(ttl)); err != nil {
			return fmt.Errorf("place hold: %w", err)
		}
		granted = true
		return nil
	})
	return granted, err
}

// Commit converts an unexpired hold into a debit.
func (l *Ledger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	now := l.clock.Now().UTC()
	committed := false
	err := l.inTx(ctx, func(tx pgx.Tx) error {
		total, err := lockAccount(ctx, tx, user, currency)
		if err != nil {
			return err
		}

		var (
			amount    int64
			expiresAt time.Time
		)
		err = tx.QueryRow(ctx, `
            SELECT amount, expires_at FROM ledger_holds
            WHERE reference_id = $1 AND user_id = $2 AND currency = $3
        `, referenceID, string(user), int16(currency)).Scan(&amount, &expiresAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read hold: %w", err)
		}
		if !now.Before(expiresAt) {
			return deleteHold(ctx, tx, referenceID, user, currency)
		}
		if total < amount {
			return nil
		}

		if err := deleteHold(ctx, tx, referenceID, user, currency); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
            UPDATE ledger_balances SET amount = amount - $3, updated_at = now()
            WHERE user_id = $1 AND currency = $2
        `, string(user), int16(currency), amount); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		committed = true
		return nil
	})
	return committed, err
}

func deleteHold(ctx context.Context, tx pgx.Tx, referenceID string, user domain.UserID, currency domain.Currency) error {
	if _, err := tx.Exec(ctx, `
        DELETE FROM ledger_holds WHERE reference_id = $1 AND user_id = $2 AND currency = $3
    `, referenceID, string(user), int16(currency)); err != nil {
		return fmt.Errorf("delete hold: %w", err)
	}
	return nil
}

// Cancel releases a hold. Cancelling a missing hold is not an error.
func (l *Ledger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	return l.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockAccount(ctx, tx, user, currency); err != nil {
			return err
		}
		return deleteHold(ctx, tx, referenceID, user, currency)
	})
}

// Add credits amount unconditionally.
func (l *Ledger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	if _, err := l.pool.Exec(ctx, `
        INSERT INTO ledger_balances (user_id, currency, amount) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, currency) DO UPDATE
          SET amount = ledger_balances.amount + EXCLUDED.amount,
              updated_at = now()
    `, string(user), int16(currency), amount); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

// Balance reports total, held and available funds.
func (l *Ledger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	var total, held int64
	err := l.pool.QueryRow(ctx, `
        SELECT
          COALESCE((SELECT amount FROM ledger_balances WHERE user_id = $1 AND currency = $2), 0)::BIGINT,
          COALESCE((SELECT SUM(amount) FROM ledger_holds
                    WHERE user_id = $1 AND currency = $2 AND expires_at > $3), 0)::BIGINT
    `, string(user), int16(currency), l.clock.Now().UTC()).Scan(&total, &held)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("read balance: %w", err)
	}
	return domain.Balance{Total: total, Held: held, Available: total - held}, nil
}

// Truncate removes every balance and hold.
func (l *Ledger) Truncate(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, `TRUNCATE ledger_holds, ledger_balances`); err != nil {
		return fmt.Errorf("truncate ledger: %w", err)
	}
	return nil
}
