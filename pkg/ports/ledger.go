package ports

import (
	"context"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// Ledger is the currency escrow shared by every session.
// Implementations serialize conflicting operations per user and currency.
type Ledger interface {
	// Reserve places a timed hold of amount under referenceID.
	// It returns false if the available balance cannot cover amount.
	// Reserving again under a live hold with the same key does not place a second hold.
	Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error)

	// Commit turns an unexpired hold into a permanent debit.
	// It returns false if the hold is missing or expired.
	Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error)

	// Cancel releases a hold. It is idempotent.
	Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error

	// Add credits a balance unconditionally.
	Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error
}

// BalanceReader exposes balances without mutating them.
type BalanceReader interface {
	Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error)
}

// Funds is a ledger that can also report balances.
type Funds interface {
	Ledger
	BalanceReader
}
