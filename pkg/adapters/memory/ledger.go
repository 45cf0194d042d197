package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/keylock"
	"k8s.io/utils/clock"
)

type account struct {
	user     domain.UserID
	currency domain.Currency
}

func (a account) String() string {
	return fmt.Sprintf("%s:%d", a.user, a.currency)
}

type hold struct {
	amount    int64
	expiresAt time.Time
}

// funds is the state of one account. It is only touched under the account's key lock.
type funds struct {
	balance int64
	holds   map[string]hold
}

func (f *funds) held(now time.Time) int64 {
	var held int64
	for _, h := range f.holds {
		if now.Before(h.expiresAt) {
			held += h.amount
		}
	}
	return held
}

// Ledger implements ports.Funds in memory.
// Safe for concurrent use; operations are serialized per user and currency.
type Ledger struct {
	mu       sync.Mutex
	accounts map[account]*funds

	locks *keylock.Manager
	clock clock.PassiveClock
}

// LedgerOption configures the in-memory ledger.
type LedgerOption func(*Ledger)

// WithClock sets the clock used to expire holds.
func WithClock(clk clock.PassiveClock) LedgerOption {
	return func(l *Ledger) {
		l.clock = clk
	}
}

// NewLedger creates an empty in-memory ledger.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		accounts: make(map[account]*funds),
		locks:    keylock.NewManager(),
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// withAccount runs fn holding the key lock of user and currency.
func (l *Ledger) withAccount(ctx context.Context, user domain.UserID, currency domain.Currency, fn func(f *funds)) error {
	acc := account{user: user, currency: currency}
	return l.locks.WithLock(ctx, acc.String(), func(ctx context.Context) error {
		l.mu.Lock()
		f, ok := l.accounts[acc]
		if !ok {
			f = &funds{holds: make(map[string]hold)}
			l.accounts[acc] = f
		}
		l.mu.Unlock()

		fn(f)
		return nil
	})
}

// Reserve places a timed hold of amount under referenceID.
func (l *Ledger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	granted := false
	err := l.withAccount(ctx, user, currency, func(f *funds) {
		now := l.clock.Now()
		if h, ok := f.holds[referenceID]; ok && now.Before(h.expiresAt) {
			granted = true
			return
		}
		if f.balance-f.held(now) < amount {
			return
		}
		f.holds[referenceID] = hold{amount: amount, expiresAt: now.Add(ttl)}
		granted = true
	})
	return granted, err
}

// Commit converts an unexpired hold into a debit.
func (l *Ledger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	committed := false
	err := l.withAccount(ctx, user, currency, func(f *funds) {
		h, ok := f.holds[referenceID]
		if !ok {
			return
		}
		if !l.clock.Now().Before(h.expiresAt) {
			delete(f.holds, referenceID)
			return
		}
		if f.balance < h.amount {
			return
		}
		delete(f.holds, referenceID)
		f.balance -= h.amount
		committed = true
	})
	return committed, err
}

// Cancel releases a hold. Cancelling a missing hold is not an error.
func (l *Ledger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	return l.withAccount(ctx, user, currency, func(f *funds) {
		delete(f.holds, referenceID)
	})
}

// Add credits amount unconditionally.
func (l *Ledger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	return l.withAccount(ctx, user, currency, func(f *funds) {
		f.balance += amount
	})
}

// Balance reports total, held and available funds.
func (l *Ledger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	var b domain.Balance
	err := l.withAccount(ctx, user, currency, func(f *funds) {
		b.Total = f.balance
		b.Held = f.held(l.clock.Now())
		b.Available = b.Total - b.Held
	})
	return b, err
}
