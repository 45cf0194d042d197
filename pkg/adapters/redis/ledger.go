package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/keylock"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"k8s.io/utils/clock"
)

// DefaultPrefix namespaces every key the ledger writes.
const DefaultPrefix = "neobabu:ledger:"

// Ledger implements ports.Funds on Redis.
//
// Balances are plain integer keys; holds live in one hash per user and
// currency, each field mapping a reference id to "amount:expiresAtMillis".
// Expiry is evaluated against the ledger clock and pruned lazily.
// Writers of the same user and currency are serialized with a Redis lock,
// so several processes can share one ledger.
type Ledger struct {
	client backend.UniversalClient
	prefix string
	clock  clock.PassiveClock
	logger *slog.Logger
	locks  *keylock.Manager
}

var _ ports.Funds = (*Ledger)(nil)

// Option configures the Redis ledger.
type Option func(*Ledger)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(l *Ledger) {
		l.prefix = prefix
	}
}

// WithClock sets the clock used to expire holds.
func WithClock(clk clock.PassiveClock) Option {
	return func(l *Ledger) {
		l.clock = clk
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New connects to Redis and creates a ledger.
func New(address, password string, db int, opts ...Option) *Ledger {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a ledger from an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Ledger {
	l := &Ledger{
		client: client,
		prefix: DefaultPrefix,
		clock:  clock.RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.locks = keylock.NewManager(
		keylock.WithLocker(NewLocker(client, l.prefix)),
		keylock.WithLogger(l.logger),
	)
	return l
}

// Close closes the underlying client.
func (l *Ledger) Close() error {
	return l.client.Close()
}

type hold struct {
	amount    int64
	expiresAt time.Time
}

func encodeHold(h hold) string {
	return strconv.FormatInt(h.amount, 10) + ":" + strconv.FormatInt(h.expiresAt.UnixMilli(), 10)
}

func decodeHold(s string) (hold, error) {
	amount, expires, ok := strings.Cut(s, ":")
	if !ok {
		return hold{}, fmt.Errorf("malformed hold %q", s)
	}
	a, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return hold{}, fmt.Errorf("malformed hold amount %q: %w", s, err)
	}
	ms, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return hold{}, fmt.Errorf("malformed hold expiry %q: %w", s, err)
	}
	return hold{amount: a, expiresAt: time.UnixMilli(ms)}, nil
}

func (l *Ledger) balanceKey(user domain.UserID, currency domain.Currency) string {
	return fmt.Sprintf("%sbalance:%s:%d", l.prefix, user, currency)
}

func (l *Ledger) holdsKey(user domain.UserID, currency domain.Currency) string {
	return fmt.Sprintf("%sholds:%s:%d", l.prefix, user, currency)
}

func lockKey(user domain.UserID, currency domain.Currency) string {
	return fmt.Sprintf("%s:%d", user, currency)
}

// snapshot is the state of one account at a point in time.
type snapshot struct {
	total   int64
	live    map[string]hold
	expired []string
}

func (s snapshot) held() int64 {
	var held int64
	for _, h := range s.live {
		held += h.amount
	}
	return held
}

func (l *Ledger) load(ctx context.Context, user domain.UserID, currency domain.Currency) (snapshot, error) {
	pipe := l.client.Pipeline()
	totalCmd := pipe.Get(ctx, l.balanceKey(user, currency))
	holdsCmd := pipe.HGetAll(ctx, l.holdsKey(user, currency))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return snapshot{}, fmt.Errorf("failed to load account: %w", err)
	}

	snap := snapshot{live: make(map[string]hold)}
	total, err := totalCmd.Int64()
	switch {
	case errors.Is(err, backend.Nil):
	case err != nil:
		return snapshot{}, fmt.Errorf("failed to read balance: %w", err)
	default:
		snap.total = total
	}

	now := l.clock.Now()
	for ref, raw := range holdsCmd.Val() {
		h, err := decodeHold(raw)
		if err != nil {
			l.logger.Warn("dropping malformed hold", "user", user, "reference", ref, "error", err)
			snap.expired = append(snap.expired, ref)
			continue
		}
		if now.Before(h.expiresAt) {
			snap.live[ref] = h
		} else {
			snap.expired = append(snap.expired, ref)
		}
	}
	return snap, nil
}

// Reserve places a timed hold of amount under referenceID.
func (l *Ledger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	granted := false
	err := l.locks.WithLock(ctx, lockKey(user, currency), func(ctx context.Context) error {
		snap, err := l.load(ctx, user, currency)
		if err != nil {
			return err
		}
		if _, ok := snap.live[referenceID]; ok {
			granted = true
			return nil
		}
		if snap.total-snap.held() < amount {
			return nil
		}

		hk := l.holdsKey(user, currency)
		_, err = l.client.TxPipelined(ctx, func(p backend.Pipeliner) error {
			if len(snap.expired) > 0 {
				p.HDel(ctx, hk, snap.expired...)
			}
			p.HSet(ctx, hk, referenceID, encodeHold(hold{amount: amount, expiresAt: l.clock.Now().Add(ttl)}))
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to place hold: %w", err)
		}
		granted = true
		return nil
	})
	return granted, err
}

// Commit converts an unexpired hold into a debit.
func (l *Ledger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	committed := false
	err := l.locks.WithLock(ctx, lockKey(user, currency), func(ctx context.Context) error {
		snap, err := l.load(ctx, user, currency)
		if err != nil {
			return err
		}
		h, ok := snap.live[referenceID]
		if !ok || snap.total < h.amount {
			if len(snap.expired) > 0 {
				if err := l.client.HDel(ctx, l.holdsKey(user, currency), snap.expired...).Err(); err != nil {
					l.logger.Warn("failed to prune expired holds", "user", user, "error", err)
				}
			}
			return nil
		}

		_, err = l.client.TxPipelined(ctx, func(p backend.Pipeliner) error {
			p.HDel(ctx, l.holdsKey(user, currency), append(snap.expired, referenceID)...)
			p.DecrBy(ctx, l.balanceKey(user, currency), h.amount)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to commit hold: %w", err)
		}
		committed = true
		return nil
	})
	return committed, err
}

// Cancel releases a hold. Cancelling a missing hold is not an error.
func (l *Ledger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	return l.locks.WithLock(ctx, lockKey(user, currency), func(ctx context.Context) error {
		if err := l.client.HDel(ctx, l.holdsKey(user, currency), referenceID).Err(); err != nil {
			return fmt.Errorf("failed to cancel hold: %w", err)
		}
		return nil
	})
}

// Add credits amount unconditionally.
func (l *Ledger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	return l.locks.WithLock(ctx, lockKey(user, currency), func(ctx context.Context) error {
		if err := l.client.IncrBy(ctx, l.balanceKey(user, currency), amount).Err(); err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}
		return nil
	})
}

// Balance reports total, held and available funds.
func (l *Ledger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	snap, err := l.load(ctx, user, currency)
	if err != nil {
		return domain.Balance{}, err
	}
	held := snap.held()
	return domain.Balance{Total: snap.total, Held: held, Available: snap.total - held}, nil
}
