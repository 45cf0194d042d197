package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
)

// NewLoggingMiddleware logs ledger mutations: rejections at debug level,
// failures at error level. Balance reads are not logged.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Funds) ports.Funds {
		return &loggingLedger{next: next, logger: logger.With("component", "ledger")}
	}
}

type loggingLedger struct {
	next   ports.Funds
	logger *slog.Logger
}

func (l *loggingLedger) log(ctx context.Context, op string, ok bool, err error, args ...any) {
	args = append(args, "op", op)
	switch {
	case err != nil:
		l.logger.ErrorContext(ctx, "ledger operation failed", append(args, "err", err)...)
	case !ok:
		l.logger.DebugContext(ctx, "ledger operation rejected", args...)
	default:
		l.logger.DebugContext(ctx, "ledger operation", args...)
	}
}

func (l *loggingLedger) Reserve(ctx context.Context, referenceID string, ttl time.Duration, user domain.UserID, currency domain.Currency, amount int64) (bool, error) {
	ok, err := l.next.Reserve(ctx, referenceID, ttl, user, currency, amount)
	l.log(ctx, "reserve", ok, err, "ref", referenceID, "user", user, "currency", currency, "amount", amount)
	return ok, err
}

func (l *loggingLedger) Commit(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) (bool, error) {
	ok, err := l.next.Commit(ctx, referenceID, user, currency)
	l.log(ctx, "commit", ok, err, "ref", referenceID, "user", user, "currency", currency)
	return ok, err
}

func (l *loggingLedger) Cancel(ctx context.Context, referenceID string, user domain.UserID, currency domain.Currency) error {
	err := l.next.Cancel(ctx, referenceID, user, currency)
	l.log(ctx, "cancel", true, err, "ref", referenceID, "user", user, "currency", currency)
	return err
}

func (l *loggingLedger) Add(ctx context.Context, user domain.UserID, currency domain.Currency, amount int64) error {
	err := l.next.Add(ctx, user, currency, amount)
	l.log(ctx, "add", true, err, "user", user, "currency", currency, "amount", amount)
	return err
}

func (l *loggingLedger) Balance(ctx context.Context, user domain.UserID, currency domain.Currency) (domain.Balance, error) {
	return l.next.Balance(ctx, user, currency)
}
