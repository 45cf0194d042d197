package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/blackjack"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/cards"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/rps"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
	"github.com/google/uuid"
)

// GiftHoldTTL bounds how long a confirmed gift may take to settle.
const GiftHoldTTL = time.Minute

// BlackjackRequest describes a table to open.
type BlackjackRequest struct {
	Host domain.UserID
	// Wagered marks a game played for currency. A wagered game needs a positive Wager.
	Wagered bool
	Wager   int64
	Deck    *cards.Deck
}

// RPSRequest describes a challenge to open.
type RPSRequest struct {
	Challenger domain.UserID
	Opponent   domain.UserID
	Bot        bool
	Rand       *rand.Rand
}

// GiftRequest describes a transfer confirmed by the sender.
type GiftRequest struct {
	From   domain.UserID
	To     domain.UserID
	Amount int64
}

// checkFunds rejects a wager the user cannot cover before any session starts.
func (a *App) checkFunds(ctx context.Context, user domain.UserID, amount int64) error {
	b, err := a.Ledger.Balance(ctx, user, domain.CurrencyCitrine)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	if b.Available < amount {
		return fmt.Errorf("%w: %d %s available", domain.ErrInsufficientFunds, b.Available, domain.CurrencyCitrine)
	}
	return nil
}

// Blackjack opens a table, seats the host and runs it on tr until it finishes.
func (a *App) Blackjack(ctx context.Context, tr ports.Transport, req BlackjackRequest) error {
	var wager int64
	if req.Wagered {
		if req.Wager == 0 {
			return domain.ErrWagerZero
		}
		if req.Wager < 0 {
			return domain.ErrInvalidAmount
		}
		if err := a.checkFunds(ctx, req.Host, req.Wager); err != nil {
			return err
		}
		wager = req.Wager
	}

	opts := []blackjack.TableOption{
		blackjack.WithWager(wager),
		blackjack.WithLedger(a.Ledger),
		blackjack.WithRecorder(a.Stats),
		blackjack.WithLogger(a.Logger),
	}
	if req.Deck != nil {
		opts = append(opts, blackjack.WithDeck(req.Deck))
	}
	table, err := blackjack.NewTable(opts...)
	if err != nil {
		return err
	}
	joined, err := table.Join(ctx, req.Host)
	if err != nil {
		return err
	}
	if !joined {
		return fmt.Errorf("%w: could not escrow the wager", domain.ErrInsufficientFunds)
	}

	return a.newSession("blackjack", table, tr, req.Host,
		session.WithAllowAnyone(true),
		session.WithTick(blackjack.TickInterval),
		session.WithTimeout(blackjack.SessionTimeout),
	).Run(ctx)
}

// RPS opens a challenge and runs it on tr until it is decided or times out.
func (a *App) RPS(ctx context.Context, tr ports.Transport, req RPSRequest) (*rps.Match, error) {
	opts := []rps.MatchOption{
		rps.WithRecorder(a.Stats),
		rps.WithLogger(a.Logger),
	}
	if req.Bot {
		opts = append(opts, rps.WithBot(req.Rand))
	}
	match, err := rps.NewMatch(req.Challenger, req.Opponent, opts...)
	if err != nil {
		return nil, err
	}

	err = a.newSession("rps", match, tr, req.Challenger,
		session.WithAllowAnyone(true),
		session.WithTimeout(rps.Timeout),
		session.WithTimeoutView(match.TimeoutView()),
	).Run(ctx)
	return match, err
}

// Pages browses pages on tr until the session times out.
func (a *App) Pages(ctx context.Context, tr ports.Transport, author domain.UserID, pages interactive.StaticPages) error {
	return a.newSession("pages", interactive.NewPagination(pages), tr, author,
		session.WithTimeout(a.Config.SessionTimeout),
	).Run(ctx)
}

// Gift asks the sender to confirm and then moves the amount through a
// committed hold, so a concurrent game cannot spend the same funds.
// It reports whether the gift was sent.
func (a *App) Gift(ctx context.Context, tr ports.Transport, req GiftRequest) (bool, error) {
	if req.From == req.To {
		return false, domain.ErrTargetYourself
	}
	if req.Amount <= 0 {
		return false, domain.ErrInvalidAmount
	}
	if err := a.checkFunds(ctx, req.From, req.Amount); err != nil {
		return false, err
	}

	ref := "gift-" + uuid.NewString()
	summary := fmt.Sprintf("**%d** %s from %s to %s", req.Amount, domain.CurrencyCitrine, req.From.Mention(), req.To.Mention())
	prompt := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Title: "Gift", Body: "Do you want to send " + summary + "?", Tone: domain.ToneAccent},
		Accepted: domain.View{Title: "Gift", Body: "Sent " + summary + ".", Tone: domain.ToneSuccess},
		Denied:   domain.View{Title: "Gift", Body: "The gift was cancelled.", Tone: domain.ToneMuted},
		OnAccept: func(ctx context.Context, ev domain.Event) error {
			return a.transfer(ctx, ref, req)
		},
		AcceptLabel: "Send",
		DenyLabel:   "Cancel",
	})

	err := a.newSession("gift", prompt, tr, req.From,
		session.WithTimeout(a.Config.SessionTimeout),
	).Run(ctx)
	return prompt.Decision() == interactive.Accepted, err
}

func (a *App) transfer(ctx context.Context, ref string, req GiftRequest) error {
	ok, err := a.Ledger.Reserve(ctx, ref, GiftHoldTTL, req.From, domain.CurrencyCitrine, req.Amount)
	if err != nil {
		return fmt.Errorf("reserve gift: %w", err)
	}
	if !ok {
		return domain.ErrInsufficientFunds
	}
	ok, err = a.Ledger.Commit(ctx, ref, req.From, domain.CurrencyCitrine)
	if err != nil {
		return fmt.Errorf("commit gift: %w", err)
	}
	if !ok {
		return fmt.Errorf("commit gift: hold %s expired", ref)
	}
	if err := a.Ledger.Add(ctx, req.To, domain.CurrencyCitrine, req.Amount); err != nil {
		err = fmt.Errorf("credit gift: %w", err)
		// The sender was already debited; give the funds back.
		if refundErr := a.Ledger.Add(context.WithoutCancel(ctx), req.From, domain.CurrencyCitrine, req.Amount); refundErr != nil {
			a.Logger.Error("gift refund failed", "from", req.From, "amount", req.Amount, "error", refundErr)
			return errors.Join(err, fmt.Errorf("refund gift: %w", refundErr))
		}
		return err
	}
	a.Logger.Info("gift sent", "from", req.From, "to", req.To, "amount", req.Amount)
	return nil
}
