package blackjack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/cards"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// Control tokens of a table.
const (
	TokenJoin  = "join_game"
	TokenHit   = "play_hit"
	TokenStand = "play_stand"
)

// Session settings used by the blackjack command.
const (
	SessionTimeout = 14 * time.Minute
	TickInterval   = 2 * time.Second
)

type tableAction int

const (
	actionNone tableAction = iota
	actionJoin
	actionHit
	actionStand
)

func parseToken(token string) tableAction {
	switch token {
	case TokenJoin:
		return actionJoin
	case TokenHit:
		return actionHit
	case TokenStand:
		return actionStand
	default:
		return actionNone
	}
}

// Result is what a Recorder learns about one settled player.
type Result struct {
	GameID      string
	User        domain.UserID
	Outcome     Outcome
	Score       int
	Busted      bool
	Stood       bool
	DealerScore int
	Wager       int64
}

// Recorder persists per-player statistics after settlement.
type Recorder interface {
	RecordBlackjack(ctx context.Context, r Result) error
}

// Table is the session state of one blackjack game.
// Joining players escrow the wager; settlement converts the holds once the
// game is over.
type Table struct {
	game     *Game
	wager    int64
	ledger   ports.Ledger
	recorder Recorder
	clock    clock.PassiveClock
	logger   *slog.Logger

	startsAt  time.Time
	settled   bool
	abandoned bool
}

// TableOption configures a Table.
type TableOption func(*tableConfig)

type tableConfig struct {
	id       string
	deck     *cards.Deck
	wager    int64
	ledger   ports.Ledger
	recorder Recorder
	clock    clock.PassiveClock
	logger   *slog.Logger
}

// WithWager makes every player escrow amount citrine to join.
func WithWager(amount int64) TableOption {
	return func(c *tableConfig) {
		c.wager = amount
	}
}

// WithLedger sets the ledger holding the wagers.
func WithLedger(ledger ports.Ledger) TableOption {
	return func(c *tableConfig) {
		c.ledger = ledger
	}
}

// WithRecorder records statistics for every settled player.
func WithRecorder(r Recorder) TableOption {
	return func(c *tableConfig) {
		c.recorder = r
	}
}

// WithDeck replaces the shuffled deck.
func WithDeck(deck *cards.Deck) TableOption {
	return func(c *tableConfig) {
		c.deck = deck
	}
}

// WithGameID replaces the generated game id.
func WithGameID(id string) TableOption {
	return func(c *tableConfig) {
		c.id = id
	}
}

// WithClock sets the clock driving the join window and auto-stand.
func WithClock(clk clock.PassiveClock) TableOption {
	return func(c *tableConfig) {
		c.clock = clk
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) TableOption {
	return func(c *tableConfig) {
		c.logger = logger
	}
}

// NewTable opens a table whose join window starts now.
func NewTable(opts ...TableOption) (*Table, error) {
	cfg := tableConfig{
		clock:  clock.RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.wager < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if cfg.wager > 0 && cfg.ledger == nil {
		return nil, fmt.Errorf("wagered table needs a ledger")
	}
	if cfg.id == "" {
		cfg.id = uuid.Must(uuid.NewV7()).String()
	}
	if cfg.deck == nil {
		cfg.deck = cards.NewShuffledDeck(nil)
	}

	return &Table{
		game:     NewGame(cfg.id, cfg.deck),
		wager:    cfg.wager,
		ledger:   cfg.ledger,
		recorder: cfg.recorder,
		clock:    cfg.clock,
		logger:   cfg.logger.With("game", cfg.id),
		startsAt: cfg.clock.Now().Add(JoinWindow),
	}, nil
}

// Game exposes the underlying game.
func (t *Table) Game() *Game {
	return t.game
}

// ReferenceID is the ledger reference of every hold placed for this game.
func (t *Table) ReferenceID() string {
	return "bj-" + t.game.ID()
}

// Join seats user, escrowing the wager first. A full table, a duplicate seat
// or a failed hold are silent rejections reported as false.
func (t *Table) Join(ctx context.Context, user domain.UserID) (bool, error) {
	if !t.game.CanJoin(user) {
		return false, nil
	}
	if t.wager > 0 {
		ok, err := t.ledger.Reserve(ctx, t.ReferenceID(), HoldTTL, user, domain.CurrencyCitrine, t.wager)
		if err != nil {
			return false, fmt.Errorf("reserve wager: %w", err)
		}
		if !ok {
			t.logger.Debug("join rejected, hold failed", "user", user)
			return false, nil
		}
	}
	return t.game.Join(user), nil
}

// HandleEvent implements session.State.
func (t *Table) HandleEvent(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	outcome := domain.Noop()
	switch parseToken(ev.Token) {
	case actionJoin:
		joined, err := t.Join(ctx, ev.Actor)
		if err != nil {
			return domain.Noop(), err
		}
		outcome = outcome.WithRedraw(joined)
	case actionHit:
		outcome = outcome.WithRedraw(t.game.Play(ev.Actor, Hit, t.clock.Now()))
	case actionStand:
		outcome = outcome.WithRedraw(t.game.Play(ev.Actor, Stand, t.clock.Now()))
	default:
		return domain.Noop(), nil
	}
	return t.finish(ctx, outcome)
}

// OnTick starts the game after the join window and forces overdue players to stand.
func (t *Table) OnTick(ctx context.Context) (domain.Outcome, error) {
	now := t.clock.Now()
	outcome := domain.Noop()

	if !t.game.IsStarted() && !now.Before(t.startsAt) {
		if !t.game.Start(now) {
			t.abandoned = true
			return domain.Halt(), nil
		}
		outcome = domain.Update()
	}

	if deadline, ok := t.game.MoveDeadline(); ok && !now.Before(deadline) {
		player, _ := t.game.CurrentPlayer()
		t.logger.Debug("auto-stand", "user", player)
		t.game.ForceStand(now)
		outcome = domain.Update()
	}

	return t.finish(ctx, outcome)
}

func (t *Table) finish(ctx context.Context, outcome domain.Outcome) (domain.Outcome, error) {
	if !t.game.IsOver() {
		return outcome, nil
	}
	if err := t.settle(ctx); err != nil {
		return domain.Noop(), err
	}
	return outcome.Merge(domain.Halt()), nil
}

// settle resolves the wagers and records statistics. It runs at most once.
func (t *Table) settle(ctx context.Context) error {
	if t.settled {
		return nil
	}
	outcomes, ok := t.game.Outcomes()
	if !ok {
		return nil
	}
	t.settled = true

	dealer := t.game.Dealer()
	ref := t.ReferenceID()
	for _, po := range outcomes {
		if t.wager > 0 {
			if err := t.settleWager(ctx, ref, po); err != nil {
				return err
			}
		}
		if t.recorder != nil {
			r := Result{
				GameID:      t.game.ID(),
				User:        po.User,
				Outcome:     po.Outcome,
				Score:       po.Hand.Score(),
				Busted:      po.Hand.IsBust(),
				Stood:       po.Hand.Standing,
				DealerScore: dealer.Score(),
				Wager:       t.wager,
			}
			if err := t.recorder.RecordBlackjack(ctx, r); err != nil {
				return fmt.Errorf("record result of %s: %w", po.User, err)
			}
		}
	}
	t.logger.Info("game settled", "players", len(outcomes), "dealer", dealer.Score())
	return nil
}

func (t *Table) settleWager(ctx context.Context, ref string, po PlayerOutcome) error {
	cur := domain.CurrencyCitrine
	switch po.Outcome {
	case Win:
		if err := t.ledger.Cancel(ctx, ref, po.User, cur); err != nil {
			return fmt.Errorf("release wager of %s: %w", po.User, err)
		}
		if err := t.ledger.Add(ctx, po.User, cur, t.wager); err != nil {
			return fmt.Errorf("pay out %s: %w", po.User, err)
		}
	case Push:
		if err := t.ledger.Cancel(ctx, ref, po.User, cur); err != nil {
			return fmt.Errorf("release wager of %s: %w", po.User, err)
		}
	case Loss:
		ok, err := t.ledger.Commit(ctx, ref, po.User, cur)
		if err != nil {
			return fmt.Errorf("collect wager of %s: %w", po.User, err)
		}
		if !ok {
			t.logger.Warn("wager hold missing at settlement", "user", po.User, "reference", ref)
		}
	}
	return nil
}

// Render implements session.State.
func (t *Table) Render(ctx context.Context) (domain.View, error) {
	switch {
	case t.abandoned:
		return domain.View{
			Title: "BLACKJACK | CANCELLED",
			Body:  "*Nobody joined the game.*",
			Tone:  domain.ToneMuted,
		}, nil
	case !t.game.IsStarted():
		return t.waitingView(), nil
	case !t.game.IsOver():
		return t.playingView(), nil
	default:
		return t.finishedView(), nil
	}
}

func (t *Table) waitingView() domain.View {
	var b strings.Builder
	fmt.Fprintf(&b, "*Game starts in %s*\n\n", remaining(t.clock.Now(), t.startsAt))
	b.WriteString(t.formatSeats())
	fmt.Fprintf(&b, "\n*%d people can join the game by clicking the button below.\n"+
		"If it's your turn, you will have %d seconds to hit or stand.\n"+
		"The game will start automatically.*", MaxPlayers, int(AutoStandAfter.Seconds()))

	label := "Join"
	if t.wager > 0 {
		label = fmt.Sprintf("Join (%d Citrine)", t.wager)
	}
	return domain.View{
		Title:    "BLACKJACK | WAITING FOR PLAYERS",
		Body:     b.String(),
		Controls: []domain.Control{{Token: TokenJoin, Label: label, Style: domain.StyleSuccess}},
	}
}

func (t *Table) playingView() domain.View {
	return domain.View{
		Title: "BLACKJACK | GAME ON",
		Body:  t.formatSeats(),
		Tone:  domain.ToneAccent,
		Controls: []domain.Control{
			{Token: TokenHit, Label: "Hit", Style: domain.StyleSuccess},
			{Token: TokenStand, Label: "Stand", Style: domain.StyleDanger},
		},
	}
}

func (t *Table) finishedView() domain.View {
	outcomes, _ := t.game.Outcomes()

	var b strings.Builder
	b.WriteString(t.formatDealer())
	b.WriteString("\n\n")
	for _, po := range outcomes {
		fmt.Fprintf(&b, "%s **`%d`** %s | %s\n", po.User.Mention(), po.Hand.Score(), po.Hand.String(), t.formatOutcome(po.Outcome))
	}
	return domain.View{
		Title: "BLACKJACK | FINISHED",
		Body:  b.String(),
		Tone:  domain.ToneSuccess,
	}
}

func (t *Table) formatOutcome(o Outcome) string {
	if t.wager == 0 {
		switch o {
		case Win:
			return "**`WON`**"
		case Push:
			return "**`PUSHED`**"
		default:
			return "**`LOST`**"
		}
	}
	switch o {
	case Win:
		return fmt.Sprintf("**`+%d`** Citrine", t.wager)
	case Push:
		return "**`±0`** Citrine"
	default:
		return fmt.Sprintf("**`-%d`** Citrine", t.wager)
	}
}

func (t *Table) formatSeats() string {
	var b strings.Builder
	if t.wager > 0 {
		fmt.Fprintf(&b, "**WAGER: `%d`** Citrine\n\n", t.wager)
	}
	b.WriteString(t.formatDealer())
	b.WriteString("\n\n")
	for _, p := range t.game.Players() {
		b.WriteString(t.formatPlayer(p))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) formatDealer() string {
	if !t.game.IsStarted() {
		return "**`Dealer`** *is waiting...*"
	}
	dealer := t.game.Dealer()
	return fmt.Sprintf("**`Dealer`** **`%d`** %s", dealer.Score(), dealer.String())
}

func (t *Table) formatPlayer(user domain.UserID) string {
	if !t.game.IsStarted() {
		return user.Mention() + " *is waiting...*"
	}
	hand, _ := t.game.Hand(user)
	base := fmt.Sprintf("%s **`%d`** %s", user.Mention(), hand.Score(), hand.String())

	current, _ := t.game.CurrentPlayer()
	switch {
	case current == user:
		deadline, _ := t.game.MoveDeadline()
		return fmt.Sprintf("%s | **AUTO-STAND** in %s", base, remaining(t.clock.Now(), deadline))
	case hand.IsBust():
		return base + " | **BUST**"
	case hand.Standing:
		return base + " | **STANDING**"
	default:
		return base + " | *waiting...*"
	}
}

func remaining(now, at time.Time) time.Duration {
	d := at.Sub(now).Round(time.Second)
	if d < 0 {
		return 0
	}
	return d
}
