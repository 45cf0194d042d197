package rps

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"k8s.io/utils/clock"
)

// Control tokens of a match.
const (
	TokenRock     = "rps_rock"
	TokenPaper    = "rps_paper"
	TokenScissors = "rps_scissors"
)

// Timeout is how long a challenge stays open.
const Timeout = 5 * time.Minute

func parseToken(token string) (Choice, bool) {
	switch token {
	case TokenRock:
		return Rock, true
	case TokenPaper:
		return Paper, true
	case TokenScissors:
		return Scissors, true
	default:
		return 0, false
	}
}

// Recorder persists the result of a decided match.
type Recorder interface {
	RecordWin(ctx context.Context, winner, loser domain.UserID) error
	RecordDraw(ctx context.Context, a, b domain.UserID) error
	RecordChoice(ctx context.Context, user domain.UserID, c Choice) error
}

// Match is the session state of one challenge.
type Match struct {
	game     *Game
	bot      bool
	recorder Recorder
	clock    clock.PassiveClock
	logger   *slog.Logger
	endsAt   time.Time
	settled  bool
}

// MatchOption configures a Match.
type MatchOption func(*matchConfig)

type matchConfig struct {
	bot      bool
	rng      *rand.Rand
	recorder Recorder
	clock    clock.PassiveClock
	logger   *slog.Logger
}

// WithBot makes the opponent a bot that submits a random choice up front.
func WithBot(rng *rand.Rand) MatchOption {
	return func(c *matchConfig) {
		c.bot = true
		c.rng = rng
	}
}

// WithRecorder records the result once the match is decided.
func WithRecorder(r Recorder) MatchOption {
	return func(c *matchConfig) {
		c.recorder = r
	}
}

// WithClock sets the clock used for the remaining time.
func WithClock(clk clock.PassiveClock) MatchOption {
	return func(c *matchConfig) {
		c.clock = clk
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) MatchOption {
	return func(c *matchConfig) {
		c.logger = logger
	}
}

// NewMatch opens a challenge from challenger to opponent.
func NewMatch(challenger, opponent domain.UserID, opts ...MatchOption) (*Match, error) {
	if challenger == opponent {
		return nil, domain.ErrTargetYourself
	}
	cfg := matchConfig{
		clock:  clock.RealClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Match{
		game:     NewGame(challenger, opponent),
		bot:      cfg.bot,
		recorder: cfg.recorder,
		clock:    cfg.clock,
		logger:   cfg.logger.With("challenger", challenger, "opponent", opponent),
		endsAt:   cfg.clock.Now().Add(Timeout),
	}
	if cfg.bot {
		m.game.Play(opponent, RandomChoice(cfg.rng))
	}
	return m, nil
}

// Game exposes the underlying game.
func (m *Match) Game() *Game {
	return m.game
}

// HandleEvent implements session.State.
func (m *Match) HandleEvent(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	choice, ok := parseToken(ev.Token)
	if !ok || !m.game.Play(ev.Actor, choice) {
		return domain.Noop(), nil
	}
	if !m.game.Status().IsDecided() {
		return domain.Update(), nil
	}
	if err := m.settle(ctx); err != nil {
		return domain.Noop(), err
	}
	return domain.Halt(), nil
}

// OnTick settles a decided match that has not been settled yet.
func (m *Match) OnTick(ctx context.Context) (domain.Outcome, error) {
	if !m.game.Status().IsDecided() {
		return domain.Noop(), nil
	}
	if err := m.settle(ctx); err != nil {
		return domain.Noop(), err
	}
	return domain.Halt(), nil
}

// settle records the result and both choices. It runs at most once.
func (m *Match) settle(ctx context.Context) error {
	if m.settled {
		return nil
	}
	m.settled = true
	if m.recorder == nil {
		return nil
	}

	if winner, loser, ok := m.game.Winner(); ok {
		if err := m.recorder.RecordWin(ctx, winner, loser); err != nil {
			return fmt.Errorf("record win: %w", err)
		}
	} else {
		a, b := m.game.Pair()
		if err := m.recorder.RecordDraw(ctx, a, b); err != nil {
			return fmt.Errorf("record draw: %w", err)
		}
	}

	first, second := m.game.Participants()
	c1, c2 := m.game.Choices()
	if err := m.recorder.RecordChoice(ctx, first, c1); err != nil {
		return fmt.Errorf("record choice: %w", err)
	}
	if err := m.recorder.RecordChoice(ctx, second, c2); err != nil {
		return fmt.Errorf("record choice: %w", err)
	}
	m.logger.Info("match settled", "status", m.game.Status())
	return nil
}

// Render implements session.State.
func (m *Match) Render(ctx context.Context) (domain.View, error) {
	status := m.game.Status()
	first, second := m.game.Participants()
	c1, c2 := m.game.Choices()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", first.Mention(), choiceText(c1, status))
	fmt.Fprintf(&b, "%s %s", second.Mention(), choiceText(c2, status))
	if m.bot {
		b.WriteString(" 🤖")
	}

	view := domain.View{Title: "Rock Paper Scissors", Tone: domain.ToneAccent}
	switch status {
	case FirstWins:
		fmt.Fprintf(&b, "\n\n🏆 %s **wins!**", first.Mention())
		view.Tone = domain.ToneSuccess
	case SecondWins:
		fmt.Fprintf(&b, "\n\n🏆 %s **wins!**", second.Mention())
		view.Tone = domain.ToneError
	case Draw:
		b.WriteString("\n\n**It's a draw!**")
		view.Tone = domain.ToneWarning
	default:
		remaining := m.endsAt.Sub(m.clock.Now()).Round(time.Second)
		fmt.Fprintf(&b, "\n\n*Game ends in %s*", max(remaining, 0))
		view.Content = fmt.Sprintf("**%s, you were challenged to a game of Rock Paper Scissors by %s!**",
			second.Mention(), first.Mention())
		view.Controls = []domain.Control{
			{Token: TokenRock, Emoji: Rock.Emoji(), Style: domain.StyleSecondary},
			{Token: TokenPaper, Emoji: Paper.Emoji(), Style: domain.StyleSecondary},
			{Token: TokenScissors, Emoji: Scissors.Emoji(), Style: domain.StyleSecondary},
		}
	}
	view.Body = b.String()
	return view, nil
}

// TimeoutView replaces the message when nobody finished the match in time.
func (m *Match) TimeoutView() domain.View {
	first, second := m.game.Participants()
	return domain.View{
		Title: "Rock Paper Scissors",
		Body:  fmt.Sprintf("The game between %s and %s has ended without a winner.", first.Mention(), second.Mention()),
		Tone:  domain.ToneMuted,
	}
}

func choiceText(c Choice, status Status) string {
	switch {
	case c == 0:
		return "*is thinking...*"
	case !status.IsDecided():
		return "**chose `???`**"
	default:
		return "**chose** " + c.Emoji()
	}
}
