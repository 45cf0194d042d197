package blackjack

import (
	"slices"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/cards"
)

const (
	BlackjackScore   = 21
	DealerStandScore = 17
	MaxPlayers       = 4
	AutoStandAfter   = 20 * time.Second
	JoinWindow       = 20 * time.Second
	HoldTTL          = 20 * time.Minute
)

// Move is a player action.
type Move int

const (
	Hit Move = iota
	Stand
)

// Outcome is the result of one player against the dealer.
type Outcome int

const (
	Loss Outcome = iota
	Push
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Push:
		return "push"
	default:
		return "loss"
	}
}

// PlayerOutcome is one settled seat.
type PlayerOutcome struct {
	User    domain.UserID
	Outcome Outcome
	Hand    Hand
}

// Game is a blackjack round against the dealer.
// It is not safe for concurrent use; a session owns it.
type Game struct {
	id      string
	deck    *cards.Deck
	dealer  Hand
	players []domain.UserID
	hands   map[domain.UserID]*Hand

	started    bool
	current    domain.UserID
	lastMoveAt time.Time
}

// NewGame creates a game in the waiting phase dealing from deck.
func NewGame(id string, deck *cards.Deck) *Game {
	return &Game{
		id:    id,
		deck:  deck,
		hands: make(map[domain.UserID]*Hand),
	}
}

// ID identifies the game.
func (g *Game) ID() string {
	return g.id
}

// CanJoin reports whether user would be seated by Join.
func (g *Game) CanJoin(user domain.UserID) bool {
	if g.started || len(g.players) >= MaxPlayers {
		return false
	}
	_, seated := g.hands[user]
	return !seated
}

// Join seats user. It reports false once started, when full or when already seated.
func (g *Game) Join(user domain.UserID) bool {
	if !g.CanJoin(user) {
		return false
	}
	g.players = append(g.players, user)
	g.hands[user] = &Hand{}
	return true
}

// Players lists seated users in join order.
func (g *Game) Players() []domain.UserID {
	return slices.Clone(g.players)
}

// Hand returns the hand of user.
func (g *Game) Hand(user domain.UserID) (Hand, bool) {
	h, ok := g.hands[user]
	if !ok {
		return Hand{}, false
	}
	return *h, true
}

// Dealer returns the dealer's hand.
func (g *Game) Dealer() Hand {
	return g.dealer
}

// Start deals two cards to every player and the dealer, then hands the turn
// to the first player able to move. It reports false without players or when
// already started.
func (g *Game) Start(now time.Time) bool {
	if g.started || len(g.players) == 0 {
		return false
	}
	g.started = true
	for range 2 {
		for _, p := range g.players {
			g.deal(g.hands[p])
		}
		g.deal(&g.dealer)
	}
	g.advance(now)
	return true
}

// IsStarted reports whether cards have been dealt.
func (g *Game) IsStarted() bool {
	return g.started
}

// IsOver reports whether the dealer and every player are resolved.
func (g *Game) IsOver() bool {
	return g.started && g.current == "" && g.dealer.IsResolved()
}

// CurrentPlayer is the user to move; false when nobody is.
func (g *Game) CurrentPlayer() (domain.UserID, bool) {
	return g.current, g.current != ""
}

// LastMoveAt is when the turn last changed hands.
func (g *Game) LastMoveAt() time.Time {
	return g.lastMoveAt
}

// MoveDeadline is when the current player will be forced to stand.
func (g *Game) MoveDeadline() (time.Time, bool) {
	if g.current == "" {
		return time.Time{}, false
	}
	return g.lastMoveAt.Add(AutoStandAfter), true
}

// Play applies move for user. It reports false when it is not their turn.
func (g *Game) Play(user domain.UserID, move Move, now time.Time) bool {
	if g.current == "" || g.current != user {
		return false
	}
	hand := g.hands[user]
	switch move {
	case Hit:
		if !g.deal(hand) {
			hand.Standing = true
		}
	case Stand:
		hand.Standing = true
	default:
		return false
	}
	g.advance(now)
	return true
}

// ForceStand makes the current player stand. It reports false when nobody is to move.
func (g *Game) ForceStand(now time.Time) bool {
	if g.current == "" {
		return false
	}
	return g.Play(g.current, Stand, now)
}

// Outcomes compares every player with the dealer, in join order.
// It reports false until the game is over.
func (g *Game) Outcomes() ([]PlayerOutcome, bool) {
	if !g.IsOver() {
		return nil, false
	}
	dealerScore := g.dealer.Score()
	dealerBust := g.dealer.IsBust()

	out := make([]PlayerOutcome, 0, len(g.players))
	for _, p := range g.players {
		hand := g.hands[p]
		score := hand.Score()

		outcome := Loss
		switch {
		case hand.IsBust():
			outcome = Loss
		case dealerBust || score > dealerScore:
			outcome = Win
		case score == dealerScore:
			outcome = Push
		}
		out = append(out, PlayerOutcome{User: p, Outcome: outcome, Hand: *hand})
	}
	return out, true
}

func (g *Game) deal(h *Hand) bool {
	c, ok := g.deck.Draw()
	if !ok {
		return false
	}
	h.Cards = append(h.Cards, c)
	return true
}

// advance records the move and passes the turn. Once no player can move the
// dealer draws below DealerStandScore and stands otherwise.
func (g *Game) advance(now time.Time) {
	g.lastMoveAt = now
	g.current = g.nextPlayer()
	for g.current == "" && g.dealer.CanMove() {
		if g.dealer.Score() < DealerStandScore && g.deal(&g.dealer) {
			continue
		}
		g.dealer.Standing = true
	}
}

// nextPlayer scans cyclically from just after the current player.
func (g *Game) nextPlayer() domain.UserID {
	n := len(g.players)
	start := 0
	if i := slices.Index(g.players, g.current); i >= 0 {
		start = i + 1
	}
	for k := range n {
		p := g.players[(start+k)%n]
		if g.hands[p].CanMove() {
			return p
		}
	}
	return ""
}
