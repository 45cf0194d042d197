package rps

import (
	"fmt"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// Status is the phase of a game, derived from the submitted choices.
type Status int

const (
	WaitingForBoth Status = iota
	WaitingForFirst
	WaitingForSecond
	FirstWins
	SecondWins
	Draw
)

func (s Status) String() string {
	switch s {
	case WaitingForBoth:
		return "waiting_for_both"
	case WaitingForFirst:
		return "waiting_for_first"
	case WaitingForSecond:
		return "waiting_for_second"
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// IsDecided reports whether both choices are in.
func (s Status) IsDecided() bool {
	return s == FirstWins || s == SecondWins || s == Draw
}

// WaitingFor reports whether the first (or second) participant still has to choose.
func (s Status) WaitingFor(first bool) bool {
	if first {
		return s == WaitingForBoth || s == WaitingForFirst
	}
	return s == WaitingForBoth || s == WaitingForSecond
}

// Game holds the two participants in challenge order and their choices.
type Game struct {
	first, second             domain.UserID
	firstChoice, secondChoice Choice
}

// NewGame creates a game between the challenger (first) and the challenged (second).
func NewGame(first, second domain.UserID) *Game {
	return &Game{first: first, second: second}
}

// Participants returns both users in challenge order.
func (g *Game) Participants() (first, second domain.UserID) {
	return g.first, g.second
}

// Pair returns both users in canonical order, independent of who challenged whom.
func (g *Game) Pair() (domain.UserID, domain.UserID) {
	return CanonicalPair(g.first, g.second)
}

// CanonicalPair orders two users lexically.
func CanonicalPair(a, b domain.UserID) (domain.UserID, domain.UserID) {
	if b < a {
		return b, a
	}
	return a, b
}

// Play submits choice for user. Each participant may submit once; anything
// else is rejected as false.
func (g *Game) Play(user domain.UserID, c Choice) bool {
	if _, ok := beats[c]; !ok {
		return false
	}
	switch {
	case user == g.first && g.firstChoice == 0:
		g.firstChoice = c
	case user == g.second && g.secondChoice == 0:
		g.secondChoice = c
	default:
		return false
	}
	return true
}

// Choices returns the submitted choices; zero means not yet chosen.
func (g *Game) Choices() (first, second Choice) {
	return g.firstChoice, g.secondChoice
}

// Status derives the phase of the game.
func (g *Game) Status() Status {
	switch {
	case g.firstChoice == 0 && g.secondChoice == 0:
		return WaitingForBoth
	case g.firstChoice == 0:
		return WaitingForFirst
	case g.secondChoice == 0:
		return WaitingForSecond
	case g.firstChoice == g.secondChoice:
		return Draw
	case g.firstChoice.Beats(g.secondChoice):
		return FirstWins
	default:
		return SecondWins
	}
}

// Winner returns the winner and loser of a decided game without a draw.
func (g *Game) Winner() (winner, loser domain.UserID, ok bool) {
	switch g.Status() {
	case FirstWins:
		return g.first, g.second, true
	case SecondWins:
		return g.second, g.first, true
	default:
		return "", "", false
	}
}
