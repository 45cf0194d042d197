package blackjack

import (
	"slices"
	"strings"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/games/cards"
)

// Hand is the cards held by a player or the dealer.
type Hand struct {
	Cards    []cards.Card
	Standing bool
}

// Score sums the hand. Cards are counted from the lowest value up and each ace
// counts 11 unless that would pass BlackjackScore, in which case it counts 1.
func (h Hand) Score() int {
	sorted := slices.Clone(h.Cards)
	slices.SortStableFunc(sorted, func(a, b cards.Card) int {
		return a.Rank.Value() - b.Rank.Value()
	})

	score := 0
	for _, c := range sorted {
		if c.IsAce() && score+11 > BlackjackScore {
			score++
			continue
		}
		score += c.Rank.Value()
	}
	return score
}

// IsBust reports a score above BlackjackScore.
func (h Hand) IsBust() bool {
	return h.Score() > BlackjackScore
}

// CanMove reports whether the hand may still hit or stand.
func (h Hand) CanMove() bool {
	return !h.Standing && !h.IsBust()
}

// IsResolved is the opposite of CanMove: standing or bust.
func (h Hand) IsResolved() bool {
	return !h.CanMove()
}

func (h Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
