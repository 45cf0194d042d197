// Package cards models a standard 52 card deck.
package cards

import (
	"fmt"
	"math/rand"
	"time"
)

// Suit is one of the four French suits.
type Suit byte

const (
	Spades   Suit = 's'
	Hearts   Suit = 'h'
	Clubs    Suit = 'c'
	Diamonds Suit = 'd'
)

// Suits lists every suit in deck order.
var Suits = []Suit{Spades, Hearts, Clubs, Diamonds}

func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

// Rank runs from Two (2) to Ace (14).
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Value is the pip value of the rank: faces count 10 and aces 11.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Jack:
		return 10
	default:
		return int(r)
	}
}

func (r Rank) String() string {
	const ranks = "  23456789TJQKA"
	if r < Two || r > Ace {
		return "?"
	}
	if r == Ten {
		return "10"
	}
	return string(ranks[r])
}

// Card is one playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.Symbol())
}

// Deck is a draw pile. Draw takes cards from the front.
type Deck struct {
	cards []Card
}

// NewDeck returns all 52 cards, ordered by suit then rank.
func NewDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	return d
}

// NewShuffledDeck returns a full deck shuffled with rng.
// A nil rng is seeded from the current time.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// NewDeckOf returns a deck that deals exactly cards, in order.
func NewDeckOf(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Shuffle reorders the remaining cards.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes the next card. It reports false once the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// Len is the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}
