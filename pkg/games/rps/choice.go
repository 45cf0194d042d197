// Package rps implements rock paper scissors between two users.
package rps

import (
	"fmt"
	"math/rand"
	"strings"
)

// Choice is one of the three hands.
type Choice int

const (
	Rock Choice = iota + 1
	Paper
	Scissors
)

// Choices lists every valid choice.
var Choices = []Choice{Rock, Paper, Scissors}

// beats maps each choice to the one it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Beats reports whether c defeats other.
func (c Choice) Beats(other Choice) bool {
	defeated, ok := beats[c]
	return ok && defeated == other
}

func (c Choice) String() string {
	switch c {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "None"
	}
}

// Emoji is the symbol shown on controls and results.
func (c Choice) Emoji() string {
	switch c {
	case Rock:
		return "🪨"
	case Paper:
		return "📄"
	case Scissors:
		return "✂️"
	default:
		return "❔"
	}
}

// ParseChoice resolves a choice by name, case-insensitively.
func ParseChoice(s string) (Choice, error) {
	for _, c := range Choices {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown choice %q", s)
}

// RandomChoice picks a uniformly random choice.
func RandomChoice(rng *rand.Rand) Choice {
	if rng == nil {
		return Choices[rand.Intn(len(Choices))]
	}
	return Choices[rng.Intn(len(Choices))]
}
