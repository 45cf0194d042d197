package domain

import (
	"fmt"
	"strings"
)

// UserID identifies a user on the chat platform.
type UserID string

// Mention renders the user as a platform mention.
func (u UserID) Mention() string {
	return "<@" + string(u) + ">"
}

// Currency identifies a ledger currency.
type Currency int16

const (
	CurrencyCitrine Currency = 0
)

func (c Currency) String() string {
	switch c {
	case CurrencyCitrine:
		return "citrine"
	default:
		return fmt.Sprintf("currency(%d)", int16(c))
	}
}

// ParseCurrency resolves a currency by name.
func ParseCurrency(name string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "citrine", "":
		return CurrencyCitrine, nil
	default:
		return 0, fmt.Errorf("unknown currency %q", name)
	}
}

// Balance is a snapshot of one user's funds in one currency.
// Available is always Total minus the sum of unexpired holds.
type Balance struct {
	Total     int64 `json:"total"`
	Held      int64 `json:"held"`
	Available int64 `json:"available"`
}
