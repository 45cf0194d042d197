package domain

import "errors"

// ErrTransportClosed is returned when the transport can no longer deliver or accept messages.
var ErrTransportClosed = errors.New("transport closed")

// ErrStatePanic wraps a panic recovered from a state call.
var ErrStatePanic = errors.New("state panicked")

// ErrInsufficientFunds is returned when a balance cannot cover a requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWagerZero is returned when a game is started with a wager of zero.
var ErrWagerZero = errors.New("wager must be greater than zero")

// ErrTargetYourself is returned when a user tries to challenge or pay themselves.
var ErrTargetYourself = errors.New("you cannot target yourself")

// ErrInvalidAmount is returned for non-positive currency amounts.
var ErrInvalidAmount = errors.New("amount must be greater than zero")
