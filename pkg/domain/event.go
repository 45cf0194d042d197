package domain

import "time"

// MessageID is the transport handle of a rendered message.
type MessageID string

// Event represents a remote actor activating a control on a message.
type Event struct {
	ID      string    `json:"id"`
	Message MessageID `json:"message"`
	Actor   UserID    `json:"actor"`
	Token   string    `json:"token"`
	At      time.Time `json:"at"`
}
