package ports

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// Transport is the chat-platform message layer consumed by the session engine.
type Transport interface {
	// Send renders a new message and returns its handle.
	Send(ctx context.Context, view domain.View) (domain.MessageID, error)

	// Edit replaces the content of an existing message.
	Edit(ctx context.Context, msg domain.MessageID, view domain.View) error

	// Collect streams interaction events raised on the message.
	// The channel is closed when ctx ends or the source is exhausted.
	Collect(ctx context.Context, msg domain.MessageID) (<-chan domain.Event, error)

	// Acknowledge answers an event without any visual change.
	Acknowledge(ctx context.Context, event domain.Event) error

	// Respond answers an event by updating the message it was raised on.
	Respond(ctx context.Context, event domain.Event, view domain.View) error
}
