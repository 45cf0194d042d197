package session

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// State is one kind of interactive flow driven by a Session.
// A state is only ever called from its session's loop, so it needs no locking.
// All mutations for one call must be applied before it returns.
type State interface {
	// Render produces the current view. It must not mutate the state in a way
	// that changes what the next Render returns.
	Render(ctx context.Context) (domain.View, error)
	// HandleEvent reacts to an authorized actor activating a control.
	// Unknown tokens must be treated as no-ops.
	HandleEvent(ctx context.Context, ev domain.Event) (domain.Outcome, error)
}

// Ticker is implemented by states that react to the passage of time.
// States without it get a no-op tick.
type Ticker interface {
	OnTick(ctx context.Context) (domain.Outcome, error)
}
