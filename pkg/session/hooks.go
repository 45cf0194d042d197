package session

import (
	"context"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// EndReason explains why a session stopped.
type EndReason string

const (
	EndCompleted EndReason = "completed"
	EndTimedOut  EndReason = "timed_out"
	EndFailed    EndReason = "failed"
	EndCancelled EndReason = "cancelled"
)

// EventResult describes how the engine handled one interaction event.
type EventResult string

const (
	EventUnauthorized EventResult = "unauthorized"
	EventAcknowledged EventResult = "acknowledged"
	EventRedrawn      EventResult = "redrawn"
	EventFailed       EventResult = "failed"
)

// Info identifies a running session in hook payloads.
type Info struct {
	Name      string
	Author    domain.UserID
	MessageID domain.MessageID
}

// EventInfo is passed to Hooks.OnEvent.
type EventInfo struct {
	Info
	Event  domain.Event
	Result EventResult
}

// TickInfo is passed to Hooks.OnTick.
type TickInfo struct {
	Info
	Outcome domain.Outcome
}

// EndInfo is passed to Hooks.OnEnd.
type EndInfo struct {
	Info
	Reason   EndReason
	Duration time.Duration
	Err      error
}

// Hooks observe a session. They must not block and cannot influence the loop.
type Hooks struct {
	OnStart func(context.Context, *Info)
	OnEvent func(context.Context, *EventInfo)
	OnTick  func(context.Context, *TickInfo)
	OnEnd   func(context.Context, *EndInfo)
}

// Chain returns hooks that call h first and then next.
func (h Hooks) Chain(next Hooks) Hooks {
	return Hooks{
		OnStart: chain(h.OnStart, next.OnStart),
		OnEvent: chain(h.OnEvent, next.OnEvent),
		OnTick:  chain(h.OnTick, next.OnTick),
		OnEnd:   chain(h.OnEnd, next.OnEnd),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
