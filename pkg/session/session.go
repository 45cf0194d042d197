package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"k8s.io/utils/clock"
)

// Session drives one State through one rendered message.
type Session struct {
	state     State
	transport ports.Transport
	author    domain.UserID

	name        string
	timeout     time.Duration
	tick        time.Duration
	allowAnyone bool
	timeoutView *domain.View

	logger *slog.Logger
	hooks  Hooks
	clock  clock.WithTicker

	info Info
	last domain.View
}

// New creates a session for state, owned by author.
// By default only the author may interact and the deadline is DefaultTimeout.
func New(state State, transport ports.Transport, author domain.UserID, opts ...Option) *Session {
	s := &Session{
		state:     state,
		transport: transport,
		author:    author,
		name:      "session",
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run renders the state and drives it until it stops, the deadline passes,
// an error occurs or ctx is cancelled.
func (s *Session) Run(ctx context.Context) (err error) {
	started := s.clock.Now()
	s.info = Info{Name: s.name, Author: s.author}
	reason := EndCompleted
	defer func() {
		if err != nil && reason == EndCompleted {
			reason = EndFailed
		}
		s.emitEnd(ctx, reason, s.clock.Since(started), err)
	}()

	view, err := s.render(ctx)
	if err != nil {
		return fmt.Errorf("initial render: %w", err)
	}
	id, err := s.transport.Send(ctx, view)
	if err != nil {
		return fmt.Errorf("send initial message: %w", err)
	}
	s.last = view
	s.info.MessageID = id
	s.logger = s.logger.With("session", s.name, "author", s.author, "message_id", id)
	logger := s.logger

	if s.hooks.OnStart != nil {
		info := s.info
		s.hooks.OnStart(ctx, &info)
	}
	logger.Debug("session started", "timeout", s.timeout, "tick", s.tick)

	collectCtx, stopCollect := context.WithCancel(ctx)
	defer stopCollect()
	events, err := s.transport.Collect(collectCtx, id)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("collect events: %w", err))
	}

	var ticks <-chan time.Time
	if _, ok := s.state.(Ticker); ok && s.tick > 0 {
		t := s.clock.NewTicker(s.tick)
		defer t.Stop()
		ticks = t.C()
	}

	deadline := s.clock.NewTimer(s.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			reason = EndCancelled
			logger.Debug("session cancelled")
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				// Source exhausted; only the deadline or a tick can end the session now.
				events = nil
				logger.Debug("event stream closed")
				continue
			}
			stop, err := s.handleEvent(ctx, ev)
			if err != nil {
				return s.fail(ctx, err)
			}
			if stop {
				logger.Debug("session completed")
				return nil
			}

		case <-ticks:
			stop, err := s.handleTick(ctx)
			if err != nil {
				return s.fail(ctx, err)
			}
			if stop {
				logger.Debug("session completed on tick")
				return nil
			}

		case <-deadline.C():
			reason = EndTimedOut
			logger.Debug("session timed out")
			return s.expire(ctx)
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, ev domain.Event) (bool, error) {
	if !s.allowAnyone && ev.Actor != s.author {
		s.emitEvent(ctx, ev, EventUnauthorized)
		if err := s.transport.Acknowledge(ctx, ev); err != nil {
			return false, fmt.Errorf("acknowledge event: %w", err)
		}
		return false, nil
	}

	var outcome domain.Outcome
	err := s.guard("handle event", func() error {
		var err error
		outcome, err = s.state.HandleEvent(ctx, ev)
		return err
	})
	if err != nil {
		s.emitEvent(ctx, ev, EventFailed)
		return false, fmt.Errorf("handle event %q: %w", ev.Token, err)
	}

	if !outcome.Redraw {
		s.emitEvent(ctx, ev, EventAcknowledged)
		if err := s.transport.Acknowledge(ctx, ev); err != nil {
			return false, fmt.Errorf("acknowledge event: %w", err)
		}
		return outcome.Stop, nil
	}

	view, err := s.redraw(ctx, outcome)
	if err != nil {
		s.emitEvent(ctx, ev, EventFailed)
		return false, err
	}
	s.emitEvent(ctx, ev, EventRedrawn)
	if err := s.transport.Respond(ctx, ev, view); err != nil {
		return false, fmt.Errorf("respond to event: %w", err)
	}
	s.last = view
	return outcome.Stop, nil
}

func (s *Session) handleTick(ctx context.Context) (bool, error) {
	ticker := s.state.(Ticker)

	var outcome domain.Outcome
	err := s.guard("tick", func() error {
		var err error
		outcome, err = ticker.OnTick(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("tick: %w", err)
	}
	if s.hooks.OnTick != nil {
		s.hooks.OnTick(ctx, &TickInfo{Info: s.info, Outcome: outcome})
	}

	if outcome.Redraw {
		view, err := s.redraw(ctx, outcome)
		if err != nil {
			return false, err
		}
		if err := s.transport.Edit(ctx, s.info.MessageID, view); err != nil {
			return false, fmt.Errorf("edit message: %w", err)
		}
		s.last = view
	}
	return outcome.Stop, nil
}

// redraw renders the state, stripping controls from a final view.
func (s *Session) redraw(ctx context.Context, outcome domain.Outcome) (domain.View, error) {
	view, err := s.render(ctx)
	if err != nil {
		return domain.View{}, fmt.Errorf("render: %w", err)
	}
	if outcome.Stop {
		view = view.WithoutControls()
	}
	return view, nil
}

func (s *Session) render(ctx context.Context) (domain.View, error) {
	var view domain.View
	err := s.guard("render", func() error {
		var err error
		view, err = s.state.Render(ctx)
		return err
	})
	return view, err
}

// expire replaces the message with the timed out view.
func (s *Session) expire(ctx context.Context) error {
	view := s.last.WithFooter(TimedOutFooter).WithTone(domain.ToneMuted)
	if s.timeoutView != nil {
		view = *s.timeoutView
	}
	view = view.WithoutControls()
	if err := s.transport.Edit(ctx, s.info.MessageID, view); err != nil {
		return fmt.Errorf("edit timed out message: %w", err)
	}
	s.last = view
	return nil
}

// fail makes one best-effort attempt to show the failure notice, then returns err.
func (s *Session) fail(ctx context.Context, err error) error {
	s.logger.Error("session failed", "err", err)
	if editErr := s.transport.Edit(context.WithoutCancel(ctx), s.info.MessageID, FailureView()); editErr != nil {
		s.logger.Warn("failed to render failure notice", "err", editErr)
	}
	return err
}

// guard converts a panic inside a state call into an error.
func (s *Session) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state panicked", "op", op, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w during %s: %v", domain.ErrStatePanic, op, r)
		}
	}()
	return fn()
}

func (s *Session) emitEvent(ctx context.Context, ev domain.Event, result EventResult) {
	if s.hooks.OnEvent != nil {
		s.hooks.OnEvent(ctx, &EventInfo{Info: s.info, Event: ev, Result: result})
	}
}

func (s *Session) emitEnd(ctx context.Context, reason EndReason, d time.Duration, err error) {
	if s.hooks.OnEnd != nil {
		s.hooks.OnEnd(ctx, &EndInfo{Info: s.info, Reason: reason, Duration: d, Err: err})
	}
}

// FailureView is shown when a session ends with an error.
func FailureView() domain.View {
	return domain.View{
		Title: "Something went wrong",
		Body:  "This interaction failed and has been closed.",
		Tone:  domain.ToneError,
	}
}
