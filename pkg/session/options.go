package session

import (
	"log/slog"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"k8s.io/utils/clock"
)

// DefaultTimeout is the deadline of a session that does not configure one.
const DefaultTimeout = 5 * time.Minute

// TimedOutFooter annotates the last render when the deadline fires.
const TimedOutFooter = "This interaction has timed out."

// Option configures a Session. Options only record settings; nothing runs until Run.
type Option func(*Session)

// WithTimeout sets the session deadline, measured from the start of Run.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithTick enables periodic OnTick calls. Zero disables ticking.
func WithTick(d time.Duration) Option {
	return func(s *Session) {
		s.tick = d
	}
}

// WithAllowAnyone lets actors other than the author drive the state.
func WithAllowAnyone(allow bool) Option {
	return func(s *Session) {
		s.allowAnyone = allow
	}
}

// WithTimeoutView replaces the expired last render with a fixed view.
func WithTimeoutView(view domain.View) Option {
	return func(s *Session) {
		s.timeoutView = &view
	}
}

// WithName labels the session in logs and hooks.
func WithName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls are chained.
func WithHooks(hooks Hooks) Option {
	return func(s *Session) {
		s.hooks = s.hooks.Chain(hooks)
	}
}

// WithClock replaces the wall clock used for the deadline and the ticker.
func WithClock(clk clock.WithTicker) Option {
	return func(s *Session) {
		s.clock = clk
	}
}
