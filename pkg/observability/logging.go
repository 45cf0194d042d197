package observability

import (
	"context"
	"log/slog"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
)

// LogHooks returns session hooks that write lifecycle records to logger.
func LogHooks(logger *slog.Logger) session.Hooks {
	return session.Hooks{
		OnStart: func(ctx context.Context, info *session.Info) {
			logger.InfoContext(ctx, "session_start",
				"session", info.Name,
				"author", info.Author,
				"message_id", info.MessageID,
			)
		},
		OnEvent: func(ctx context.Context, e *session.EventInfo) {
			logger.DebugContext(ctx, "session_event",
				"session", e.Name,
				"actor", e.Event.Actor,
				"token", e.Event.Token,
				"result", e.Result,
			)
		},
		OnEnd: func(ctx context.Context, e *session.EndInfo) {
			level := slog.LevelInfo
			if e.Reason == session.EndFailed {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "session_end",
				"session", e.Name,
				"reason", e.Reason,
				"duration", e.Duration,
				"error", e.Err,
			)
		},
	}
}
