package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
)

// StreamEvent is one session lifecycle record pushed to /events subscribers.
type StreamEvent struct {
	Type      string    `json:"type"`
	Session   string    `json:"session"`
	Author    string    `json:"author"`
	MessageID string    `json:"message_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Token     string    `json:"token,omitempty"`
	Result    string    `json:"result,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Duration  float64   `json:"duration_seconds,omitempty"`
	At        time.Time `json:"at"`
}

// StreamManager fans session events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- StreamEvent]string // channel -> session name filter
	logger      *slog.Logger
}

// NewStreamManager creates a manager without subscribers. logger may be nil.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan<- StreamEvent]string),
		logger:      logger,
	}
}

// Subscribe registers a subscriber. An empty name receives every session.
func (sm *StreamManager) Subscribe(name string) (<-chan StreamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan StreamEvent, 16)
	sm.subscribers[ch] = name
	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers reports how many clients are connected.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast delivers ev to matching subscribers, dropping it for slow ones.
func (sm *StreamManager) Broadcast(ev StreamEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch, name := range sm.subscribers {
		if name != "" && name != ev.Session {
			continue
		}
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "session", ev.Session)
		}
	}
}

// Hooks returns session hooks that broadcast lifecycle events.
func (sm *StreamManager) Hooks() session.Hooks {
	base := func(typ string, info session.Info) StreamEvent {
		return StreamEvent{
			Type:      typ,
			Session:   info.Name,
			Author:    string(info.Author),
			MessageID: string(info.MessageID),
			At:        time.Now().UTC(),
		}
	}
	return session.Hooks{
		OnStart: func(ctx context.Context, info *session.Info) {
			sm.Broadcast(base("start", *info))
		},
		OnEvent: func(ctx context.Context, e *session.EventInfo) {
			ev := base("event", e.Info)
			ev.Actor = string(e.Event.Actor)
			ev.Token = e.Event.Token
			ev.Result = string(e.Result)
			sm.Broadcast(ev)
		},
		OnEnd: func(ctx context.Context, e *session.EndInfo) {
			ev := base("end", e.Info)
			ev.Reason = string(e.Reason)
			ev.Duration = e.Duration.Seconds()
			sm.Broadcast(ev)
		},
	}
}

// SubscribeEvents handles GET /events (SSE). The optional "session" query
// parameter restricts the stream to one session name.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(r.URL.Query().Get("session"))
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("SSE: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}
