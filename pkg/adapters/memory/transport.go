package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// DefaultEventBuffer is how many pressed controls a message queues before Press blocks.
const DefaultEventBuffer = 64

// Edit records one Transport.Edit call.
type Edit struct {
	MessageID domain.MessageID
	View      domain.View
}

// Response records one Transport.Respond call.
type Response struct {
	Event domain.Event
	View  domain.View
}

// Transport implements ports.Transport in memory.
// Message ids are assigned sequentially ("msg-1", "msg-2", ...) so tests can
// press controls before the session has sent its first message.
type Transport struct {
	mu        sync.Mutex
	seq       int
	eventSeq  int
	channels  map[domain.MessageID]chan domain.Event
	closed    map[domain.MessageID]bool
	current   map[domain.MessageID]domain.View
	sent      []domain.View
	edits     []Edit
	responses []Response
	acks      []domain.Event

	sendErr    error
	editErr    error
	respondErr error
	collectErr error

	// closeMu keeps CloseEvents from closing a channel a Press is sending on.
	closeMu    sync.RWMutex
	collectors atomic.Int32
}

// NewTransport creates an empty in-memory transport.
func NewTransport() *Transport {
	return &Transport{
		channels: make(map[domain.MessageID]chan domain.Event),
		closed:   make(map[domain.MessageID]bool),
		current:  make(map[domain.MessageID]domain.View),
	}
}

// Send records view as a new message.
func (t *Transport) Send(ctx context.Context, view domain.View) (domain.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return "", t.sendErr
	}
	t.seq++
	id := domain.MessageID(fmt.Sprintf("msg-%d", t.seq))
	t.sent = append(t.sent, view)
	t.current[id] = view
	return id, nil
}

// Edit replaces the view of an existing message.
func (t *Transport) Edit(ctx context.Context, id domain.MessageID, view domain.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.editErr != nil {
		return t.editErr
	}
	if _, ok := t.current[id]; !ok {
		return fmt.Errorf("edit %s: unknown message", id)
	}
	t.edits = append(t.edits, Edit{MessageID: id, View: view})
	t.current[id] = view
	return nil
}

// Collect returns the event stream of a message.
// The stream closes when ctx ends or CloseEvents is called.
func (t *Transport) Collect(ctx context.Context, id domain.MessageID) (<-chan domain.Event, error) {
	t.mu.Lock()
	if t.collectErr != nil {
		t.mu.Unlock()
		return nil, t.collectErr
	}
	in := t.channelLocked(id)
	t.mu.Unlock()

	out := make(chan domain.Event)
	t.collectors.Add(1)
	go func() {
		defer t.collectors.Add(-1)
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Acknowledge records an event handled without a visual change.
func (t *Transport) Acknowledge(ctx context.Context, ev domain.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.acks = append(t.acks, ev)
	return nil
}

// Respond records the view sent in direct response to ev.
func (t *Transport) Respond(ctx context.Context, ev domain.Event, view domain.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.respondErr != nil {
		return t.respondErr
	}
	t.responses = append(t.responses, Response{Event: ev, View: view})
	if _, ok := t.current[ev.Message]; ok {
		t.current[ev.Message] = view
	}
	return nil
}

// Press queues an event on message id as if actor activated the control token.
// Presses on a closed stream are dropped.
func (t *Transport) Press(id domain.MessageID, actor domain.UserID, token string) domain.Event {
	t.closeMu.RLock()
	defer t.closeMu.RUnlock()

	t.mu.Lock()
	t.eventSeq++
	ev := domain.Event{
		ID:      fmt.Sprintf("evt-%d", t.eventSeq),
		Message: id,
		Actor:   actor,
		Token:   token,
		At:      time.Now(),
	}
	ch := t.channelLocked(id)
	closed := t.closed[id]
	t.mu.Unlock()

	if !closed {
		ch <- ev
	}
	return ev
}

// CloseEvents ends the event stream of message id. Closing twice is a no-op.
func (t *Transport) CloseEvents(id domain.MessageID) {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed[id] {
		return
	}
	t.closed[id] = true
	close(t.channelLocked(id))
}

// Collectors reports how many event streams are still being served.
func (t *Transport) Collectors() int {
	return int(t.collectors.Load())
}

// FailSend makes every following Send return err.
func (t *Transport) FailSend(err error) { t.setErr(&t.sendErr, err) }

// FailEdit makes every following Edit return err.
func (t *Transport) FailEdit(err error) { t.setErr(&t.editErr, err) }

// FailRespond makes every following Respond return err.
func (t *Transport) FailRespond(err error) { t.setErr(&t.respondErr, err) }

// FailCollect makes every following Collect return err.
func (t *Transport) FailCollect(err error) { t.setErr(&t.collectErr, err) }

func (t *Transport) setErr(dst *error, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	*dst = err
}

// Sent returns every initial message.
func (t *Transport) Sent() []domain.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.View(nil), t.sent...)
}

// Edits returns every edit in call order.
func (t *Transport) Edits() []Edit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Edit(nil), t.edits...)
}

// Responses returns every response in call order.
func (t *Transport) Responses() []Response {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Response(nil), t.responses...)
}

// Acks returns every acknowledged event.
func (t *Transport) Acks() []domain.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Event(nil), t.acks...)
}

// Current returns what message id shows right now.
func (t *Transport) Current(id domain.MessageID) (domain.View, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.current[id]
	return v, ok
}

func (t *Transport) channelLocked(id domain.MessageID) chan domain.Event {
	ch, ok := t.channels[id]
	if !ok {
		ch = make(chan domain.Event, DefaultEventBuffer)
		t.channels[id] = ch
	}
	return ch
}
