package terminal_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/terminal"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer shared with the transport.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func collectAll(t *testing.T, ch <-chan domain.Event) []domain.Event {
	t.Helper()
	var events []domain.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("event stream did not close")
			return nil
		}
	}
}

func TestTransport_FormatsViews(t *testing.T) {
	out := &syncBuffer{}
	tr := terminal.New(strings.NewReader(""), out)
	ctx := context.Background()

	id, err := tr.Send(ctx, domain.View{
		Content:  "<@bob>, you were challenged",
		Title:    "Rock Paper Scissors",
		Body:     "**pick one**",
		Footer:   "Page 1/2",
		Controls: []domain.Control{{Token: "rps_rock", Emoji: "🪨"}, {Token: "accept", Label: "Accept"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageID("term-1"), id)

	text := out.String()
	assert.Contains(t, text, "<@bob>, you were challenged\n")
	assert.Contains(t, text, "Rock Paper Scissors\n")
	assert.Contains(t, text, "**pick one**\n")
	assert.Contains(t, text, "Page 1/2\n")
	assert.Contains(t, text, "[1] 🪨  [2] Accept\n")

	assert.Error(t, tr.Edit(ctx, "term-9", domain.View{}))
}

func TestTransport_MarkdownRenderer(t *testing.T) {
	out := &syncBuffer{}
	tr := terminal.New(strings.NewReader(""), out, terminal.WithMarkdown(func(s string) (string, error) {
		return "<md>" + s + "</md>", nil
	}))

	_, err := tr.Send(context.Background(), domain.View{Body: "hello"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<md>hello</md>")
}

func TestTransport_CollectParsesLines(t *testing.T) {
	in := strings.NewReader("alice accept\n2\n\nbob 7\none two three\nmallory rps_rock\n")
	tr := terminal.New(in, io.Discard, terminal.WithActor("host"))
	ctx := context.Background()

	id, err := tr.Send(ctx, domain.View{Controls: []domain.Control{{Token: "accept"}, {Token: "deny"}}})
	require.NoError(t, err)

	ch, err := tr.Collect(ctx, id)
	require.NoError(t, err)
	events := collectAll(t, ch)

	require.Len(t, events, 3)
	assert.Equal(t, domain.UserID("alice"), events[0].Actor)
	assert.Equal(t, "accept", events[0].Token)
	assert.Equal(t, id, events[0].Message)
	assert.Equal(t, domain.UserID("host"), events[1].Actor)
	assert.Equal(t, "deny", events[1].Token, "numbers select controls")
	assert.Equal(t, "rps_rock", events[2].Token)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestTransport_RunsASession(t *testing.T) {
	out := &syncBuffer{}
	in := strings.NewReader("mallory 1\nalice 1\n")
	tr := terminal.New(in, out)

	accept := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Body: "Send 10 citrine?"},
		Accepted: domain.View{Body: "Sent."},
		Denied:   domain.View{Body: "Cancelled."},
	})
	require.NoError(t, session.New(accept, tr, "alice").Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Send 10 citrine?")
	assert.Contains(t, text, "(mallory: accept_row_accept ignored)")
	assert.Contains(t, text, "Sent.")
}

func TestTransport_SequentialSessionsEachGetTheirInput(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	out := &syncBuffer{}
	tr := terminal.New(r, out)

	for _, body := range []string{"first question", "second question"} {
		accept := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
			Question: domain.View{Body: body},
			Accepted: domain.View{Body: body + " accepted"},
			Denied:   domain.View{Body: body + " denied"},
		})
		done := make(chan error, 1)
		go func() { done <- session.New(accept, tr, "alice").Run(context.Background()) }()

		_, err := io.WriteString(w, "alice 1\n")
		require.NoError(t, err)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("%q never received its input line", body)
		}
		assert.Contains(t, out.String(), body+" accepted")
	}
}

func TestTransport_CancelledStreamKeepsUndeliveredLine(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	tr := terminal.New(r, io.Discard, terminal.WithActor("alice"))

	ctx, cancel := context.WithCancel(context.Background())
	// Nobody reads this stream, so its line stays undelivered until cancel.
	_, err := tr.Collect(ctx, "term-1")
	require.NoError(t, err)

	go func() { _, _ = io.WriteString(w, "rps_rock\n") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	second, err := tr.Collect(ctx2, "term-1")
	require.NoError(t, err)
	select {
	case ev := <-second:
		assert.Equal(t, "rps_rock", ev.Token)
		assert.Equal(t, domain.UserID("alice"), ev.Actor)
	case <-time.After(2 * time.Second):
		t.Fatal("the line was lost with the cancelled stream")
	}
}
