// Package terminal implements ports.Transport on a line-oriented terminal.
//
// Every Send, Edit and Respond prints the view as a new block. Controls are
// numbered; an input line of the form "<actor> <token>" (or "<token>" for
// the default actor) activates one, where token is either the control token
// or its number.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/logging"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/ports"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// MarkdownRenderer turns a markdown body into terminal text.
type MarkdownRenderer func(string) (string, error)

// NewMarkdownRenderer returns a glamour renderer that adapts to the terminal background.
func NewMarkdownRenderer() (MarkdownRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Transport implements ports.Transport on an input and an output stream.
type Transport struct {
	mu       sync.Mutex
	out      io.Writer
	in       *bufio.Reader
	markdown MarkdownRenderer
	profile  termenv.Profile
	actor    domain.UserID
	logger   *slog.Logger

	seq      int
	eventSeq int
	views    map[domain.MessageID]domain.View

	lines     chan string
	pending   []string
	reader    chan struct{}
	startOnce sync.Once
}

var _ ports.Transport = (*Transport)(nil)

// Option configures the Transport.
type Option func(*Transport)

// WithMarkdown renders bodies with r instead of printing them raw.
func WithMarkdown(r MarkdownRenderer) Option {
	return func(t *Transport) {
		t.markdown = r
	}
}

// WithProfile sets the color profile used for titles and controls.
func WithProfile(p termenv.Profile) Option {
	return func(t *Transport) {
		t.profile = p
	}
}

// WithActor sets the actor of input lines that carry only a token.
func WithActor(actor domain.UserID) Option {
	return func(t *Transport) {
		t.actor = actor
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates a terminal transport. Colors and markdown rendering are
// enabled only when w is a terminal.
func New(r io.Reader, w io.Writer, opts ...Option) *Transport {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	t := &Transport{
		out:     w,
		in:      bufio.NewReader(r),
		profile: termenv.Ascii,
		logger:  logging.NewNop(),
		views:   make(map[domain.MessageID]domain.View),
		reader:  make(chan struct{}, 1),
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.profile = termenv.NewOutput(f).EnvColorProfile()
		if md, err := NewMarkdownRenderer(); err == nil {
			t.markdown = md
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send prints view as a new message.
func (t *Transport) Send(ctx context.Context, view domain.View) (domain.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	id := domain.MessageID(fmt.Sprintf("term-%d", t.seq))
	return id, t.printLocked(id, view)
}

// Edit reprints message id with view.
func (t *Transport) Edit(ctx context.Context, id domain.MessageID, view domain.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.views[id]; !ok {
		return fmt.Errorf("edit %s: unknown message", id)
	}
	return t.printLocked(id, view)
}

// Respond reprints the message ev was raised on.
func (t *Transport) Respond(ctx context.Context, ev domain.Event, view domain.View) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.printLocked(ev.Message, view)
}

// Acknowledge tells the actor their input changed nothing.
func (t *Transport) Acknowledge(ctx context.Context, ev domain.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.out, t.profile.String(fmt.Sprintf("(%s: %s ignored)", ev.Actor, ev.Token)).Faint())
	return err
}

// Collect turns input lines into events on message id.
// The stream closes when ctx ends or the input is exhausted. Only one stream
// reads input at a time: a later Collect waits until the earlier stream
// closes, and a line read but not delivered is kept for it.
func (t *Transport) Collect(ctx context.Context, id domain.MessageID) (<-chan domain.Event, error) {
	t.startOnce.Do(func() {
		t.lines = make(chan string)
		go t.pump()
	})

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		select {
		case t.reader <- struct{}{}:
			defer func() { <-t.reader }()
		case <-ctx.Done():
			return
		}
		for {
			line, ok := t.nextLine(ctx)
			if !ok {
				return
			}
			ev, ok := t.parse(id, line)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				t.unread(line)
				return
			}
		}
	}()
	return out, nil
}

func (t *Transport) nextLine(ctx context.Context) (string, bool) {
	t.mu.Lock()
	if len(t.pending) > 0 {
		line := t.pending[0]
		t.pending = t.pending[1:]
		t.mu.Unlock()
		return line, true
	}
	t.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-t.lines:
		if !ok {
			return "", false
		}
		if ctx.Err() != nil {
			t.unread(line)
			return "", false
		}
		return line, true
	}
}

func (t *Transport) unread(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append([]string{line}, t.pending...)
}

func (t *Transport) pump() {
	defer close(t.lines)
	for {
		text, err := t.in.ReadString('\n')
		if strings.TrimSpace(text) != "" {
			t.lines <- text
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Warn("terminal input failed", "error", err)
			}
			return
		}
	}
}

// parse reads "<actor> <token>" or "<token>".
func (t *Transport) parse(id domain.MessageID, line string) (domain.Event, bool) {
	clean, err := SanitizeInput(strings.TrimSpace(line))
	if err != nil {
		t.logger.Warn("rejected input", "error", err)
		return domain.Event{}, false
	}
	fields := strings.Fields(clean)
	var actor domain.UserID
	var token string
	switch len(fields) {
	case 1:
		actor, token = t.actor, fields[0]
	case 2:
		actor, token = domain.UserID(fields[0]), fields[1]
	default:
		t.logger.Warn("malformed input", "line", clean)
		return domain.Event{}, false
	}
	if actor == "" {
		t.logger.Warn("input without actor", "line", clean)
		return domain.Event{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if n, err := strconv.Atoi(token); err == nil {
		controls := t.views[id].Controls
		if n < 1 || n > len(controls) {
			return domain.Event{}, false
		}
		token = controls[n-1].Token
	}
	t.eventSeq++
	return domain.Event{
		ID:      fmt.Sprintf("term-evt-%d", t.eventSeq),
		Message: id,
		Actor:   actor,
		Token:   token,
		At:      time.Now(),
	}, true
}

func (t *Transport) printLocked(id domain.MessageID, view domain.View) error {
	t.views[id] = view
	_, err := io.WriteString(t.out, t.format(view))
	return err
}

var toneColors = map[domain.Tone]string{
	domain.ToneSuccess: "#22c55e",
	domain.ToneError:   "#ef4444",
	domain.ToneWarning: "#f59e0b",
	domain.ToneMuted:   "#6b7280",
	domain.ToneAccent:  "#818cf8",
}

var styleColors = map[domain.ControlStyle]string{
	domain.StylePrimary:   "#818cf8",
	domain.StyleSecondary: "#9ca3af",
	domain.StyleSuccess:   "#22c55e",
	domain.StyleDanger:    "#ef4444",
}

func (t *Transport) format(view domain.View) string {
	var b strings.Builder
	b.WriteString("\n")
	if view.Content != "" {
		b.WriteString(view.Content + "\n")
	}
	if view.Title != "" {
		title := t.profile.String(view.Title).Bold()
		if c, ok := toneColors[view.Tone]; ok {
			title = title.Foreground(t.profile.Color(c))
		}
		b.WriteString(title.String() + "\n")
	}
	if view.Body != "" {
		body := view.Body
		if t.markdown != nil {
			if rendered, err := t.markdown(body); err == nil {
				body = rendered
			}
		}
		b.WriteString(strings.TrimRight(body, "\n") + "\n")
	}
	if view.Footer != "" {
		b.WriteString(t.profile.String(view.Footer).Faint().String() + "\n")
	}
	if len(view.Controls) > 0 {
		labels := make([]string, 0, len(view.Controls))
		for i, c := range view.Controls {
			label := strings.TrimSpace(c.Emoji + " " + c.Label)
			if label == "" {
				label = c.Token
			}
			s := t.profile.String(fmt.Sprintf("[%d] %s", i+1, label))
			if col, ok := styleColors[c.Style]; ok {
				s = s.Foreground(t.profile.Color(col))
			}
			labels = append(labels, s.String())
		}
		b.WriteString(strings.Join(labels, "  ") + "\n")
	}
	return b.String()
}
