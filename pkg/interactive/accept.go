package interactive

import (
	"context"
	"fmt"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// Control tokens of the accept row.
const (
	TokenAccept = "accept_row_accept"
	TokenDeny   = "accept_row_deny"
)

// Decision is the tri-valued state of an Accept.
type Decision int

const (
	Pending Decision = iota
	Accepted
	Denied
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Denied:
		return "denied"
	default:
		return "pending"
	}
}

type acceptAction int

const (
	acceptNone acceptAction = iota
	acceptYes
	acceptNo
)

func parseAcceptToken(token string) acceptAction {
	switch token {
	case TokenAccept:
		return acceptYes
	case TokenDeny:
		return acceptNo
	default:
		return acceptNone
	}
}

// AcceptPrompt supplies the views and side effects of an Accept.
type AcceptPrompt interface {
	// View renders the prompt for the given decision.
	View(ctx context.Context, d Decision) (domain.View, error)
	// OnAccept runs once, before the decision is recorded.
	OnAccept(ctx context.Context, ev domain.Event) error
	// OnDeny runs once, before the decision is recorded.
	OnDeny(ctx context.Context, ev domain.Event) error
}

// Accept is a session state asking a yes/no question.
type Accept struct {
	prompt      AcceptPrompt
	decision    Decision
	acceptLabel string
	denyLabel   string
}

// AcceptOption configures an Accept.
type AcceptOption func(*Accept)

// WithLabels replaces the default "Accept" and "Deny" labels.
func WithLabels(accept, deny string) AcceptOption {
	return func(a *Accept) {
		a.acceptLabel = accept
		a.denyLabel = deny
	}
}

// NewAccept creates a pending Accept around prompt.
func NewAccept(prompt AcceptPrompt, opts ...AcceptOption) *Accept {
	a := &Accept{
		prompt:      prompt,
		acceptLabel: "Accept",
		denyLabel:   "Deny",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decision reports the recorded answer.
func (a *Accept) Decision() Decision {
	return a.decision
}

// Render shows the prompt view, with the accept row while undecided.
func (a *Accept) Render(ctx context.Context) (domain.View, error) {
	view, err := a.prompt.View(ctx, a.decision)
	if err != nil {
		return domain.View{}, err
	}
	if a.decision == Pending {
		view.Controls = append(view.Controls,
			domain.Control{Token: TokenAccept, Label: a.acceptLabel, Style: domain.StyleSuccess},
			domain.Control{Token: TokenDeny, Label: a.denyLabel, Style: domain.StyleDanger},
		)
	}
	return view, nil
}

// HandleEvent runs the matching hook, records the decision and halts.
// A failing hook leaves the decision pending.
func (a *Accept) HandleEvent(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	if a.decision != Pending {
		return domain.Noop(), nil
	}
	switch parseAcceptToken(ev.Token) {
	case acceptYes:
		if err := a.prompt.OnAccept(ctx, ev); err != nil {
			return domain.Noop(), fmt.Errorf("accept: %w", err)
		}
		a.decision = Accepted
	case acceptNo:
		if err := a.prompt.OnDeny(ctx, ev); err != nil {
			return domain.Noop(), fmt.Errorf("deny: %w", err)
		}
		a.decision = Denied
	default:
		return domain.Noop(), nil
	}
	return domain.Halt(), nil
}
