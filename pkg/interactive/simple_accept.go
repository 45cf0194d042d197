package interactive

import (
	"context"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// SimpleAcceptConfig describes an Accept through fixed views.
type SimpleAcceptConfig struct {
	Question domain.View
	Accepted domain.View
	Denied   domain.View

	// OnAccept and OnDeny are optional side effects, invoked exactly once
	// before the decision is recorded.
	OnAccept func(ctx context.Context, ev domain.Event) error
	OnDeny   func(ctx context.Context, ev domain.Event) error

	AcceptLabel string
	DenyLabel   string
}

type simplePrompt struct {
	cfg SimpleAcceptConfig
}

func (p simplePrompt) View(ctx context.Context, d Decision) (domain.View, error) {
	switch d {
	case Accepted:
		return p.cfg.Accepted, nil
	case Denied:
		return p.cfg.Denied, nil
	default:
		return p.cfg.Question, nil
	}
}

func (p simplePrompt) OnAccept(ctx context.Context, ev domain.Event) error {
	if p.cfg.OnAccept == nil {
		return nil
	}
	return p.cfg.OnAccept(ctx, ev)
}

func (p simplePrompt) OnDeny(ctx context.Context, ev domain.Event) error {
	if p.cfg.OnDeny == nil {
		return nil
	}
	return p.cfg.OnDeny(ctx, ev)
}

// SimpleAccept builds an Accept that switches between three fixed views.
func SimpleAccept(cfg SimpleAcceptConfig) *Accept {
	var opts []AcceptOption
	if cfg.AcceptLabel != "" || cfg.DenyLabel != "" {
		accept, deny := cfg.AcceptLabel, cfg.DenyLabel
		if accept == "" {
			accept = "Accept"
		}
		if deny == "" {
			deny = "Deny"
		}
		opts = append(opts, WithLabels(accept, deny))
	}
	return NewAccept(simplePrompt{cfg: cfg}, opts...)
}
