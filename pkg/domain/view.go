package domain

// Tone is the accent a transport may use when presenting a view.
type Tone string

const (
	ToneDefault Tone = ""
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneWarning Tone = "warning"
	ToneMuted   Tone = "muted"
	ToneAccent  Tone = "accent"
)

// ControlStyle hints how a control should be drawn.
type ControlStyle string

const (
	StylePrimary   ControlStyle = "primary"
	StyleSecondary ControlStyle = "secondary"
	StyleSuccess   ControlStyle = "success"
	StyleDanger    ControlStyle = "danger"
)

// Control is one interactive element. Token is echoed back in the Event
// raised when a remote actor activates it.
type Control struct {
	Token string       `json:"token"`
	Label string       `json:"label,omitempty"`
	Emoji string       `json:"emoji,omitempty"`
	Style ControlStyle `json:"style,omitempty"`
}

// View is the declarative output of a state render.
type View struct {
	// Content is plain text shown above the body (e.g. a mention).
	Content  string    `json:"content,omitempty"`
	Title    string    `json:"title,omitempty"`
	Body     string    `json:"body,omitempty"`
	Footer   string    `json:"footer,omitempty"`
	Tone     Tone      `json:"tone,omitempty"`
	Controls []Control `json:"controls,omitempty"`
}

// WithoutControls returns a copy of the view with every control removed.
func (v View) WithoutControls() View {
	v.Controls = nil
	return v
}

// WithFooter returns a copy of the view with the footer replaced.
func (v View) WithFooter(footer string) View {
	v.Footer = footer
	return v
}

// WithTone returns a copy of the view with the tone replaced.
func (v View) WithTone(tone Tone) View {
	v.Tone = tone
	return v
}
