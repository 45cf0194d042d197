package domain

// Outcome is the result of a state handling one event or tick.
// It is the only signal a state can send to the engine.
type Outcome struct {
	Redraw bool
	Stop   bool
}

// Noop leaves the message untouched and keeps the session running.
func Noop() Outcome {
	return Outcome{}
}

// Update asks for a redraw and keeps the session running.
func Update() Outcome {
	return Outcome{Redraw: true}
}

// Halt redraws one last time and ends the session.
func Halt() Outcome {
	return Outcome{Redraw: true, Stop: true}
}

// WithRedraw returns a copy with Redraw set.
func (o Outcome) WithRedraw(redraw bool) Outcome {
	o.Redraw = redraw
	return o
}

// WithStop returns a copy with Stop set.
func (o Outcome) WithStop(stop bool) Outcome {
	o.Stop = stop
	return o
}

// Merge combines two outcomes; any redraw or stop request wins.
func (o Outcome) Merge(other Outcome) Outcome {
	return Outcome{Redraw: o.Redraw || other.Redraw, Stop: o.Stop || other.Stop}
}
