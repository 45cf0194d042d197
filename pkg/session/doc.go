/*
Package session runs interactive sessions.

A session owns one State for its whole lifetime. It renders the state once,
sends the result through a ports.Transport, then waits on exactly three
sources: interaction events on the rendered message, an optional tick and the
session deadline. Whichever is ready first is handled, then the loop suspends
again.

States decide everything through a domain.Outcome. They never touch the
transport, which keeps them testable without a chat platform:

	table, err := blackjack.NewTable(blackjack.WithWager(10), blackjack.WithLedger(ledger))
	s := session.New(table, transport, author,
		session.WithTimeout(14*time.Minute),
		session.WithTick(2*time.Second),
		session.WithAllowAnyone(true),
	)
	err = s.Run(ctx)

Errors returned by the transport or the state end the session. The engine
makes one best-effort attempt to replace the message with a failure notice
before returning the error. A panic inside a state is recovered and returned
as an error wrapping domain.ErrStatePanic.
*/
package session
