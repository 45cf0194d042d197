/*
Package neobabu is an engine for interactive, message-based sessions: a message
with controls is sent, remote users press those controls, and the message is
edited in place until the session halts or times out.

# Concept

A session owns a single State. The State renders a declarative domain.View and
reacts to events and ticks with a domain.Outcome that says whether to redraw
and whether to stop. The engine in pkg/session does all the I/O through a
ports.Transport, so the same State runs against a chat platform, the terminal
(pkg/adapters/terminal) or an in-memory transport in tests.

# Packages

  - pkg/session: the State contract and the event, tick and deadline loop.
  - pkg/interactive: reusable states (Accept, SimpleAccept, Pagination).
  - pkg/games/blackjack and pkg/games/rps: multi-player games that escrow
    wagers through a ports.Ledger and record results in pkg/stats.
  - pkg/adapters: ledger backends (memory, SQLite, Redis, PostgreSQL),
    transports (memory, terminal) and the HTTP status surface.
  - pkg/observability: Prometheus metrics and structured logging as session hooks.

# Usage

	pages := interactive.StaticPages{
		{Title: "Rules", Body: "Beat the **dealer**."},
		{Title: "Payouts", Body: "A win pays the wager."},
	}
	s := session.New(interactive.NewPagination(pages), transport, "alice",
		session.WithTimeout(5*time.Minute),
	)
	if err := s.Run(ctx); err != nil {
		log.Fatal(err)
	}

The neobabu command in cmd/neobabu plays every session in the terminal.
*/
package neobabu
