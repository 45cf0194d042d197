/*
Package domain contains the value types shared by every layer of the session engine.

It is kept free of I/O and persistence, following the same hexagonal split as the
rest of the module: the engine, the adapters and the games all speak in these
types, while transports and ledgers live behind the interfaces in package ports.

# Key Entities

  - View: the declarative rendering of a state (body and controls).
  - Control: one interactive element, identified by its action token.
  - Event: a remote actor activating a control.
  - Outcome: the only signal a state returns to the engine (redraw, stop).
  - Balance and Currency: the vocabulary of the escrow ledger.
*/
package domain
