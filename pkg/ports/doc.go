/*
Package ports defines the driven ports (interfaces) of the session engine.

These interfaces decouple the engine and the games from external implementations,
so the same state machines run against a chat platform, a terminal or an in-memory
test double, and settle against any ledger backend.

# Key Interfaces

  - Transport: sends and edits messages, and streams interaction events.
  - Ledger: the currency escrow (reserve, commit, cancel, add).
  - BalanceReader: read-only view of available funds.
  - DistributedLocker: Provides distributed locking for serializing ledger access across replicas.
*/
package ports
