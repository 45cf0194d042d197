// Package memory provides in-process implementations of the ports.
//
// Ledger keeps balances and holds in maps and is suitable for tests and the
// single-process CLI. Transport is a scriptable message layer: tests press
// controls on rendered messages and inspect everything the engine sent.
package memory
