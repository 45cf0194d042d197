// Package stats keeps per-user game statistics.
//
// A Store implements both blackjack.Recorder and rps.Recorder, so a single
// instance can be handed to every game a process hosts. Book keeps the
// statistics in memory; the sqlite adapter persists them.
package stats
