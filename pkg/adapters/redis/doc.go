// Package redis provides the Redis-backed ledger and distributed locker.
//
// It uses go-redis (imported as backend to avoid clashing with the package
// name) and is exercised against miniredis in tests.
package redis
