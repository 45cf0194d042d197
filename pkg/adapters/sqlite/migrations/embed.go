// Package migrations contains the embedded SQL migrations of the SQLite adapters.
package migrations

import "embed"

// FS contains the embedded SQLite migrations.
//
//go:embed *.sql
var FS embed.FS
