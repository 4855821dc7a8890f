package migrations

import "embed"

// FS contains the embedded SQLite migrations for quote storage.
//
//go:embed *.sql
var FS embed.FS
