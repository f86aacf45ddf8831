package migrations

import "embed"

// FS contains embedded SQLite migrations for avatar profile storage.
//
//go:embed *.sql
var FS embed.FS
