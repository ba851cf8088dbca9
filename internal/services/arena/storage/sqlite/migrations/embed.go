// Package migrations embeds the history store schema files.
package migrations

import "embed"

// FS holds the ordered .sql migration files applied at store open.
//
//go:embed *.sql
var FS embed.FS
