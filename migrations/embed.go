// Package migrations embeds the SQL schema migrations into the binary so a
// deployment needs no migration files on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
