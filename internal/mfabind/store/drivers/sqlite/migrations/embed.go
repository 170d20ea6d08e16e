package migrations

import "embed"

// Migrations holds the embedded SQL migration files so they ship inside
// the binary.
//
//go:embed *.sql
var Migrations embed.FS
