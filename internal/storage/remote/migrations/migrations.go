// Package migrations embeds the goose migration scripts for the remote
// PostgreSQL engine.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
