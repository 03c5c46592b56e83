// Package migrations embeds the goose migrations of the cloud metadata
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
