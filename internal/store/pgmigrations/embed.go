// Package pgmigrations embeds the goose migrations of the Postgres store.
package pgmigrations

import "embed"

//go:embed *.sql
var FS embed.FS
