// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
//
// Each dialect has its own directory; pass fs.Sub(FS, Postgres) or
// fs.Sub(FS, SQLite) to goose.NewProvider.
package migrations

import "embed"

// Directory names inside FS, one per supported dialect.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
