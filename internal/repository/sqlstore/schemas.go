package sqlstore

import "embed"

// sqlSchemas holds the per-driver migration files.
//
//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var sqlSchemas embed.FS
