// Package migrations embeds the schema migrations for the SQL-backed stores.
package migrations

import "embed"

// FS holds one sub-directory of NNN_name.sql files per database dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
