// Package migrations carries the SQL migrations compiled into the binaries.
package migrations

import "embed"

// PostgresTable is the table the Postgres migrations create.
const PostgresTable = "ToDo"

// Postgres holds the golang-migrate files under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS
