// Package db holds the SQL migrations for the conference schema. They are
// embedded so release builds do not need the migrations directory on disk.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
