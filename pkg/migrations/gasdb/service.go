// Package gasdb registers the schema migrations for the gas history
// database.
package gasdb

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set run by the migrate command.
var Migrations = migrate.NewMigrations()
