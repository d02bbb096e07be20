// Package db defines the database management contract for seedtaxa.
package db

import (
	"context"
	"database/sql"
)

// Operator manages the connection to the collection SQLite database.
// It exposes the *sql.DB for the engine components to run their own
// queries, and small helpers for table introspection.
//
// The reconciliation engine assumes it is the single logical writer for
// the duration of an upgrade; Operator does not add locking beyond what
// SQLite transactions provide.
type Operator interface {
	// Connect opens the database file.
	Connect(ctx context.Context, path string) error

	// Close closes the database handle.
	Close() error

	// DB returns the underlying handle for components to execute their
	// specialized SQL (transactions, attach/detach, bulk copies).
	DB() *sql.DB

	// TableExists checks if a table exists in the main schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// TableNames lists the tables of the given schema ("main" or an
	// attached schema name) in their enumeration order.
	TableNames(ctx context.Context, schemaName string) ([]string, error)
}
