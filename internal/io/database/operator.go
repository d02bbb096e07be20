// Package database implements SQLite database operations using the
// modernc.org driver. This is an impure I/O package that implements
// contracts defined in pkg/.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/quotidian-org/seedtaxa/pkg/db"
)

type sqliteOperator struct {
	path string
	db   *sql.DB
}

// New returns an Operator backed by a SQLite file. The connection is
// not established until Connect is called.
func New() db.Operator {
	return &sqliteOperator{}
}

func (o *sqliteOperator) Connect(ctx context.Context, path string) error {
	// The pragma is part of the DSN because foreign_keys is scoped to a
	// single connection; the driver applies it to every connection the
	// pool opens.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return connectionError(path, err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return connectionError(path, err)
	}
	o.path = path
	o.db = sqlDB
	slog.Debug("Connected to SQLite database", "path", path)
	return nil
}

func (o *sqliteOperator) Close() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}

func (o *sqliteOperator) DB() *sql.DB {
	return o.db
}

func (o *sqliteOperator) TableExists(
	ctx context.Context, tableName string,
) (bool, error) {
	if o.db == nil {
		return false, notConnectedError()
	}
	q := `
SELECT count(*) FROM sqlite_schema
  WHERE type = 'table' AND name = ?`
	var count int
	err := o.db.QueryRowContext(ctx, q, tableName).Scan(&count)
	if err != nil {
		return false, queryTablesError(err)
	}
	return count > 0, nil
}

func (o *sqliteOperator) TableNames(
	ctx context.Context, schemaName string,
) ([]string, error) {
	if o.db == nil {
		return nil, notConnectedError()
	}
	q := fmt.Sprintf(`
SELECT name FROM %s.sqlite_schema
  WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
  ORDER BY name`, schemaName)
	rows, err := o.db.QueryContext(ctx, q)
	if err != nil {
		return nil, queryTablesError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, queryTablesError(err)
		}
		res = append(res, name)
	}
	return res, rows.Err()
}
