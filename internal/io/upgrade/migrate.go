package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cheggaaa/pb/v3"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
)

// migrate swaps the taxonomy tables for the candidate's and rewrites
// reassigned identifiers in the collection tables. Everything runs in
// one transaction on the session connection; any failure rolls the
// whole swap back. Foreign key enforcement is suspended around the
// transaction because the swap drops referenced tables, and restored
// in every exit path.
func (u *upgrader) migrate(
	ctx context.Context,
	session *database.Session,
	replacements []lifecycle.TaxonReplacement,
) error {
	tables, err := candidateTables(ctx, session)
	if err != nil {
		return err
	}

	if err = session.DisableForeignKeys(ctx); err != nil {
		return err
	}
	defer session.EnableForeignKeys(ctx)

	tx, err := session.Conn().BeginTx(ctx, nil)
	if err != nil {
		return beginError(err)
	}

	if err = runMigration(ctx, tx, tables, replacements); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rollbackError(rbErr)
		}
		slog.Warn("Migration rolled back", "reason", err)
		return err
	}
	if err = tx.Commit(); err != nil {
		return commitError(err)
	}
	return nil
}

func candidateTables(
	ctx context.Context, session *database.Session,
) ([]string, error) {
	q := fmt.Sprintf(`
SELECT name FROM %s.sqlite_schema
  WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
  ORDER BY name`, database.AttachedSchema)
	rows, err := session.Conn().QueryContext(ctx, q)
	if err != nil {
		return nil, tableCopyError("sqlite_schema", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, tableCopyError("sqlite_schema", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func runMigration(
	ctx context.Context,
	tx *sql.Tx,
	tables []string,
	replacements []lifecycle.TaxonReplacement,
) error {
	bar := pb.Full.Start(len(tables))
	bar.Set("prefix", "Migrating tables: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, table := range tables {
		if err := copyTable(ctx, tx, table); err != nil {
			return err
		}
		bar.Increment()
	}

	for _, rep := range replacements {
		if err := rewriteTSN(ctx, tx, rep.Old.ID, rep.New.ID); err != nil {
			return err
		}
	}

	return checkForeignKeys(ctx, tx)
}

// copyTable recreates one taxonomy table from the candidate's own DDL
// and copies its rows over.
func copyTable(ctx context.Context, tx *sql.Tx, table string) error {
	q := fmt.Sprintf(`
SELECT sql FROM %s.sqlite_schema
  WHERE tbl_name = ? AND type = 'table'`, database.AttachedSchema)
	var createSQL string
	err := tx.QueryRowContext(ctx, q, table).Scan(&createSQL)
	if err != nil {
		return tableCopyError(table, err)
	}

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %q", table),
		createSQL,
		fmt.Sprintf("INSERT INTO %q SELECT * FROM %s.%q",
			table, database.AttachedSchema, table),
	}
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return tableCopyError(table, err)
		}
	}
	slog.Debug("Copied table from candidate", "table", table)
	return nil
}

// rewriteTSN redirects every collection reference from an obsolete
// identifier to its accepted replacement.
func rewriteTSN(ctx context.Context, tx *sql.Tx, oldID, newID int64) error {
	for _, table := range schema.DependentTables {
		q := fmt.Sprintf("UPDATE %s SET tsn = ? WHERE tsn = ?", table)
		if _, err := tx.ExecContext(ctx, q, newID, oldID); err != nil {
			return rewriteError(table, oldID, newID, err)
		}
	}
	slog.Debug("Reassigned taxon identifier", "old", oldID, "new", newID)
	return nil
}

// checkForeignKeys verifies referential integrity before commit, since
// the swap ran with enforcement off.
func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return integrityError("", err)
	}
	defer rows.Close()

	var violations int
	var firstTable string
	for rows.Next() {
		var table, parent string
		var rowid, fkid sql.NullInt64
		if err = rows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return integrityError("", err)
		}
		if violations == 0 {
			firstTable = table
		}
		violations++
	}
	if err = rows.Err(); err != nil {
		return integrityError("", err)
	}
	if violations > 0 {
		return integrityError(firstTable,
			fmt.Errorf("%d foreign key violations", violations))
	}
	return nil
}
