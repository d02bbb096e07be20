// Package schemacheck verifies that a candidate reference database is
// structurally compatible with the current one before any upgrade work
// starts. Inspection and diffing are delegated to the atlas SQLite
// driver instead of comparing raw CREATE TABLE text, so cosmetic
// differences in DDL formatting do not cause false mismatches.
package schemacheck

import (
	"context"
	"database/sql"
	"log/slog"

	"ariga.io/atlas/sql/migrate"
	atlasschema "ariga.io/atlas/sql/schema"
	atlassqlite "ariga.io/atlas/sql/sqlite"
	_ "modernc.org/sqlite"

	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
)

type checker struct{}

// New returns a SchemaChecker backed by atlas inspection.
func New() lifecycle.SchemaChecker {
	return checker{}
}

// inspection holds an opened database together with its inspected
// schema. The driver stays open so it can diff tables afterwards.
type inspection struct {
	db     *sql.DB
	driver migrate.Driver
	schema *atlasschema.Schema
}

func (i *inspection) close() {
	i.db.Close()
}

func inspect(ctx context.Context, path string) (*inspection, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, openError(path, err)
	}
	drv, err := atlassqlite.Open(db)
	if err != nil {
		db.Close()
		return nil, inspectError(path, err)
	}
	sch, err := drv.InspectSchema(ctx, "main", nil)
	if err != nil {
		db.Close()
		return nil, inspectError(path, err)
	}
	return &inspection{db: db, driver: drv, schema: sch}, nil
}

func (c checker) Check(
	ctx context.Context, currentPath, candidatePath string,
) error {
	cur, err := inspect(ctx, currentPath)
	if err != nil {
		return err
	}
	defer cur.close()

	cand, err := inspect(ctx, candidatePath)
	if err != nil {
		return err
	}
	defer cand.close()

	// A candidate without the core taxonomy tables is not a reference
	// database at all.
	for _, name := range []string{
		schema.TableTaxonomicUnits,
		schema.TableSynonymLinks,
		schema.TableVernaculars,
		schema.TableHierarchy,
	} {
		if _, ok := cand.schema.Table(name); !ok {
			return tableMissingError(candidatePath, name)
		}
	}

	// Every table the candidate ships must exist in the current
	// database with an identical structure. Tables that exist only in
	// the current database (the collection tables) are not the
	// candidate's business and are ignored.
	for _, candTable := range cand.schema.Tables {
		curTable, ok := cur.schema.Table(candTable.Name)
		if !ok {
			return tableMissingError(currentPath, candTable.Name)
		}
		changes, err := cur.driver.TableDiff(curTable, candTable)
		if err != nil {
			return inspectError(currentPath, err)
		}
		if len(changes) > 0 {
			return mismatchError(candTable.Name, len(changes))
		}
		slog.Debug("Table schema is compatible", "table", candTable.Name)
	}
	return nil
}
