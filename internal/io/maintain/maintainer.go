// Package maintain implements the post-upgrade housekeeping: pruning
// taxa outside the kingdom of interest, reclaiming file space and
// recomputing the phylogenetic display order.
package maintain

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"

	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/db"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
)

// Auxiliary ITIS tables that are cleared wholesale: the collection
// never reads them, and they dominate the snapshot's size.
var clearedTables = []string{
	"jurisdiction",
	"nodc_ids",
	"reference_links",
	"comments",
	"tu_comments_links",
	"vern_ref_links",
}

// Tables scoped to the kingdom of interest through their tsn column.
var scopedTables = []string{
	schema.TableHierarchy,
	"longnames",
	schema.TableSynonymLinks,
	schema.TableVernaculars,
	schema.TableTaxonomicUnits,
}

type maintainer struct {
	operator  db.Operator
	kingdomID int64
}

// New creates a Maintainer for the connected database.
func New(op db.Operator, cfg *config.Config) lifecycle.Maintainer {
	return &maintainer{operator: op, kingdomID: cfg.Taxonomy.KingdomID}
}

// Prune deletes every taxon outside the kingdom of interest together
// with its satellite rows, then vacuums the file. A full reference
// snapshot shrinks by an order of magnitude.
func (m *maintainer) Prune(ctx context.Context) error {
	start := time.Now()
	sqlDB := m.operator.DB()
	if sqlDB == nil {
		return pruneError("no connection", errNotConnected)
	}

	// Temp tables are connection-scoped, so the whole pass runs on one
	// pinned connection.
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return pruneError("no connection", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
CREATE TEMP TABLE keep_tsns AS
  SELECT T.tsn FROM taxonomic_units T WHERE T.kingdom_id IS ?`,
		m.kingdomID,
	)
	if err != nil {
		return pruneError("keep_tsns", err)
	}
	defer conn.ExecContext(ctx, "DROP TABLE IF EXISTS temp.keep_tsns")

	var pruned int64
	for _, table := range clearedTables {
		n, err := m.clearTable(ctx, conn, table)
		if err != nil {
			return err
		}
		pruned += n
	}
	for _, table := range scopedTables {
		exists, err := m.operator.TableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			slog.Warn("Table is absent, skipping prune", "table", table)
			continue
		}
		res, err := conn.ExecContext(ctx, fmt.Sprintf(
			"DELETE FROM %s WHERE tsn NOT IN (SELECT tsn FROM keep_tsns)",
			table,
		))
		if err != nil {
			return pruneError(table, err)
		}
		n, _ := res.RowsAffected()
		slog.Debug("Pruned table", "table", table, "rows", n)
		pruned += n
	}

	if _, err = conn.ExecContext(ctx, "DROP TABLE temp.keep_tsns"); err != nil {
		return pruneError("keep_tsns", err)
	}
	if _, err = conn.ExecContext(ctx, "VACUUM"); err != nil {
		return vacuumError(err)
	}

	gn.Info("Pruned <em>%s</em> rows outside the kingdom of interest.",
		humanize.Comma(pruned))
	slog.Info("Prune finished",
		"rows", pruned, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (m *maintainer) clearTable(
	ctx context.Context, conn *sql.Conn, table string,
) (int64, error) {
	exists, err := m.operator.TableExists(ctx, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	res, err := conn.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, pruneError(table, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Reorder recomputes phylo_sort_seq from the hierarchy strings. Fresh
// reference snapshots ship with the column zeroed, so this must run
// after every migration or listings lose their phylogenetic order.
func (m *maintainer) Reorder(ctx context.Context) error {
	sqlDB := m.operator.DB()
	if sqlDB == nil {
		return reorderError(errNotConnected)
	}
	_, err := sqlDB.ExecContext(ctx, `
UPDATE taxonomic_units SET phylo_sort_seq = H.seq
  FROM (
    SELECT ROW_NUMBER() OVER (ORDER BY hierarchy_string) AS seq, tsn
      FROM hierarchy
  ) AS H
  WHERE H.tsn = taxonomic_units.tsn`,
	)
	if err != nil {
		return reorderError(err)
	}
	slog.Info("Recomputed phylogenetic sort order")
	return nil
}

// Maintain runs the full housekeeping pass.
func (m *maintainer) Maintain(ctx context.Context) error {
	if err := m.Prune(ctx); err != nil {
		return err
	}
	return m.Reorder(ctx)
}
