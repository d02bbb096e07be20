// Package detect compares the current reference taxonomy against an
// attached candidate and compiles the summary of reassignments, field
// changes and invalidations an upgrade would cause. It only reads; the
// actual rewrite is the migration executor's job.
package detect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// Fields compared between snapshots for taxa that stay accepted.
var (
	strFields = []string{
		"unit_name1",
		"unit_name2",
		"unit_name3",
		"name_usage",
		"unaccept_reason",
		"update_date",
		"complete_name",
	}
	intFields = []string{"parent_tsn", "kingdom_id", "rank_id"}
)

// Querier is satisfied by *sql.Conn, which is where detection must run:
// the candidate schema is only visible on the session's connection.
type Querier interface {
	QueryContext(
		ctx context.Context, query string, args ...any,
	) (*sql.Rows, error)
}

type detector struct {
	q Querier

	// resolver is pointed at the attached candidate schema, so
	// replacements for obsolete identifiers come from the candidate's
	// synonym links.
	resolver taxonomy.Resolver
}

// New creates a Detector that runs over a session connection with the
// candidate database attached.
func New(q Querier, candidateResolver taxonomy.Resolver) lifecycle.Detector {
	return &detector{q: q, resolver: candidateResolver}
}

func (d *detector) Detect(ctx context.Context) (*lifecycle.UpgradeSummary, error) {
	summary := &lifecycle.UpgradeSummary{}

	if err := d.detectObsolete(ctx, summary); err != nil {
		return nil, err
	}
	if err := d.detectChanges(ctx, summary); err != nil {
		return nil, err
	}

	slog.Info("Upgrade analysis complete",
		"changed", len(summary.Changes),
		"reassigned", len(summary.Replacements),
		"invalid", len(summary.Invalid),
	)
	return summary, nil
}

// referencedTSNs is a subquery matching every taxon identifier the
// collection references through its dependent tables.
func referencedTSNs() string {
	parts := make([]string, len(schema.DependentTables))
	for i, table := range schema.DependentTables {
		parts[i] = "SELECT tsn FROM " + table
	}
	return strings.Join(parts, " UNION ")
}

// detectObsolete finds referenced taxa that the candidate no longer
// lists as accepted, either because their usage changed or because the
// row disappeared entirely. Each one either gets a replacement through
// the candidate's synonym links or is reported as invalid.
func (d *detector) detectObsolete(
	ctx context.Context, summary *lifecycle.UpgradeSummary,
) error {
	q := fmt.Sprintf(`
SELECT T.tsn, T.parent_tsn, T.unit_name1, T.unit_name2, T.unit_name3,
       T.complete_name, T.rank_id, T.kingdom_id
  FROM %s T
  LEFT JOIN %s.%s NT
    ON NT.tsn = T.tsn AND NT.name_usage = 'accepted'
  WHERE T.tsn IN (%s) AND NT.tsn IS NULL`,
		schema.TableTaxonomicUnits,
		database.AttachedSchema, schema.TableTaxonomicUnits,
		referencedTSNs(),
	)
	rows, err := d.q.QueryContext(ctx, q)
	if err != nil {
		return obsoleteError(err)
	}
	defer rows.Close()

	var obsolete []taxonomy.Taxon
	for rows.Next() {
		t, err := scanPlainTaxon(rows)
		if err != nil {
			return obsoleteError(err)
		}
		obsolete = append(obsolete, *t)
	}
	if err = rows.Err(); err != nil {
		return obsoleteError(err)
	}

	for _, old := range obsolete {
		replacement, err := d.resolver.ResolveObsolete(ctx, old.ID)
		if err != nil {
			return err
		}
		if replacement == nil {
			slog.Warn("Taxon has no replacement in the candidate",
				"tsn", old.ID, "name", old.CompleteName)
			summary.Invalid = append(summary.Invalid, old)
			continue
		}
		slog.Debug("Taxon will be reassigned",
			"old", old.ID, "new", replacement.ID,
			"name", replacement.CompleteName)
		summary.Replacements = append(summary.Replacements,
			lifecycle.TaxonReplacement{Old: old, New: *replacement})
	}
	return nil
}

// detectChanges diffs the compared fields for taxa that are accepted in
// both snapshots and referenced by collected samples.
func (d *detector) detectChanges(
	ctx context.Context, summary *lifecycle.UpgradeSummary,
) error {
	cols := []string{
		"T.tsn", "T.parent_tsn", "T.unit_name1", "T.unit_name2",
		"T.unit_name3", "T.complete_name", "T.rank_id", "T.kingdom_id",
	}
	for _, f := range strFields {
		cols = append(cols, "T."+f, "NT."+f)
	}
	for _, f := range intFields {
		cols = append(cols, "T."+f, "NT."+f)
	}
	q := fmt.Sprintf(`
SELECT %s
  FROM %s T
  INNER JOIN %s.%s NT ON T.tsn = NT.tsn
  WHERE T.tsn IN (SELECT DISTINCT tsn FROM sc_samples)
    AND T.name_usage = 'accepted' AND NT.name_usage = 'accepted'`,
		strings.Join(cols, ", "),
		schema.TableTaxonomicUnits,
		database.AttachedSchema, schema.TableTaxonomicUnits,
	)
	rows, err := d.q.QueryContext(ctx, q)
	if err != nil {
		return compareError(err)
	}
	defer rows.Close()

	for rows.Next() {
		change, err := scanComparison(rows)
		if err != nil {
			return compareError(err)
		}
		if len(change.Changes) > 0 {
			summary.Changes = append(summary.Changes, *change)
		}
	}
	return rows.Err()
}

// scanComparison reads one joined row and turns differing fields into
// property changes.
func scanComparison(rows *sql.Rows) (*lifecycle.TaxonChange, error) {
	var t taxonomy.Taxon
	var name2, name3 sql.NullString
	var parent sql.NullInt64
	var rankID int64

	oldStr := make([]sql.NullString, len(strFields))
	newStr := make([]sql.NullString, len(strFields))
	oldInt := make([]sql.NullInt64, len(intFields))
	newInt := make([]sql.NullInt64, len(intFields))

	dest := []any{
		&t.ID, &parent, &t.Name1, &name2, &name3,
		&t.CompleteName, &rankID, &t.KingdomID,
	}
	for i := range strFields {
		dest = append(dest, &oldStr[i], &newStr[i])
	}
	for i := range intFields {
		dest = append(dest, &oldInt[i], &newInt[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	if r, ok := taxonomy.RankFromID(rankID); ok {
		t.Rank = r
	}
	t.Name2 = name2.String
	t.Name3 = name3.String
	t.ParentID = parent.Int64

	change := &lifecycle.TaxonChange{Taxon: t}
	for i, f := range strFields {
		if oldStr[i].String != newStr[i].String {
			change.Changes = append(change.Changes, lifecycle.PropertyChange{
				Property: f,
				OldValue: oldStr[i].String,
				NewValue: newStr[i].String,
			})
		}
	}
	for i, f := range intFields {
		if oldInt[i].Int64 != newInt[i].Int64 {
			change.Changes = append(change.Changes, lifecycle.PropertyChange{
				Property: f,
				OldValue: strconv.FormatInt(oldInt[i].Int64, 10),
				NewValue: strconv.FormatInt(newInt[i].Int64, 10),
			})
		}
	}
	return change, nil
}

func scanPlainTaxon(rows *sql.Rows) (*taxonomy.Taxon, error) {
	var t taxonomy.Taxon
	var name2, name3 sql.NullString
	var parent sql.NullInt64
	var rankID int64
	err := rows.Scan(
		&t.ID, &parent, &t.Name1, &name2, &name3,
		&t.CompleteName, &rankID, &t.KingdomID,
	)
	if err != nil {
		return nil, err
	}
	if r, ok := taxonomy.RankFromID(rankID); ok {
		t.Rank = r
	}
	t.Name2 = name2.String
	t.Name3 = name3.String
	t.ParentID = parent.Int64
	return &t, nil
}
