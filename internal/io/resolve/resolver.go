// Package resolve implements taxonomy.Resolver on top of a SQLite
// reference taxonomy. The resolver can be pointed at the main schema or
// at an attached candidate schema, so the same lookups serve both
// normal operation and upgrade analysis.
package resolve

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// Querier is the subset of database/sql needed by the resolver. Both
// *sql.DB and *sql.Conn satisfy it, which lets the resolver run either
// on the pool or on an upgrade session's pinned connection.
type Querier interface {
	QueryContext(
		ctx context.Context, query string, args ...any,
	) (*sql.Rows, error)
}

type resolver struct {
	q          Querier
	schemaName string
	kingdomID  int64
	languages  []string
}

// Option configures a resolver.
type Option func(*resolver)

// OptSchema points all lookups at the named schema, e.g. the attached
// candidate database during an upgrade. The default is the main schema.
func OptSchema(name string) Option {
	return func(r *resolver) {
		r.schemaName = name
	}
}

// New creates a Resolver using the kingdom and vernacular languages
// from cfg.
func New(q Querier, cfg *config.Config, opts ...Option) taxonomy.Resolver {
	res := &resolver{
		q:         q,
		kingdomID: cfg.Taxonomy.KingdomID,
		languages: cfg.Taxonomy.Languages,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// tbl prefixes a table name with the configured schema.
func (r *resolver) tbl(name string) string {
	if r.schemaName == "" {
		return name
	}
	return r.schemaName + "." + name
}

func (r *resolver) langPlaceholders() (string, []any) {
	marks := make([]string, len(r.languages))
	args := make([]any, len(r.languages))
	for i, l := range r.languages {
		marks[i] = "?"
		args[i] = l
	}
	return strings.Join(marks, ", "), args
}

func (r *resolver) Resolve(
	ctx context.Context, name taxonomy.Name,
) (*taxonomy.Match, error) {
	m, err := r.resolveOnce(ctx, name)
	if m != nil || err != nil {
		return m, err
	}

	// The whole genus may have been renamed. Retry under the accepted
	// genus name if a genus-level synonym exists.
	genus, err := r.genusSynonym(ctx, name.Genus)
	if err != nil {
		return nil, err
	}
	if genus == "" {
		return nil, nil
	}
	slog.Debug("Genus is a synonym, retrying lookup",
		"genus", name.Genus, "accepted", genus)
	renamed := name
	renamed.Genus = genus
	m, err = r.resolveOnce(ctx, renamed)
	if m != nil {
		m.ViaSynonym = true
	}
	return m, err
}

// resolveOnce tries a direct accepted lookup, then a synonym link, for
// the name exactly as given.
func (r *resolver) resolveOnce(
	ctx context.Context, name taxonomy.Name,
) (*taxonomy.Match, error) {
	taxon, err := r.lookupAccepted(ctx, name)
	if err != nil {
		return nil, err
	}
	if taxon != nil {
		return &taxonomy.Match{Taxon: *taxon}, nil
	}

	accepted, err := r.synonymTarget(ctx, name)
	if err != nil {
		return nil, err
	}
	if accepted == 0 {
		return nil, nil
	}
	taxon, err = r.loadAccepted(ctx, accepted)
	if err != nil {
		return nil, err
	}
	if taxon == nil {
		// dangling synonym link
		return nil, nil
	}
	return &taxonomy.Match{Taxon: *taxon, ViaSynonym: true}, nil
}

// lookupAccepted finds the accepted taxon whose name components match
// exactly at the requested rank. More than one hit is a data problem
// and reported as ambiguity.
func (r *resolver) lookupAccepted(
	ctx context.Context, name taxonomy.Name,
) (*taxonomy.Taxon, error) {
	marks, args := r.langPlaceholders()
	q := fmt.Sprintf(`
SELECT T.tsn, T.parent_tsn, T.unit_name1, T.unit_name2, T.unit_name3,
       T.complete_name, T.rank_id, T.kingdom_id, T.phylo_sort_seq,
       GROUP_CONCAT(V.vernacular_name, '@') AS cnames
  FROM %s T
  LEFT JOIN (
    SELECT * FROM %s WHERE language IN (%s)
  ) V ON V.tsn = T.tsn
  WHERE T.unit_name1 = ? AND T.unit_name2 = ?`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableVernaculars),
		marks,
	)
	args = append(args, name.Genus, name.Species)
	if name.Rank.Infraspecific() {
		q += " AND T.unit_name3 = ?"
		args = append(args, name.Infra)
	}
	q += `
    AND T.name_usage = 'accepted'
    AND T.kingdom_id = ? AND T.rank_id = ?
  GROUP BY T.tsn`
	args = append(args, r.kingdomID, int64(name.Rank))

	taxa, err := r.queryTaxa(ctx, q, args...)
	if err != nil {
		return nil, queryError(name.String(), err)
	}
	switch len(taxa) {
	case 0:
		return nil, nil
	case 1:
		return &taxa[0], nil
	default:
		return nil, ambiguousError(name.String(), len(taxa))
	}
}

// synonymTarget finds the accepted identifier reachable from the given
// name through a synonym link. Zero means no link exists.
func (r *resolver) synonymTarget(
	ctx context.Context, name taxonomy.Name,
) (int64, error) {
	q := fmt.Sprintf(`
SELECT DISTINCT S.tsn_accepted
  FROM %s T
  INNER JOIN %s S ON T.tsn = S.tsn
  WHERE T.name_usage = 'not accepted'
    AND T.unit_name1 = ? AND T.unit_name2 = ?`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableSynonymLinks),
	)
	args := []any{name.Genus, name.Species}
	if name.Rank.Infraspecific() {
		q += " AND T.unit_name3 = ?"
		args = append(args, name.Infra)
	}
	q += " AND T.kingdom_id = ? AND T.rank_id = ?"
	args = append(args, r.kingdomID, int64(name.Rank))

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, queryError(name.String(), err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return 0, queryError(name.String(), err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return 0, queryError(name.String(), err)
	}
	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		return ids[0], nil
	default:
		return 0, ambiguousError(name.String(), len(ids))
	}
}

// genusSynonym maps a genus name to its accepted genus through a
// genus-level synonym link. Empty string means no synonym exists.
func (r *resolver) genusSynonym(
	ctx context.Context, genus string,
) (string, error) {
	q := fmt.Sprintf(`
SELECT DISTINCT S.tsn_accepted
  FROM %s T
  INNER JOIN %s S ON T.tsn = S.tsn
  WHERE T.name_usage = 'not accepted' AND T.unit_name1 = ?
    AND T.kingdom_id = ? AND T.rank_id = ?`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableSynonymLinks),
	)
	rows, err := r.q.QueryContext(
		ctx, q, genus, r.kingdomID, int64(taxonomy.RankGenus),
	)
	if err != nil {
		return "", queryError(genus, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return "", queryError(genus, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return "", queryError(genus, err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	if len(ids) > 1 {
		return "", ambiguousError(genus, len(ids))
	}

	q = fmt.Sprintf(`
SELECT T.unit_name1 FROM %s T
  WHERE T.tsn = ? AND T.name_usage = 'accepted' AND T.kingdom_id = ?`,
		r.tbl(schema.TableTaxonomicUnits),
	)
	rows, err = r.q.QueryContext(ctx, q, ids[0], r.kingdomID)
	if err != nil {
		return "", queryError(genus, err)
	}
	defer rows.Close()

	var accepted string
	if rows.Next() {
		if err = rows.Scan(&accepted); err != nil {
			return "", queryError(genus, err)
		}
	}
	return accepted, rows.Err()
}

// loadAccepted loads an accepted taxon by its identifier, with
// aggregated vernacular names.
func (r *resolver) loadAccepted(
	ctx context.Context, id int64,
) (*taxonomy.Taxon, error) {
	marks, args := r.langPlaceholders()
	q := fmt.Sprintf(`
SELECT T.tsn, T.parent_tsn, T.unit_name1, T.unit_name2, T.unit_name3,
       T.complete_name, T.rank_id, T.kingdom_id, T.phylo_sort_seq,
       GROUP_CONCAT(V.vernacular_name, '@') AS cnames
  FROM %s T
  LEFT JOIN (
    SELECT * FROM %s WHERE language IN (%s)
  ) V ON V.tsn = T.tsn
  WHERE T.tsn = ? AND T.name_usage = 'accepted' AND T.kingdom_id = ?
  GROUP BY T.tsn`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableVernaculars),
		marks,
	)
	args = append(args, id, r.kingdomID)
	taxa, err := r.queryTaxa(ctx, q, args...)
	if err != nil {
		return nil, queryError(fmt.Sprintf("tsn %d", id), err)
	}
	if len(taxa) == 0 {
		return nil, nil
	}
	return &taxa[0], nil
}

func (r *resolver) ResolveObsolete(
	ctx context.Context, id int64,
) (*taxonomy.Taxon, error) {
	q := fmt.Sprintf(`
SELECT T.tsn, T.parent_tsn, T.unit_name1, T.unit_name2, T.unit_name3,
       T.complete_name, T.rank_id, T.kingdom_id, T.phylo_sort_seq,
       NULL AS cnames
  FROM %s T
  INNER JOIN %s S ON T.tsn = S.tsn_accepted
  WHERE S.tsn = ?`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableSynonymLinks),
	)
	taxa, err := r.queryTaxa(ctx, q, id)
	if err != nil {
		return nil, queryError(fmt.Sprintf("tsn %d", id), err)
	}
	switch len(taxa) {
	case 0:
		return nil, nil
	case 1:
		return &taxa[0], nil
	default:
		return nil, ambiguousError(fmt.Sprintf("tsn %d", id), len(taxa))
	}
}

func (r *resolver) Possibilities(
	ctx context.Context, name taxonomy.Name,
) ([]taxonomy.Candidate, error) {
	filter := taxonomy.Or(
		taxonomy.NameContains(1, name.Genus),
		taxonomy.NameContains(2, name.Species),
	)
	if name.Rank.Infraspecific() && name.Infra != "" {
		filter.Add(taxonomy.NameContains(3, name.Infra))
	}
	var fq taxonomy.Query
	filter.Apply(&fq)

	q := fmt.Sprintf(`
SELECT T.tsn, T.complete_name FROM %s T
  WHERE T.kingdom_id = ? AND %s
  ORDER BY T.complete_name`,
		r.tbl(schema.TableTaxonomicUnits), fq.SQL(),
	)
	args := append([]any{r.kingdomID}, fq.Args()...)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, queryError(name.String(), err)
	}
	defer rows.Close()

	var res []taxonomy.Candidate
	for rows.Next() {
		var c taxonomy.Candidate
		if err = rows.Scan(&c.ID, &c.CompleteName); err != nil {
			return nil, queryError(name.String(), err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *resolver) LoadTaxa(
	ctx context.Context, f taxonomy.Filter, limit *taxonomy.LimitSpec,
) ([]taxonomy.Taxon, error) {
	marks, args := r.langPlaceholders()
	q := fmt.Sprintf(`
SELECT T.tsn, T.parent_tsn, T.unit_name1, T.unit_name2, T.unit_name3,
       T.complete_name, T.rank_id, T.kingdom_id, T.phylo_sort_seq,
       M.native_status,
       GROUP_CONCAT(V.vernacular_name, '@') AS cnames
  FROM %s T
  LEFT JOIN (
    SELECT * FROM %s WHERE language IN (%s)
  ) V ON V.tsn = T.tsn
  LEFT JOIN mntaxa M ON T.tsn = M.tsn
  WHERE T.name_usage = 'accepted' AND T.kingdom_id = ?`,
		r.tbl(schema.TableTaxonomicUnits),
		r.tbl(schema.TableVernaculars),
		marks,
	)
	args = append(args, r.kingdomID)
	if f != nil {
		var fq taxonomy.Query
		f.Apply(&fq)
		q += " AND " + fq.SQL()
		args = append(args, fq.Args()...)
	}
	q += " GROUP BY T.tsn ORDER BY T.phylo_sort_seq"
	if limit != nil {
		q += " LIMIT ?"
		args = append(args, limit.Count)
		if limit.Offset > 0 {
			q += " OFFSET ?"
			args = append(args, limit.Offset)
		}
	}

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, queryError("taxa listing", err)
	}
	defer rows.Close()

	var res []taxonomy.Taxon
	for rows.Next() {
		t, err := scanTaxonWithStatus(rows)
		if err != nil {
			return nil, queryError("taxa listing", err)
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

// queryTaxa runs a query with the standard taxon column list plus a
// cnames aggregate and scans the rows.
func (r *resolver) queryTaxa(
	ctx context.Context, q string, args ...any,
) ([]taxonomy.Taxon, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []taxonomy.Taxon
	for rows.Next() {
		t, err := scanTaxon(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

func scanTaxon(rows *sql.Rows) (*taxonomy.Taxon, error) {
	var t taxonomy.Taxon
	var name2, name3, cnames sql.NullString
	var parent, sortSeq sql.NullInt64
	var rankID int64
	err := rows.Scan(
		&t.ID, &parent, &t.Name1, &name2, &name3,
		&t.CompleteName, &rankID, &t.KingdomID, &sortSeq, &cnames,
	)
	if err != nil {
		return nil, err
	}
	fillTaxon(&t, rankID, name2, name3, parent, sortSeq, cnames)
	return &t, nil
}

func scanTaxonWithStatus(rows *sql.Rows) (*taxonomy.Taxon, error) {
	var t taxonomy.Taxon
	var name2, name3, status, cnames sql.NullString
	var parent, sortSeq sql.NullInt64
	var rankID int64
	err := rows.Scan(
		&t.ID, &parent, &t.Name1, &name2, &name3,
		&t.CompleteName, &rankID, &t.KingdomID, &sortSeq,
		&status, &cnames,
	)
	if err != nil {
		return nil, err
	}
	fillTaxon(&t, rankID, name2, name3, parent, sortSeq, cnames)
	if status.Valid {
		ns, err := taxonomy.ParseNativeStatus(status.String)
		if err == nil {
			t.NativeStatus = &ns
		} else {
			slog.Warn("Unknown native status in database",
				"tsn", t.ID, "value", status.String)
		}
	}
	return &t, nil
}

func fillTaxon(
	t *taxonomy.Taxon,
	rankID int64,
	name2, name3 sql.NullString,
	parent, sortSeq sql.NullInt64,
	cnames sql.NullString,
) {
	if r, ok := taxonomy.RankFromID(rankID); ok {
		t.Rank = r
	}
	t.Name2 = name2.String
	t.Name3 = name3.String
	t.ParentID = parent.Int64
	t.SortSeq = sortSeq.Int64
	if cnames.Valid && cnames.String != "" {
		t.Vernaculars = strings.Split(cnames.String, "@")
	}
}
