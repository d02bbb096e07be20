// Package testing provides shared fixtures for integration tests: small
// reference-taxonomy and collection databases built in temp files or in
// memory. This is an internal package for test infrastructure only.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
)

// Taxonomy DDL matching the reference database's structure, reduced to
// the columns the engine touches.
var taxonomyDDL = []string{
	`CREATE TABLE taxonomic_units (
  tsn INTEGER NOT NULL PRIMARY KEY,
  unit_name1 TEXT NOT NULL,
  unit_name2 TEXT,
  unit_name3 TEXT,
  name_usage TEXT NOT NULL,
  unaccept_reason TEXT,
  complete_name TEXT NOT NULL,
  parent_tsn INTEGER,
  rank_id INTEGER NOT NULL,
  kingdom_id INTEGER NOT NULL,
  phylo_sort_seq INTEGER,
  update_date TEXT
)`,
	`CREATE TABLE synonym_links (
  tsn INTEGER NOT NULL,
  tsn_accepted INTEGER NOT NULL,
  update_date TEXT
)`,
	`CREATE TABLE vernaculars (
  vern_id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
  tsn INTEGER NOT NULL,
  vernacular_name TEXT NOT NULL,
  language TEXT NOT NULL
)`,
	`CREATE TABLE hierarchy (
  hierarchy_string TEXT NOT NULL,
  tsn INTEGER NOT NULL PRIMARY KEY,
  parent_tsn INTEGER,
  level INTEGER
)`,
	`CREATE TABLE longnames (
  tsn INTEGER NOT NULL PRIMARY KEY,
  completename TEXT NOT NULL
)`,
}

// NewTaxonomyDB creates an in-memory database with the reference
// taxonomy tables.
func NewTaxonomyDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	CreateTaxonomyTables(t, db)
	return db
}

// NewTaxonomyFile creates a database file with the reference taxonomy
// tables under the test's temp dir and returns its path.
func NewTaxonomyFile(t *testing.T, name string) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	CreateTaxonomyTables(t, db)
	return path, db
}

// CreateTaxonomyTables creates the reference taxonomy tables.
func CreateTaxonomyTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, ddl := range taxonomyDDL {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}
}

// CreateCollectionTables creates the collection's own tables from the
// model DDL generators.
func CreateCollectionTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, model := range schema.CollectionModels() {
		_, err := db.Exec(model.TableDDL())
		require.NoError(t, err)
		for _, idx := range model.IndexDDL() {
			_, err = db.Exec(idx)
			require.NoError(t, err)
		}
	}
}

// TaxonRow is the insert shape for one taxonomic_units row.
type TaxonRow struct {
	TSN        int64
	Name1      string
	Name2      string
	Name3      string
	Usage      string
	Complete   string
	ParentTSN  int64
	RankID     int64
	KingdomID  int64
	SortSeq    int64
	UpdateDate string
}

// InsertTaxon inserts one row into taxonomic_units. Empty Usage
// defaults to accepted, zero KingdomID to the plant kingdom.
func InsertTaxon(t *testing.T, db *sql.DB, row TaxonRow) {
	t.Helper()
	if row.Usage == "" {
		row.Usage = "accepted"
	}
	if row.KingdomID == 0 {
		row.KingdomID = 3
	}
	if row.Complete == "" {
		row.Complete = taxonDisplayName(row)
	}
	_, err := db.Exec(`
INSERT INTO taxonomic_units
  (tsn, unit_name1, unit_name2, unit_name3, name_usage, complete_name,
   parent_tsn, rank_id, kingdom_id, phylo_sort_seq, update_date)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.TSN, row.Name1, nullable(row.Name2), nullable(row.Name3),
		row.Usage, row.Complete, row.ParentTSN, row.RankID,
		row.KingdomID, row.SortSeq, row.UpdateDate,
	)
	require.NoError(t, err)
}

func taxonDisplayName(row TaxonRow) string {
	name := row.Name1
	if row.Name2 != "" {
		name += " " + row.Name2
	}
	if row.Name3 != "" {
		name += " " + row.Name3
	}
	return name
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertSynonym links an obsolete identifier to its accepted one.
func InsertSynonym(t *testing.T, db *sql.DB, tsn, accepted int64) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO synonym_links (tsn, tsn_accepted) VALUES (?, ?)",
		tsn, accepted,
	)
	require.NoError(t, err)
}

// InsertVernacular records a common name for a taxon.
func InsertVernacular(t *testing.T, db *sql.DB, tsn int64, name, lang string) {
	t.Helper()
	_, err := db.Exec(`
INSERT INTO vernaculars (tsn, vernacular_name, language) VALUES (?, ?, ?)`,
		tsn, name, lang,
	)
	require.NoError(t, err)
}

// InsertHierarchy records the hierarchy path string for a taxon.
func InsertHierarchy(t *testing.T, db *sql.DB, tsn int64, path string) {
	t.Helper()
	_, err := db.Exec(`
INSERT INTO hierarchy (hierarchy_string, tsn) VALUES (?, ?)`,
		path, tsn,
	)
	require.NoError(t, err)
}

// InsertSample records a collected sample referencing a taxon.
func InsertSample(t *testing.T, db *sql.DB, sampleID, tsn int64) {
	t.Helper()
	_, err := db.Exec(`
INSERT INTO sc_samples (sampleid, tsn, userid, month, year, quantity)
  VALUES (?, ?, 1, 6, 2025, 10)`,
		sampleID, tsn,
	)
	require.NoError(t, err)
}

// InsertGerminationCode records one germination code definition.
func InsertGerminationCode(
	t *testing.T, db *sql.DB, id int64, code, summary string,
) {
	t.Helper()
	_, err := db.Exec(`
INSERT INTO sc_germination_codes (germid, code, summary) VALUES (?, ?, ?)`,
		id, code, summary,
	)
	require.NoError(t, err)
}

// GetTestConfig returns the default configuration with the database
// path pointed at the given file.
func GetTestConfig(path string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptDatabasePath(path)})
	return cfg
}
