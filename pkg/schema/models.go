// Package schema provides the collection-side database models and the
// registry of tables that reference taxon identifiers.
package schema

import "database/sql"

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the SQLite table name for this model.
	TableName() string
}

// Sample is one seed sample of the collection.
type Sample struct {
	ID        int64           `db:"sampleid" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT"`
	TSN       int64           `db:"tsn" ddl:"INTEGER NOT NULL REFERENCES taxonomic_units(tsn)"`
	UserID    sql.NullInt64   `db:"userid" ddl:"INTEGER"`
	SourceID  sql.NullInt64   `db:"srcid" ddl:"INTEGER"`
	Month     sql.NullInt64   `db:"month" ddl:"INTEGER"`
	Year      sql.NullInt64   `db:"year" ddl:"INTEGER"`
	Quantity  sql.NullFloat64 `db:"quantity" ddl:"REAL"`
	Notes     sql.NullString  `db:"notes" ddl:"TEXT"`
	Certainty sql.NullString  `db:"certainty" ddl:"TEXT"`
}

func (s Sample) TableDDL() string {
	return generateDDL(s, "sc_samples")
}

func (s Sample) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_sc_samples_tsn ON sc_samples(tsn);",
	}
}

func (s Sample) TableName() string {
	return "sc_samples"
}

// GerminationCode is one entry of the germination-code reference list.
type GerminationCode struct {
	ID          int64          `db:"germid" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT"`
	Code        string         `db:"code" ddl:"TEXT NOT NULL UNIQUE"`
	Summary     sql.NullString `db:"summary" ddl:"TEXT"`
	Description sql.NullString `db:"description" ddl:"TEXT"`
}

func (g GerminationCode) TableDDL() string {
	return generateDDL(g, "sc_germination_codes")
}

func (g GerminationCode) IndexDDL() []string {
	return []string{}
}

func (g GerminationCode) TableName() string {
	return "sc_germination_codes"
}

// TaxonGermination associates a taxon with a germination code.
type TaxonGermination struct {
	TSN    int64 `db:"tsn" ddl:"INTEGER NOT NULL REFERENCES taxonomic_units(tsn)"`
	GermID int64 `db:"germid" ddl:"INTEGER NOT NULL REFERENCES sc_germination_codes(germid)"`
}

func (t TaxonGermination) TableDDL() string {
	return generateDDL(t, "sc_taxon_germination")
}

func (t TaxonGermination) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sc_taxon_germination" +
			" ON sc_taxon_germination(tsn, germid);",
	}
}

func (t TaxonGermination) TableName() string {
	return "sc_taxon_germination"
}

// NativeStatusEntry records a taxon's native-status classification for
// the local flora.
type NativeStatusEntry struct {
	TSN    int64  `db:"tsn" ddl:"INTEGER PRIMARY KEY REFERENCES taxonomic_units(tsn)"`
	Status string `db:"native_status" ddl:"TEXT NOT NULL"`
}

func (n NativeStatusEntry) TableDDL() string {
	return generateDDL(n, "mntaxa")
}

func (n NativeStatusEntry) IndexDDL() []string {
	return []string{}
}

func (n NativeStatusEntry) TableName() string {
	return "mntaxa"
}

// CollectionModels lists every collection-side model in creation order.
func CollectionModels() []DDLGenerator {
	return []DDLGenerator{
		Sample{},
		GerminationCode{},
		TaxonGermination{},
		NativeStatusEntry{},
	}
}
