package schema

// Reference taxonomy tables the engine relies on. The candidate database
// must define at least these.
const (
	TableTaxonomicUnits = "taxonomic_units"
	TableSynonymLinks   = "synonym_links"
	TableVernaculars    = "vernaculars"
	TableHierarchy      = "hierarchy"
)

// DependentTables lists every collection table that references a taxon
// identifier through a tsn column. The migration executor rewrites the
// tsn column of each of these during an upgrade.
//
// Any new table that references taxon identifiers MUST be added here, or
// it will silently retain stale identifiers after an upgrade.
var DependentTables = []string{
	"sc_samples",
	"sc_taxon_germination",
	"mntaxa",
}
