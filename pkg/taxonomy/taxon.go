package taxonomy

import "strings"

// Taxon is one node of the reference taxonomy. Its ID is stable within a
// single database snapshot but not across snapshots - that is what the
// upgrade machinery exists for.
type Taxon struct {
	// ID is the taxonomic serial number (tsn) of the current snapshot.
	ID int64

	Rank Rank

	// Name1, Name2 and Name3 are the genus, species and infraspecific
	// epithet. Higher ranks use only Name1.
	Name1 string
	Name2 string
	Name3 string

	// CompleteName is the precomputed display name stored by the
	// reference database.
	CompleteName string

	// Vernaculars holds the aggregated common names.
	Vernaculars []string

	// NativeStatus is set only for taxa present in the collection's
	// native-status table.
	NativeStatus *NativeStatus

	ParentID  int64
	KingdomID int64

	// SortSeq is the phylogenetic display ordering key.
	SortSeq int64
}

// DisplayName joins the non-empty name components. It is used for
// diagnostics where CompleteName is not available, e.g. for names read
// from a species list.
func DisplayName(name1, name2, name3 string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name1, name2, name3} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
