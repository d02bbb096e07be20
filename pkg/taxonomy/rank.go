// Package taxonomy provides the domain types for the reference taxonomy:
// taxa, ranks, native statuses, and the filter expressions used to query
// them. This is a pure package - database access lives in internal/io.
package taxonomy

import "strings"

// Rank is a taxonomic level encoded with the reference database's numeric
// code. The codes are ordered but not contiguous (Genus is 180, Species
// is 220); never iterate them assuming contiguity.
type Rank int64

const (
	RankUnknown       Rank = 0
	RankKingdom       Rank = 10
	RankSubkingdom    Rank = 20
	RankInfrakingdom  Rank = 25
	RankSuperdivision Rank = 27
	RankDivision      Rank = 30
	RankSubdivision   Rank = 40
	RankInfradivision Rank = 45
	RankSuperclass    Rank = 50
	RankClass         Rank = 60
	RankSubclass      Rank = 70
	RankInfraclass    Rank = 80
	RankSuperorder    Rank = 90
	RankOrder         Rank = 100
	RankSuborder      Rank = 110
	RankFamily        Rank = 140
	RankSubfamily     Rank = 150
	RankTribe         Rank = 160
	RankSubtribe      Rank = 170
	RankGenus         Rank = 180
	RankSubgenus      Rank = 190
	RankSection       Rank = 200
	RankSubsection    Rank = 210
	RankSpecies       Rank = 220
	RankSubspecies    Rank = 230
	RankVariety       Rank = 240
	RankSubvariety    Rank = 250
	RankForm          Rank = 260
	RankSubform       Rank = 270
)

var rankNames = map[Rank]string{
	RankUnknown:       "Unknown",
	RankKingdom:       "Kingdom",
	RankSubkingdom:    "Subkingdom",
	RankInfrakingdom:  "Infrakingdom",
	RankSuperdivision: "Superdivision",
	RankDivision:      "Division",
	RankSubdivision:   "Subdivision",
	RankInfradivision: "Infradivision",
	RankSuperclass:    "Superclass",
	RankClass:         "Class",
	RankSubclass:      "Subclass",
	RankInfraclass:    "Infraclass",
	RankSuperorder:    "Superorder",
	RankOrder:         "Order",
	RankSuborder:      "Suborder",
	RankFamily:        "Family",
	RankSubfamily:     "Subfamily",
	RankTribe:         "Tribe",
	RankSubtribe:      "Subtribe",
	RankGenus:         "Genus",
	RankSubgenus:      "Subgenus",
	RankSection:       "Section",
	RankSubsection:    "Subsection",
	RankSpecies:       "Species",
	RankSubspecies:    "Subspecies",
	RankVariety:       "Variety",
	RankSubvariety:    "Subvariety",
	RankForm:          "Form",
	RankSubform:       "Subform",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "Unknown"
}

// RankFromID converts a stored numeric rank code to a Rank.
// Unknown codes return (RankUnknown, false).
func RankFromID(id int64) (Rank, bool) {
	r := Rank(id)
	if _, ok := rankNames[r]; ok {
		return r, true
	}
	return RankUnknown, false
}

// ParseRank maps a rank name to its Rank, case-insensitively.
// Unknown names return (RankUnknown, false).
func ParseRank(s string) (Rank, bool) {
	for r, name := range rankNames {
		if r != RankUnknown && strings.EqualFold(name, s) {
			return r, true
		}
	}
	return RankUnknown, false
}

// RankFromIndicator infers a rank from the infraspecific indicator token
// used in species lists: "var." marks a variety, "subsp." a subspecies,
// anything else is treated as a plain species.
func RankFromIndicator(token string) Rank {
	switch token {
	case "var.":
		return RankVariety
	case "subsp.":
		return RankSubspecies
	default:
		return RankSpecies
	}
}

// Infraspecific reports whether the rank sits below species. Name lookups
// at these ranks compare all three name components instead of two.
func (r Rank) Infraspecific() bool {
	return r > RankSpecies
}
