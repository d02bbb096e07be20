// Package namematch defines the contract for matching externally supplied
// species lists against the reference taxonomy. The engine validates the
// declared column layout and classifies every row; reading the underlying
// file format is the caller's job.
package namematch

import (
	"fmt"
	"strings"

	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// HybridIndicator marks a hybrid name slot in a species list. Hybrid rows
// are skipped: hybrid taxonomy is out of scope.
const HybridIndicator = "X"

// Column positions shared by all supported layouts.
const (
	ColHybrid1 = 0
	ColGenus   = 1
	ColHybrid2 = 2
	ColSpecies = 3
	ColRank    = 4
	ColInfra   = 5
	ColPayload = 6
)

// Layout declares the column contract (order and names) a species list
// must match exactly.
type Layout []string

var (
	// NativeStatusLayout is the contract of native-status species lists.
	NativeStatusLayout = Layout{
		"X", "genus", "X", "species", "subttype", "subtaxa",
		"native_status", "rarity_status", "invasive_status",
	}

	// GerminationLayout is the contract of germination-code species
	// lists.
	GerminationLayout = Layout{
		"X", "genus", "X", "species", "subttype", "subtaxa", "germcode",
	}
)

// Validate checks a header row against the layout. It fails fast with the
// offending position and field name on any mismatch.
func (l Layout) Validate(header []string) error {
	if len(header) != len(l) {
		return fmt.Errorf(
			"expected %d fields, found %d", len(l), len(header),
		)
	}
	for i, want := range l {
		if header[i] != want {
			return fmt.Errorf(
				"field name mismatch: expected %q in column %d, found %q",
				want, i, header[i],
			)
		}
	}
	return nil
}

// Record is one row of a species list, in the declared layout order.
type Record struct {
	// Line is the 1-based data row number, used in diagnostics.
	Line int

	Fields []string
}

// Field returns the trimmed value of column i, or "" when the row is
// short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[i])
}

// Name assembles the lookup key of the row: name components plus the rank
// inferred from the indicator token.
func (r Record) Name() taxonomy.Name {
	return taxonomy.Name{
		Genus:   r.Field(ColGenus),
		Species: r.Field(ColSpecies),
		Infra:   r.Field(ColInfra),
		Rank:    taxonomy.RankFromIndicator(r.Field(ColRank)),
	}
}

// Blank reports whether both genus and species components are empty.
// Blank rows are skipped with a warning.
func (r Record) Blank() bool {
	return r.Field(ColGenus) == "" && r.Field(ColSpecies) == ""
}

// Hybrid reports whether either name slot carries the hybrid indicator.
func (r Record) Hybrid() bool {
	return r.Field(ColHybrid1) == HybridIndicator ||
		r.Field(ColHybrid2) == HybridIndicator
}

// Payload returns the consumer-specific column: the native-status code or
// the germination code.
func (r Record) Payload() string {
	return r.Field(ColPayload)
}
