package namematch

import (
	"context"

	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// Kind classifies the outcome of one species-list row.
type Kind int

const (
	// Matched means the row resolved directly to an accepted taxon.
	Matched Kind = iota
	// MatchedSynonym means the row resolved through a synonym link
	// (species-level or genus fallback).
	MatchedSynonym
	// Skipped means the row was not processed (blank or hybrid).
	Skipped
	// Unresolved means no accepted taxon could be found for the row.
	Unresolved
)

func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case MatchedSynonym:
		return "matched via synonym"
	case Skipped:
		return "skipped"
	default:
		return "unresolved"
	}
}

// RowOutcome pairs one input record with its classification. Outcomes
// keep the input batch order.
type RowOutcome struct {
	Record Record
	Kind   Kind

	// Taxon is set for Matched and MatchedSynonym rows.
	Taxon *taxonomy.Taxon

	// Reason explains Skipped rows.
	Reason string

	// Possibilities holds loose candidates for Unresolved rows when
	// the caller asked for them.
	Possibilities []taxonomy.Candidate
}

// Result collects the outcomes of one batch.
type Result struct {
	Outcomes []RowOutcome
}

// Matched returns the successfully resolved outcomes in input order.
func (r *Result) Matched() []RowOutcome {
	var res []RowOutcome
	for _, o := range r.Outcomes {
		if o.Kind == Matched || o.Kind == MatchedSynonym {
			res = append(res, o)
		}
	}
	return res
}

// Count returns the number of outcomes of the given kind.
func (r *Result) Count(k Kind) int {
	var n int
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Matcher drives the synonym resolver across a species list and applies
// the matched-taxon stream to the collection database.
type Matcher interface {
	// MatchList validates the header against the layout, then resolves
	// every record sequentially. A single unresolved or skipped row
	// never aborts the batch; a layout violation does, immediately.
	// When withPossibilities is true, unresolved rows carry loose
	// candidates for human disambiguation.
	MatchList(
		ctx context.Context,
		layout Layout,
		header []string,
		recs []Record,
		withPossibilities bool,
	) (*Result, error)

	// ApplyNativeStatus folds the matched rows' native-status codes per
	// taxon (Unknown is identity, Native dominates) and replaces the
	// native-status table with the folded set. Returns the number of
	// taxa written.
	ApplyNativeStatus(ctx context.Context, res *Result) (int, error)

	// ApplyGermination assigns each matched taxon the germination code
	// named by its payload column. Duplicate taxon/code pairs are
	// ignored, not errors. Returns the number of associations inserted.
	ApplyGermination(ctx context.Context, res *Result) (int, error)
}
