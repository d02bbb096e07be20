package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

func TestResultMatched(t *testing.T) {
	res := Result{Outcomes: []RowOutcome{
		{Kind: Matched, Taxon: &taxonomy.Taxon{ID: 1}},
		{Kind: Skipped, Reason: "hybrid"},
		{Kind: MatchedSynonym, Taxon: &taxonomy.Taxon{ID: 2}},
		{Kind: Unresolved},
	}}

	matched := res.Matched()
	assert.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].Taxon.ID)
	assert.Equal(t, int64(2), matched[1].Taxon.ID)

	assert.Equal(t, 1, res.Count(Matched))
	assert.Equal(t, 1, res.Count(MatchedSynonym))
	assert.Equal(t, 1, res.Count(Skipped))
	assert.Equal(t, 1, res.Count(Unresolved))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "matched via synonym", MatchedSynonym.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "unresolved", Unresolved.String())
}
