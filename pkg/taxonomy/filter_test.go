package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(f Filter) (string, []any) {
	var q Query
	f.Apply(&q)
	return q.SQL(), q.Args()
}

func TestFieldFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []any
	}{
		{"by id", ByID(36972), "T.tsn IS ?", []any{int64(36972)}},
		{"by parent", ByParent(180), "T.parent_tsn IS ?", []any{int64(180)}},
		{"by rank", ByRank(RankSpecies), "T.rank_id IS ?", []any{int64(220)}},
		{"genus", GenusIs("Asclepias"), "T.unit_name1 LIKE ?", []any{"Asclepias"}},
		{"species", SpeciesIs("tuberosa"), "T.unit_name2 LIKE ?", []any{"tuberosa"}},
		{
			"name contains",
			NameContains(3, "aurea"),
			"T.unit_name3 LIKE ?",
			[]any{"%aurea%"},
		},
		{
			"vernacular contains",
			VernacularContains("milkweed"),
			"V.vernacular_name LIKE ?",
			[]any{"%milkweed%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := render(tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCompoundFilters(t *testing.T) {
	sql, args := render(And(GenusIs("Packera"), SpeciesIs("aurea")))
	assert.Equal(t, "(T.unit_name1 LIKE ? AND T.unit_name2 LIKE ?)", sql)
	assert.Equal(t, []any{"Packera", "aurea"}, args)

	sql, args = render(Or(ByID(1), ByID(2)))
	assert.Equal(t, "(T.tsn IS ? OR T.tsn IS ?)", sql)
	assert.Len(t, args, 2)

	// nested compounds keep their own grouping
	sql, _ = render(And(ByRank(RankGenus), Or(GenusIs("a"), GenusIs("b"))))
	assert.Equal(
		t,
		"(T.rank_id IS ? AND (T.unit_name1 LIKE ? OR T.unit_name1 LIKE ?))",
		sql,
	)
}

func TestCompoundEmpty(t *testing.T) {
	sql, args := render(And())
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, args)
}

func TestCompoundAdd(t *testing.T) {
	c := And(GenusIs("Rudbeckia"))
	c.Add(HasNativeStatus(true))
	sql, args := render(c)
	assert.Equal(t, "(T.unit_name1 LIKE ? AND M.tsn IS NOT NULL)", sql)
	assert.Len(t, args, 1)
}

func TestAnyName(t *testing.T) {
	sql, args := render(AnyName("aster"))
	assert.Equal(
		t,
		"(T.unit_name1 LIKE ? OR T.unit_name2 LIKE ? OR T.unit_name3 LIKE ?"+
			" OR V.vernacular_name LIKE ?)",
		sql,
	)
	for _, a := range args {
		assert.Equal(t, "%aster%", a)
	}
}
