package resolve_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotidian-org/seedtaxa/internal/io/resolve"
	iotest "github.com/quotidian-org/seedtaxa/internal/io/testing"
	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// newTaxonomy builds a small reference taxonomy:
//
//	36972 Asclepias (genus)
//	36984 Asclepias tuberosa (accepted species, two vernaculars)
//	36985 Asclepias rolfsii (not accepted, synonym of 36984)
//	565175 Packera aurea (accepted species)
//	565176 Packera aurea var. aurea (accepted variety)
//	36023 Senecio (genus, not accepted, synonym of 565174 Packera)
//	36024 Senecio aureus (not accepted, no species-level synonym link)
func newTaxonomy(t *testing.T) *sql.DB {
	t.Helper()
	db := iotest.NewTaxonomyDB(t)

	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 36972, Name1: "Asclepias", RankID: 180, SortSeq: 10,
	})
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 36984, Name1: "Asclepias", Name2: "tuberosa",
		RankID: 220, ParentTSN: 36972, SortSeq: 11,
	})
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 36985, Name1: "Asclepias", Name2: "rolfsii",
		Usage: "not accepted", RankID: 220, SortSeq: 12,
	})
	iotest.InsertSynonym(t, db, 36985, 36984)
	iotest.InsertVernacular(t, db, 36984, "butterfly milkweed", "English")
	iotest.InsertVernacular(t, db, 36984, "butterflyweed", "unspecified")
	iotest.InsertVernacular(t, db, 36984, "asclépiade tubéreuse", "French")

	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 565174, Name1: "Packera", RankID: 180, SortSeq: 20,
	})
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 565175, Name1: "Packera", Name2: "aurea",
		RankID: 220, ParentTSN: 565174, SortSeq: 21,
	})
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 565176, Name1: "Packera", Name2: "aurea", Name3: "aurea",
		RankID: 240, ParentTSN: 565175, SortSeq: 22,
	})

	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 36023, Name1: "Senecio", Usage: "not accepted",
		RankID: 180, SortSeq: 30,
	})
	iotest.InsertSynonym(t, db, 36023, 565174)
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 36024, Name1: "Senecio", Name2: "aureus",
		Usage: "not accepted", RankID: 220, SortSeq: 31,
	})

	iotest.CreateCollectionTables(t, db)
	return db
}

func newResolver(db *sql.DB) taxonomy.Resolver {
	return resolve.New(db, config.New())
}

func TestResolveDirect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)
	ctx := context.Background()

	m, err := res.Resolve(ctx, taxonomy.Name{
		Genus: "Asclepias", Species: "tuberosa", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.ViaSynonym)
	assert.Equal(t, int64(36984), m.Taxon.ID)
	assert.Equal(t, "Asclepias tuberosa", m.Taxon.CompleteName)
	assert.Equal(t, taxonomy.RankSpecies, m.Taxon.Rank)
	assert.Equal(t, int64(36972), m.Taxon.ParentID)

	// only configured languages are aggregated
	assert.ElementsMatch(
		t,
		[]string{"butterfly milkweed", "butterflyweed"},
		m.Taxon.Vernaculars,
	)
}

func TestResolveInfraspecific(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)
	ctx := context.Background()

	m, err := res.Resolve(ctx, taxonomy.Name{
		Genus: "Packera", Species: "aurea", Infra: "aurea",
		Rank: taxonomy.RankVariety,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(565176), m.Taxon.ID)
	assert.Equal(t, taxonomy.RankVariety, m.Taxon.Rank)

	// the species-rank lookup must not see the variety
	m, err = res.Resolve(ctx, taxonomy.Name{
		Genus: "Packera", Species: "aurea", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(565175), m.Taxon.ID)
}

func TestResolveSynonym(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)
	ctx := context.Background()

	m, err := res.Resolve(ctx, taxonomy.Name{
		Genus: "Asclepias", Species: "rolfsii", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.ViaSynonym)
	assert.Equal(t, int64(36984), m.Taxon.ID)
}

func TestResolveGenusFallback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)
	ctx := context.Background()

	// Senecio aureus has no species-level synonym link; the genus-level
	// link Senecio -> Packera makes the retry find Packera aurea.
	m, err := res.Resolve(ctx, taxonomy.Name{
		Genus: "Senecio", Species: "aurea", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.ViaSynonym)
	assert.Equal(t, int64(565175), m.Taxon.ID)
}

func TestResolveNoMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)

	m, err := res.Resolve(context.Background(), taxonomy.Name{
		Genus: "Quercus", Species: "alba", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveAmbiguous(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	// a second accepted row with the same name is a data problem the
	// resolver must report, not silently pick from
	iotest.InsertTaxon(t, db, iotest.TaxonRow{
		TSN: 99001, Name1: "Asclepias", Name2: "tuberosa",
		RankID: 220, SortSeq: 99,
	})
	res := newResolver(db)

	m, err := res.Resolve(context.Background(), taxonomy.Name{
		Genus: "Asclepias", Species: "tuberosa", Rank: taxonomy.RankSpecies,
	})
	require.Error(t, err)
	assert.Nil(t, m)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.ResolverAmbiguousError, gnErr.Code)
}

func TestResolveObsolete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)
	ctx := context.Background()

	taxon, err := res.ResolveObsolete(ctx, 36985)
	require.NoError(t, err)
	require.NotNil(t, taxon)
	assert.Equal(t, int64(36984), taxon.ID)

	// no synonym link, no replacement
	taxon, err = res.ResolveObsolete(ctx, 36024)
	require.NoError(t, err)
	assert.Nil(t, taxon)
}

func TestPossibilities(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)

	cands, err := res.Possibilities(context.Background(), taxonomy.Name{
		Genus: "Asclep", Species: "tuberos", Rank: taxonomy.RankSpecies,
	})
	require.NoError(t, err)
	require.NotEmpty(t, cands)

	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.CompleteName
	}
	assert.Contains(t, names, "Asclepias tuberosa")
	assert.Contains(t, names, "Asclepias rolfsii")
	assert.IsIncreasing(t, names)
}

func TestLoadTaxa(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	_, err := db.Exec(
		"INSERT INTO mntaxa (tsn, native_status) VALUES (36984, 'N')",
	)
	require.NoError(t, err)
	res := newResolver(db)

	taxa, err := res.LoadTaxa(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, taxa)

	// phylogenetic order, not insertion or name order
	var prev int64 = -1
	for _, tx := range taxa {
		assert.GreaterOrEqual(t, tx.SortSeq, prev)
		prev = tx.SortSeq
	}

	var milkweed *taxonomy.Taxon
	for i := range taxa {
		if taxa[i].ID == 36984 {
			milkweed = &taxa[i]
		}
		// not-accepted rows never appear in listings
		assert.NotEqual(t, int64(36985), taxa[i].ID)
	}
	require.NotNil(t, milkweed)
	require.NotNil(t, milkweed.NativeStatus)
	assert.Equal(t, taxonomy.Native, *milkweed.NativeStatus)
}

func TestLoadTaxaFiltered(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := newTaxonomy(t)
	res := newResolver(db)

	taxa, err := res.LoadTaxa(
		context.Background(),
		taxonomy.And(taxonomy.GenusIs("Packera"), taxonomy.ByRank(taxonomy.RankSpecies)),
		&taxonomy.LimitSpec{Count: 10},
	)
	require.NoError(t, err)
	require.Len(t, taxa, 1)
	assert.Equal(t, int64(565175), taxa[0].ID)
}
