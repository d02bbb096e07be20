package upgrade_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/maintain"
	"github.com/quotidian-org/seedtaxa/internal/io/schemacheck"
	iotest "github.com/quotidian-org/seedtaxa/internal/io/testing"
	"github.com/quotidian-org/seedtaxa/internal/io/upgrade"
	"github.com/quotidian-org/seedtaxa/pkg/db"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
)

// newUpgradeFixture builds a collection on taxonomy v1 and a candidate
// v2 where Aster azureus (300) became a synonym of Symphyotrichum
// oolentangiense (400) and Senecio aureus (200) was renamed in place.
// Samples reference 100, 200 and 300; taxon 300 also carries a native
// status.
func newUpgradeFixture(t *testing.T) (string, string, *sql.DB) {
	t.Helper()

	curPath, curDB := iotest.NewTaxonomyFile(t, "current.sqlite")
	iotest.CreateCollectionTables(t, curDB)
	iotest.InsertTaxon(t, curDB, iotest.TaxonRow{
		TSN: 100, Name1: "Asclepias", Name2: "tuberosa", RankID: 220,
	})
	iotest.InsertTaxon(t, curDB, iotest.TaxonRow{
		TSN: 200, Name1: "Senecio", Name2: "aureus", RankID: 220,
	})
	iotest.InsertTaxon(t, curDB, iotest.TaxonRow{
		TSN: 300, Name1: "Aster", Name2: "azureus", RankID: 220,
	})
	iotest.InsertHierarchy(t, curDB, 100, "202422-100")
	iotest.InsertSample(t, curDB, 1, 100)
	iotest.InsertSample(t, curDB, 2, 200)
	iotest.InsertSample(t, curDB, 3, 300)
	_, err := curDB.Exec(
		"INSERT INTO mntaxa (tsn, native_status) VALUES (300, 'N')",
	)
	require.NoError(t, err)

	candPath, candDB := iotest.NewTaxonomyFile(t, "candidate.sqlite")
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 100, Name1: "Asclepias", Name2: "tuberosa", RankID: 220,
	})
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 200, Name1: "Packera", Name2: "aurea", RankID: 220,
	})
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 300, Name1: "Aster", Name2: "azureus",
		Usage: "not accepted", RankID: 220,
	})
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 400, Name1: "Symphyotrichum", Name2: "oolentangiense",
		RankID: 220,
	})
	iotest.InsertSynonym(t, candDB, 300, 400)
	iotest.InsertHierarchy(t, candDB, 100, "202422-100")
	iotest.InsertHierarchy(t, candDB, 200, "202422-21-200")
	iotest.InsertHierarchy(t, candDB, 400, "202422-35-400")

	return curPath, candPath, curDB
}

func newUpgrader(t *testing.T, curPath string) (lifecycle.Upgrader, db.Operator) {
	t.Helper()
	op := database.New()
	require.NoError(t, op.Connect(context.Background(), curPath))
	t.Cleanup(func() { op.Close() })

	cfg := iotest.GetTestConfig(curPath)
	return upgrade.New(
		op, cfg, schemacheck.New(), maintain.New(op, cfg),
	), op
}

func TestUpgradeSucceeds(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	curPath, candPath, curDB := newUpgradeFixture(t)
	upg, _ := newUpgrader(t, curPath)

	var reviewed *lifecycle.UpgradeSummary
	report, err := upg.Upgrade(
		context.Background(), candPath,
		func(s *lifecycle.UpgradeSummary) lifecycle.Action {
			reviewed = s
			return lifecycle.Proceed
		},
	)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, lifecycle.OutcomeSucceeded, report.Outcome)
	assert.Equal(t, 1, report.Reassigned)
	assert.Equal(t, 0, report.Invalid)
	assert.NotEmpty(t, report.RunID)

	require.NotNil(t, reviewed)
	assert.Len(t, reviewed.Replacements, 1)
	assert.Len(t, reviewed.Changes, 1)

	// the taxonomy tables now hold the candidate's rows
	var name string
	require.NoError(t, curDB.QueryRow(
		"SELECT unit_name1 FROM taxonomic_units WHERE tsn = 200").Scan(&name))
	assert.Equal(t, "Packera", name)

	var usage string
	require.NoError(t, curDB.QueryRow(
		"SELECT name_usage FROM taxonomic_units WHERE tsn = 300").Scan(&usage))
	assert.Equal(t, "not accepted", usage)

	// every dependent table was rewritten to the replacement identifier
	var tsn int64
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM sc_samples WHERE sampleid = 3").Scan(&tsn))
	assert.Equal(t, int64(400), tsn)
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM mntaxa").Scan(&tsn))
	assert.Equal(t, int64(400), tsn)

	// untouched references stay put
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM sc_samples WHERE sampleid = 1").Scan(&tsn))
	assert.Equal(t, int64(100), tsn)

	// maintenance recomputed the sort order from the new hierarchy
	var seq int64
	require.NoError(t, curDB.QueryRow(
		"SELECT phylo_sort_seq FROM taxonomic_units WHERE tsn = 100").
		Scan(&seq))
	assert.Equal(t, int64(1), seq)
}

func TestUpgradeMigrationRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	curPath, candPath, curDB := newUpgradeFixture(t)
	// A referenced taxon the candidate dropped entirely. The copied
	// tables cannot satisfy the sample's reference, so the integrity
	// check must abort the swap.
	iotest.InsertTaxon(t, curDB, iotest.TaxonRow{
		TSN: 500, Name1: "Rudbeckia", Name2: "hirta", RankID: 220,
	})
	iotest.InsertSample(t, curDB, 4, 500)

	upg, _ := newUpgrader(t, curPath)
	var reviewed *lifecycle.UpgradeSummary
	report, err := upg.Upgrade(
		context.Background(), candPath,
		func(s *lifecycle.UpgradeSummary) lifecycle.Action {
			reviewed = s
			return lifecycle.Proceed
		},
	)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.UpgradeIntegrityError, gnErr.Code)
	require.NotNil(t, report)
	assert.Equal(t, lifecycle.OutcomeFailed, report.Outcome)
	assert.NotEmpty(t, report.Cause)

	require.NotNil(t, reviewed)
	require.Len(t, reviewed.Invalid, 1)
	assert.Equal(t, int64(500), reviewed.Invalid[0].ID)

	// the rollback restored every pre-migration row
	var count int
	require.NoError(t, curDB.QueryRow(
		"SELECT count(*) FROM taxonomic_units").Scan(&count))
	assert.Equal(t, 4, count)

	var name string
	require.NoError(t, curDB.QueryRow(
		"SELECT unit_name1 FROM taxonomic_units WHERE tsn = 200").Scan(&name))
	assert.Equal(t, "Senecio", name)

	var tsn int64
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM sc_samples WHERE sampleid = 3").Scan(&tsn))
	assert.Equal(t, int64(300), tsn)
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM sc_samples WHERE sampleid = 4").Scan(&tsn))
	assert.Equal(t, int64(500), tsn)
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM mntaxa").Scan(&tsn))
	assert.Equal(t, int64(300), tsn)
}

func TestUpgradeAborted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	curPath, candPath, curDB := newUpgradeFixture(t)
	upg, _ := newUpgrader(t, curPath)

	report, err := upg.Upgrade(
		context.Background(), candPath,
		func(*lifecycle.UpgradeSummary) lifecycle.Action {
			return lifecycle.Abort
		},
	)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, lifecycle.OutcomeAborted, report.Outcome)
	assert.Zero(t, report.Reassigned)
	assert.Zero(t, report.Invalid)

	// zero mutation: old names and references are intact
	var name string
	require.NoError(t, curDB.QueryRow(
		"SELECT unit_name1 FROM taxonomic_units WHERE tsn = 200").Scan(&name))
	assert.Equal(t, "Senecio", name)

	var tsn int64
	require.NoError(t, curDB.QueryRow(
		"SELECT tsn FROM sc_samples WHERE sampleid = 3").Scan(&tsn))
	assert.Equal(t, int64(300), tsn)
}

func TestUpgradeNoChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	curPath, curDB := iotest.NewTaxonomyFile(t, "current.sqlite")
	iotest.CreateCollectionTables(t, curDB)
	iotest.InsertTaxon(t, curDB, iotest.TaxonRow{
		TSN: 100, Name1: "Asclepias", Name2: "tuberosa", RankID: 220,
	})
	iotest.InsertSample(t, curDB, 1, 100)

	candPath, candDB := iotest.NewTaxonomyFile(t, "candidate.sqlite")
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 100, Name1: "Asclepias", Name2: "tuberosa", RankID: 220,
	})

	upg, _ := newUpgrader(t, curPath)
	report, err := upg.Upgrade(context.Background(), candPath, nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, lifecycle.OutcomeNoChanges, report.Outcome)
}

func TestUpgradeIncompatibleCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	curPath, _, curDB := newUpgradeFixture(t)
	candPath, candDB := iotest.NewTaxonomyFile(t, "broken.sqlite")
	_, err := candDB.Exec("DROP TABLE synonym_links")
	require.NoError(t, err)

	upg, _ := newUpgrader(t, curPath)
	report, err := upg.Upgrade(
		context.Background(), candPath,
		func(*lifecycle.UpgradeSummary) lifecycle.Action {
			t.Fatal("review must not run when the schema check fails")
			return lifecycle.Abort
		},
	)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, lifecycle.OutcomeFailed, report.Outcome)
	assert.NotEmpty(t, report.Cause)

	// the failed check left the database alone
	var count int
	require.NoError(t, curDB.QueryRow(
		"SELECT count(*) FROM taxonomic_units").Scan(&count))
	assert.Equal(t, 3, count)
}
