package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	iotest "github.com/quotidian-org/seedtaxa/internal/io/testing"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func TestSessionAttachDetach(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	mainPath := filepath.Join(t.TempDir(), "collection.sqlite")
	candPath, candDB := iotest.NewTaxonomyFile(t, "candidate.sqlite")
	iotest.InsertTaxon(t, candDB, iotest.TaxonRow{
		TSN: 36984, Name1: "Asclepias", Name2: "tuberosa", RankID: 220,
	})

	op := database.New()
	ctx := context.Background()
	require.NoError(t, op.Connect(ctx, mainPath))
	defer op.Close()

	session, err := database.NewSession(ctx, op, candPath)
	require.NoError(t, err)

	// both schemas are visible through the session connection
	var count int
	err = session.Conn().QueryRowContext(
		ctx,
		"SELECT count(*) FROM newdb.taxonomic_units",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, session.Close(ctx))
	// closing twice is a no-op
	require.NoError(t, session.Close(ctx))
}

func TestSessionAttachMissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	mainPath := filepath.Join(t.TempDir(), "collection.sqlite")
	op := database.New()
	ctx := context.Background()
	require.NoError(t, op.Connect(ctx, mainPath))
	defer op.Close()

	// attaching a path in a nonexistent directory fails
	_, err := database.NewSession(
		ctx, op, filepath.Join(t.TempDir(), "no", "such", "dir.sqlite"),
	)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBAttachError, gnErr.Code)
}

func TestSessionForeignKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	mainPath := filepath.Join(t.TempDir(), "collection.sqlite")
	candPath, _ := iotest.NewTaxonomyFile(t, "candidate.sqlite")

	op := database.New()
	ctx := context.Background()
	require.NoError(t, op.Connect(ctx, mainPath))
	defer op.Close()

	session, err := database.NewSession(ctx, op, candPath)
	require.NoError(t, err)
	defer session.Close(ctx)

	require.NoError(t, session.DisableForeignKeys(ctx))
	var fk int
	err = session.Conn().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 0, fk)

	require.NoError(t, session.EnableForeignKeys(ctx))
	err = session.Conn().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk)
}

func TestSessionNotConnected(t *testing.T) {
	op := database.New()
	_, err := database.NewSession(context.Background(), op, "candidate.sqlite")
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
