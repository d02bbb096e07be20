package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
)

func TestOperatorConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "collection.sqlite")
	op := database.New()
	ctx := context.Background()

	err := op.Connect(ctx, path)
	require.NoError(t, err)
	defer op.Close()

	require.NotNil(t, op.DB())

	// foreign keys are enforced on fresh connections
	var fk int
	err = op.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk)
}

func TestOperatorForeignKeysOnEveryConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "collection.sqlite")
	op := database.New()
	ctx := context.Background()

	require.NoError(t, op.Connect(ctx, path))
	defer op.Close()

	// Holding both connections at once forces the pool to open a second
	// one; the pragma must be set on each, not just the first.
	conn1, err := op.DB().Conn(ctx)
	require.NoError(t, err)
	defer conn1.Close()
	conn2, err := op.DB().Conn(ctx)
	require.NoError(t, err)
	defer conn2.Close()

	var fk int
	require.NoError(t,
		conn1.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
	require.NoError(t,
		conn2.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOperatorConnectBadPath(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := database.New()
	err := op.Connect(
		context.Background(),
		filepath.Join(t.TempDir(), "missing", "nested", "db.sqlite"),
	)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
}

func TestOperatorTableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "collection.sqlite")
	op := database.New()
	ctx := context.Background()

	require.NoError(t, op.Connect(ctx, path))
	defer op.Close()

	exists, err := op.TableExists(ctx, "sc_samples")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = op.DB().Exec("CREATE TABLE sc_samples (sampleid INTEGER)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "sc_samples")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOperatorNotConnected(t *testing.T) {
	op := database.New()
	_, err := op.TableExists(context.Background(), "sc_samples")
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestOperatorTableNames(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "collection.sqlite")
	op := database.New()
	ctx := context.Background()

	require.NoError(t, op.Connect(ctx, path))
	defer op.Close()

	for _, ddl := range []string{
		"CREATE TABLE zeta (id INTEGER)",
		"CREATE TABLE alpha (id INTEGER PRIMARY KEY AUTOINCREMENT)",
	} {
		_, err := op.DB().Exec(ddl)
		require.NoError(t, err)
	}

	names, err := op.TableNames(ctx, "main")
	require.NoError(t, err)
	// sorted, and the sqlite_sequence bookkeeping table is filtered out
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}
