package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ioconfig "github.com/quotidian-org/seedtaxa/internal/io/config"
	"github.com/quotidian-org/seedtaxa/pkg/config"
)

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seedtaxa.yaml")
	body := `database:
  path: /data/seeds.sqlite
  batch_size: 250
taxonomy:
  kingdom_id: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := ioconfig.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/data/seeds.sqlite", cfg.Database.Path)
	assert.Equal(t, 250, cfg.Database.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	// fields the file omits keep their defaults
	assert.Equal(t, []string{"English", "unspecified"}, cfg.Taxonomy.Languages)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := ioconfig.Load(
		filepath.Join(t.TempDir(), "does-not-exist.yaml"),
	)
	assert.Error(t, err)
}

func TestLoadInvalidValuesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seedtaxa.yaml")
	body := `log:
  level: loud
  format: xml
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := ioconfig.Load(path)
	require.NoError(t, err)

	// invalid values produce warnings, not a broken config
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seedtaxa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::bad {yaml"), 0644))

	_, err := ioconfig.Load(path)
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("db", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("log-format", "", "")
	cmd.Flags().String("log-destination", "", "")
	require.NoError(t, cmd.Flags().Set("db", "/tmp/flagged.sqlite"))
	require.NoError(t, cmd.Flags().Set("log-level", "warn"))

	cfg := config.New()
	cfg, err := ioconfig.BindFlags(cmd, cfg)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/flagged.sqlite", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	// unset flags change nothing
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)
}
