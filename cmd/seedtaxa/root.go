package main

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/config"
	pkgconfig "github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/logger"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "seedtaxa",
		Short: "seedtaxa reconciles a seed collection with its reference taxonomy",
		Long: `seedtaxa manages the reference taxonomy embedded in a personal
seed-collection database. Taxonomy snapshots go stale: names get merged,
split and renamed, and the stable-looking numeric identifiers the
collection references are reassigned between releases.

The tool covers the full lifecycle:
  - init:     create the collection tables inside a fresh taxonomy snapshot
  - check:    verify a new snapshot is structurally compatible
  - upgrade:  migrate the collection onto a new snapshot, reassigning
              identifiers through synonym links, with review before commit
  - match:    match species lists (native status, germination codes)
              against the taxonomy and record the results
  - resolve:  look up a free-text scientific name
  - find:     list taxa by identifier, rank, name, or native status
  - maintain: prune non-plant taxa and restore the phylogenetic order

Configuration precedence (highest to lowest):
  1. CLI flags (--db, --log-level, ...)
  2. Config file (seedtaxa.yaml)
  3. Built-in defaults`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run
			if cfgFile == "" {
				exists, err := config.FileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}
				if !exists {
					path, err := config.GenerateDefaultConfig()
					if err != nil {
						gn.Warn("Could not generate config file: %s", err)
					} else {
						gn.Info("Generated default config at <em>%s</em>", path)
					}
				}
			}

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg, err = config.BindFlags(cmd, cfg)
			if err != nil {
				return err
			}
			return logger.Init(&cfg.Log)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "",
		"config file (default: ./seedtaxa.yaml or ~/.config/seedtaxa/seedtaxa.yaml)")
	pf.String("db", "",
		"path of the collection SQLite database")
	pf.String("log-level", "",
		"log level (debug/info/warn/error)")
	pf.String("log-format", "",
		"log format (text/json)")
	pf.String("log-destination", "",
		"log destination (stdout/stderr or a file path)")

	rootCmd.Flags().BoolP("version", "V", false, "version for seedtaxa")

	rootCmd.AddCommand(getInitCmd())
	rootCmd.AddCommand(getCheckCmd())
	rootCmd.AddCommand(getUpgradeCmd())
	rootCmd.AddCommand(getMatchCmd())
	rootCmd.AddCommand(getResolveCmd())
	rootCmd.AddCommand(getFindCmd())
	rootCmd.AddCommand(getMaintainCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *pkgconfig.Config {
	return cfg
}
