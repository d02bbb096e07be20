package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/schemacheck"
)

func getCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <candidate.sqlite>",
		Short: "Checks a candidate taxonomy snapshot for compatibility",
		Long: `Checks that a candidate reference-taxonomy snapshot is structurally
compatible with the current collection database. Every table the
candidate defines must exist in the current database with an identical
structure.

This is the same check 'seedtaxa upgrade' runs before touching any
data; run it standalone to vet a downloaded snapshot.

Examples:
  seedtaxa check ITIS-new.sqlite
  seedtaxa --db my-collection.sqlite check ITIS-new.sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			checker := schemacheck.New()
			err := checker.Check(ctx, cfg.Database.Path, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			gn.Info(`<em>✓ The candidate database is compatible.</em>
Run <em>seedtaxa upgrade %s</em> to migrate onto it.`, args[0])
			return nil
		},
	}
	return cmd
}
