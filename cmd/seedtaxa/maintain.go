package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/maintain"
)

func getMaintainCmd() *cobra.Command {
	var (
		pruneOnly   bool
		reorderOnly bool
	)

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Prunes non-plant taxa and restores the phylogenetic order",
		Long: `Runs the database housekeeping steps: deletes taxonomy rows outside
the kingdom of interest (reclaiming most of a full snapshot's size) and
recomputes the phylogenetic sort order from the hierarchy strings.

Both steps are idempotent and run automatically at the end of
'seedtaxa init' and 'seedtaxa upgrade'; run them standalone after
manual database surgery.

Examples:
  seedtaxa maintain
  seedtaxa maintain --reorder-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			op := database.New()
			if err := op.Connect(ctx, cfg.Database.Path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			m := maintain.New(op, cfg)
			var err error
			switch {
			case pruneOnly:
				err = m.Prune(ctx)
			case reorderOnly:
				err = m.Reorder(ctx)
			default:
				err = m.Maintain(ctx)
			}
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			gn.Info("<em>✓ Maintenance complete.</em>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&pruneOnly, "prune-only", false,
		"only prune taxa outside the kingdom of interest")
	cmd.Flags().BoolVar(&reorderOnly, "reorder-only", false,
		"only recompute the phylogenetic sort order")
	cmd.MarkFlagsMutuallyExclusive("prune-only", "reorder-only")
	return cmd
}
