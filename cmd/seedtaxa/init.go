package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/maintain"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
	"github.com/quotidian-org/seedtaxa/pkg/schema"
)

func getInitCmd() *cobra.Command {
	var skipMaintain bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initializes a collection database from a taxonomy snapshot",
		Long: `Initializes a fresh collection database. The database file must already
hold a reference taxonomy snapshot; init creates the collection's own
tables inside it (samples, germination codes, native statuses), prunes
the taxa outside the kingdom of interest and computes the phylogenetic
ordering.

Examples:
  seedtaxa --db ITIS.sqlite init
  seedtaxa --db ITIS.sqlite init --skip-maintenance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			op := database.New()
			if err := op.Connect(ctx, cfg.Database.Path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			// The taxonomy tables must be present; refuse to turn an
			// arbitrary SQLite file into a collection.
			exists, err := op.TableExists(ctx, schema.TableTaxonomicUnits)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if !exists {
				err = taxonomyMissingError(cfg.Database.Path)
				gn.PrintErrorMessage(err)
				return err
			}

			for _, model := range schema.CollectionModels() {
				if _, err = op.DB().ExecContext(ctx, model.TableDDL()); err != nil {
					gn.PrintErrorMessage(err)
					return err
				}
				for _, idx := range model.IndexDDL() {
					if _, err = op.DB().ExecContext(ctx, idx); err != nil {
						gn.PrintErrorMessage(err)
						return err
					}
				}
			}
			gn.Info("Collection tables created in <em>%s</em>.",
				cfg.Database.Path)

			if !skipMaintain {
				if err = maintain.New(op, cfg).Maintain(ctx); err != nil {
					gn.PrintErrorMessage(err)
					return err
				}
			}

			gn.Info(`<em>✓ The collection database is ready.</em>
Next steps:
  1. Match your species lists:  <em>seedtaxa match native-status list.csv</em>
  2. Look up names:             <em>seedtaxa resolve "Asclepias tuberosa"</em>`)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMaintain, "skip-maintenance", false,
		"do not prune non-plant taxa or recompute ordering")
	return cmd
}

func taxonomyMissingError(path string) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaTableMissingError,
		Msg: `<em>%s</em> does not contain a reference taxonomy.
   Download a taxonomy snapshot first and point <em>--db</em> at it.`,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %s has no taxonomic_units table", fn, path),
	}
}
