package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/resolve"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

func getFindCmd() *cobra.Command {
	var (
		id         int64
		rankName   string
		genus      string
		species    string
		anyName    string
		withStatus bool
		limit      int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Lists taxa matching the given filters",
		Long: `Lists accepted taxa from the reference taxonomy, filtered by any
combination of identifier, rank, genus, species, or a loose substring
search over scientific and common names. Filters combine with AND.

Examples:
  seedtaxa find --genus Asclepias
  seedtaxa find --rank species --any milkweed
  seedtaxa find --with-status --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			filter := taxonomy.And()
			if cmd.Flags().Changed("id") {
				filter.Add(taxonomy.ByID(id))
			}
			if rankName != "" {
				rank, ok := taxonomy.ParseRank(rankName)
				if !ok {
					err := fmt.Errorf("unknown rank %q", rankName)
					gn.PrintErrorMessage(err)
					return err
				}
				filter.Add(taxonomy.ByRank(rank))
			}
			if genus != "" {
				filter.Add(taxonomy.GenusIs(genus))
			}
			if species != "" {
				filter.Add(taxonomy.SpeciesIs(species))
			}
			if anyName != "" {
				filter.Add(taxonomy.AnyName(anyName))
			}
			if withStatus {
				filter.Add(taxonomy.HasNativeStatus(true))
			}

			var limitSpec *taxonomy.LimitSpec
			if limit > 0 {
				limitSpec = &taxonomy.LimitSpec{Count: limit, Offset: offset}
			}

			op := database.New()
			if err := op.Connect(ctx, cfg.Database.Path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			resolver := resolve.New(op.DB(), cfg)
			taxa, err := resolver.LoadTaxa(ctx, filter, limitSpec)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if len(taxa) == 0 {
				gn.Warn("No taxa match the given filters.")
				return nil
			}
			for _, taxon := range taxa {
				line := fmt.Sprintf("%d: %s", taxon.ID, taxon.CompleteName)
				if taxon.NativeStatus != nil {
					line += fmt.Sprintf(" [%s]", taxon.NativeStatus)
				}
				if len(taxon.Vernaculars) > 0 {
					line += " (" + strings.Join(taxon.Vernaculars, ", ") + ")"
				}
				fmt.Println(line)
			}
			fmt.Printf("%d records found\n", len(taxa))
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64Var(&id, "id", 0, "taxon identifier")
	f.StringVar(&rankName, "rank", "",
		"rank name (genus, species, variety, ...)")
	f.StringVar(&genus, "genus", "", "genus name")
	f.StringVar(&species, "species", "", "species epithet")
	f.StringVar(&anyName, "any", "",
		"substring matched against scientific and common names")
	f.BoolVar(&withStatus, "with-status", false,
		"only taxa with a recorded native status")
	f.IntVar(&limit, "limit", 0, "maximum number of rows")
	f.IntVar(&offset, "offset", 0, "rows to skip (with --limit)")
	return cmd
}
