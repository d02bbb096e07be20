package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	ionamematch "github.com/quotidian-org/seedtaxa/internal/io/namematch"
	"github.com/quotidian-org/seedtaxa/internal/io/resolve"
	"github.com/quotidian-org/seedtaxa/pkg/parserpool"
)

func getResolveCmd() *cobra.Command {
	var showOptions bool

	cmd := &cobra.Command{
		Use:   "resolve <scientific name>",
		Short: "Looks up a scientific name in the taxonomy",
		Long: `Looks up a free-text scientific name and prints the accepted taxon it
resolves to. The name is parsed into its components first, so authors
and rank abbreviations are handled:

  seedtaxa resolve "Asclepias tuberosa"
  seedtaxa resolve "Andropogon gerardii Vitman"
  seedtaxa resolve "Packera aurea var. aurea"

Names that are no longer accepted resolve through synonym links; the
output marks such matches with an asterisk.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()
			text := strings.Join(args, " ")

			pool := parserpool.NewPool(1)
			defer pool.Close()

			name, err := ionamematch.ParseFreeText(pool, text)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			op := database.New()
			if err = op.Connect(ctx, cfg.Database.Path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			resolver := resolve.New(op.DB(), cfg)
			match, err := resolver.Resolve(ctx, name)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			if match != nil {
				cnames := "no common name known"
				if len(match.Taxon.Vernaculars) > 0 {
					cnames = strings.Join(match.Taxon.Vernaculars, ", ")
				}
				prefix := ""
				if match.ViaSynonym {
					prefix = "*"
				}
				fmt.Printf("%s%s is <%d> %s (%s)\n",
					prefix, name.String(), match.Taxon.ID,
					match.Taxon.CompleteName, cnames)
				return nil
			}

			if !showOptions {
				gn.Warn(`Unable to find an exact match for <em>%s</em>.
Pass <em>--show-options</em> to view possible matches.`, name.String())
				return nil
			}
			candidates, err := resolver.Possibilities(ctx, name)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if len(candidates) == 0 {
				gn.Warn("Unable to find species <em>%s</em>", name.String())
				return nil
			}
			fmt.Printf("Possibilities for '%s':\n", name.String())
			for _, c := range candidates {
				fmt.Printf("  - %d: %s\n", c.ID, c.CompleteName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOptions, "show-options", false,
		"list loose candidates when no exact match exists")
	return cmd
}
