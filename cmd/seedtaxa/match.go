package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	ionamematch "github.com/quotidian-org/seedtaxa/internal/io/namematch"
	"github.com/quotidian-org/seedtaxa/internal/io/resolve"
	"github.com/quotidian-org/seedtaxa/pkg/namematch"
)

func getMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Matches species lists against the taxonomy",
		Long: `Matches externally supplied species lists (CSV) against the reference
taxonomy and records the results in the collection database. Every row
is resolved by name, falling back to synonym links when a name is no
longer accepted.

Two list formats are supported:
  native-status:     records each taxon's native/introduced status
  germination-codes: associates taxa with germination codes`,
	}
	cmd.AddCommand(getMatchNativeStatusCmd())
	cmd.AddCommand(getMatchGerminationCmd())
	return cmd
}

func getMatchNativeStatusCmd() *cobra.Command {
	var (
		update      bool
		showOptions bool
	)

	cmd := &cobra.Command{
		Use:   "native-status <specieslist.csv>",
		Short: "Records native statuses from a species list",
		Long: `Matches a native-status species list against the taxonomy. Statuses of
rows that resolve to the same taxon are combined: Native dominates and
Unknown never overrides a known status. With --update the folded set
replaces the native-status table; without it the command only reports
what would be written.

Examples:
  seedtaxa match native-status state-flora.csv
  seedtaxa match native-status --update state-flora.csv
  seedtaxa match native-status --show-options state-flora.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(
				args[0], namematch.NativeStatusLayout, update, showOptions,
				func(ctx context.Context, m namematch.Matcher,
					res *namematch.Result,
				) (int, error) {
					return m.ApplyNativeStatus(ctx, res)
				},
			)
		},
	}

	cmd.Flags().BoolVar(&update, "update", false,
		"write the matched statuses to the database")
	cmd.Flags().BoolVar(&showOptions, "show-options", false,
		"list loose candidates for names that cannot be matched")
	return cmd
}

func getMatchGerminationCmd() *cobra.Command {
	var (
		update      bool
		showOptions bool
	)

	cmd := &cobra.Command{
		Use:   "germination-codes <specieslist.csv>",
		Short: "Records germination codes from a species list",
		Long: `Matches a germination-code species list against the taxonomy and
associates each matched taxon with the named germination code. The
codes must already exist in the collection's germination-code list.
Duplicate taxon/code pairs are ignored.

Examples:
  seedtaxa match germination-codes germ.csv
  seedtaxa match germination-codes --update germ.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(
				args[0], namematch.GerminationLayout, update, showOptions,
				func(ctx context.Context, m namematch.Matcher,
					res *namematch.Result,
				) (int, error) {
					return m.ApplyGermination(ctx, res)
				},
			)
		},
	}

	cmd.Flags().BoolVar(&update, "update", false,
		"write the matched codes to the database")
	cmd.Flags().BoolVar(&showOptions, "show-options", false,
		"list loose candidates for names that cannot be matched")
	return cmd
}

type applyFunc func(
	context.Context, namematch.Matcher, *namematch.Result,
) (int, error)

func runMatch(
	listPath string,
	layout namematch.Layout,
	update, showOptions bool,
	apply applyFunc,
) error {
	cfg := getConfig()
	ctx := context.Background()

	header, recs, err := readSpeciesList(listPath)
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
	matcher := ionamematch.New(op, cfg, resolver)

	res, err := matcher.MatchList(ctx, layout, header, recs, showOptions)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if showOptions {
		renderPossibilities(res)
	}

	matched := len(res.Matched())
	if matched == 0 {
		gn.Info("No taxa data to update in the database.")
		return nil
	}
	if !update {
		gn.Info(`Database update not requested. Matched <em>%d</em> taxa.
Run with <em>--update</em> to update the database.`, matched)
		return nil
	}

	gn.Info("Adding %d items to the database...", matched)
	n, err := apply(ctx, matcher, res)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("<em>✓ Database update complete:</em> %d records written.", n)
	return nil
}

func renderPossibilities(res *namematch.Result) {
	for _, o := range res.Outcomes {
		if o.Kind != namematch.Unresolved {
			continue
		}
		name := o.Record.Name()
		if len(o.Possibilities) == 0 {
			gn.Warn("Unable to find species <em>%s</em>", name.String())
			continue
		}
		fmt.Printf("Possibilities for '%s':\n", name.String())
		for _, c := range o.Possibilities {
			fmt.Printf("  - %d: %s\n", c.ID, c.CompleteName)
		}
	}
}

// readSpeciesList reads a CSV species list into a header row and data
// records with 1-based line numbers.
func readSpeciesList(path string) ([]string, []namematch.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open species list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read species list: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("species list %s is empty", path)
	}

	header := rows[0]
	recs := make([]namematch.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		recs = append(recs, namematch.Record{Line: i + 1, Fields: row})
	}
	return header, recs, nil
}
