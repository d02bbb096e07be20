package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"

	"github.com/quotidian-org/seedtaxa/internal/io/database"
	"github.com/quotidian-org/seedtaxa/internal/io/maintain"
	"github.com/quotidian-org/seedtaxa/internal/io/schemacheck"
	"github.com/quotidian-org/seedtaxa/internal/io/upgrade"
	"github.com/quotidian-org/seedtaxa/pkg/lifecycle"
)

func getUpgradeCmd() *cobra.Command {
	var (
		yes        bool
		jsonReport bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade <candidate.sqlite>",
		Short: "Migrates the collection onto a new taxonomy snapshot",
		Long: `Migrates the collection database onto a candidate reference-taxonomy
snapshot. The command checks schema compatibility, computes every
change the swap would cause (renames, identifier reassignments,
invalidations), and shows them for review before anything is written.

The migration itself is transactional: either the whole taxonomy is
swapped and every collection reference rewritten, or nothing changes.
After a successful swap the non-plant taxa are pruned and the
phylogenetic ordering is recomputed.

Examples:
  # Review changes interactively, then upgrade
  seedtaxa upgrade ITIS-2026.sqlite

  # Non-interactive (for scripts); print the report as JSON
  seedtaxa upgrade --yes --json ITIS-2026.sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			op := database.New()
			if err := op.Connect(ctx, cfg.Database.Path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			upgrader := upgrade.New(
				op, cfg, schemacheck.New(), maintain.New(op, cfg),
			)

			review := reviewInteractive
			if yes {
				review = reviewAuto
			}
			report, err := upgrader.Upgrade(ctx, args[0], review)
			if err != nil {
				gn.PrintErrorMessage(err)
				if report == nil {
					return err
				}
			}
			if report != nil {
				printReport(report, jsonReport)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false,
		"proceed without interactive review (for scripting)")
	cmd.Flags().BoolVar(&jsonReport, "json", false,
		"print the final report as JSON")

	return cmd
}

// reviewInteractive renders the summary and asks for confirmation.
func reviewInteractive(summary *lifecycle.UpgradeSummary) lifecycle.Action {
	renderSummary(summary)
	if summary.IsEmpty() {
		gn.Info("No taxonomy changes affect the collection.")
	}
	fmt.Print("\nProceed with the database upgrade? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return lifecycle.Abort
	}
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "yes" && response != "y" {
		fmt.Println("Aborted. No changes made to the database.")
		return lifecycle.Abort
	}
	return lifecycle.Proceed
}

// reviewAuto renders the summary and proceeds without asking.
func reviewAuto(summary *lifecycle.UpgradeSummary) lifecycle.Action {
	renderSummary(summary)
	return lifecycle.Proceed
}

func renderSummary(summary *lifecycle.UpgradeSummary) {
	for _, tc := range summary.Changes {
		fmt.Printf("Taxon '%s' changed:\n", tc.Taxon.CompleteName)
		for _, pc := range tc.Changes {
			fmt.Printf(" - Field '%s' changed from '%s' to '%s'\n",
				pc.Property, pc.OldValue, pc.NewValue)
		}
	}
	for _, rep := range summary.Replacements {
		fmt.Printf("Taxon '%s' (%d) will be changed to '%s' (%d)\n",
			rep.Old.CompleteName, rep.Old.ID,
			rep.New.CompleteName, rep.New.ID)
	}
	for _, inv := range summary.Invalid {
		gn.Warn("Taxon <em>%s</em> (%d) has no replacement and will keep "+
			"its old identifier", inv.CompleteName, inv.ID)
	}
	fmt.Printf("\nChanged: %s, reassigned: %s, without replacement: %s\n",
		humanize.Comma(int64(len(summary.Changes))),
		humanize.Comma(int64(len(summary.Replacements))),
		humanize.Comma(int64(len(summary.Invalid))),
	)
}

func printReport(report *lifecycle.Report, asJSON bool) {
	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(report)
		if err == nil {
			fmt.Println(string(out))
		}
		return
	}

	switch report.Outcome {
	case lifecycle.OutcomeSucceeded, lifecycle.OutcomeNoChanges:
		gn.Info(`<em>✓ Upgrade %s.</em>
Reassigned taxa: %d, without replacement: %d (run %s)`,
			report.Outcome.String(), report.Reassigned, report.Invalid,
			report.RunID)
	case lifecycle.OutcomeAborted:
		gn.Info("Upgrade %s. The database was not modified.",
			report.Outcome.String())
	default:
		gn.Warn("Upgrade %s: %s", report.Outcome.String(), report.Cause)
	}
}
