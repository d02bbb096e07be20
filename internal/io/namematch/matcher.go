// Package namematch implements the species-list matcher: it drives the
// synonym resolver across every row of a list and writes the matched
// taxa back into the collection tables.
package namematch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"

	"github.com/quotidian-org/seedtaxa/pkg/config"
	"github.com/quotidian-org/seedtaxa/pkg/db"
	"github.com/quotidian-org/seedtaxa/pkg/errcode"
	nmatch "github.com/quotidian-org/seedtaxa/pkg/namematch"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

type matcher struct {
	operator  db.Operator
	resolver  taxonomy.Resolver
	batchSize int
}

// New creates a Matcher over the connected collection database. Writes
// are batched in bulk inserts of cfg.Database.BatchSize rows.
func New(
	op db.Operator, cfg *config.Config, res taxonomy.Resolver,
) nmatch.Matcher {
	bs := cfg.Database.BatchSize
	if bs < 1 {
		bs = 1
	}
	return &matcher{operator: op, resolver: res, batchSize: bs}
}

// pairValues builds the VALUES clause for a bulk two-column insert.
func pairValues(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "(?, ?)"
	}
	return strings.Join(parts, ", ")
}

func (m *matcher) MatchList(
	ctx context.Context,
	layout nmatch.Layout,
	header []string,
	recs []nmatch.Record,
	withPossibilities bool,
) (*nmatch.Result, error) {
	if err := layout.Validate(header); err != nil {
		return nil, layoutError(err)
	}

	gn.Info("Analyzing species list and matching against the taxonomy...")
	bar := pb.Full.Start(len(recs))
	bar.Set("prefix", "Matching names: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	res := &nmatch.Result{Outcomes: make([]nmatch.RowOutcome, 0, len(recs))}
	for _, rec := range recs {
		outcome, err := m.matchRecord(ctx, rec, withPossibilities)
		if err != nil {
			return nil, err
		}
		res.Outcomes = append(res.Outcomes, *outcome)
		bar.Increment()
	}

	slog.Info("Species list processed",
		"rows", len(recs),
		"matched", res.Count(nmatch.Matched),
		"synonyms", res.Count(nmatch.MatchedSynonym),
		"skipped", res.Count(nmatch.Skipped),
		"unresolved", res.Count(nmatch.Unresolved),
	)
	return res, nil
}

func (m *matcher) matchRecord(
	ctx context.Context, rec nmatch.Record, withPossibilities bool,
) (*nmatch.RowOutcome, error) {
	outcome := &nmatch.RowOutcome{Record: rec}

	if rec.Blank() {
		slog.Warn("Skipping row with empty genus and species",
			"line", rec.Line)
		outcome.Kind = nmatch.Skipped
		outcome.Reason = "empty genus and species"
		return outcome, nil
	}
	name := rec.Name()
	if rec.Hybrid() {
		slog.Warn("Skipping hybrid", "line", rec.Line, "name", name.String())
		outcome.Kind = nmatch.Skipped
		outcome.Reason = "hybrid"
		return outcome, nil
	}

	match, err := m.resolver.Resolve(ctx, name)
	if err != nil {
		// Ambiguity is a property of the row's name, not of the batch.
		// The row is reported unresolved and processing continues.
		var gnErr *gn.Error
		if errors.As(err, &gnErr) &&
			gnErr.Code == errcode.ResolverAmbiguousError {
			slog.Warn("Name is ambiguous in the taxonomy",
				"line", rec.Line, "name", name.String())
			outcome.Kind = nmatch.Unresolved
			outcome.Reason = "ambiguous"
			return outcome, nil
		}
		return nil, err
	}

	if match != nil {
		outcome.Taxon = &match.Taxon
		if match.ViaSynonym {
			slog.Debug("Matched via synonym", "line", rec.Line,
				"name", name.String(), "accepted", match.Taxon.CompleteName)
			outcome.Kind = nmatch.MatchedSynonym
		} else {
			outcome.Kind = nmatch.Matched
		}
		return outcome, nil
	}

	outcome.Kind = nmatch.Unresolved
	if withPossibilities {
		outcome.Possibilities, err = m.resolver.Possibilities(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	slog.Warn("Unable to find an exact match",
		"line", rec.Line, "name", name.String())
	return outcome, nil
}
