package namematch

import (
	"context"
	"log/slog"

	nmatch "github.com/quotidian-org/seedtaxa/pkg/namematch"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// ApplyNativeStatus folds the payload codes of matched rows per taxon
// and replaces the native-status table with the folded set. Several
// input rows can resolve to the same taxon; their statuses combine with
// Native dominating and Unknown as identity.
func (m *matcher) ApplyNativeStatus(
	ctx context.Context, res *nmatch.Result,
) (int, error) {
	folded := make(map[int64]taxonomy.NativeStatus)
	for _, o := range res.Matched() {
		status, err := taxonomy.ParseNativeStatus(o.Record.Payload())
		if err != nil {
			slog.Warn("Ignoring unknown native status code",
				"line", o.Record.Line, "code", o.Record.Payload())
			continue
		}
		if prev, ok := folded[o.Taxon.ID]; ok {
			folded[o.Taxon.ID] = taxonomy.CombineStatus(prev, status)
		} else {
			folded[o.Taxon.ID] = status
		}
	}
	if len(folded) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(folded)*2)
	for id, status := range folded {
		args = append(args, id, status.Code())
	}

	tx, err := m.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, applyError("mntaxa", err)
	}
	defer tx.Rollback()

	// The table is replaced wholesale: each list is the full statement
	// of which taxa carry a status.
	if _, err = tx.ExecContext(ctx, "DELETE FROM mntaxa"); err != nil {
		return 0, applyError("mntaxa", err)
	}
	for i := 0; i < len(args); i += m.batchSize * 2 {
		end := i + m.batchSize*2
		if end > len(args) {
			end = len(args)
		}
		batch := args[i:end]
		q := "INSERT INTO mntaxa (tsn, native_status) VALUES " +
			pairValues(len(batch) / 2)
		if _, err = tx.ExecContext(ctx, q, batch...); err != nil {
			return 0, applyError("mntaxa", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, applyError("mntaxa", err)
	}

	slog.Info("Native statuses written", "taxa", len(folded))
	return len(folded), nil
}
