package namematch

import (
	"context"
	"log/slog"

	nmatch "github.com/quotidian-org/seedtaxa/pkg/namematch"
)

// ApplyGermination associates every matched taxon with the germination
// code named by its payload column. An unknown code is a data error
// that aborts the batch before anything is written.
func (m *matcher) ApplyGermination(
	ctx context.Context, res *nmatch.Result,
) (int, error) {
	codes, err := m.germinationCodes(ctx)
	if err != nil {
		return 0, err
	}

	type pair struct{ tsn, germID int64 }
	var pairs []pair
	for _, o := range res.Matched() {
		code := o.Record.Payload()
		germID, ok := codes[code]
		if !ok {
			return 0, unknownCodeError(code, o.Record.Line)
		}
		pairs = append(pairs, pair{tsn: o.Taxon.ID, germID: germID})
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	tx, err := m.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, applyError("sc_taxon_germination", err)
	}
	defer tx.Rollback()

	var inserted int64
	for i := 0; i < len(pairs); i += m.batchSize {
		end := i + m.batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batch := pairs[i:end]
		args := make([]any, 0, len(batch)*2)
		for _, p := range batch {
			args = append(args, p.tsn, p.germID)
		}
		// Several input rows can resolve to the same taxon, so the
		// same taxon/code pair may repeat. OR IGNORE drops the
		// duplicates instead of failing the unique constraint.
		q := "INSERT OR IGNORE INTO sc_taxon_germination (tsn, germid) VALUES " +
			pairValues(len(batch))
		r, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, applyError("sc_taxon_germination", err)
		}
		n, _ := r.RowsAffected()
		inserted += n
	}
	if err = tx.Commit(); err != nil {
		return 0, applyError("sc_taxon_germination", err)
	}

	slog.Info("Germination codes written",
		"matched", len(pairs), "inserted", inserted)
	return int(inserted), nil
}

func (m *matcher) germinationCodes(
	ctx context.Context,
) (map[string]int64, error) {
	rows, err := m.operator.DB().QueryContext(ctx,
		"SELECT germid, code FROM sc_germination_codes",
	)
	if err != nil {
		return nil, readError("sc_germination_codes", err)
	}
	defer rows.Close()

	codes := make(map[string]int64)
	for rows.Next() {
		var id int64
		var code string
		if err = rows.Scan(&id, &code); err != nil {
			return nil, readError("sc_germination_codes", err)
		}
		codes[code] = id
	}
	return codes, rows.Err()
}
