package lifecycle

import "context"

// Maintainer performs the idempotent post-migration maintenance steps:
// pruning taxonomy rows outside the kingdom of interest and recomputing
// the phylogenetic display ordering. Both steps are safe to re-run and
// run only after a successful migration commit (or at initialization).
type Maintainer interface {
	// Prune deletes taxonomy rows (and their dependent hierarchy,
	// synonym, vernacular and comment rows) outside the configured
	// kingdom, then reclaims file space.
	Prune(ctx context.Context) error

	// Reorder recomputes the phylogenetic sort key for every taxon from
	// the hierarchy path string, assigning a dense ordering consistent
	// with the path's lexical order.
	Reorder(ctx context.Context) error

	// Maintain runs Prune then Reorder.
	Maintain(ctx context.Context) error
}
