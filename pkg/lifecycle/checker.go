package lifecycle

import "context"

// SchemaChecker verifies that every table the candidate database defines
// has a structurally identical definition in the current database.
// The comparison works on parsed table structures, not raw SQL text, so
// formatting differences do not matter. Any mismatch fails the whole
// upgrade before data is touched.
type SchemaChecker interface {
	// Check compares the two database files table by table. It returns
	// nil when every candidate table exists in the current database
	// with the same structure, and an error naming the first offending
	// table otherwise.
	Check(ctx context.Context, currentPath, candidatePath string) error
}
