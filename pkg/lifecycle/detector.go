package lifecycle

import "context"

// Detector computes the UpgradeSummary for a reconciliation pass: the
// taxa that become obsolete under the candidate database, the resolved
// replacement for each where one exists, and the field-level edits to
// taxa accepted in both databases. Detection is read-only and may run
// repeatedly without side effects.
type Detector interface {
	// Detect runs over a connection that has the candidate database
	// attached as the secondary schema. An empty summary is a valid
	// outcome.
	Detect(ctx context.Context) (*UpgradeSummary, error)
}
