// Package lifecycle defines the contracts of the taxonomy reconciliation
// engine: schema checking, change detection, migration and post-migration
// maintenance. Implementations live in internal/io.
package lifecycle

import (
	"context"

	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// PropertyChange is one field-level difference found for a taxon that is
// accepted in both the current and the candidate database.
type PropertyChange struct {
	// Property is the column name of the changed field.
	Property string `json:"property"`
	// OldValue is the stringified value in the current database.
	OldValue string `json:"oldValue"`
	// NewValue is the stringified value in the candidate database.
	NewValue string `json:"newValue"`
}

// TaxonChange is a taxon together with its field-level differences.
type TaxonChange struct {
	Taxon   taxonomy.Taxon   `json:"taxon"`
	Changes []PropertyChange `json:"changes"`
}

// TaxonReplacement pairs a taxon that is obsolete in the candidate
// database with its resolved accepted replacement.
type TaxonReplacement struct {
	Old taxonomy.Taxon `json:"old"`
	New taxonomy.Taxon `json:"new"`
}

// UpgradeSummary holds the three disjoint result sets of one
// reconciliation pass. It is computed fresh for each upgrade invocation
// and never persisted.
type UpgradeSummary struct {
	// Changes lists taxa with field-level differences.
	Changes []TaxonChange `json:"changes"`
	// Replacements lists obsolete taxa with a resolved replacement.
	Replacements []TaxonReplacement `json:"replacements"`
	// Invalid lists obsolete taxa for which no replacement could be
	// resolved. These are surfaced to the operator and left as-is.
	Invalid []taxonomy.Taxon `json:"invalid"`
}

// IsEmpty reports whether the reconciliation pass found nothing to do.
func (s *UpgradeSummary) IsEmpty() bool {
	return len(s.Changes) == 0 &&
		len(s.Replacements) == 0 &&
		len(s.Invalid) == 0
}

// Action is the operator's decision after reviewing an UpgradeSummary.
type Action int

const (
	// Abort cancels the upgrade with zero mutation.
	Abort Action = iota
	// Proceed continues with the migration.
	Proceed
)

// ReviewFunc receives the summary of a reconciliation pass and decides
// whether to proceed. It is the only suspension point of the engine and
// may take arbitrarily long; no transaction is held open across it.
type ReviewFunc func(*UpgradeSummary) Action

// Outcome classifies the final state of an upgrade invocation.
type Outcome int

const (
	// OutcomeNoChanges means the pass found nothing to migrate; the
	// taxonomy swap and maintenance still ran.
	OutcomeNoChanges Outcome = iota
	// OutcomeAborted means the operator canceled; nothing was mutated.
	OutcomeAborted
	// OutcomeFailed means the migration failed and was rolled back.
	OutcomeFailed
	// OutcomeSucceeded means the migration committed.
	OutcomeSucceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoChanges:
		return "no changes needed"
	case OutcomeAborted:
		return "aborted by operator"
	case OutcomeFailed:
		return "migration failed"
	default:
		return "migration succeeded"
	}
}

// Report is the final, user-visible account of one upgrade invocation.
type Report struct {
	// RunID identifies the reconciliation pass in audit logs.
	RunID   string  `json:"runId"`
	Outcome Outcome `json:"outcome"`
	// Reassigned is the number of taxa whose identifiers were rewritten.
	Reassigned int `json:"reassigned"`
	// Invalid is the number of obsolete taxa left unchanged because no
	// replacement could be resolved.
	Invalid int `json:"invalid"`
	// Cause carries the underlying error text when Outcome is
	// OutcomeFailed.
	Cause string `json:"cause,omitempty"`
}

// Upgrader migrates the collection database onto a candidate reference
// taxonomy: schema check, change detection, operator review, transactional
// migration, post-migration maintenance.
type Upgrader interface {
	// Upgrade runs one reconciliation pass against the candidate
	// database file. The review callback decides whether the migration
	// proceeds. The returned Report is non-nil whenever the outcome is
	// known, including failures.
	Upgrade(
		ctx context.Context,
		candidatePath string,
		review ReviewFunc,
	) (*Report, error)
}
