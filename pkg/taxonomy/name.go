package taxonomy

import "context"

// Name is the lookup key for a taxon: up to three name components and the
// rank they are to be matched at. Rank Species compares genus and species
// only; infraspecific ranks also compare the third component.
type Name struct {
	Genus   string
	Species string
	Infra   string
	Rank    Rank
}

func (n Name) String() string {
	return DisplayName(n.Genus, n.Species, n.Infra)
}

// Match is the result of a successful name resolution.
type Match struct {
	Taxon Taxon

	// ViaSynonym is true when the name itself is no longer accepted and
	// the match was reached through a synonym link. Callers use it to
	// warn that a substitution occurred.
	ViaSynonym bool
}

// Candidate is a loose match offered for human disambiguation when exact
// resolution fails.
type Candidate struct {
	ID           int64
	CompleteName string
}

// Resolver finds the canonical accepted taxon for a name or for a
// now-obsolete identifier. Implementations are read-only and safe to call
// repeatedly with identical inputs.
type Resolver interface {
	// Resolve finds the accepted taxon for the given name components.
	// It tries a direct lookup first, then a synonym link with the same
	// name, then the genus-synonym fallback. A nil Match with nil error
	// means the name could not be resolved.
	Resolve(ctx context.Context, name Name) (*Match, error)

	// ResolveObsolete finds the accepted replacement for a taxon
	// identifier that is no longer accepted. A nil Taxon with nil error
	// means no replacement is known.
	ResolveObsolete(ctx context.Context, id int64) (*Taxon, error)

	// Possibilities returns taxa whose genus or species loosely matches
	// the given name, for human disambiguation of unresolved rows.
	Possibilities(ctx context.Context, name Name) ([]Candidate, error)

	// LoadTaxa lists accepted taxa of the kingdom of interest matching
	// the filter, ordered by the phylogenetic sort key.
	LoadTaxa(ctx context.Context, f Filter, limit *LimitSpec) ([]Taxon, error)
}
