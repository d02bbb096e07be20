package namematch

import (
	"fmt"

	"github.com/gnames/gnparser/ent/parsed"

	"github.com/quotidian-org/seedtaxa/pkg/parserpool"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

// ParseFreeText turns a free-text scientific name into the structured
// lookup key the resolver expects. The parser output drives the split
// into genus, species and infraspecific epithet; the rank follows from
// the rank token when one is present.
func ParseFreeText(
	pool parserpool.Pool, text string,
) (taxonomy.Name, error) {
	var name taxonomy.Name
	p := pool.Parse(text)
	if !p.Parsed {
		return name, fmt.Errorf("cannot parse %q as a scientific name", text)
	}
	if p.Cardinality < 2 {
		return name, fmt.Errorf(
			"%q needs at least genus and species to be looked up", text,
		)
	}

	var rankToken string
	for _, w := range p.Words {
		switch w.Type {
		case parsed.GenusType:
			name.Genus = w.Normalized
		case parsed.SpEpithetType:
			name.Species = w.Normalized
		case parsed.InfraspEpithetType:
			name.Infra = w.Normalized
		case parsed.RankType:
			rankToken = w.Normalized
		case parsed.HybridCharType:
			return name, fmt.Errorf(
				"%q is a hybrid; hybrid names cannot be looked up", text,
			)
		}
	}
	if name.Genus == "" || name.Species == "" {
		return name, fmt.Errorf(
			"cannot extract genus and species from %q", text,
		)
	}

	if name.Infra == "" {
		name.Rank = taxonomy.RankSpecies
	} else {
		name.Rank = taxonomy.RankFromIndicator(rankToken)
	}
	return name, nil
}
