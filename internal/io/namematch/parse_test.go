package namematch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ionamematch "github.com/quotidian-org/seedtaxa/internal/io/namematch"
	"github.com/quotidian-org/seedtaxa/pkg/parserpool"
	"github.com/quotidian-org/seedtaxa/pkg/taxonomy"
)

func TestParseFreeText(t *testing.T) {
	pool := parserpool.NewPool(1)
	defer pool.Close()

	tests := []struct {
		name string
		text string
		want taxonomy.Name
	}{
		{
			"binomial",
			"Asclepias tuberosa",
			taxonomy.Name{
				Genus:   "Asclepias",
				Species: "tuberosa",
				Rank:    taxonomy.RankSpecies,
			},
		},
		{
			"binomial with author",
			"Asclepias tuberosa L.",
			taxonomy.Name{
				Genus:   "Asclepias",
				Species: "tuberosa",
				Rank:    taxonomy.RankSpecies,
			},
		},
		{
			"variety",
			"Packera aurea var. aurea",
			taxonomy.Name{
				Genus:   "Packera",
				Species: "aurea",
				Infra:   "aurea",
				Rank:    taxonomy.RankVariety,
			},
		},
		{
			"subspecies",
			"Cornus sericea subsp. sericea",
			taxonomy.Name{
				Genus:   "Cornus",
				Species: "sericea",
				Infra:   "sericea",
				Rank:    taxonomy.RankSubspecies,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ionamematch.ParseFreeText(pool, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFreeTextErrors(t *testing.T) {
	pool := parserpool.NewPool(1)
	defer pool.Close()

	tests := []struct {
		name string
		text string
	}{
		{"garbage", "not$a%name"},
		{"uninomial", "Asclepias"},
		{"hybrid", "Monarda × media"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ionamematch.ParseFreeText(pool, tt.text)
			assert.Error(t, err)
		})
	}
}
