package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/colmap"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/table"
)

func load(t *testing.T, role table.Role, csv string) (table.Table, map[string]profile.Column) {
	t.Helper()
	tbl, err := table.ReadCSV(role, "mem", strings.NewReader(csv))
	require.NoError(t, err)
	return tbl, profile.Columns(tbl)
}

func TestScore_IdenticalTablesScoreOne(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin,name\n100,Soap\n200,Shampoo\n300,Bath\n")
	cand, candP := load(t, table.Candidate, "gtin,name\n100,Soap\n200,Shampoo\n300,Bath\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	require.True(t, a.Complete)
	m := colmap.Build(ref, cand, refP, candP, a, colmap.Config{})

	report := Score(ref, cand, m, a)
	assert.InDelta(t, 1.0, report.DatasetSimilarityEqualWeighted, 1e-9)
	assert.InDelta(t, 1.0, report.OverallScoreWithCoverage, 1e-9)
	for _, c := range report.Columns {
		assert.True(t, c.Matched)
		assert.InDelta(t, 1.0, c.Similarity, 1e-9)
	}
}

func TestScore_NumericNearMatch(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin,price_eur\n100,1.99\n")
	cand, candP := load(t, table.Candidate, "gtin,price_eur\n100,2.00\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	m := colmap.Build(ref, cand, refP, candP, a, colmap.Config{})

	report := Score(ref, cand, m, a)
	var priceScore float64
	for _, c := range report.Columns {
		if c.ReferenceColumn == "price_eur" {
			priceScore = c.Similarity
		}
	}
	assert.InDelta(t, 0.995, priceScore, 1e-6)
}

func TestScore_UnmappedColumnScoresZero(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin,extra\n100,zz\n200,yy\n")
	cand, candP := load(t, table.Candidate, "gtin\n100\n200\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	m := colmap.Build(ref, cand, refP, candP, a, colmap.Config{})

	report := Score(ref, cand, m, a)
	for _, c := range report.Columns {
		if c.ReferenceColumn == "extra" {
			assert.False(t, c.Matched)
			assert.Equal(t, 0.0, c.Similarity)
		}
	}
	// P8: dataset mean uses all reference headers as denominator.
	assert.InDelta(t, 0.5, report.DatasetSimilarityEqualWeighted, 1e-9)
}

func TestScore_OverallReflectsCoverage(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin\n100\n200\n300\n")
	cand, candP := load(t, table.Candidate, "gtin\n100\n200\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	assert.False(t, a.Complete)
	m := colmap.Build(ref, cand, refP, candP, a, colmap.Config{})

	report := Score(ref, cand, m, a)
	assert.InDelta(t, 1.0, report.DatasetSimilarityEqualWeighted, 1e-9)
	assert.InDelta(t, 2.0/3.0, report.OverallScoreWithCoverage, 1e-9)
}

func TestZero_AllHeadersUnmatched(t *testing.T) {
	ref, _ := load(t, table.Reference, "gtin,name\n100,Soap\n")
	report := Zero(ref)
	assert.Len(t, report.Columns, 2)
	for _, c := range report.Columns {
		assert.False(t, c.Matched)
		assert.Equal(t, 0.0, c.Similarity)
	}
	assert.Equal(t, 0.0, report.DatasetSimilarityEqualWeighted)
	assert.Equal(t, 0.0, report.OverallScoreWithCoverage)
}
