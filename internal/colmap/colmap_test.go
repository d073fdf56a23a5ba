package colmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/table"
)

func load(t *testing.T, role table.Role, csv string) (table.Table, map[string]profile.Column) {
	t.Helper()
	tbl, err := table.ReadCSV(role, "mem", strings.NewReader(csv))
	require.NoError(t, err)
	return tbl, profile.Columns(tbl)
}

func TestBuild_RenamedHeadersStillMap(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin,name,price_eur\n100,Soap,1.99\n200,Shampoo,3.49\n")
	cand, candP := load(t, table.Candidate, "gtin_code,product_name,price_eur_amt\n200,Shampoo,3.49\n100,Soap,1.99\n")

	a := align.Build(ref, cand, "gtin", "gtin_code")
	require.True(t, a.Complete)

	res := Build(ref, cand, refP, candP, a, Config{})
	assert.Equal(t, "gtin_code", res.Mapping["gtin"])
	assert.Equal(t, "product_name", res.Mapping["name"])
	assert.Equal(t, "price_eur_amt", res.Mapping["price_eur"])
	assert.Empty(t, res.UnusedReferenceColumns)
	assert.Empty(t, res.UnusedCandidateColumns)
	assert.Greater(t, res.MeanMappingConfidence, 0.5)
}

func TestBuild_InjectiveOneToOne(t *testing.T) {
	ref, refP := load(t, table.Reference, "a,b\n1,x\n2,y\n3,z\n")
	cand, candP := load(t, table.Candidate, "a,b\n1,x\n2,y\n3,z\n")

	a := align.Build(ref, cand, "a", "a")
	res := Build(ref, cand, refP, candP, a, Config{})

	seenCand := make(map[string]bool)
	for _, c := range res.Mapping {
		assert.False(t, seenCand[c], "candidate column reused")
		seenCand[c] = true
	}
}

func TestBuild_UnmappableColumnReportedUnused(t *testing.T) {
	ref, refP := load(t, table.Reference, "gtin,extra_ref_only\n100,zz\n200,yy\n")
	cand, candP := load(t, table.Candidate, "gtin,extra_cand_only\n100,aa\n200,bb\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	res := Build(ref, cand, refP, candP, a, Config{})

	assert.Contains(t, res.UnusedReferenceColumns, "extra_ref_only")
	assert.Contains(t, res.UnusedCandidateColumns, "extra_cand_only")
}

func TestBuild_IdenticalValuesAdmitUnrelatedHeader(t *testing.T) {
	// Header is unrelated ("z" vs "q") but every sampled value matches exactly:
	// 0.35*0 + 0.10*0.8 + 0.55*1.0 = 0.63 clears the 0.55 confidence bar.
	ref, refP := load(t, table.Reference, "gtin,z\n100,ABCDEFQR\n200,ABCDEFQR\n300,ABCDEFQR\n")
	cand, candP := load(t, table.Candidate, "gtin,q\n100,ABCDEFQR\n200,ABCDEFQR\n300,ABCDEFQR\n")

	a := align.Build(ref, cand, "gtin", "gtin")
	res := Build(ref, cand, refP, candP, a, Config{})

	assert.Equal(t, "q", res.Mapping["z"])
}

func TestBuild_DeterministicOrdering(t *testing.T) {
	ref, refP := load(t, table.Reference, "a,b,c\n1,2,3\n4,5,6\n")
	cand, candP := load(t, table.Candidate, "a,b,c\n1,2,3\n4,5,6\n")

	a := align.Build(ref, cand, "a", "a")
	res1 := Build(ref, cand, refP, candP, a, Config{})
	res2 := Build(ref, cand, refP, candP, a, Config{})
	assert.Equal(t, res1.Pairs, res2.Pairs)
	assert.Equal(t, res1.Mapping, res2.Mapping)
}

func TestBuild_DiagnosticPairsCappedAtFifty(t *testing.T) {
	var refB, candB strings.Builder
	refHeaders := make([]string, 8)
	candHeaders := make([]string, 8)
	for i := range refHeaders {
		refHeaders[i] = "r" + string(rune('a'+i))
		candHeaders[i] = "c" + string(rune('a'+i))
	}
	refB.WriteString(strings.Join(refHeaders, ",") + "\n1,2,3,4,5,6,7,8\n")
	candB.WriteString(strings.Join(candHeaders, ",") + "\n1,2,3,4,5,6,7,8\n")

	ref, refP := load(t, table.Reference, refB.String())
	cand, candP := load(t, table.Candidate, candB.String())

	a := align.Build(ref, cand, "ra", "ca")
	res := Build(ref, cand, refP, candP, a, Config{})
	assert.LessOrEqual(t, len(res.Pairs), 50)
}
