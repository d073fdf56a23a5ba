// Package colmap maps reference columns to candidate columns under
// renamed, reordered, and partially altered schemas using a combined
// header/type/content similarity signal (spec §4.6, the Column Mapper /
// C6).
package colmap

import (
	"sort"

	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/normalize"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/roundutil"
	"github.com/extest/tablesim/internal/similarity"
	"github.com/extest/tablesim/internal/table"
)

const defaultSampleSize = 256
const maxDiagnosticPairs = 50

// PairScore is one (ref_col, cand_col) diagnostic mapping record.
type PairScore struct {
	ReferenceColumn    string  `json:"reference_column"`
	CandidateColumn    string  `json:"candidate_column"`
	HeaderSimilarity   float64 `json:"header_similarity"`
	TypeCompatibility  float64 `json:"type_compatibility"`
	SampleSimilarity   float64 `json:"sample_similarity"`
	MappingConfidence  float64 `json:"mapping_confidence"`
}

// Result is the column mapping outcome (spec §3's "Column mapping").
type Result struct {
	Mapping                 map[string]string `json:"mapping"`
	UnusedReferenceColumns  []string          `json:"unused_reference_columns"`
	UnusedCandidateColumns  []string          `json:"unused_candidate_columns"`
	MeanMappingConfidence   float64           `json:"mean_mapping_confidence"`
	Pairs                   []PairScore       `json:"pairs"`
}

// Config controls the alignment sample size used for content scoring.
type Config struct {
	SampleSize int
}

// Build computes the greedy 1:1 column mapping between ref and cand per
// spec §4.6, using a prefix of alignment.Pairs (the "sample_pairs") for the
// content-similarity term.
func Build(ref, cand table.Table, refProfiles, candProfiles map[string]profile.Column, alignment align.Alignment, cfg Config) Result {
	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}
	n := sampleSize
	if n > len(alignment.Pairs) {
		n = len(alignment.Pairs)
	}
	samplePairs := alignment.Pairs[:n]

	var scored []PairScore
	for _, refCol := range ref.Headers {
		rp := refProfiles[refCol]
		for _, candCol := range cand.Headers {
			cp := candProfiles[candCol]

			h := similarity.Header(refCol, candCol)
			tc := similarity.TypeCompatibility(rp.TypeStats(), cp.TypeStats())
			s := sampleColumnSimilarityFast(ref, cand, refCol, candCol, samplePairs)

			confidence := 0.35*h + 0.10*tc + 0.55*s

			scored = append(scored, PairScore{
				ReferenceColumn:   refCol,
				CandidateColumn:   candCol,
				HeaderSimilarity:  roundutil.Round6(h),
				TypeCompatibility: roundutil.Round6(tc),
				SampleSimilarity:  roundutil.Round6(s),
				MappingConfidence: roundutil.Round6(confidence),
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MappingConfidence != scored[j].MappingConfidence {
			return scored[i].MappingConfidence > scored[j].MappingConfidence
		}
		if scored[i].SampleSimilarity != scored[j].SampleSimilarity {
			return scored[i].SampleSimilarity > scored[j].SampleSimilarity
		}
		return scored[i].HeaderSimilarity > scored[j].HeaderSimilarity
	})

	usedRef := make(map[string]bool)
	usedCand := make(map[string]bool)
	mapping := make(map[string]string)
	var confidenceSum float64
	accepted := 0

	for _, p := range scored {
		if usedRef[p.ReferenceColumn] || usedCand[p.CandidateColumn] {
			continue
		}
		if p.MappingConfidence >= 0.55 || p.SampleSimilarity >= 0.85 {
			mapping[p.ReferenceColumn] = p.CandidateColumn
			usedRef[p.ReferenceColumn] = true
			usedCand[p.CandidateColumn] = true
			confidenceSum += p.MappingConfidence
			accepted++
		}
	}

	var unusedRef, unusedCand []string
	for _, h := range ref.Headers {
		if !usedRef[h] {
			unusedRef = append(unusedRef, h)
		}
	}
	for _, h := range cand.Headers {
		if !usedCand[h] {
			unusedCand = append(unusedCand, h)
		}
	}
	if unusedRef == nil {
		unusedRef = []string{}
	}
	if unusedCand == nil {
		unusedCand = []string{}
	}

	var meanConfidence float64
	if accepted > 0 {
		meanConfidence = confidenceSum / float64(accepted)
	}

	top := scored
	if len(top) > maxDiagnosticPairs {
		top = top[:maxDiagnosticPairs]
	}
	if top == nil {
		top = []PairScore{}
	}

	return Result{
		Mapping:                mapping,
		UnusedReferenceColumns: unusedRef,
		UnusedCandidateColumns: unusedCand,
		MeanMappingConfidence:  meanConfidence,
		Pairs:                  top,
	}
}

// sampleColumnSimilarityFast implements spec §4.6's sample_column_similarity_fast.
func sampleColumnSimilarityFast(ref, cand table.Table, refCol, candCol string, samplePairs []align.Pair) float64 {
	n := len(samplePairs)
	if n == 0 {
		return 0
	}

	var exact, samePresence float64
	for _, p := range samplePairs {
		rv, rPresent := ref.Rows[p.ReferenceRowIndex].Cell(refCol)
		cv, cPresent := cand.Rows[p.CandidateRowIndex].Cell(candCol)
		rEmpty := !rPresent || normalize.IsEmpty(rv)
		cEmpty := !cPresent || normalize.IsEmpty(cv)

		if rEmpty && cEmpty {
			exact++
			samePresence++
			continue
		}
		if rEmpty == cEmpty {
			samePresence++
		}
		if !rEmpty && !cEmpty && normalize.CanonicalScalar(rv) == normalize.CanonicalScalar(cv) {
			exact++
		}
	}

	return 0.85*(exact/float64(n)) + 0.15*(samePresence/float64(n))
}
