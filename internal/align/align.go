// Package align builds the ordered 1:1 row pairing between a reference and
// candidate table from a chosen key column pair (spec §4.5, the Row
// Aligner / C5).
package align

import (
	"sort"

	"github.com/extest/tablesim/internal/normalize"
	"github.com/extest/tablesim/internal/table"
)

// Pair is one aligned (reference row index, candidate row index) match.
type Pair struct {
	ReferenceRowIndex int `json:"reference_row_index"`
	CandidateRowIndex int `json:"candidate_row_index"`
}

// Alignment is the outcome of row alignment (spec §3's "Row alignment").
type Alignment struct {
	Pairs                        []Pair  `json:"pairs"`
	MatchedRows                  int     `json:"matched_rows"`
	DuplicateReferenceKeys       int     `json:"duplicate_reference_keys"`
	DuplicateCandidateMatches    int     `json:"duplicate_candidate_matches"`
	MissingCandidateKeysOrUnmatched int  `json:"missing_candidate_keys_or_unmatched"`
	CoverageReference             float64 `json:"coverage_reference"`
	CoverageCandidate              float64 `json:"coverage_candidate"`
	Complete                       bool    `json:"complete"`
}

// Build pairs reference rows to candidate rows via refKey/candKey following
// the first-occurrence-wins / duplicate-counting algorithm of spec §4.5.
func Build(ref, cand table.Table, refKey, candKey string) Alignment {
	refIndexByKey := make(map[string]int, len(ref.Rows))
	duplicateRefKeys := 0

	for i, row := range ref.Rows {
		raw, present := row.Cell(refKey)
		if !present || normalize.IsEmpty(raw) {
			continue
		}
		k := normalize.CanonicalScalar(raw)
		if _, exists := refIndexByKey[k]; exists {
			duplicateRefKeys++
			continue
		}
		refIndexByKey[k] = i
	}

	paired := make(map[int]bool, len(refIndexByKey))
	var pairs []Pair
	duplicateCandMatches := 0
	missing := 0

	for j, row := range cand.Rows {
		raw, present := row.Cell(candKey)
		if !present || normalize.IsEmpty(raw) {
			missing++
			continue
		}
		k := normalize.CanonicalScalar(raw)
		refIdx, ok := refIndexByKey[k]
		if !ok {
			missing++
			continue
		}
		if paired[refIdx] {
			duplicateCandMatches++
			continue
		}
		paired[refIdx] = true
		pairs = append(pairs, Pair{ReferenceRowIndex: refIdx, CandidateRowIndex: j})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].ReferenceRowIndex < pairs[j].ReferenceRowIndex
	})

	matched := len(pairs)
	var coverageRef, coverageCand float64
	if len(ref.Rows) > 0 {
		coverageRef = float64(matched) / float64(len(ref.Rows))
	}
	if len(cand.Rows) > 0 {
		coverageCand = float64(matched) / float64(len(cand.Rows))
	}

	complete := matched == len(ref.Rows) &&
		matched == len(cand.Rows) &&
		duplicateRefKeys == 0 &&
		duplicateCandMatches == 0 &&
		missing == 0

	if pairs == nil {
		pairs = []Pair{}
	}

	return Alignment{
		Pairs:                           pairs,
		MatchedRows:                     matched,
		DuplicateReferenceKeys:          duplicateRefKeys,
		DuplicateCandidateMatches:       duplicateCandMatches,
		MissingCandidateKeysOrUnmatched: missing,
		CoverageReference:               coverageRef,
		CoverageCandidate:                coverageCand,
		Complete:                         complete,
	}
}
