// Package keymatch locates a usable unique-key column pair between a
// reference and candidate table (spec §4.4, the Key Finder / C4).
package keymatch

import (
	"sort"

	"github.com/extest/tablesim/internal/normalize"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/roundutil"
	"github.com/extest/tablesim/internal/similarity"
	"github.com/extest/tablesim/internal/table"
)

// Candidate is one (ref_col, cand_col) key match candidate (spec §3).
type Candidate struct {
	ReferenceColumn        string  `json:"reference_column"`
	CandidateColumn        string  `json:"candidate_column"`
	CompleteSetMatch       bool    `json:"complete_set_match"`
	IntersectionCount      int     `json:"intersection_count"`
	CandidateKeyCoverage   float64 `json:"candidate_key_coverage"`
	ReferenceKeyCoverage   float64 `json:"reference_key_coverage"`
	HeaderSimilarity       float64 `json:"header_similarity"`
	ReferenceNonEmptyCount int     `json:"reference_non_empty_count"`
	CandidateNonEmptyCount int     `json:"candidate_non_empty_count"`
	Score                  float64 `json:"score"`
}

// Result is the outcome of key discovery (spec §3 / §4.4).
type Result struct {
	FoundUsableMatch  bool        `json:"found_usable_match"`
	FoundCompleteMatch bool       `json:"found_complete_match"`
	MatchMode         string      `json:"match_mode,omitempty"`
	ReferenceColumn   string      `json:"reference_column,omitempty"`
	CandidateColumn   string      `json:"candidate_column,omitempty"`
	Reason            string      `json:"reason"`
	Candidates        []Candidate `json:"candidates"`
}

// Find enumerates every (ref_col, cand_col) pair where the reference column
// is unique on its non-empty cells and the candidate column is also unique
// on its non-empty cells, scores each per spec §4.4's formula, and returns
// the top 10 by descending (score, reference_non_empty_count).
func Find(ref, cand table.Table, refProfiles map[string]profile.Column) Result {
	var candidates []Candidate

	for _, refCol := range ref.Headers {
		rp := refProfiles[refCol]
		if !rp.IsUniqueNonEmpty {
			continue
		}
		refVals, refSet := canonicalSet(ref, refCol)
		if len(refSet) != len(refVals) {
			// Defensive re-check (spec §4.4): profile said unique, set math disagrees.
			continue
		}

		for _, candCol := range cand.Headers {
			candVals, candSet := canonicalSet(cand, candCol)
			if len(candSet) != len(candVals) {
				continue
			}

			intersection := intersectionSize(refSet, candSet)
			if intersection == 0 {
				continue
			}

			complete := len(ref.Rows) == len(cand.Rows) &&
				len(candVals) == len(refVals) &&
				setsEqual(refSet, candSet)

			candCoverage := float64(intersection) / float64(len(candSet))
			refCoverage := float64(intersection) / float64(len(refSet))
			headerScore := similarity.Header(refCol, candCol)

			score := refCoverage + 2*candCoverage + headerScore
			if complete {
				score += 10
			}

			candidates = append(candidates, Candidate{
				ReferenceColumn:        refCol,
				CandidateColumn:        candCol,
				CompleteSetMatch:       complete,
				IntersectionCount:      intersection,
				CandidateKeyCoverage:   roundutil.Round6(candCoverage),
				ReferenceKeyCoverage:   roundutil.Round6(refCoverage),
				HeaderSimilarity:       roundutil.Round6(headerScore),
				ReferenceNonEmptyCount: len(refVals),
				CandidateNonEmptyCount: len(candVals),
				Score:                  score,
			})
		}
	}

	if len(candidates) == 0 {
		return Result{
			FoundUsableMatch:   false,
			FoundCompleteMatch: false,
			Reason:             "no_exact_or_partial_unique_key_match",
			Candidates:         []Candidate{},
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ReferenceNonEmptyCount > candidates[j].ReferenceNonEmptyCount
	})

	best := candidates[0]
	mode := "partial"
	reason := "partial_unique_key_overlap_match"
	if best.CompleteSetMatch {
		mode = "complete"
		reason = "exact_unique_key_set_match"
	}

	top := candidates
	if len(top) > 10 {
		top = top[:10]
	}

	return Result{
		FoundUsableMatch:   best.IntersectionCount > 0,
		FoundCompleteMatch: best.CompleteSetMatch,
		MatchMode:          mode,
		ReferenceColumn:    best.ReferenceColumn,
		CandidateColumn:    best.CandidateColumn,
		Reason:             reason,
		Candidates:         top,
	}
}

func canonicalSet(t table.Table, col string) (values []string, set map[string]struct{}) {
	set = make(map[string]struct{})
	for _, row := range t.Rows {
		raw, present := row.Cell(col)
		if !present || normalize.IsEmpty(raw) {
			continue
		}
		c := normalize.CanonicalScalar(raw)
		values = append(values, c)
		set[c] = struct{}{}
	}
	return values, set
}

func intersectionSize(a, b map[string]struct{}) int {
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	n := 0
	for k := range small {
		if _, ok := big[k]; ok {
			n++
		}
	}
	return n
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
