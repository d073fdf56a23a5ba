// Package scoring aggregates per-cell value similarity into per-column and
// dataset-level scores, correctly reflecting row-alignment coverage (spec
// §4.7, the Scorer/Reporter / C7).
package scoring

import (
	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/colmap"
	"github.com/extest/tablesim/internal/similarity"
	"github.com/extest/tablesim/internal/table"
)

// ColumnScore is the per-reference-column similarity outcome.
type ColumnScore struct {
	ReferenceColumn string  `json:"reference_column"`
	CandidateColumn string  `json:"candidate_column,omitempty"`
	Matched         bool    `json:"matched"`
	Similarity      float64 `json:"similarity"`
}

// Report is the scoring outcome for a full comparison (spec §4.7).
type Report struct {
	Columns                      []ColumnScore `json:"columns"`
	DatasetSimilarityEqualWeighted float64     `json:"dataset_similarity_equal_weighted"`
	OverallScoreWithCoverage       float64     `json:"overall_score_with_coverage"`
}

// Score computes per-column and dataset scores over the full alignment
// (spec §4.7). Unmapped reference columns contribute 0.0 and are reported
// unmatched.
func Score(ref, cand table.Table, mapping colmap.Result, alignment align.Alignment) Report {
	columns := make([]ColumnScore, 0, len(ref.Headers))
	var sum float64

	for _, refCol := range ref.Headers {
		candCol, mapped := mapping.Mapping[refCol]
		if !mapped {
			columns = append(columns, ColumnScore{ReferenceColumn: refCol, Matched: false, Similarity: 0.0})
			continue
		}

		sim := fullColumnSimilarity(ref, cand, refCol, candCol, alignment.Pairs)
		sum += sim
		columns = append(columns, ColumnScore{
			ReferenceColumn: refCol,
			CandidateColumn: candCol,
			Matched:         true,
			Similarity:      sim,
		})
	}

	var dataset float64
	if len(ref.Headers) > 0 {
		dataset = sum / float64(len(ref.Headers))
	}

	return Report{
		Columns:                        columns,
		DatasetSimilarityEqualWeighted: dataset,
		OverallScoreWithCoverage:       dataset * alignment.CoverageReference,
	}
}

// Zero produces the zero report of spec §4.7: all per-column similarities
// 0.0, every reference header unmatched, dataset and overall scores 0.0.
func Zero(ref table.Table) Report {
	columns := make([]ColumnScore, 0, len(ref.Headers))
	for _, h := range ref.Headers {
		columns = append(columns, ColumnScore{ReferenceColumn: h, Matched: false, Similarity: 0.0})
	}
	return Report{Columns: columns, DatasetSimilarityEqualWeighted: 0.0, OverallScoreWithCoverage: 0.0}
}

func fullColumnSimilarity(ref, cand table.Table, refCol, candCol string, pairs []align.Pair) float64 {
	if len(pairs) == 0 {
		return 0.0
	}

	var sum float64
	for _, p := range pairs {
		rv, rPresent := ref.Rows[p.ReferenceRowIndex].Cell(refCol)
		cv, cPresent := cand.Rows[p.CandidateRowIndex].Cell(candCol)
		sum += similarity.Value(rv, cv, rPresent, cPresent)
	}
	return sum / float64(len(pairs))
}
