package reportschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/colmap"
	"github.com/extest/tablesim/internal/compare"
	"github.com/extest/tablesim/internal/keymatch"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/scoring"
)

func TestValidateReport_AcceptsWellFormedReport(t *testing.T) {
	report := compare.Report{
		ComparisonID:     "11111111-1111-1111-1111-111111111111",
		Status:           "ok",
		Config:           compare.DefaultConfig(),
		ReferenceProfile: map[string]profile.Column{},
		CandidateProfile: map[string]profile.Column{},
		RowAlignment: align.Alignment{
			Pairs: []align.Pair{{ReferenceRowIndex: 0, CandidateRowIndex: 0}}, MatchedRows: 1,
			CoverageReference: 1.0, CoverageCandidate: 1.0, Complete: true,
		},
		KeyMatch: keymatch.Result{FoundUsableMatch: true, ReferenceColumn: "gtin", CandidateColumn: "gtin", Reason: "exact_unique_key_set_match", Candidates: []keymatch.Candidate{}},
		ColumnMapping: colmap.Result{
			Mapping: map[string]string{"gtin": "gtin"}, UnusedReferenceColumns: []string{}, UnusedCandidateColumns: []string{},
			MeanMappingConfidence: 1.0, Pairs: []colmap.PairScore{},
		},
		Scores: scoring.Report{Columns: []scoring.ColumnScore{}, DatasetSimilarityEqualWeighted: 1.0, OverallScoreWithCoverage: 1.0},
	}
	require.NoError(t, ValidateReport(report))
}

func TestValidateReport_RejectsInvalidStatus(t *testing.T) {
	report := compare.Report{
		ComparisonID: "id",
		Status:       "not_a_real_status",
		Config:       compare.DefaultConfig(),
		KeyMatch:     keymatch.Result{Candidates: []keymatch.Candidate{}},
		ColumnMapping: colmap.Result{
			Mapping: map[string]string{}, UnusedReferenceColumns: []string{}, UnusedCandidateColumns: []string{}, Pairs: []colmap.PairScore{},
		},
		Scores: scoring.Report{Columns: []scoring.ColumnScore{}},
	}
	err := ValidateReport(report)
	assert.Error(t, err)
}

func TestValidateJSON_RejectsMalformedJSON(t *testing.T) {
	err := ValidateJSON([]byte("{not json"))
	assert.Error(t, err)
}
