// Package compare wires the column profiler, key finder, row aligner,
// column mapper, and scorer into the single-call comparison orchestration
// described by spec §4's data flow: load both tables, profile each, select
// a key pair, align rows, map columns, then score.
package compare

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/extest/tablesim/internal/align"
	"github.com/extest/tablesim/internal/colmap"
	"github.com/extest/tablesim/internal/keymatch"
	"github.com/extest/tablesim/internal/profile"
	"github.com/extest/tablesim/internal/scoring"
	"github.com/extest/tablesim/internal/table"
	"github.com/extest/tablesim/pkg/comparerr"
)

// Weights is the opaque diagnostic weighting dictionary echoed in the
// report (spec §6); "columns: equal" is currently the only supported mode.
type Weights map[string]string

// Config controls the comparison (spec §6's enumerated configuration).
type Config struct {
	SampleSizeMapping             int     `json:"sample_size_mapping" validate:"gt=0"`
	Weights                       Weights `json:"weights"`
	MissingReferenceColumnScore   float64 `json:"missing_reference_column_score"`
	ExtraCandidateColumnsPenalize bool    `json:"extra_candidate_columns_penalize"`
}

// DefaultConfig returns the spec's documented default configuration.
func DefaultConfig() Config {
	return Config{
		SampleSizeMapping:             256,
		Weights:                       Weights{"columns": "equal"},
		MissingReferenceColumnScore:   0.0,
		ExtraCandidateColumnsPenalize: false,
	}
}

// Report is the full JSON document produced by a comparison (spec §6).
type Report struct {
	ComparisonID      string                    `json:"comparison_id"`
	Status            string                    `json:"status"`
	Reason            string                    `json:"reason,omitempty"`
	Config            Config                    `json:"config"`
	ReferenceProfile  map[string]profile.Column `json:"reference_profile"`
	CandidateProfile  map[string]profile.Column `json:"candidate_profile"`
	RowAlignment      align.Alignment           `json:"row_alignment"`
	KeyMatch          keymatch.Result           `json:"key_match"`
	ColumnMapping     colmap.Result             `json:"column_mapping"`
	Scores            scoring.Report            `json:"scores"`
}

const (
	statusOK                = "ok"
	statusPartialKeyMatch   = "partial_key_match"
	statusNoCompleteKeyMatch = "no_complete_key_match"
)

// Compare runs the full pipeline over two already-loaded tables (spec
// §4.1-§4.7). It never returns an error for expected outcomes (no usable
// key, zero matched rows, partial alignment) — those surface as report
// status values per spec §7. The only error Compare itself returns is a
// comparerr.Timeout when ctx is already done on entry; MalformedInput-class
// failures are surfaced by table.LoadCSV/ReadCSV before Compare is called.
func Compare(ctx context.Context, ref, cand table.Table, cfg Config, logger zerolog.Logger) (Report, error) {
	if cfg.SampleSizeMapping <= 0 {
		cfg.SampleSizeMapping = 256
	}
	if cfg.Weights == nil {
		cfg.Weights = Weights{"columns": "equal"}
	}

	comparisonID := uuid.NewString()
	log := logger.With().Str("comparison_id", comparisonID).Logger()

	select {
	case <-ctx.Done():
		return Report{}, comparerr.Wrap(comparerr.Timeout, ctx.Err())
	default:
	}

	log.Debug().
		Uint64("reference_fingerprint", table.Fingerprint(ref)).
		Uint64("candidate_fingerprint", table.Fingerprint(cand)).
		Msg("fingerprinted input tables")

	refProfiles := profile.Columns(ref)
	candProfiles := profile.Columns(cand)
	log.Debug().Int("reference_columns", len(ref.Headers)).Int("candidate_columns", len(cand.Headers)).Msg("profiled columns")

	keyResult := keymatch.Find(ref, cand, refProfiles)

	if !keyResult.FoundUsableMatch {
		log.Info().Str("reason", keyResult.Reason).Msg("no usable key found")
		return zeroReport(comparisonID, cfg, ref, cand, refProfiles, candProfiles, keyResult), nil
	}

	alignment := align.Build(ref, cand, keyResult.ReferenceColumn, keyResult.CandidateColumn)
	if alignment.MatchedRows == 0 {
		log.Info().Msg("key found but zero rows matched")
		keyResult.Reason = "no_exact_or_partial_unique_key_match"
		return zeroReport(comparisonID, cfg, ref, cand, refProfiles, candProfiles, keyResult), nil
	}

	mapping := colmap.Build(ref, cand, refProfiles, candProfiles, alignment, colmap.Config{SampleSize: cfg.SampleSizeMapping})
	scores := scoring.Score(ref, cand, mapping, alignment)

	status := statusPartialKeyMatch
	if alignment.Complete {
		status = statusOK
	}

	log.Info().
		Str("status", status).
		Float64("dataset_similarity", scores.DatasetSimilarityEqualWeighted).
		Int("matched_rows", alignment.MatchedRows).
		Msg("comparison complete")

	return Report{
		ComparisonID:     comparisonID,
		Status:           status,
		Config:           cfg,
		ReferenceProfile: refProfiles,
		CandidateProfile: candProfiles,
		RowAlignment:     alignment,
		KeyMatch:         keyResult,
		ColumnMapping:    mapping,
		Scores:           scores,
	}, nil
}

// zeroReport builds the spec §4.7 zero report: all per-column similarities
// 0.0, empty mapping, all reference headers unmatched, zero scores.
func zeroReport(comparisonID string, cfg Config, ref, cand table.Table, refProfiles, candProfiles map[string]profile.Column, keyResult keymatch.Result) Report {
	emptyAlignment := align.Alignment{Pairs: []align.Pair{}}
	emptyMapping := colmap.Result{
		Mapping:                map[string]string{},
		UnusedReferenceColumns: append([]string{}, ref.Headers...),
		UnusedCandidateColumns: append([]string{}, cand.Headers...),
		Pairs:                  []colmap.PairScore{},
	}

	return Report{
		ComparisonID:     comparisonID,
		Status:           statusNoCompleteKeyMatch,
		Reason:           keyResult.Reason,
		Config:           cfg,
		ReferenceProfile: refProfiles,
		CandidateProfile: candProfiles,
		RowAlignment:     emptyAlignment,
		KeyMatch:         keyResult,
		ColumnMapping:    emptyMapping,
		Scores:           scoring.Zero(ref),
	}
}

// Render marshals a Report to JSON, indented when pretty is true. Report
// pretty-printing beyond this is out of the core's tested scope; this
// exists so a CLI collaborator has somewhere to get the bytes it emits.
func (r Report) Render(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// LoadTables loads the reference and candidate CSV files, translating
// parse failures into the catalog's MalformedInput error (spec §7).
func LoadTables(refPath, candPath string) (table.Table, table.Table, error) {
	ref, err := table.LoadCSV(table.Reference, refPath)
	if err != nil {
		return table.Table{}, table.Table{}, comparerr.Wrap(comparerr.MalformedInput, fmt.Errorf("reference: %w", err))
	}
	cand, err := table.LoadCSV(table.Candidate, candPath)
	if err != nil {
		return table.Table{}, table.Table{}, comparerr.Wrap(comparerr.MalformedInput, fmt.Errorf("candidate: %w", err))
	}
	return ref, cand, nil
}
