// Package profile computes per-column statistics over a table (spec §3,
// §4.3): the Column Profiler (C3) that Key Finder, Column Mapper, and
// Scorer all read from.
package profile

import (
	"github.com/extest/tablesim/internal/normalize"
	"github.com/extest/tablesim/internal/similarity"
	"github.com/extest/tablesim/internal/table"
)

const sampleCap = 500

// Column summarizes one column of one table (spec §3's Column profile).
type Column struct {
	RowCount             int
	NonEmptyCount        int
	NullCount            int
	UniqueNonEmptyCount  int
	IsUniqueNonEmpty     bool
	UniquenessRatio      float64
	NumericRatio         float64
	BoolRatio            float64
	AvgLenSample         float64
	MaxLenSample         int
	HeaderTokens         []string
}

// TypeStats projects the two ratios internal/similarity's type
// compatibility scoring depends on, decoupling that package from this one.
func (c Column) TypeStats() similarity.TypeStats {
	return similarity.TypeStats{NumericRatio: c.NumericRatio, BoolRatio: c.BoolRatio}
}

// Columns computes a Column profile for every header of t (spec §4.3).
// Uniqueness uses canonical_scalar; numeric/bool ratios and length
// statistics sample the first min(500, non_empty_count) non-empty cells in
// row order — this ordering is load-bearing and must not be reshuffled
// (spec §9 design notes).
func Columns(t table.Table) map[string]Column {
	out := make(map[string]Column, len(t.Headers))
	rowCount := len(t.Rows)

	for _, h := range t.Headers {
		out[h] = columnProfile(t, h, rowCount)
	}
	return out
}

func columnProfile(t table.Table, header string, rowCount int) Column {
	seen := make(map[string]struct{})
	nonEmptyCount := 0

	var sampleSum int
	maxLen := 0
	numericHits := 0
	boolHits := 0
	sampled := 0

	for _, row := range t.Rows {
		raw, present := row.Cell(header)
		if !present || normalize.IsEmpty(raw) {
			continue
		}
		nonEmptyCount++
		seen[normalize.CanonicalScalar(raw)] = struct{}{}

		if sampled >= sampleCap {
			continue
		}
		sampled++
		trimmed := normalize.Text(raw)
		sampleSum += len([]rune(trimmed))
		if l := len([]rune(trimmed)); l > maxLen {
			maxLen = l
		}
		if _, ok := normalize.ParseDecimal(trimmed); ok {
			numericHits++
		}
		if _, ok := normalize.ParseBool(trimmed); ok {
			boolHits++
		}
	}

	uniqueNonEmptyCount := len(seen)
	isUnique := nonEmptyCount > 0 && uniqueNonEmptyCount == nonEmptyCount

	var uniquenessRatio, numericRatio, boolRatio, avgLen float64
	if nonEmptyCount > 0 {
		uniquenessRatio = float64(uniqueNonEmptyCount) / float64(nonEmptyCount)
	}
	if sampled > 0 {
		numericRatio = float64(numericHits) / float64(sampled)
		boolRatio = float64(boolHits) / float64(sampled)
		avgLen = float64(sampleSum) / float64(sampled)
	}

	return Column{
		RowCount:            rowCount,
		NonEmptyCount:       nonEmptyCount,
		NullCount:           rowCount - nonEmptyCount,
		UniqueNonEmptyCount: uniqueNonEmptyCount,
		IsUniqueNonEmpty:    isUnique,
		UniquenessRatio:     uniquenessRatio,
		NumericRatio:        numericRatio,
		BoolRatio:           boolRatio,
		AvgLenSample:        avgLen,
		MaxLenSample:        maxLen,
		HeaderTokens:        normalize.HeaderTokens(header),
	}
}
