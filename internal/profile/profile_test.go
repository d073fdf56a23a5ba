package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/table"
)

func load(t *testing.T, csv string) table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(table.Reference, "mem", strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func TestColumns_UniqueNonEmpty(t *testing.T) {
	tbl := load(t, "gtin,name\n100,Soap\n200,Shampoo\n300,Bath\n")
	profiles := Columns(tbl)
	assert.True(t, profiles["gtin"].IsUniqueNonEmpty)
	assert.Equal(t, 3, profiles["gtin"].NonEmptyCount)
	assert.Equal(t, 0, profiles["gtin"].NullCount)
}

func TestColumns_NeverUniqueWhenEmpty(t *testing.T) {
	// I5: a column with non_empty_count == 0 is never is_unique_non_empty.
	tbl := load(t, "a\n\n\n")
	profiles := Columns(tbl)
	assert.False(t, profiles["a"].IsUniqueNonEmpty)
	assert.Equal(t, 0, profiles["a"].NonEmptyCount)
}

func TestColumns_DuplicatesBreakUniqueness(t *testing.T) {
	tbl := load(t, "a\n1\n1\n2\n")
	profiles := Columns(tbl)
	assert.False(t, profiles["a"].IsUniqueNonEmpty)
	assert.Equal(t, 2, profiles["a"].UniqueNonEmptyCount)
}

func TestColumns_NumericAndBoolRatio(t *testing.T) {
	tbl := load(t, "n,b\n1,true\n2,false\n3,maybe\n")
	profiles := Columns(tbl)
	assert.InDelta(t, 1.0, profiles["n"].NumericRatio, 1e-9)
	assert.InDelta(t, 2.0/3.0, profiles["b"].BoolRatio, 1e-9)
}

func TestColumns_SamplesFirst500InOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("v\n")
	for i := 0; i < 600; i++ {
		if i < 500 {
			b.WriteString("1\n")
		} else {
			b.WriteString("not_a_number\n")
		}
	}
	tbl := load(t, b.String())
	profiles := Columns(tbl)
	assert.InDelta(t, 1.0, profiles["v"].NumericRatio, 1e-9, "first 500 rows are all numeric")
}
