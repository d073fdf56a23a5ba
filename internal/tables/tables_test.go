package tables

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/table"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetOrLoad_CachesUntilModified(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ref.csv", "gtin,name\n100,Soap\n")

	m := NewManager(time.Minute, time.Minute, nil, nil)
	tbl1, err := m.GetOrLoad(table.Reference, path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	tbl2, err := m.GetOrLoad(table.Reference, path)
	require.NoError(t, err)
	assert.Equal(t, tbl1.Rows, tbl2.Rows)
	assert.Equal(t, 1, m.Count())
}

func TestGetOrLoad_ReparsesAfterModification(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ref.csv", "gtin,name\n100,Soap\n")

	m := NewManager(time.Minute, time.Minute, nil, nil)
	tbl1, err := m.GetOrLoad(table.Reference, path)
	require.NoError(t, err)
	require.Len(t, tbl1.Rows, 1)

	// Bump the mtime forward so the cache treats the content as changed.
	future := time.Now().Add(time.Hour)
	writeCSV(t, dir, "ref.csv", "gtin,name\n100,Soap\n200,Shampoo\n")
	require.NoError(t, os.Chtimes(path, future, future))

	tbl2, err := m.GetOrLoad(table.Reference, path)
	require.NoError(t, err)
	assert.Len(t, tbl2.Rows, 2)
}

func TestEvictExpired_RemovesStaleEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ref.csv", "gtin\n100\n")

	now := time.Now()
	clock := func() time.Time { return now }
	m := NewManager(time.Minute, time.Minute, nil, clock)

	_, err := m.GetOrLoad(table.Reference, path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	now = now.Add(2 * time.Minute)
	m.EvictExpired()
	assert.Equal(t, 0, m.Count())
}

func TestGetOrLoad_MissingFileErrors(t *testing.T) {
	m := NewManager(time.Minute, time.Minute, nil, nil)
	_, err := m.GetOrLoad(table.Reference, "/nonexistent/path.csv")
	assert.Error(t, err)
}
