package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extest/tablesim/internal/compare"
	"github.com/extest/tablesim/internal/tables"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestRouter(t *testing.T) (http.Handler, string, string) {
	t.Helper()
	dir := t.TempDir()
	refPath := writeCSV(t, dir, "ref.csv", "gtin,name\n100,Soap\n200,Shampoo\n")
	candPath := writeCSV(t, dir, "cand.csv", "gtin,name\n100,Soap\n200,Shampoo\n")

	mgr := tables.NewManager(time.Minute, time.Minute, nil, nil)
	h := NewHandler(mgr, zerolog.Nop())
	return NewRouter(h, []string{"*"}), refPath, candPath
}

func TestCompare_ReturnsOKReport(t *testing.T) {
	router, refPath, candPath := newTestRouter(t)

	body, err := json.Marshal(CompareRequest{ReferencePath: refPath, CandidatePath: candPath})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report compare.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "ok", report.Status)
	assert.InDelta(t, 1.0, report.Scores.DatasetSimilarityEqualWeighted, 1e-9)
}

func TestCompare_MissingFieldsReturnsValidationError(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, err := json.Marshal(CompareRequest{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare_MissingFileReturnsMalformedInput(t *testing.T) {
	router, refPath, _ := newTestRouter(t)

	body, err := json.Marshal(CompareRequest{ReferencePath: refPath, CandidatePath: "/nonexistent/candidate.csv"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth_ReturnsOK(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
