// Package table holds the tabular data model shared by every comparison
// stage: a Table is an ordered header list plus ordered rows, each row a
// header-name-to-raw-cell mapping (spec §3).
package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/extest/tablesim/internal/normalize"
)

// Role distinguishes the reference table from the candidate table purely
// for logging/error messages; it carries no behavioral weight.
type Role string

const (
	Reference Role = "reference"
	Candidate Role = "candidate"
)

// Row maps header name to raw cell text. Absent keys denote absent cells;
// present-but-empty values denote empty cells (spec §3 draws this
// distinction for presence-aware callers such as colmap's sample scoring).
type Row map[string]string

// Table is a named, ordered sequence of headers and rows loaded from a
// delimited-text origin (spec §3). Duplicate headers on input collapse to
// "last occurrence wins" per column name (spec §6).
type Table struct {
	Role    Role
	Origin  string
	Headers []string
	Rows    []Row
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a comma-separated, UTF-8 (optional BOM) file per spec §6:
// first record is the header, RFC 4180 quoting/escaping, and a missing
// header is a fatal MalformedInput condition.
func LoadCSV(role Role, path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("malformed input: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(role, path, f)
}

// ReadCSV parses CSV content from an arbitrary reader; LoadCSV is a thin
// file-backed wrapper around it so tests and other in-memory callers can
// avoid touching the filesystem.
func ReadCSV(role Role, origin string, r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	headerRec, err := reader.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("malformed input: %s has no header row", origin)
	}
	if err != nil {
		return Table{}, fmt.Errorf("malformed input: %s: reading header: %w", origin, err)
	}
	if len(headerRec) == 0 {
		return Table{}, fmt.Errorf("malformed input: %s has an empty header row", origin)
	}

	headers := dedupeLastWins(headerRec)

	var rows []Row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("malformed input: %s: reading row %d: %w", origin, len(rows)+1, err)
		}
		row := make(Row, len(headers))
		for i, h := range headerRec {
			var cell string
			if i < len(rec) {
				cell = rec[i]
			}
			row[h] = cell
		}
		rows = append(rows, row)
	}

	return Table{Role: role, Origin: origin, Headers: headers, Rows: rows}, nil
}

// dedupeLastWins preserves header order but keeps only the first position
// of each distinct name, since values for a repeated name are written by
// every occurrence in row order and the last write wins (spec §6).
func dedupeLastWins(rec []string) []string {
	seen := make(map[string]bool, len(rec))
	out := make([]string, 0, len(rec))
	for _, h := range rec {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

func stripBOM(br *bufio.Reader) {
	peek, err := br.Peek(len(utf8BOM))
	if err != nil {
		return
	}
	if peek[0] == utf8BOM[0] && peek[1] == utf8BOM[1] && peek[2] == utf8BOM[2] {
		_, _ = br.Discard(len(utf8BOM))
	}
}

// Cell returns the raw text and presence flag for a header within a row.
func (r Row) Cell(header string) (value string, present bool) {
	value, present = r[header]
	return value, present
}

// Fingerprint hashes a table's canonicalized content (header order plus
// every cell's CanonicalScalar form) so two tables that are byte-different
// but semantically identical after normalization can be spotted by a
// matching hash. Diagnostic only; never participates in scoring.
func Fingerprint(t Table) uint64 {
	var b strings.Builder
	for _, h := range t.Headers {
		b.WriteString(h)
		b.WriteByte('\x1f')
	}
	b.WriteByte('\x1e')
	for _, row := range t.Rows {
		for _, h := range t.Headers {
			raw, present := row.Cell(h)
			if present && !normalize.IsEmpty(raw) {
				b.WriteString(normalize.CanonicalScalar(raw))
			}
			b.WriteByte('\x1f')
		}
		b.WriteByte('\x1e')
	}
	return xxh3.HashString(b.String())
}
