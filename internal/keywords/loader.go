package keywords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Columns names the CSV header fields holding the term and the two weights
type Columns struct {
	Term string
	A    string
	B    string
}

// DefaultColumns matches the keyword,CS,IT header of the shipped keyword table
func DefaultColumns() Columns {
	return Columns{Term: "keyword", A: "CS", B: "IT"}
}

// LoadFile loads a keyword table, choosing the format from the file extension
func LoadFile(path string, cols Columns) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword table: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".csv", ".txt", "":
		return LoadCSV(f, cols)
	default:
		return nil, fmt.Errorf("unsupported keyword table format: %s", filepath.Ext(path))
	}
}

// LoadCSV reads a keyword table with a header row. Only an unreadable stream
// or a header without the configured columns is fatal; bad rows are recorded
// as warnings.
func LoadCSV(r io.Reader, cols Columns) (*Map, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("keyword table is empty")
		}
		return nil, fmt.Errorf("failed to read keyword table header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToLower(h)] = i
	}

	var missing []error
	lookup := func(name string) int {
		i, ok := idx[strings.ToLower(name)]
		if !ok {
			missing = append(missing, fmt.Errorf("keyword table header is missing column %q", name))
			return -1
		}
		return i
	}
	termCol, aCol, bCol := lookup(cols.Term), lookup(cols.A), lookup(cols.B)
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	b := newBuilder()
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.warn(Warning{Line: perr.Line, Reason: "malformed row skipped: " + perr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("failed to read keyword table: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		b.add(line, field(rec, termCol), field(rec, aCol), field(rec, bCol))
	}

	return b.build(), nil
}

// LoadYAML reads a list of {term, a, b} mappings. keyword/cs/it are accepted
// as aliases so a CSV table can be converted one to one.
func LoadYAML(r io.Reader) (*Map, error) {
	var rows []map[string]any
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("keyword table is empty")
		}
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}

	b := newBuilder()
	for i, row := range rows {
		norm := make(map[string]string, len(row))
		for k, v := range row {
			if v == nil {
				continue
			}
			norm[strings.ToLower(k)] = fmt.Sprint(v)
		}
		term := firstOf(norm, "term", "keyword")
		a := firstOf(norm, "a", "cs", "weight_a")
		bw := firstOf(norm, "b", "it", "weight_b")
		b.add(i+1, term, a, bw)
	}

	return b.build(), nil
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return ""
}
