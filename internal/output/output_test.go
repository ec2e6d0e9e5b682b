package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/evaluate"
	"github.com/thesisalign/thesisalign/internal/interpret"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/scoring"
	"github.com/thesisalign/thesisalign/internal/sections"
)

var testCats = Categories{
	A: analyzer.Category{Code: "CS", Name: "Computer Science"},
	B: analyzer.Category{Code: "IT", Name: "Information Technology"},
}

func testRecord() database.Record {
	return database.Record{
		ID:     "0f4c2a9e-1111-2222-3333-444455556666",
		Source: "campus.txt",
		Result: analyzer.Result{
			Title: "Campus Network Monitor",
			Sections: map[sections.Name]scoring.SectionScore{
				sections.Title:        {Section: sections.Title, ScoreA: 5, ScoreB: 25},
				sections.Introduction: {Section: sections.Introduction, ScoreA: 2.5, ScoreB: 20},
				sections.Objectives:   {Section: sections.Objectives, ScoreA: 1.25, ScoreB: 22.5},
				sections.Scope:        {Section: sections.Scope, ScoreA: 0, ScoreB: 25},
			},
			TotalA:         8.75,
			TotalB:         92.5,
			Dominant:       keywords.CategoryB,
			DominantCode:   "IT",
			Interpretation: interpret.FullAlignment,
			Enhancement:    interpret.NoneNeeded,
			Keywords:       []string{"network", "server"},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestSpreadsheet(t *testing.T) {
	rec := testRecord()
	var buf bytes.Buffer
	if err := Spreadsheet(&buf, testCats, &rec.Result); err != nil {
		t.Fatalf("Spreadsheet failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	want := [][]string{
		{"Key Sections", "Computer Science Scores", "Information Technology Scores"},
		{"Title (25%)", "5.00", "25.00"},
		{"Introduction (25%)", "2.50", "20.00"},
		{"Objectives (25%)", "1.25", "22.50"},
		{"Scope and Limitations (25%)", "0.00", "25.00"},
		{"Overall Total", "8.75", "92.50"},
		{"Interpretation", "Not dominant", "Full Alignment"},
		{"Concluded Result", "IT", "IT"},
		{"Enhancement", "None needed", ""},
		{"Keywords", "network; server", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Spreadsheet() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := History(&buf, testCats, []database.Record{testRecord()}); err != nil {
		t.Fatalf("History failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[0][3] != "Title_CS" || rows[0][12] != "Total_IT" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][12] != "92.50" || rows[1][13] != "IT" || rows[1][17] != "2026-03-14T09:30:00Z" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestTableTo(t *testing.T) {
	rec := testRecord()

	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{"record list", []database.Record{rec}, []string{"0f4c2a9e", "campus.txt", "Full Alignment"}},
		{"empty list", []database.Record{}, []string{"No results found."}},
		{"record detail", &rec, []string{"Campus Network Monitor", "Information Technology (IT)", "network, server", "Overall Total"}},
		{"stats", &database.Stats{TotalResults: 2, DominantA: 1, DominantB: 1, ByLabel: map[string]int{"No Alignment": 2}}, []string{"Total results:          2", "No Alignment"}},
		{"keywords", []keywords.Entry{{Term: "algorithm", WeightA: 20, WeightB: 10}}, []string{"algorithm", "20"}},
		{"evaluation", &evaluate.Report{Labelled: 2, Evaluated: 2, Accuracy: 1, PerCategory: []evaluate.Metrics{{Category: keywords.CategoryA, F1: 1}}}, []string{"Accuracy: 100.00%", "CS", "1.000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TableTo(&buf, testCats, tt.data); err != nil {
				t.Fatalf("TableTo failed: %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
		})
	}

	if err := TableTo(&bytes.Buffer{}, testCats, 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestOutputTo_JSON(t *testing.T) {
	rec := testRecord()
	var buf bytes.Buffer
	if err := OutputTo(&buf, "json", testCats, &rec.Result); err != nil {
		t.Fatalf("OutputTo failed: %v", err)
	}
	for _, field := range []string{`"total_a": 8.75`, `"dominant": "B"`, `"interpretation": "Full Alignment"`, `"keywords"`} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("JSON missing %s:\n%s", field, buf.String())
		}
	}

	if err := OutputTo(&buf, "yaml", testCats, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPDF(t *testing.T) {
	rec := testRecord()
	rec.Result.Title = "Café Network Monitor"

	var buf bytes.Buffer
	if err := PDF(&buf, testCats, []database.Record{rec}); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF document")
	}
}
