package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesisalign/thesisalign/internal/interpret"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

const manuscript = `Republic of the Philippines
College of Computer Studies

SMART INVENTORY SYSTEM USING MACHINE LEARNING

Introduction
Small retailers need a database that applies machine learning to demand.

Objectives of the Study
To design a barcode scanner module and an inventory database.

Scope and Limitations
The system runs on a local network of store terminals.
`

func testKeywords() *keywords.Map {
	return keywords.FromEntries(
		keywords.Entry{Term: "machine learning", WeightA: 20, WeightB: 10},
		keywords.Entry{Term: "database", WeightA: 10, WeightB: 15},
		keywords.Entry{Term: "network", WeightA: 10, WeightB: 20},
		keywords.Entry{Term: "inventory", WeightA: 5, WeightB: 15},
		keywords.Entry{Term: "barcode", WeightA: 5, WeightB: 20},
	)
}

func newTestAnalyzer(t *testing.T, fuzzy bool) *Analyzer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Classifier.Fuzzy = fuzzy
	a, err := New(testKeywords(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestAnalyzeDocument_Scores(t *testing.T) {
	a := newTestAnalyzer(t, false)
	doc := sections.NewDocument(map[sections.Name]string{
		sections.Title:        "Machine Learning for Inventory",
		sections.Introduction: "A database and a network.",
	})

	res, err := a.AnalyzeDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}

	// title: A=25 B=25 over a ceiling of 50; introduction: A=20 B=35 over 200
	if got := res.Sections[sections.Title]; got.ScoreA != 12.5 || got.ScoreB != 12.5 {
		t.Errorf("title scores = %+v, want 12.5/12.5", got)
	}
	if got := res.Sections[sections.Introduction]; got.ScoreA != 2.5 || got.ScoreB != 4.375 {
		t.Errorf("introduction scores = %+v, want 2.5/4.375", got)
	}
	if res.TotalA != 15 || res.TotalB != 16.875 {
		t.Errorf("totals = (%v, %v), want (15, 16.875)", res.TotalA, res.TotalB)
	}
	if res.Dominant != keywords.CategoryB || res.DominantCode != "IT" {
		t.Errorf("dominant = %s/%s, want B/IT", res.Dominant, res.DominantCode)
	}
	if res.Interpretation != interpret.NoAlignment {
		t.Errorf("interpretation = %s, want %s", res.Interpretation, interpret.NoAlignment)
	}
	if diff := cmp.Diff([]string{"network"}, res.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if res.FuzzyEnabled {
		t.Error("fuzzy should be disabled")
	}
	if len(res.Sections) != 4 || len(res.Texts) != 4 {
		t.Errorf("result must carry all four sections, got %d scores and %d texts", len(res.Sections), len(res.Texts))
	}
}

func TestAnalyzeText_Manuscript(t *testing.T) {
	a := newTestAnalyzer(t, true)

	res, err := a.AnalyzeText(context.Background(), manuscript)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	if res.Title != "SMART INVENTORY SYSTEM USING MACHINE LEARNING" {
		t.Errorf("title = %q", res.Title)
	}
	for _, n := range sections.Names {
		if res.Texts[n] == sections.NotFound || res.Texts[n] == sections.TitleNotFound {
			t.Errorf("%s was not extracted", n)
		}
	}
	if res.Dominant != keywords.CategoryB {
		t.Errorf("dominant = %s, want B", res.Dominant)
	}
	if !res.FuzzyEnabled {
		t.Error("fuzzy should be enabled")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer(t, true)

	first, err := a.AnalyzeText(context.Background(), manuscript)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := a.AnalyzeText(context.Background(), manuscript)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ:\n%s", diff)
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	a := newTestAnalyzer(t, true)
	res, err := a.AnalyzeText(context.Background(), manuscript)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	var sumA, sumB float64
	for _, n := range sections.Names {
		s := res.Sections[n]
		if s.ScoreA < 0 || s.ScoreA > 25 || s.ScoreB < 0 || s.ScoreB > 25 {
			t.Errorf("%s scores out of range: %+v", n, s)
		}
		sumA += s.ScoreA
		sumB += s.ScoreB
	}
	if res.TotalA != sumA || res.TotalB != sumB {
		t.Errorf("totals (%v, %v) differ from section sums (%v, %v)", res.TotalA, res.TotalB, sumA, sumB)
	}
	if len(res.Keywords) > 5 {
		t.Errorf("at most 5 keywords, got %d", len(res.Keywords))
	}
}

func TestAnalyze_UnusableDocument(t *testing.T) {
	a := newTestAnalyzer(t, false)

	for _, raw := range []string{"", "   \n\t", "12 34 -- 56"} {
		res, err := a.AnalyzeText(context.Background(), raw)
		if !errors.Is(err, ErrUnusableDocument) {
			t.Errorf("AnalyzeText(%q) error = %v, want ErrUnusableDocument", raw, err)
		}
		if res != nil {
			t.Errorf("AnalyzeText(%q) returned a result", raw)
		}
	}

	if _, err := a.AnalyzeDocument(context.Background(), sections.NewDocument(nil)); !errors.Is(err, ErrUnusableDocument) {
		t.Errorf("AnalyzeDocument(empty) error = %v, want ErrUnusableDocument", err)
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	a := newTestAnalyzer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := a.AnalyzeText(ctx, manuscript)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Error("a cancelled run must not return a result")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Ceilings.Title = 0
	if _, err := New(testKeywords(), cfg); err == nil {
		t.Error("expected error for zero ceiling")
	}
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Error("expected error for missing keyword map")
	}
}

func TestAnalyzeBatch(t *testing.T) {
	a := newTestAnalyzer(t, true)

	var inputs []Input
	for i := 0; i < 12; i++ {
		inputs = append(inputs, Input{Name: fmt.Sprintf("doc-%02d", i), Text: manuscript})
	}
	doc := sections.NewDocument(map[sections.Name]string{sections.Scope: "a network"})
	inputs = append(inputs,
		Input{Name: "empty", Text: "   "},
		Input{Name: "pre-sectioned", Document: &doc},
	)

	var mu sync.Mutex
	var updates []Progress
	results, err := a.AnalyzeBatch(context.Background(), inputs, 4, func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, r := range results {
		if r.Name != inputs[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, inputs[i].Name)
		}
	}

	want, _ := a.AnalyzeText(context.Background(), manuscript)
	if diff := cmp.Diff(want, results[0].Result); diff != "" {
		t.Errorf("batch result differs from a single run:\n%s", diff)
	}
	if !errors.Is(results[12].Err, ErrUnusableDocument) || results[12].Result != nil {
		t.Errorf("empty input = %+v, want ErrUnusableDocument", results[12])
	}
	if results[13].Err != nil || results[13].Result.Dominant != keywords.CategoryB {
		t.Errorf("pre-sectioned input = %+v", results[13])
	}

	if len(updates) != len(inputs) {
		t.Fatalf("got %d progress updates, want %d", len(updates), len(inputs))
	}
	last := updates[len(updates)-1]
	if last.Current != len(inputs) || last.Percentage() != 100 {
		t.Errorf("last update = %+v, want complete", last)
	}
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	a := newTestAnalyzer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := a.AnalyzeBatch(ctx, []Input{{Name: "a", Text: manuscript}}, 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Error("a cancelled batch must not return results")
	}
}

func TestProgress(t *testing.T) {
	p := Progress{Current: 1, Total: 4}
	if p.Percentage() != 25 {
		t.Errorf("Percentage() = %d, want 25", p.Percentage())
	}
	if p.ETA() != 0 {
		t.Error("ETA without a start time should be zero")
	}
}
