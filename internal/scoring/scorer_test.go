package scoring

import (
	"math"
	"testing"

	"github.com/thesisalign/thesisalign/internal/classifier"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

func rawOf(sr ...classifier.SectionRaw) classifier.Raw {
	return classifier.Raw{Sections: sr}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      int
		ceiling  float64
		expected float64
	}{
		{"introduction single keyword", 20, 200, 2.5},
		{"title two keywords", 20, 50, 10.0},
		{"capped at section max", 500, 200, 25},
		{"exactly at ceiling", 50, 50, 25},
		{"zero raw", 0, 200, 0},
		{"invalid ceiling", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, tt.ceiling)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Normalize(%d, %v) = %v, want %v", tt.raw, tt.ceiling, got, tt.expected)
			}
		})
	}
}

func TestScore_Scenarios(t *testing.T) {
	s := NewScorer(DefaultConfig())

	scores := s.Score(rawOf(
		classifier.SectionRaw{Section: sections.Title, RawA: 20},
		classifier.SectionRaw{Section: sections.Introduction, RawA: 20},
	))

	if got := scores.Sections[0].ScoreA; got != 10.0 {
		t.Errorf("title scoreA = %v, want 10.0", got)
	}
	if got := scores.Sections[1].ScoreA; got != 2.5 {
		t.Errorf("introduction scoreA = %v, want 2.5", got)
	}
	if scores.TotalA != 12.5 || scores.TotalB != 0 {
		t.Errorf("totals = (%v, %v), want (12.5, 0)", scores.TotalA, scores.TotalB)
	}
	if scores.Dominant != keywords.CategoryA {
		t.Errorf("dominant = %s, want A", scores.Dominant)
	}
}

func TestScore_Bounds(t *testing.T) {
	s := NewScorer(DefaultConfig())

	scores := s.Score(rawOf(
		classifier.SectionRaw{Section: sections.Title, RawA: 1000, RawB: 1000},
		classifier.SectionRaw{Section: sections.Introduction, RawA: 1000, RawB: 3},
		classifier.SectionRaw{Section: sections.Objectives, RawA: 999, RawB: 0},
		classifier.SectionRaw{Section: sections.Scope, RawA: 4000, RawB: 7},
	))

	var sumA, sumB float64
	for _, sec := range scores.Sections {
		for _, v := range []float64{sec.ScoreA, sec.ScoreB} {
			if v < 0 || v > SectionMax {
				t.Errorf("%s score %v out of [0,25]", sec.Section, v)
			}
		}
		sumA += sec.ScoreA
		sumB += sec.ScoreB
	}
	if scores.TotalA != 100 {
		t.Errorf("TotalA = %v, want 100", scores.TotalA)
	}
	if scores.TotalA != sumA || scores.TotalB != sumB {
		t.Error("totals must equal the sum of section scores")
	}
}

func TestScore_TieBreak(t *testing.T) {
	tests := []struct {
		name     string
		tieBreak keywords.Category
	}{
		{"defaults to B", keywords.CategoryB},
		{"configured A", keywords.CategoryA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TieBreak = tt.tieBreak
			scores := NewScorer(cfg).Score(rawOf(
				classifier.SectionRaw{Section: sections.Introduction, RawA: 40, RawB: 40},
			))
			if scores.Dominant != tt.tieBreak {
				t.Errorf("dominant = %s, want %s", scores.Dominant, tt.tieBreak)
			}
		})
	}

	if DefaultConfig().TieBreak != keywords.CategoryB {
		t.Error("default tie-break should be B")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cfg.Ceilings.Objectives = 0
	cfg.TieBreak = "C"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}
