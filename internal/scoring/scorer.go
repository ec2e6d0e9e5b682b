package scoring

import (
	"errors"
	"fmt"

	"github.com/thesisalign/thesisalign/internal/classifier"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// SectionMax is the normalized score ceiling of a single section
const SectionMax = 25.0

// Ceilings are the assumed maximum raw keyword sums per section
type Ceilings struct {
	Title        float64
	Introduction float64
	Objectives   float64
	Scope        float64
}

// For returns the ceiling configured for a section
func (c Ceilings) For(n sections.Name) float64 {
	switch n {
	case sections.Title:
		return c.Title
	case sections.Introduction:
		return c.Introduction
	case sections.Objectives:
		return c.Objectives
	case sections.Scope:
		return c.Scope
	default:
		return 0
	}
}

// Config configures the Scorer
type Config struct {
	Ceilings Ceilings
	// TieBreak is the dominant category when both totals are equal
	TieBreak keywords.Category
}

// DefaultConfig uses a smaller ceiling for the short title section
func DefaultConfig() Config {
	return Config{
		Ceilings: Ceilings{
			Title:        50,
			Introduction: 200,
			Objectives:   200,
			Scope:        200,
		},
		TieBreak: keywords.CategoryB,
	}
}

// Validate checks that every ceiling is positive and the tie-break is known
func (c Config) Validate() error {
	var errs []error
	for _, n := range sections.Names {
		if c.Ceilings.For(n) <= 0 {
			errs = append(errs, fmt.Errorf("%s ceiling must be positive", n))
		}
	}
	if c.TieBreak != keywords.CategoryA && c.TieBreak != keywords.CategoryB {
		errs = append(errs, fmt.Errorf("tie-break must be A or B, got %q", c.TieBreak))
	}
	return errors.Join(errs...)
}

// SectionScore is the normalized score of one section for both categories
type SectionScore struct {
	Section sections.Name `json:"section"`
	ScoreA  float64       `json:"score_a"`
	ScoreB  float64       `json:"score_b"`
}

// Score returns the section score for a category
func (s SectionScore) Score(c keywords.Category) float64 {
	if c == keywords.CategoryA {
		return s.ScoreA
	}
	return s.ScoreB
}

// Scores is the normalized outcome of a classification
type Scores struct {
	Sections []SectionScore    `json:"sections"`
	TotalA   float64           `json:"total_a"`
	TotalB   float64           `json:"total_b"`
	Dominant keywords.Category `json:"dominant"`
}

// Total returns the total for a category
func (s Scores) Total(c keywords.Category) float64 {
	if c == keywords.CategoryA {
		return s.TotalA
	}
	return s.TotalB
}

// Scorer rescales raw tallies into the 0-25 per section range
type Scorer struct {
	config Config
}

// NewScorer creates a new Scorer with the given configuration
func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// Normalize rescales a raw sum against a ceiling and caps it at SectionMax
func Normalize(raw int, ceiling float64) float64 {
	if ceiling <= 0 || raw <= 0 {
		return 0
	}
	return min(float64(raw)*(SectionMax/ceiling), SectionMax)
}

// Score computes section scores, totals and the dominant category
func (s *Scorer) Score(raw classifier.Raw) Scores {
	out := Scores{Sections: make([]SectionScore, 0, len(sections.Names))}

	for _, n := range sections.Names {
		sr := raw.Section(n)
		ceiling := s.config.Ceilings.For(n)
		score := SectionScore{
			Section: n,
			ScoreA:  Normalize(sr.RawA, ceiling),
			ScoreB:  Normalize(sr.RawB, ceiling),
		}
		out.Sections = append(out.Sections, score)
		out.TotalA += score.ScoreA
		out.TotalB += score.ScoreB
	}

	out.Dominant = s.dominant(out.TotalA, out.TotalB)
	return out
}

func (s *Scorer) dominant(totalA, totalB float64) keywords.Category {
	switch {
	case totalA > totalB:
		return keywords.CategoryA
	case totalB > totalA:
		return keywords.CategoryB
	default:
		return s.config.TieBreak
	}
}
