// Package interpret maps a dominant total score onto an alignment label and
// an enhancement suggestion.
package interpret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thesisalign/thesisalign/internal/sections"
)

// Label is the human-readable alignment level
type Label string

const (
	FullAlignment     Label = "Full Alignment"
	StrongAlignment   Label = "Strong Alignment"
	ModerateAlignment Label = "Moderate Alignment"
	BasicAlignment    Label = "Basic Alignment"
	MinimalAlignment  Label = "Minimal Alignment"
	NoAlignment       Label = "No Alignment"
)

// Enhancement messages
const (
	NoneNeeded    = "None needed"
	AllSectionsFn = "All sections need stronger alignment with the %s vocabulary."
	ManualReview  = "Manual review recommended: the document does not align with either category."
)

// Thresholds are the bucket boundaries of the decision table
type Thresholds struct {
	Full     float64
	Strong   float64
	Moderate float64
	Basic    float64
	Minimal  float64

	// WeakHigh applies once the total reaches WeakSwitch; WeakLow below it
	WeakHigh   float64
	WeakLow    float64
	WeakSwitch float64
}

// DefaultThresholds returns the standard bucket boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		Full:       90,
		Strong:     80,
		Moderate:   70,
		Basic:      60,
		Minimal:    50,
		WeakHigh:   18,
		WeakLow:    20,
		WeakSwitch: 70,
	}
}

// Validate checks that bucket boundaries descend
func (t Thresholds) Validate() error {
	var errs []error
	bounds := []float64{t.Full, t.Strong, t.Moderate, t.Basic, t.Minimal}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] > bounds[i-1] {
			errs = append(errs, fmt.Errorf("bucket boundaries must descend: %v > %v", bounds[i], bounds[i-1]))
		}
	}
	if t.Full > 100 || t.Minimal < 0 {
		errs = append(errs, errors.New("bucket boundaries must lie within 0-100"))
	}
	if t.WeakHigh < 0 || t.WeakLow < 0 || t.WeakHigh > 25 || t.WeakLow > 25 {
		errs = append(errs, errors.New("weak thresholds must lie within 0-25"))
	}
	return errors.Join(errs...)
}

// SectionScore is the dominant category's score for one section
type SectionScore struct {
	Section sections.Name
	Score   float64
}

// Interpretation is the outcome of the decision table
type Interpretation struct {
	Label        Label           `json:"label"`
	Enhancement  string          `json:"enhancement"`
	WeakSections []sections.Name `json:"weak_sections,omitempty"`
}

// Engine evaluates the decision table. It is stateless apart from its
// thresholds.
type Engine struct {
	t Thresholds
}

// NewEngine creates an engine with the given thresholds
func NewEngine(t Thresholds) *Engine {
	return &Engine{t: t}
}

// Interpret maps the dominant total and its section scores to a label and
// suggestion. categoryName is used in the all-sections message.
func (e *Engine) Interpret(total float64, scores []SectionScore, categoryName string) Interpretation {
	switch {
	case total >= e.t.Full:
		return Interpretation{Label: FullAlignment, Enhancement: NoneNeeded}
	case total >= e.t.Strong:
		return e.listWeak(StrongAlignment, total, scores)
	case total >= e.t.Moderate:
		return e.listWeak(ModerateAlignment, total, scores)
	case total >= e.t.Basic:
		return e.weakOrAll(BasicAlignment, total, scores, categoryName)
	case total >= e.t.Minimal:
		return e.weakOrAll(MinimalAlignment, total, scores, categoryName)
	default:
		return Interpretation{Label: NoAlignment, Enhancement: ManualReview}
	}
}

// WeakThreshold returns the bar below which a section counts as weak
func (e *Engine) WeakThreshold(total float64) float64 {
	if total >= e.t.WeakSwitch {
		return e.t.WeakHigh
	}
	return e.t.WeakLow
}

func (e *Engine) weakSections(total float64, scores []SectionScore) []sections.Name {
	bar := e.WeakThreshold(total)
	var weak []sections.Name
	for _, s := range scores {
		if s.Score < bar {
			weak = append(weak, s.Section)
		}
	}
	return weak
}

func (e *Engine) listWeak(label Label, total float64, scores []SectionScore) Interpretation {
	weak := e.weakSections(total, scores)
	if len(weak) == 0 {
		return Interpretation{Label: label, Enhancement: NoneNeeded}
	}
	return Interpretation{Label: label, Enhancement: strengthen(weak), WeakSections: weak}
}

func (e *Engine) weakOrAll(label Label, total float64, scores []SectionScore, categoryName string) Interpretation {
	weak := e.weakSections(total, scores)
	switch {
	case len(weak) == 0:
		return Interpretation{Label: label, Enhancement: NoneNeeded}
	case len(weak) == len(sections.Names) && len(scores) == len(sections.Names):
		return Interpretation{
			Label:        label,
			Enhancement:  fmt.Sprintf(AllSectionsFn, categoryName),
			WeakSections: weak,
		}
	default:
		return Interpretation{Label: label, Enhancement: strengthen(weak), WeakSections: weak}
	}
}

func strengthen(weak []sections.Name) string {
	labels := make([]string, len(weak))
	for i, n := range weak {
		labels[i] = n.Label()
	}

	var list string
	switch len(labels) {
	case 1:
		list = labels[0]
	case 2:
		list = labels[0] + " and " + labels[1]
	default:
		list = strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}

	noun := "section"
	if len(labels) > 1 {
		noun = "sections"
	}
	return fmt.Sprintf("Strengthen the %s %s with more category-specific terms.", list, noun)
}
