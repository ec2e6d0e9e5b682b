// Package analyzer runs the full classification pipeline: extraction,
// keyword matching, scoring, interpretation and keyword surfacing.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/thesisalign/thesisalign/internal/classifier"
	"github.com/thesisalign/thesisalign/internal/fuzzy"
	"github.com/thesisalign/thesisalign/internal/interpret"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/scoring"
	"github.com/thesisalign/thesisalign/internal/sections"
	"github.com/thesisalign/thesisalign/internal/surface"
)

// ErrUnusableDocument is returned when the input holds no text to classify
var ErrUnusableDocument = errors.New("unusable document: no text to classify")

// Category describes how a category is shown to users
type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Config wires the configuration of every pipeline stage
type Config struct {
	Rules      sections.Rules
	Classifier classifier.Config
	Scoring    scoring.Config
	Thresholds interpret.Thresholds
	Surface    surface.Config
	CategoryA  Category
	CategoryB  Category
}

// DefaultConfig returns the pipeline defaults for Computer Science versus
// Information Technology.
func DefaultConfig() Config {
	return Config{
		Rules:      sections.DefaultRules(),
		Classifier: classifier.DefaultConfig(),
		Scoring:    scoring.DefaultConfig(),
		Thresholds: interpret.DefaultThresholds(),
		Surface:    surface.DefaultConfig(),
		CategoryA:  Category{Code: "CS", Name: "Computer Science"},
		CategoryB:  Category{Code: "IT", Name: "Information Technology"},
	}
}

// Result is the outcome of classifying one document. It is built once and
// never modified afterwards.
type Result struct {
	Title          string                                 `json:"title"`
	Texts          map[sections.Name]string               `json:"texts"`
	Sections       map[sections.Name]scoring.SectionScore `json:"sections"`
	TotalA         float64                                `json:"total_a"`
	TotalB         float64                                `json:"total_b"`
	Dominant       keywords.Category                      `json:"dominant"`
	DominantCode   string                                 `json:"dominant_code"`
	Interpretation interpret.Label                        `json:"interpretation"`
	Enhancement    string                                 `json:"enhancement"`
	WeakSections   []sections.Name                        `json:"weak_sections,omitempty"`
	Keywords       []string                               `json:"keywords"`
	Matches        []classifier.SectionRaw                `json:"matches"`
	FuzzyEnabled   bool                                   `json:"fuzzy_enabled"`
}

// Total returns the total score of a category
func (r *Result) Total(c keywords.Category) float64 {
	if c == keywords.CategoryA {
		return r.TotalA
	}
	return r.TotalB
}

// DominantTotal returns the total of the winning category
func (r *Result) DominantTotal() float64 {
	return r.Total(r.Dominant)
}

// Analyzer holds the configured pipeline stages and the shared keyword map.
// It is safe for concurrent use.
type Analyzer struct {
	kw         *keywords.Map
	extractor  *sections.Extractor
	classifier *classifier.Classifier
	scorer     *scoring.Scorer
	engine     *interpret.Engine
	surfacer   *surface.Surfacer
	categories map[keywords.Category]Category
}

// New validates the configuration and builds the pipeline
func New(kw *keywords.Map, cfg Config) (*Analyzer, error) {
	if kw == nil {
		return nil, errors.New("keyword map is required")
	}

	if err := errors.Join(
		cfg.Scoring.Validate(),
		cfg.Thresholds.Validate(),
		cfg.Surface.Validate(),
	); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	extractor, err := sections.NewExtractor(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build section extractor: %w", err)
	}

	var matcher fuzzy.Matcher
	if cfg.Classifier.Fuzzy {
		matcher = fuzzy.NewLevenshtein()
	}

	return &Analyzer{
		kw:         kw,
		extractor:  extractor,
		classifier: classifier.New(cfg.Classifier, matcher),
		scorer:     scoring.NewScorer(cfg.Scoring),
		engine:     interpret.NewEngine(cfg.Thresholds),
		surfacer:   surface.New(cfg.Surface),
		categories: map[keywords.Category]Category{
			keywords.CategoryA: cfg.CategoryA,
			keywords.CategoryB: cfg.CategoryB,
		},
	}, nil
}

// Keywords returns the keyword map the analyzer classifies against
func (a *Analyzer) Keywords() *keywords.Map {
	return a.kw
}

// Category returns the display info of a category
func (a *Analyzer) Category(c keywords.Category) Category {
	return a.categories[c]
}

// ResolveCategory accepts a configured category code or "A"/"B", case-insensitively
func (a *Analyzer) ResolveCategory(s string) (keywords.Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range []keywords.Category{keywords.CategoryA, keywords.CategoryB} {
		if strings.EqualFold(s, a.categories[c].Code) {
			return c, nil
		}
	}
	return keywords.ParseCategory(s)
}

// Extract segments raw text into sections
func (a *Analyzer) Extract(raw string) (sections.Document, error) {
	if !hasLetters(raw) {
		return sections.Document{}, ErrUnusableDocument
	}
	return a.extractor.Extract(raw), nil
}

// AnalyzeText segments raw text and classifies it
func (a *Analyzer) AnalyzeText(ctx context.Context, raw string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := a.Extract(raw)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, doc)
}

// AnalyzeDocument classifies a pre-segmented document. A document whose
// four sections are all missing is unusable.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc sections.Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := false
	for _, n := range sections.Names {
		if doc.Found(n) {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnusableDocument
	}
	return a.analyze(ctx, doc)
}

func (a *Analyzer) analyze(ctx context.Context, doc sections.Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := a.classifier.Classify(doc, a.kw)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := a.scorer.Score(raw)

	dominantScores := make([]interpret.SectionScore, 0, len(scores.Sections))
	sectionScores := make(map[sections.Name]scoring.SectionScore, len(scores.Sections))
	for _, s := range scores.Sections {
		sectionScores[s.Section] = s
		dominantScores = append(dominantScores, interpret.SectionScore{
			Section: s.Section,
			Score:   s.Score(scores.Dominant),
		})
	}

	category := a.categories[scores.Dominant]
	verdict := a.engine.Interpret(scores.Total(scores.Dominant), dominantScores, category.Name)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	surfaced := a.surfacer.Surface(raw, a.kw, scores.Dominant)

	return &Result{
		Title:          doc.Text(sections.Title),
		Texts:          doc.Map(),
		Sections:       sectionScores,
		TotalA:         scores.TotalA,
		TotalB:         scores.TotalB,
		Dominant:       scores.Dominant,
		DominantCode:   category.Code,
		Interpretation: verdict.Label,
		Enhancement:    verdict.Enhancement,
		WeakSections:   verdict.WeakSections,
		Keywords:       surfaced,
		Matches:        raw.Sections,
		FuzzyEnabled:   raw.FuzzyEnabled,
	}, nil
}

func hasLetters(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
