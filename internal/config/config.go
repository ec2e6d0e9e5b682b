package config

import (
	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/classifier"
	"github.com/thesisalign/thesisalign/internal/interpret"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/scoring"
	"github.com/thesisalign/thesisalign/internal/sections"
	"github.com/thesisalign/thesisalign/internal/surface"
)

// Config represents the application configuration
type Config struct {
	Keywords       KeywordsConfig       `toml:"keywords"`
	Categories     CategoriesConfig     `toml:"categories"`
	Extraction     ExtractionConfig     `toml:"extraction"`
	Matching       MatchingConfig       `toml:"matching"`
	Scoring        ScoringConfig        `toml:"scoring"`
	Interpretation InterpretationConfig `toml:"interpretation"`
	Surfacing      SurfacingConfig      `toml:"surfacing"`
	Database       DatabaseConfig       `toml:"database"`
	Logging        LoggingConfig        `toml:"logging"`
	Batch          BatchConfig          `toml:"batch"`
	MCP            MCPConfig            `toml:"mcp"`
}

// KeywordsConfig locates the keyword table and names its columns
type KeywordsConfig struct {
	Path       string `toml:"path"`
	TermColumn string `toml:"term_column"`
	AColumn    string `toml:"a_column"`
	BColumn    string `toml:"b_column"`
}

// Columns returns the CSV header names
func (k KeywordsConfig) Columns() keywords.Columns {
	return keywords.Columns{Term: k.TermColumn, A: k.AColumn, B: k.BColumn}
}

// CategoriesConfig names the two categories
type CategoriesConfig struct {
	ACode    string `toml:"a_code"`
	AName    string `toml:"a_name"`
	BCode    string `toml:"b_code"`
	BName    string `toml:"b_name"`
	TieBreak string `toml:"tie_break"` // "A" or "B"
}

// ExtractionConfig contains the section header heuristics
type ExtractionConfig struct {
	TitleAnchor     []string `toml:"title_anchor"`
	TitleStops      []string `toml:"title_stops"`
	MaxTitleLines   int      `toml:"max_title_lines"`
	Introduction    []string `toml:"introduction"`
	Objectives      []string `toml:"objectives"`
	Scope           []string `toml:"scope"`
	Terminators     []string `toml:"terminators"`
	MinSectionWords int      `toml:"min_section_words"`
	MaxSectionChars int      `toml:"max_section_chars"`
}

// MatchingConfig contains keyword matching settings
type MatchingConfig struct {
	Fuzzy          bool    `toml:"fuzzy"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
}

// ScoringConfig contains the per-section normalization ceilings
type ScoringConfig struct {
	TitleCeiling        float64 `toml:"title_ceiling"`
	IntroductionCeiling float64 `toml:"introduction_ceiling"`
	ObjectivesCeiling   float64 `toml:"objectives_ceiling"`
	ScopeCeiling        float64 `toml:"scope_ceiling"`
}

// InterpretationConfig contains the alignment bucket boundaries
type InterpretationConfig struct {
	Full       float64 `toml:"full"`
	Strong     float64 `toml:"strong"`
	Moderate   float64 `toml:"moderate"`
	Basic      float64 `toml:"basic"`
	Minimal    float64 `toml:"minimal"`
	WeakHigh   float64 `toml:"weak_high"`
	WeakLow    float64 `toml:"weak_low"`
	WeakSwitch float64 `toml:"weak_switch"`
}

// SurfacingConfig contains the decisive keyword settings
type SurfacingConfig struct {
	Rule          string            `toml:"rule"` // "pair" or "ratio"
	FavoredWeight int               `toml:"favored_weight"`
	OtherWeight   int               `toml:"other_weight"`
	MinWeight     int               `toml:"min_weight"`
	MinRatio      float64           `toml:"min_ratio"`
	MaxKeywords   int               `toml:"max_keywords"`
	Aliases       map[string]string `toml:"aliases"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// BatchConfig contains batch classification settings
type BatchConfig struct {
	Workers int `toml:"workers"` // 0 uses one worker per CPU
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled     bool   `toml:"enabled"`
	Transport   string `toml:"transport"`
	RecentLimit int    `toml:"recent_limit"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	rules := sections.DefaultRules()
	scores := scoring.DefaultConfig()
	thresholds := interpret.DefaultThresholds()
	surfacing := surface.DefaultConfig()

	return &Config{
		Keywords: KeywordsConfig{
			Path:       "~/.config/thesisalign/keywords.csv",
			TermColumn: "keyword",
			AColumn:    "CS",
			BColumn:    "IT",
		},
		Categories: CategoriesConfig{
			ACode:    "CS",
			AName:    "Computer Science",
			BCode:    "IT",
			BName:    "Information Technology",
			TieBreak: string(scores.TieBreak),
		},
		Extraction: ExtractionConfig{
			TitleAnchor:     rules.TitleAnchor,
			TitleStops:      rules.TitleStops,
			MaxTitleLines:   rules.MaxTitleLines,
			Introduction:    rules.Introduction,
			Objectives:      rules.Objectives,
			Scope:           rules.Scope,
			Terminators:     rules.Terminators,
			MinSectionWords: rules.MinSectionWords,
			MaxSectionChars: rules.MaxSectionChars,
		},
		Matching: MatchingConfig{
			Fuzzy:          true,
			FuzzyThreshold: classifier.DefaultFuzzyThreshold,
		},
		Scoring: ScoringConfig{
			TitleCeiling:        scores.Ceilings.Title,
			IntroductionCeiling: scores.Ceilings.Introduction,
			ObjectivesCeiling:   scores.Ceilings.Objectives,
			ScopeCeiling:        scores.Ceilings.Scope,
		},
		Interpretation: InterpretationConfig{
			Full:       thresholds.Full,
			Strong:     thresholds.Strong,
			Moderate:   thresholds.Moderate,
			Basic:      thresholds.Basic,
			Minimal:    thresholds.Minimal,
			WeakHigh:   thresholds.WeakHigh,
			WeakLow:    thresholds.WeakLow,
			WeakSwitch: thresholds.WeakSwitch,
		},
		Surfacing: SurfacingConfig{
			Rule:          string(surfacing.Rule),
			FavoredWeight: surfacing.Favored,
			OtherWeight:   surfacing.Other,
			MinWeight:     surfacing.MinWeight,
			MinRatio:      surfacing.MinRatio,
			MaxKeywords:   surfacing.MaxKeywords,
			Aliases:       surfacing.Aliases,
		},
		Database: DatabaseConfig{
			Path: "~/.local/share/thesisalign/thesisalign.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		MCP: MCPConfig{
			Enabled:     true,
			Transport:   "stdio",
			RecentLimit: 10,
		},
	}
}

// Analyzer converts the configuration into pipeline settings
func (c *Config) Analyzer() analyzer.Config {
	tieBreak, err := keywords.ParseCategory(c.Categories.TieBreak)
	if err != nil {
		tieBreak = keywords.CategoryB
	}

	return analyzer.Config{
		Rules: sections.Rules{
			TitleAnchor:     c.Extraction.TitleAnchor,
			TitleStops:      c.Extraction.TitleStops,
			MaxTitleLines:   c.Extraction.MaxTitleLines,
			Introduction:    c.Extraction.Introduction,
			Objectives:      c.Extraction.Objectives,
			Scope:           c.Extraction.Scope,
			Terminators:     c.Extraction.Terminators,
			MinSectionWords: c.Extraction.MinSectionWords,
			MaxSectionChars: c.Extraction.MaxSectionChars,
		},
		Classifier: classifier.Config{
			Fuzzy:          c.Matching.Fuzzy,
			FuzzyThreshold: c.Matching.FuzzyThreshold,
		},
		Scoring: scoring.Config{
			Ceilings: scoring.Ceilings{
				Title:        c.Scoring.TitleCeiling,
				Introduction: c.Scoring.IntroductionCeiling,
				Objectives:   c.Scoring.ObjectivesCeiling,
				Scope:        c.Scoring.ScopeCeiling,
			},
			TieBreak: tieBreak,
		},
		Thresholds: interpret.Thresholds{
			Full:       c.Interpretation.Full,
			Strong:     c.Interpretation.Strong,
			Moderate:   c.Interpretation.Moderate,
			Basic:      c.Interpretation.Basic,
			Minimal:    c.Interpretation.Minimal,
			WeakHigh:   c.Interpretation.WeakHigh,
			WeakLow:    c.Interpretation.WeakLow,
			WeakSwitch: c.Interpretation.WeakSwitch,
		},
		Surface: surface.Config{
			Rule:        surface.Rule(c.Surfacing.Rule),
			Favored:     c.Surfacing.FavoredWeight,
			Other:       c.Surfacing.OtherWeight,
			MinWeight:   c.Surfacing.MinWeight,
			MinRatio:    c.Surfacing.MinRatio,
			MaxKeywords: c.Surfacing.MaxKeywords,
			Aliases:     c.Surfacing.Aliases,
		},
		CategoryA: analyzer.Category{Code: c.Categories.ACode, Name: c.Categories.AName},
		CategoryB: analyzer.Category{Code: c.Categories.BCode, Name: c.Categories.BName},
	}
}
