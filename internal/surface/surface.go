// Package surface picks a short list of decisive keywords to show alongside
// a classification result.
package surface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thesisalign/thesisalign/internal/classifier"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// Rule selects the eligibility predicate
type Rule string

const (
	// RulePair accepts terms whose weights are exactly Favored/Other
	RulePair Rule = "pair"
	// RuleRatio accepts terms whose favored weight dominates by MinRatio
	RuleRatio Rule = "ratio"
)

// Config configures the Surfacer
type Config struct {
	Rule        Rule
	Favored     int
	Other       int
	MinWeight   int
	MinRatio    float64
	MaxKeywords int
	// Aliases maps an abbreviation to its canonical display form
	Aliases map[string]string
}

// DefaultAliases returns the built-in abbreviation map
func DefaultAliases() map[string]string {
	return map[string]string{
		"ai":  "artificial intelligence",
		"iot": "internet of things",
		"ml":  "machine learning",
		"ui":  "user interface",
		"ux":  "user experience",
		"db":  "database",
		"os":  "operating system",
		"gis": "geographic information system",
	}
}

// DefaultConfig returns the 20-vs-10 pair rule with five keywords
func DefaultConfig() Config {
	return Config{
		Rule:        RulePair,
		Favored:     20,
		Other:       10,
		MinWeight:   15,
		MinRatio:    2,
		MaxKeywords: 5,
		Aliases:     DefaultAliases(),
	}
}

// Validate checks the rule name and limits
func (c Config) Validate() error {
	var errs []error
	switch c.Rule {
	case RulePair:
		if c.Favored < 0 || c.Other < 0 {
			errs = append(errs, errors.New("pair weights must be non-negative"))
		}
	case RuleRatio:
		if c.MinRatio <= 0 {
			errs = append(errs, errors.New("min_ratio must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rule %q (use pair or ratio)", c.Rule))
	}
	if c.MaxKeywords <= 0 {
		errs = append(errs, errors.New("max_keywords must be positive"))
	}
	return errors.Join(errs...)
}

// Surfacer selects display keywords. It holds no mutable state.
type Surfacer struct {
	config  Config
	aliases map[string]string
}

// New creates a Surfacer. Alias keys and values are normalized like keyword terms.
func New(cfg Config) *Surfacer {
	aliases := make(map[string]string, len(cfg.Aliases))
	for k, v := range cfg.Aliases {
		k, v = keywords.Normalize(k), keywords.Normalize(v)
		if k != "" && v != "" {
			aliases[k] = v
		}
	}
	return &Surfacer{config: cfg, aliases: aliases}
}

// Eligible reports whether an entry strongly favors the dominant category
func (s *Surfacer) Eligible(e keywords.Entry, dominant keywords.Category) bool {
	favored, other := e.Weight(dominant), e.Weight(dominant.Other())

	if s.config.Rule == RuleRatio {
		return favored >= s.config.MinWeight && float64(favored) >= s.config.MinRatio*float64(other)
	}
	return favored == s.config.Favored && other == s.config.Other
}

// Surface returns at most MaxKeywords display terms, scanning sections in
// priority order and terms in match order.
func (s *Surfacer) Surface(raw classifier.Raw, kw *keywords.Map, dominant keywords.Category) []string {
	out := []string{}
	var roots []string

	for _, n := range sections.Names {
		for _, term := range raw.Section(n).MatchedTerms {
			if len(out) >= s.config.MaxKeywords {
				return out
			}

			entry, ok := kw.Get(term)
			if !ok || !s.Eligible(entry, dominant) {
				continue
			}

			root, display := s.Root(entry.Term)
			if overlaps(root, roots) {
				continue
			}
			roots = append(roots, root)
			out = append(out, display)
		}
	}
	return out
}

// Root returns the deduplication root of a term and the form to display
func (s *Surfacer) Root(term string) (root, display string) {
	term = keywords.Normalize(term)
	display = term
	if exp, ok := s.aliases[term]; ok {
		display = exp
	}

	var words []string
	for _, w := range strings.Fields(term) {
		if exp, ok := s.aliases[w]; ok {
			words = append(words, strings.Fields(exp)...)
			continue
		}
		words = append(words, w)
	}
	for i, w := range words {
		words[i] = stem(w)
	}
	return strings.Join(words, " "), display
}

func overlaps(root string, accepted []string) bool {
	for _, r := range accepted {
		if strings.Contains(r, root) || strings.Contains(root, r) {
			return true
		}
	}
	return false
}

// stem strips one common plural or verb suffix from a word
func stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		return w[:len(w)-3]
	case len(w) > 4 && strings.HasSuffix(w, "ed"):
		return w[:len(w)-2]
	case len(w) > 4 && strings.HasSuffix(w, "es"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	default:
		return w
	}
}
