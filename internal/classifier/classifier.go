package classifier

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/thesisalign/thesisalign/internal/fuzzy"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// DefaultFuzzyThreshold is the similarity a partial match must exceed
const DefaultFuzzyThreshold = 85.0

// SectionRaw is the raw keyword tally for one section
type SectionRaw struct {
	Section      sections.Name `json:"section"`
	RawA         int           `json:"raw_a"`
	RawB         int           `json:"raw_b"`
	MatchedTerms []string      `json:"matched_terms"`
	FuzzyTerms   []string      `json:"fuzzy_terms,omitempty"` // subset of MatchedTerms
}

// Raw holds the tallies of all four sections in section order
type Raw struct {
	Sections     []SectionRaw `json:"sections"`
	FuzzyEnabled bool         `json:"fuzzy_enabled"`
}

// Section returns the tally for one section
func (r Raw) Section(n sections.Name) SectionRaw {
	for _, s := range r.Sections {
		if s.Section == n {
			return s
		}
	}
	return SectionRaw{Section: n}
}

// Config configures the classifier
type Config struct {
	Fuzzy          bool
	FuzzyThreshold float64
}

// DefaultConfig enables fuzzy matching at the default threshold
func DefaultConfig() Config {
	return Config{Fuzzy: true, FuzzyThreshold: DefaultFuzzyThreshold}
}

// Classifier matches section text against the keyword table. It keeps no
// per-document state and can be shared between goroutines.
type Classifier struct {
	matcher   fuzzy.Matcher
	threshold float64
	degraded  sync.Once
}

// New creates a classifier. When fuzzy matching is disabled in the config or
// matcher is nil the classifier runs exact-match only.
func New(cfg Config, matcher fuzzy.Matcher) *Classifier {
	c := &Classifier{threshold: cfg.FuzzyThreshold}
	if cfg.Fuzzy {
		c.matcher = matcher
	}
	return c
}

// FuzzyEnabled reports whether approximate matching is available
func (c *Classifier) FuzzyEnabled() bool {
	return c.matcher != nil
}

// Classify tallies every section of the document. Sections holding a
// sentinel score zero.
func (c *Classifier) Classify(doc sections.Document, kw *keywords.Map) Raw {
	if c.matcher == nil {
		c.degraded.Do(func() {
			log.Info().Bool("degraded", true).Msg("fuzzy matching unavailable; using exact matches only")
		})
	}

	entries := kw.Entries()
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = normalizeText(e.Term)
	}

	raw := Raw{
		Sections:     make([]SectionRaw, 0, len(sections.Names)),
		FuzzyEnabled: c.FuzzyEnabled(),
	}
	for _, name := range sections.Names {
		sr := SectionRaw{Section: name, MatchedTerms: []string{}}
		if doc.Found(name) {
			c.tally(&sr, normalizeText(doc.Text(name)), entries, terms)
		}
		raw.Sections = append(raw.Sections, sr)
	}
	return raw
}

func (c *Classifier) tally(sr *SectionRaw, text string, entries []keywords.Entry, terms []string) {
	for i, e := range entries {
		term := terms[i]
		switch {
		case containsWord(text, term):
		case c.matcher != nil && c.matcher.PartialRatio(term, text) > c.threshold:
			sr.FuzzyTerms = append(sr.FuzzyTerms, e.Term)
		default:
			continue
		}
		sr.RawA += e.WeightA
		sr.RawB += e.WeightB
		sr.MatchedTerms = append(sr.MatchedTerms, e.Term)
	}
}
