package sections

import (
	"errors"
	"fmt"
	"strings"
)

// Rules configures the header heuristics used by the Extractor
type Rules struct {
	// TitleAnchor is the institutional header block that precedes the title,
	// one phrase per consecutive non-empty line.
	TitleAnchor []string
	// TitleStops are headings that end the title block.
	TitleStops    []string
	MaxTitleLines int

	Introduction []string
	Objectives   []string
	Scope        []string
	// Terminators are headings that end a section span without starting one.
	// They only count at the start of a line.
	Terminators []string

	// MinSectionWords rejects spans that are too short to be real content,
	// such as table of contents entries.
	MinSectionWords int
	MaxSectionChars int
}

// DefaultRules returns the heuristics tuned for undergraduate thesis manuscripts
func DefaultRules() Rules {
	return Rules{
		TitleAnchor: []string{
			"Republic of the Philippines",
			"College of Computer Studies",
		},
		TitleStops: []string{
			"Introduction", "Abstract", "Table of Contents", "Acknowledgement",
			"Acknowledgment", "Approval Sheet", "Dedication", "A Thesis",
			"A Capstone Project", "A Research Paper", "In Partial Fulfillment",
			"Presented to", "Submitted by", "Chapter",
		},
		MaxTitleLines: 6,
		Introduction:  []string{"Introduction", "Rationale", "Background", "Background of the Study"},
		Objectives: []string{
			"Objectives", "Objectives of the Study", "General Objectives",
			"Specific Objectives", "Research Objectives",
		},
		Scope: []string{
			"Scope and Limitations", "Scope and Limitations of the Study",
			"Scope and Delimitations", "Scope of the Study",
		},
		Terminators: []string{
			"Significance of the Study", "Statement of the Problem", "Definition of Terms",
			"Review of Related Literature", "Related Literature", "Methodology",
			"Conceptual Framework", "Theoretical Framework", "Abstract",
			"Table of Contents", "References", "Bibliography", "Chapter",
		},
		MinSectionWords: 3,
		MaxSectionChars: 20000,
	}
}

// Validate reports rules that would make extraction meaningless
func (r Rules) Validate() error {
	var errs []error
	if len(r.Introduction) == 0 || len(r.Objectives) == 0 || len(r.Scope) == 0 {
		errs = append(errs, errors.New("every body section needs at least one header synonym"))
	}
	if r.MaxTitleLines < 1 {
		errs = append(errs, errors.New("max title lines must be at least 1"))
	}
	if r.MinSectionWords < 0 {
		errs = append(errs, errors.New("min section words cannot be negative"))
	}
	if r.MaxSectionChars < 1 {
		errs = append(errs, errors.New("max section chars must be at least 1"))
	}
	return errors.Join(errs...)
}

// Extractor splits normalized document text into the four logical sections.
// It holds only compiled patterns and is safe for concurrent use.
type Extractor struct {
	rules       Rules
	title       *titleDetector
	detectors   []*detector
	terminators *detector
}

// NewExtractor compiles the rules into detectors
func NewExtractor(rules Rules) (*Extractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction rules: %w", err)
	}

	title, err := newTitleDetector(rules.TitleAnchor, rules.TitleStops, rules.MaxTitleLines)
	if err != nil {
		return nil, err
	}

	e := &Extractor{rules: rules, title: title}
	for _, h := range []struct {
		name     Name
		synonyms []string
	}{
		{Introduction, rules.Introduction},
		{Objectives, rules.Objectives},
		{Scope, rules.Scope},
	} {
		d, err := newDetector(h.name, h.synonyms, false)
		if err != nil {
			return nil, err
		}
		e.detectors = append(e.detectors, d)
	}

	if len(rules.Terminators) > 0 {
		e.terminators, err = newDetector("", rules.Terminators, true)
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Extract never fails: sections that cannot be located get a sentinel
func (e *Extractor) Extract(raw string) Document {
	text := Normalize(raw)
	texts := make(map[Name]string, len(Names))

	texts[Title] = e.title.find(strings.Split(text, "\n"))

	for _, s := range e.selectSpans(text) {
		texts[s.section] = s.text
	}

	return NewDocument(texts)
}
