package keywords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Category identifies one of the two subject labels a document can be classified into
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
)

// Other returns the opposing category
func (c Category) Other() Category {
	if c == CategoryA {
		return CategoryB
	}
	return CategoryA
}

// ParseCategory accepts "a"/"b" in any case
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return CategoryA, nil
	case "B":
		return CategoryB, nil
	default:
		return "", fmt.Errorf("unknown category %q (use a or b)", s)
	}
}

// Entry is a single keyword with its contribution to each category
type Entry struct {
	Term    string `json:"term" yaml:"term"`
	WeightA int    `json:"weight_a" yaml:"a"`
	WeightB int    `json:"weight_b" yaml:"b"`
}

// Weight returns the entry's weight for the given category
func (e Entry) Weight(c Category) int {
	if c == CategoryA {
		return e.WeightA
	}
	return e.WeightB
}

// Warning describes a table row that was skipped or repaired during load
type Warning struct {
	Line   int    `json:"line"`
	Term   string `json:"term,omitempty"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	if w.Term == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
	}
	return fmt.Sprintf("line %d (%s): %s", w.Line, w.Term, w.Reason)
}

// Map is an immutable keyword lookup. It is built once by a loader and only
// read afterwards, so it can be shared between goroutines without locking.
type Map struct {
	entries  map[string]Entry
	order    []string
	warnings []Warning
}

// Normalize folds a term to its lookup key: lowercase, trimmed, hyphens and
// underscores replaced by spaces, inner whitespace collapsed.
func Normalize(term string) string {
	term = strings.ToLower(term)
	term = strings.NewReplacer("-", " ", "_", " ").Replace(term)
	return strings.Join(strings.Fields(term), " ")
}

// builder accumulates rows while a table is being read
type builder struct {
	m *Map
}

func newBuilder() *builder {
	return &builder{m: &Map{entries: make(map[string]Entry)}}
}

func (b *builder) warn(w Warning) {
	b.m.warnings = append(b.m.warnings, w)
	log.Warn().Int("line", w.Line).Str("term", w.Term).Msg("keyword table: " + w.Reason)
}

func (b *builder) add(line int, rawTerm, rawA, rawB string) {
	term := Normalize(rawTerm)
	if term == "" {
		b.warn(Warning{Line: line, Reason: "missing keyword, row skipped"})
		return
	}

	a := b.weight(line, term, "first category", rawA)
	bw := b.weight(line, term, "second category", rawB)

	if _, exists := b.m.entries[term]; exists {
		b.warn(Warning{Line: line, Term: term, Reason: "duplicate keyword, later weights kept"})
	} else {
		b.m.order = append(b.m.order, term)
	}
	b.m.entries[term] = Entry{Term: term, WeightA: a, WeightB: bw}
}

func (b *builder) weight(line int, term, which, raw string) int {
	w, ok := parseWeight(raw)
	if !ok {
		b.warn(Warning{
			Line:   line,
			Term:   term,
			Reason: fmt.Sprintf("invalid %s weight %q, using 0", which, raw),
		})
	}
	return w
}

// parseWeight accepts non-negative base-10 integers only
func parseWeight(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (b *builder) build() *Map {
	return b.m
}

// FromEntries builds a map directly from entries, e.g. for tests or fixtures
func FromEntries(entries ...Entry) *Map {
	b := newBuilder()
	for i, e := range entries {
		term := Normalize(e.Term)
		if term == "" {
			b.warn(Warning{Line: i + 1, Reason: "missing keyword, row skipped"})
			continue
		}
		if _, exists := b.m.entries[term]; !exists {
			b.m.order = append(b.m.order, term)
		}
		b.m.entries[term] = Entry{Term: term, WeightA: max(e.WeightA, 0), WeightB: max(e.WeightB, 0)}
	}
	return b.build()
}

// Lookup returns the weights for a term, (0, 0) when it is unknown
func (m *Map) Lookup(term string) (int, int) {
	e, ok := m.entries[Normalize(term)]
	if !ok {
		return 0, 0
	}
	return e.WeightA, e.WeightB
}

// Get returns the entry for a term
func (m *Map) Get(term string) (Entry, bool) {
	e, ok := m.entries[Normalize(term)]
	return e, ok
}

// Contains reports whether the term is in the table
func (m *Map) Contains(term string) bool {
	_, ok := m.entries[Normalize(term)]
	return ok
}

// Entries returns all entries in table order
func (m *Map) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, t := range m.order {
		out = append(out, m.entries[t])
	}
	return out
}

// Len returns the number of distinct keywords
func (m *Map) Len() int {
	return len(m.order)
}

// Warnings returns the non-fatal problems recorded while loading
func (m *Map) Warnings() []Warning {
	out := make([]Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}
