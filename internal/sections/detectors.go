package sections

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	priorityInline    = 1
	priorityLineStart = 2
)

var (
	// numbering allowed between the line start and a header, e.g. "1.2", "II.", "CHAPTER 1"
	headerPrefix = regexp.MustCompile(`(?i)^(?:chapter\s+(?:\d+|[ivx]+)\s*[:.\-]?\s*|\d+(?:\.\d+)*[.)]?\s*|(?:[ivx]+|[a-z])[.)]\s*)?$`)
	leaderDots   = regexp.MustCompile(`\.{2,}|…+`)
	headerTail   = regexp.MustCompile(`^[\s:.\-–—]*`)
	// a table of contents entry: leader dots then a page number at the end of the line
	tocEntry = regexp.MustCompile(`(?i)(?:\.{2,}|…+)\s*(?:\d+|[ivxlc]+)$`)
)

// alternation builds a regexp alternation with the longest phrases first so
// "Objectives of the Study" wins over "Objectives" at the same position.
func alternation(phrases []string) string {
	sorted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = Clean(p); p != "" {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return strings.Join(quoted, "|")
}

// mark is one header occurrence in the text
type mark struct {
	section   Name // empty for terminators
	start     int
	end       int
	lineStart bool
}

// detector finds the headers of one section, or the terminator headings
type detector struct {
	section       Name
	re            *regexp.Regexp
	lineStartOnly bool
}

func newDetector(section Name, phrases []string, lineStartOnly bool) (*detector, error) {
	alt := alternation(phrases)
	if alt == "" {
		return nil, fmt.Errorf("no header phrases for %q", section)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + alt + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid header phrases for %q: %w", section, err)
	}
	return &detector{section: section, re: re, lineStartOnly: lineStartOnly}, nil
}

func (d *detector) find(text string) []mark {
	var marks []mark
	for _, loc := range d.re.FindAllStringIndex(text, -1) {
		ls := atLineStart(text, loc[0])
		if d.lineStartOnly && !ls {
			continue
		}
		marks = append(marks, mark{section: d.section, start: loc[0], end: loc[1], lineStart: ls})
	}
	return marks
}

func atLineStart(text string, pos int) bool {
	lineBegin := strings.LastIndexByte(text[:pos], '\n') + 1
	return headerPrefix.MatchString(text[lineBegin:pos])
}

// span is a candidate section body
type span struct {
	section  Name
	start    int
	end      int
	priority int
	text     string
	words    int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// candidates turns every header mark into a lazy span that stops at the next
// header belonging to any other section, or at the end of the text.
func (e *Extractor) candidates(text string) []span {
	var marks []mark
	own := make(map[Name]*regexp.Regexp, len(e.detectors))
	for _, d := range e.detectors {
		marks = append(marks, d.find(text)...)
		own[d.section] = d.re
	}
	if e.terminators != nil {
		marks = append(marks, e.terminators.find(text)...)
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	var spans []span
	for i, m := range marks {
		if m.section == "" {
			continue
		}

		bodyStart := m.end + len(headerTail.FindString(text[m.end:]))
		end := len(text)
		for _, next := range marks[i+1:] {
			if next.start >= bodyStart && next.section != m.section {
				end = next.start
				break
			}
		}
		if end < bodyStart {
			end = bodyStart
		}

		priority := priorityInline
		if m.lineStart {
			priority = priorityLineStart
		}
		spans = append(spans, span{
			section:  m.section,
			start:    m.start,
			end:      end,
			priority: priority,
			text:     truncateRunes(Clean(text[bodyStart:end]), e.rules.MaxSectionChars),
			words:    bodyWords(text[bodyStart:end], own[m.section]),
		})
	}
	return spans
}

// selectSpans keeps at most one span per section. Line-start headers beat
// inline ones; among equals the earliest wins. Overlapping and near-empty
// spans are rejected.
func (e *Extractor) selectSpans(text string) []span {
	cands := e.candidates(text)
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].priority != cands[j].priority {
			return cands[i].priority > cands[j].priority
		}
		return cands[i].start < cands[j].start
	})

	var accepted []span
	taken := make(map[Name]bool, len(Names))
	for _, c := range cands {
		if taken[c.section] {
			continue
		}
		if c.words < e.rules.MinSectionWords {
			continue
		}
		overlapping := false
		for _, a := range accepted {
			if c.overlaps(a) {
				overlapping = true
				break
			}
		}
		if overlapping {
			continue
		}
		accepted = append(accepted, c)
		taken[c.section] = true
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	return accepted
}

// bodyWords counts the content words of a span body line by line. Table of
// contents entries and the section's own header synonyms do not count, so a
// contents listing "Introduction" followed by "Background of the Study" stays
// empty.
func bodyWords(body string, own *regexp.Regexp) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || tocEntry.MatchString(line) {
			continue
		}
		if own != nil {
			line = own.ReplaceAllString(line, " ")
		}
		n += contentWords(line)
	}
	return n
}

// contentWords counts words that carry letters, ignoring leader dots and
// page numbers so that table of contents lines count as empty.
func contentWords(s string) int {
	s = leaderDots.ReplaceAllString(s, " ")
	n := 0
	for _, f := range strings.Fields(s) {
		if pageNumberLine.MatchString(f) {
			continue
		}
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			n++
		}
	}
	return n
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
