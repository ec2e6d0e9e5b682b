package sections

import (
	"fmt"
	"regexp"
	"strings"
)

var pageNumberLine = regexp.MustCompile(`(?i)^(?:page\s+)?(?:\d+|[ivx]{1,5})(?:\s+of\s+\d+)?\.?$`)

const anchorGap = 2

type titleDetector struct {
	anchor   []string
	stops    *regexp.Regexp
	maxLines int
}

func newTitleDetector(anchor, stops []string, maxLines int) (*titleDetector, error) {
	d := &titleDetector{maxLines: maxLines}
	for _, a := range anchor {
		if a = strings.ToLower(Clean(a)); a != "" {
			d.anchor = append(d.anchor, a)
		}
	}
	if len(stops) > 0 {
		re, err := regexp.Compile(`(?i)^(?:` + alternation(stops) + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("invalid title stop headers: %w", err)
		}
		d.stops = re
	}
	return d, nil
}

// find locates the anchor block and returns the lines that follow it up to
// the first stop header.
func (d *titleDetector) find(lines []string) string {
	if len(d.anchor) == 0 {
		return ""
	}

	nonEmpty := make([]int, 0, len(lines))
	for i, l := range lines {
		if l != "" {
			nonEmpty = append(nonEmpty, i)
		}
	}

	after := -1
	for i := range nonEmpty {
		if end, ok := d.matchAnchor(lines, nonEmpty[i:]); ok {
			after = end
			break
		}
	}
	if after < 0 {
		return ""
	}

	var parts []string
	for _, line := range lines[after+1:] {
		switch {
		case line == "", pageNumberLine.MatchString(line), d.inAnchor(line):
			continue
		case d.stops != nil && d.stops.MatchString(line):
			return strings.Join(parts, " ")
		}
		parts = append(parts, line)
		if len(parts) >= d.maxLines {
			break
		}
	}
	return strings.Join(parts, " ")
}

// matchAnchor checks whether the anchor block starts at the first of the given
// non-empty lines. Phrases must appear in order; up to anchorGap unrelated
// lines (a university or department name) may sit between two of them.
// It returns the index of the line holding the last phrase.
func (d *titleDetector) matchAnchor(lines []string, nonEmpty []int) (int, bool) {
	pos := 0
	for k, a := range d.anchor {
		limit := pos + 1
		if k > 0 {
			limit = pos + 1 + anchorGap
		}
		found := -1
		for j := pos; j < len(nonEmpty) && j < limit; j++ {
			if strings.Contains(strings.ToLower(lines[nonEmpty[j]]), a) {
				found = j
				break
			}
		}
		if found < 0 {
			return 0, false
		}
		pos = found + 1
	}
	return nonEmpty[pos-1], true
}

func (d *titleDetector) inAnchor(line string) bool {
	lower := strings.ToLower(line)
	for _, a := range d.anchor {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}
