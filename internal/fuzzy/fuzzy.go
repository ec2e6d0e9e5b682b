// Package fuzzy provides approximate string similarity scores on a 0-100 scale.
package fuzzy

import (
	"unicode"

	"github.com/agnivade/levenshtein"
)

// MinRunes is the shortest needle that can produce a partial match.
// Shorter terms only ever match exactly.
const MinRunes = 4

// Matcher scores approximate matches between a keyword and a body of text
type Matcher interface {
	PartialRatio(needle, haystack string) float64
}

// Levenshtein implements Matcher with edit-distance ratios
type Levenshtein struct{}

// NewLevenshtein returns the default matcher
func NewLevenshtein() Levenshtein {
	return Levenshtein{}
}

// Ratio returns 100 * (1 - distance / longer length)
func Ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// PartialRatio returns the best Ratio between the shorter string and the
// windows of the longer one that start at a word boundary and are within one
// rune of the shorter string's length.
func (Levenshtein) PartialRatio(needle, haystack string) float64 {
	short, long := []rune(needle), []rune(haystack)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) < MinRunes {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(string(short), string(long))
	}

	target := string(short)
	best := 0.0
	for _, start := range wordStarts(long) {
		for _, width := range []int{len(short), len(short) - 1, len(short) + 1} {
			end := min(start+width, len(long))
			if end <= start {
				continue
			}
			if score := Ratio(target, string(long[start:end])); score > best {
				best = score
			}
			if best == 100 {
				return best
			}
		}
	}
	return best
}

func wordStarts(rs []rune) []int {
	var starts []int
	for i, r := range rs {
		if !isWordRune(r) {
			continue
		}
		if i == 0 || !isWordRune(rs[i-1]) {
			starts = append(starts, i)
		}
	}
	return starts
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
