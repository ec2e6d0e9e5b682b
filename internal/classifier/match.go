package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// normalizeText lowercases section text and folds separators the same way
// keyword terms are folded, so "Cloud-Computing" matches "cloud computing".
func normalizeText(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	s = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// containsWord checks if text contains the term as a whole word or phrase.
// This prevents "net" from matching "network" or "internet".
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}

	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx == -1 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}

		// Try the next occurrence
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

// isWordRune returns true for letters and digits
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
