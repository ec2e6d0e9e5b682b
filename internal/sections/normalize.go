package sections

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	wrappedHyphen   = regexp.MustCompile(`(\p{L})-[ \t]*\n[ \t]*(\p{Ll})`)
	horizontalSpace = regexp.MustCompile(`[\t\f\v ]+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

// Normalize prepares raw extracted text for segmentation. Words split across
// lines with a hyphen are rejoined and horizontal whitespace is collapsed;
// line breaks survive because headers and the title are line oriented.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = wrappedHyphen.ReplaceAllString(s, "$1$2")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Clean collapses every run of whitespace, including line breaks, to one space
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
