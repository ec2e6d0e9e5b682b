package sections

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Name identifies one of the four logical regions of a document
type Name string

const (
	Title        Name = "title"
	Introduction Name = "introduction"
	Objectives   Name = "objectives"
	Scope        Name = "scope"
)

// Names lists the sections in priority order
var Names = []Name{Title, Introduction, Objectives, Scope}

// Sentinels stored for sections that could not be located
const (
	TitleNotFound = "Title Not Found"
	NotFound      = "Not Found"
)

// Label returns the display heading for the section
func (n Name) Label() string {
	switch n {
	case Title:
		return "Title"
	case Introduction:
		return "Introduction"
	case Objectives:
		return "Objectives"
	case Scope:
		return "Scope and Limitations"
	default:
		return string(n)
	}
}

// sentinel returns the placeholder text for a missing section
func (n Name) sentinel() string {
	if n == Title {
		return TitleNotFound
	}
	return NotFound
}

// ParseName maps user-facing section keys onto a Name
func ParseName(s string) (Name, bool) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "title":
		return Title, true
	case "introduction", "intro", "rationale", "background":
		return Introduction, true
	case "objectives", "objective":
		return Objectives, true
	case "scope", "scope and limitations", "scope_and_limitations", "limitations":
		return Scope, true
	default:
		return "", false
	}
}

// Document holds the text of all four sections. Missing sections carry a
// sentinel instead of being absent.
type Document struct {
	sections map[Name]string
}

// NewDocument builds a document, storing sentinels for blank sections
func NewDocument(texts map[Name]string) Document {
	d := Document{sections: make(map[Name]string, len(Names))}
	for _, n := range Names {
		text := Clean(texts[n])
		if text == "" {
			text = n.sentinel()
		}
		d.sections[n] = text
	}
	return d
}

// FromMap builds a document from pre-segmented input with free-form keys.
// Unknown keys are ignored. When several keys name the same section the
// canonical key ("scope" over "limitations") wins, otherwise the first key in
// sorted order.
func FromMap(raw map[string]string) Document {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	texts := make(map[Name]string, len(Names))
	from := make(map[Name]string, len(Names))
	for _, k := range keys {
		n, ok := ParseName(k)
		if !ok {
			continue
		}
		prev, dup := from[n]
		if dup {
			keep := prev
			if isCanonical(k, n) && !isCanonical(prev, n) {
				keep = k
			}
			log.Warn().Str("section", string(n)).Str("kept", keep).
				Strs("keys", []string{prev, k}).Msg("duplicate section keys")
			if keep == prev {
				continue
			}
		}
		texts[n] = raw[k]
		from[n] = k
	}
	return NewDocument(texts)
}

func isCanonical(key string, n Name) bool {
	return strings.EqualFold(strings.TrimSpace(key), string(n))
}

// Text returns the stored text, which may be a sentinel
func (d Document) Text(n Name) string {
	if t, ok := d.sections[n]; ok {
		return t
	}
	return n.sentinel()
}

// Found reports whether the section holds real text
func (d Document) Found(n Name) bool {
	t := d.Text(n)
	return t != n.sentinel() && t != ""
}

// Map returns a copy of the section texts
func (d Document) Map() map[Name]string {
	out := make(map[Name]string, len(Names))
	for _, n := range Names {
		out[n] = d.Text(n)
	}
	return out
}

// MarshalJSON encodes the four sections as an object
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}
