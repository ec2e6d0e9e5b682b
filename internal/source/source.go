// Package source turns input files into text or pre-sectioned documents
// for the analyzer.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// Kind is the input format of a source
type Kind string

const (
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
	KindSections Kind = "sections"
)

// Stdin is the path that selects standard input
const Stdin = "-"

// MaxSize caps the bytes read from a single input
const MaxSize = 32 << 20

var (
	// ErrPDF is returned for PDF input, which must be converted to text first
	ErrPDF = errors.New("pdf input is not supported: convert it to text first (for example with pdftotext)")
	// ErrUnsupported is returned for unknown file extensions
	ErrUnsupported = errors.New("unsupported input format")
)

// Source is a loaded input document
type Source struct {
	Name     string
	Kind     Kind
	Text     string
	Document *sections.Document
}

// Input converts the source into a batch input
func (s *Source) Input() analyzer.Input {
	return analyzer.Input{Name: s.Name, Text: s.Text, Document: s.Document}
}

// KindOf picks the format from a file extension
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", "":
		return KindText, nil
	case ".md", ".markdown":
		return KindMarkdown, nil
	case ".html", ".htm":
		return KindHTML, nil
	case ".yaml", ".yml", ".json":
		return KindSections, nil
	case ".pdf":
		return "", ErrPDF
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// Open loads a file, or stdin as plain text when path is "-"
func Open(path string, stdin io.Reader) (*Source, error) {
	if path == Stdin {
		return Read("stdin", stdin, KindText)
	}

	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f, kind)
}

// Read loads a source of a known kind from r
func Read(name string, r io.Reader, kind Kind) (*Source, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrPDF
	}

	src := &Source{Name: name, Kind: kind}
	switch kind {
	case KindText:
		src.Text = string(data)
	case KindMarkdown:
		src.Text = FromMarkdown(string(data))
	case KindHTML:
		src.Text = FromHTML(data)
	case KindSections:
		doc, err := ParseSections(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		src.Document = &doc
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	return src, nil
}

var (
	mdHeading  = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	mdEmphasis = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
)

// FromMarkdown strips heading markers and strong emphasis so headers start
// their lines as in plain text.
func FromMarkdown(s string) string {
	s = mdHeading.ReplaceAllString(s, "")
	return mdEmphasis.ReplaceAllString(s, "$2")
}

// ParseSections reads a mapping of section names to text. JSON is accepted
// as a subset of YAML.
func ParseSections(data []byte) (sections.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return sections.Document{}, err
	}
	if raw == nil {
		return sections.Document{}, errors.New("expected a mapping of section names to text")
	}

	// documents exported by this tool nest the sections under "texts"
	if nested, ok := raw["texts"].(map[string]any); ok {
		raw = nested
	}

	texts := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			texts[k] = val
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			texts[k] = strings.Join(parts, "\n")
		}
	}
	return sections.FromMap(texts), nil
}
