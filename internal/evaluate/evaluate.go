// Package evaluate compares stored decisions with known labels and reports
// precision, recall and F1 per category.
package evaluate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thesisalign/thesisalign/internal/keywords"
)

// Label is the known category of a document
type Label struct {
	Source   string
	Category keywords.Category
}

// Codes maps user-facing category codes onto categories
type Codes struct {
	A string
	B string
}

// Resolve accepts a category code (e.g. "CS") or "A"/"B", case-insensitively
func (c Codes) Resolve(s string) (keywords.Category, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, c.A):
		return keywords.CategoryA, nil
	case strings.EqualFold(s, c.B):
		return keywords.CategoryB, nil
	default:
		return keywords.ParseCategory(s)
	}
}

// SourceKey normalizes a source name for matching labels to results
func SourceKey(source string) string {
	return strings.ToLower(filepath.Base(strings.TrimSpace(source)))
}

// LoadLabels reads a CSV with "source" and "label" columns. Rows with an
// unknown label are skipped with a warning.
func LoadLabels(r io.Reader, codes Codes) ([]Label, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("labels file is empty")
		}
		return nil, fmt.Errorf("failed to read labels header: %w", err)
	}

	srcCol, labelCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "source", "file", "document":
			srcCol = i
		case "label", "category", "expected":
			labelCol = i
		}
	}
	if srcCol < 0 || labelCol < 0 {
		return nil, errors.New("labels header needs a source and a label column")
	}

	var labels []Label
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read labels line %d: %w", line, err)
		}
		if srcCol >= len(record) || labelCol >= len(record) || strings.TrimSpace(record[srcCol]) == "" {
			log.Warn().Int("line", line).Msg("labels: incomplete row skipped")
			continue
		}

		cat, err := codes.Resolve(record[labelCol])
		if err != nil {
			log.Warn().Int("line", line).Str("label", record[labelCol]).Msg("labels: unknown category, row skipped")
			continue
		}
		labels = append(labels, Label{Source: strings.TrimSpace(record[srcCol]), Category: cat})
	}

	return labels, nil
}

// Metrics are the scores of one category
type Metrics struct {
	Category  keywords.Category `json:"category"`
	Precision float64           `json:"precision"`
	Recall    float64           `json:"recall"`
	F1        float64           `json:"f1"`
	Support   int               `json:"support"`
	TP        int               `json:"tp"`
	FP        int               `json:"fp"`
	FN        int               `json:"fn"`
}

// Report is the outcome of an evaluation
type Report struct {
	Labelled    int       `json:"labelled"`
	Evaluated   int       `json:"evaluated"`
	Unmatched   []string  `json:"unmatched"`
	Accuracy    float64   `json:"accuracy"`
	PerCategory []Metrics `json:"per_category"`
	Macro       Metrics   `json:"macro"`
}

// Evaluate scores predictions, keyed by SourceKey, against the labels.
// Labels without a prediction are listed as unmatched.
func Evaluate(labels []Label, predictions map[string]keywords.Category) *Report {
	report := &Report{Labelled: len(labels), Unmatched: []string{}}

	perCat := map[keywords.Category]*Metrics{
		keywords.CategoryA: {Category: keywords.CategoryA},
		keywords.CategoryB: {Category: keywords.CategoryB},
	}

	correct := 0
	for _, l := range labels {
		predicted, ok := predictions[SourceKey(l.Source)]
		if !ok {
			report.Unmatched = append(report.Unmatched, l.Source)
			continue
		}
		report.Evaluated++
		perCat[l.Category].Support++

		if predicted == l.Category {
			correct++
			perCat[l.Category].TP++
			continue
		}
		if m, ok := perCat[predicted]; ok {
			m.FP++
		}
		perCat[l.Category].FN++
	}
	sort.Strings(report.Unmatched)

	if report.Evaluated > 0 {
		report.Accuracy = float64(correct) / float64(report.Evaluated)
	}

	for _, c := range []keywords.Category{keywords.CategoryA, keywords.CategoryB} {
		m := perCat[c]
		m.Precision = ratio(m.TP, m.TP+m.FP)
		m.Recall = ratio(m.TP, m.TP+m.FN)
		m.F1 = f1(m.Precision, m.Recall)
		report.PerCategory = append(report.PerCategory, *m)

		report.Macro.Precision += m.Precision / 2
		report.Macro.Recall += m.Recall / 2
		report.Macro.F1 += m.F1 / 2
		report.Macro.Support += m.Support
	}

	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
