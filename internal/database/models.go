package database

import (
	"errors"
	"time"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/keywords"
)

// ErrNotFound is returned when no record matches
var ErrNotFound = errors.New("result not found")

// ErrAmbiguousID is returned when an ID prefix matches several records
var ErrAmbiguousID = errors.New("id prefix matches more than one result")

// Record is a stored classification
type Record struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	KeywordTable string          `json:"keyword_table,omitempty"`
	Result       analyzer.Result `json:"result"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ShortID returns the first eight characters of the ID
func (r *Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// KeywordCount is a surfaced keyword with its number of occurrences
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Stats represents aggregate statistics over stored results
type Stats struct {
	TotalResults   int            `json:"total_results"`
	DominantA      int            `json:"dominant_a"`
	DominantB      int            `json:"dominant_b"`
	AvgTotalA      float64        `json:"avg_total_a"`
	AvgTotalB      float64        `json:"avg_total_b"`
	ByLabel        map[string]int `json:"by_interpretation"`
	TopKeywords    []KeywordCount `json:"top_keywords"`
	LastClassified *time.Time     `json:"last_classified,omitempty"`
}

// ListOptions contains options for listing results
type ListOptions struct {
	Dominant *keywords.Category
	Since    *time.Time
	Source   *string
	Limit    int
	Offset   int
}
