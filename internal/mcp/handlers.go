package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

var errNoDatabase = errors.New("result history is not available")

func (s *Server) registerHandlers() {
	s.handlers["classify_text"] = s.handleClassifyText
	s.handlers["classify_sections"] = s.handleClassifySections
	s.handlers["list_results"] = s.handleListResults
	s.handlers["get_result"] = s.handleGetResult
	s.handlers["get_stats"] = s.handleGetStats
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// classifyResult is returned by both classify tools
type classifyResult struct {
	ID     string           `json:"id,omitempty"`
	Source string           `json:"source,omitempty"`
	Result *analyzer.Result `json:"result"`
}

type classifyTextParams struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Save   bool   `json:"save"`
}

func (s *Server) handleClassifyText(ctx context.Context, params json.RawMessage) (any, error) {
	var p classifyTextParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	res, err := s.analyzer.AnalyzeText(ctx, p.Text)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	return s.finish(ctx, p.Source, p.Save, res)
}

type classifySectionsParams struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
	Objectives   string `json:"objectives"`
	Scope        string `json:"scope"`
	Source       string `json:"source"`
	Save         bool   `json:"save"`
}

func (s *Server) handleClassifySections(ctx context.Context, params json.RawMessage) (any, error) {
	var p classifySectionsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	doc := sections.NewDocument(map[sections.Name]string{
		sections.Title:        p.Title,
		sections.Introduction: p.Introduction,
		sections.Objectives:   p.Objectives,
		sections.Scope:        p.Scope,
	})

	res, err := s.analyzer.AnalyzeDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	return s.finish(ctx, p.Source, p.Save, res)
}

func (s *Server) finish(ctx context.Context, source string, save bool, res *analyzer.Result) (any, error) {
	out := classifyResult{Source: source, Result: res}
	if !save {
		return out, nil
	}
	if s.db == nil {
		return nil, errNoDatabase
	}

	if source == "" {
		source = "mcp"
	}
	rec := &database.Record{
		Source:       source,
		KeywordTable: filepath.Base(s.config.Keywords.Path),
		Result:       *res,
	}
	if err := s.db.SaveResult(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}
	out.ID = rec.ID
	out.Source = rec.Source
	return out, nil
}

// resultSummary is the compact listing form of a stored result
type resultSummary struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	TotalA         float64   `json:"total_a"`
	TotalB         float64   `json:"total_b"`
	Dominant       string    `json:"dominant"`
	Interpretation string    `json:"interpretation"`
	Keywords       []string  `json:"keywords"`
	CreatedAt      time.Time `json:"created_at"`
}

func summarize(records []database.Record) []resultSummary {
	out := make([]resultSummary, 0, len(records))
	for _, r := range records {
		out = append(out, resultSummary{
			ID:             r.ID,
			Source:         r.Source,
			Title:          r.Result.Title,
			TotalA:         r.Result.TotalA,
			TotalB:         r.Result.TotalB,
			Dominant:       r.Result.DominantCode,
			Interpretation: string(r.Result.Interpretation),
			Keywords:       r.Result.Keywords,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out
}

type listResultsParams struct {
	Dominant  string `json:"dominant"`
	Source    string `json:"source"`
	SinceDays int    `json:"since_days"`
	Limit     int    `json:"limit"`
}

func (s *Server) handleListResults(ctx context.Context, params json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}

	var p listResultsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	opts := database.ListOptions{Limit: 20}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.Dominant != "" && !strings.EqualFold(p.Dominant, "all") {
		c, err := s.analyzer.ResolveCategory(p.Dominant)
		if err != nil {
			return nil, fmt.Errorf("invalid dominant filter: %w", err)
		}
		opts.Dominant = &c
	}
	if p.Source != "" {
		opts.Source = &p.Source
	}
	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	records, err := s.db.ListResults(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return summarize(records), nil
}

type getResultParams struct {
	Identifier string `json:"identifier"`
}

func (s *Server) handleGetResult(ctx context.Context, params json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}

	var p getResultParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}

	rec, err := findRecord(ctx, s.db, p.Identifier)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// findRecord looks a result up by ID or ID prefix, then by source name
func findRecord(ctx context.Context, db *database.DB, identifier string) (*database.Record, error) {
	rec, err := db.GetResult(ctx, identifier)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	rec, err = db.GetResultBySource(ctx, identifier)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("result not found: %s", identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rec, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (any, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}

	var p getStatsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var since *time.Time
	if p.SinceDays > 0 {
		t := time.Now().AddDate(0, 0, -p.SinceDays)
		since = &t
	}

	stats, err := s.db.GetStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case uriSummary:
		return s.getResourceSummary(ctx)
	case uriRecent:
		return s.getResourceRecent(ctx)
	case uriKeywords:
		return s.getResourceKeywords(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", errNoDatabase
	}
	stats, err := s.db.GetStats(ctx, nil)
	if err != nil {
		return "", err
	}

	a := s.analyzer.Category(keywords.CategoryA)
	b := s.analyzer.Category(keywords.CategoryB)

	var sb strings.Builder
	sb.WriteString("Classification Summary\n======================\n")
	fmt.Fprintf(&sb, "Total results: %d\n", stats.TotalResults)
	fmt.Fprintf(&sb, "  - %s (%s): %d, average total %.2f\n", a.Name, a.Code, stats.DominantA, stats.AvgTotalA)
	fmt.Fprintf(&sb, "  - %s (%s): %d, average total %.2f\n", b.Name, b.Code, stats.DominantB, stats.AvgTotalB)

	if len(stats.ByLabel) > 0 {
		sb.WriteString("\nBy interpretation:\n")
		for _, label := range labelOrder {
			if n, ok := stats.ByLabel[label]; ok {
				fmt.Fprintf(&sb, "  - %s: %d\n", label, n)
			}
		}
	}
	if len(stats.TopKeywords) > 0 {
		sb.WriteString("\nTop keywords:\n")
		for _, kc := range stats.TopKeywords {
			fmt.Fprintf(&sb, "  - %s (%d)\n", kc.Keyword, kc.Count)
		}
	}

	return sb.String(), nil
}

var labelOrder = []string{
	"Full Alignment", "Strong Alignment", "Moderate Alignment",
	"Basic Alignment", "Minimal Alignment", "No Alignment",
}

func (s *Server) getResourceRecent(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", errNoDatabase
	}

	limit := s.config.MCP.RecentLimit
	if limit <= 0 {
		limit = 10
	}
	records, err := s.db.ListResults(ctx, database.ListOptions{Limit: limit})
	if err != nil {
		return "", err
	}

	header := fmt.Sprintf("Recent Results (Last %d)", limit)
	result := header + "\n" + strings.Repeat("=", len(header)) + "\n\n"

	if len(records) == 0 {
		result += "No results yet. Run 'thesisalign classify --save' or the classify_text tool.\n"
		return result, nil
	}

	for _, r := range records {
		days := int(time.Since(r.CreatedAt).Hours() / 24)
		result += fmt.Sprintf("- %s | %s | %s %.2f | %s | %d day(s) ago\n",
			r.ShortID(), r.Source, r.Result.DominantCode, r.Result.DominantTotal(),
			r.Result.Interpretation, days)
	}

	return result, nil
}

func (s *Server) getResourceKeywords() string {
	kw := s.analyzer.Keywords()
	a := s.analyzer.Category(keywords.CategoryA)
	b := s.analyzer.Category(keywords.CategoryB)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Keyword Table (%d terms)\n", kw.Len())
	fmt.Fprintf(&sb, "term\t%s\t%s\n", a.Code, b.Code)
	for _, e := range kw.Entries() {
		fmt.Fprintf(&sb, "%s\t%d\t%d\n", e.Term, e.WeightA, e.WeightB)
	}
	return sb.String()
}
