package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// Spreadsheet writes a single result in the Key Sections layout: one row per
// section plus the overall total, the interpretation and the concluded result,
// with one column per category.
func Spreadsheet(w io.Writer, cats Categories, res *analyzer.Result) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Key Sections", cats.A.Name + " Scores", cats.B.Name + " Scores"},
	}
	for _, n := range sections.Names {
		s := res.Sections[n]
		rows = append(rows, []string{n.Label() + " (25%)", score(s.ScoreA), score(s.ScoreB)})
	}
	rows = append(rows,
		[]string{"Overall Total", score(res.TotalA), score(res.TotalB)},
		[]string{"Interpretation", interpretationFor(res, keywords.CategoryA), interpretationFor(res, keywords.CategoryB)},
		[]string{"Concluded Result", res.DominantCode, res.DominantCode},
		[]string{"Enhancement", res.Enhancement, ""},
		[]string{"Keywords", strings.Join(res.Keywords, "; "), ""},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func interpretationFor(res *analyzer.Result, c keywords.Category) string {
	if res.Dominant == c {
		return string(res.Interpretation)
	}
	return "Not dominant"
}

// History writes one row per stored result with section and total scores
func History(w io.Writer, cats Categories, records []database.Record) error {
	cw := csv.NewWriter(w)

	header := []string{"ID", "Source", "Title"}
	for _, prefix := range []string{"Title", "Intro", "Objectives", "Scope", "Total"} {
		header = append(header, prefix+"_"+cats.A.Code, prefix+"_"+cats.B.Code)
	}
	header = append(header, "Result", "Interpretation", "Enhancement", "Keywords", "Classified")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		res := r.Result
		row := []string{r.ID, r.Source, res.Title}
		for _, n := range sections.Names {
			s := res.Sections[n]
			row = append(row, score(s.ScoreA), score(s.ScoreB))
		}
		row = append(row,
			score(res.TotalA), score(res.TotalB),
			res.DominantCode,
			string(res.Interpretation),
			res.Enhancement,
			strings.Join(res.Keywords, "; "),
			r.CreatedAt.Format(time.RFC3339),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
