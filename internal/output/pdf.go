package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// PDF renders a report with one page per stored result
func PDF(w io.Writer, cats Categories, records []database.Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Thesis alignment report", true)
	pdf.SetFont("Helvetica", "", 11)

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(records) == 0 {
		pdf.AddPage()
		pdf.MultiCell(0, 6, "No results found.", "", "L", false)
	}

	for _, r := range records {
		res := r.Result
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 7, tr(res.Title), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s  |  %s  |  %s", r.Source, r.ShortID(), r.CreatedAt.Format("Jan 02, 2006 15:04"))), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		// score table
		widths := []float64{70, 55, 55}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range []string{"Key Sections", cats.A.Name, cats.B.Name} {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, n := range sections.Names {
			s := res.Sections[n]
			pdf.CellFormat(widths[0], 6, tr(n.Label()+" (25%)"), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, score(s.ScoreA), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 6, score(s.ScoreB), "1", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(widths[0], 6, "Overall Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, score(res.TotalA), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, score(res.TotalB), "1", 1, "R", false, 0, "")
		pdf.Ln(5)

		dominant := cats.Get(res.Dominant)
		field := func(label, value string) {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(value), "", "L", false)
		}
		field("Result", fmt.Sprintf("%s (%s)", dominant.Name, dominant.Code))
		field("Alignment", string(res.Interpretation))
		field("Suggestion", res.Enhancement)
		if len(res.Keywords) > 0 {
			field("Keywords", strings.Join(res.Keywords, ", "))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
