package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/evaluate"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/sections"
)

// Categories holds the display info of both categories
type Categories struct {
	A analyzer.Category
	B analyzer.Category
}

// Get returns the display info of a category
func (c Categories) Get(cat keywords.Category) analyzer.Category {
	if cat == keywords.CategoryA {
		return c.A
	}
	return c.B
}

// Table writes data as a formatted table to stdout
func Table(cats Categories, data any) error {
	return TableTo(os.Stdout, cats, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, cats Categories, data any) error {
	switch v := data.(type) {
	case []database.Record:
		return recordsTable(w, cats, v)
	case *database.Record:
		return recordDetail(w, cats, v)
	case *analyzer.Result:
		return resultDetail(w, cats, v)
	case *database.Stats:
		return statsTable(w, cats, v)
	case []keywords.Entry:
		return keywordsTable(w, cats, v)
	case *evaluate.Report:
		return evaluationTable(w, cats, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func recordsTable(w io.Writer, cats Categories, records []database.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Source", "Title", cats.A.Code, cats.B.Code, "Result", "Interpretation", "Classified")

	for _, r := range records {
		res := r.Result
		if err := table.Append([]string{
			r.ShortID(),
			truncate(r.Source, 24),
			truncate(res.Title, 40),
			fmt.Sprintf("%.2f", res.TotalA),
			fmt.Sprintf("%.2f", res.TotalB),
			res.DominantCode,
			string(res.Interpretation),
			r.CreatedAt.Format("Jan 02 15:04"),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func recordDetail(w io.Writer, cats Categories, r *database.Record) error {
	fmt.Fprintf(w, "ID:          %s\n", r.ID)
	fmt.Fprintf(w, "Source:      %s\n", r.Source)
	if r.KeywordTable != "" {
		fmt.Fprintf(w, "Keywords:    %s\n", r.KeywordTable)
	}
	fmt.Fprintf(w, "Classified:  %s\n", r.CreatedAt.Format("Jan 02, 2006 15:04"))
	fmt.Fprintln(w)
	return resultDetail(w, cats, &r.Result)
}

func resultDetail(w io.Writer, cats Categories, res *analyzer.Result) error {
	fmt.Fprintf(w, "Title:       %s\n", res.Title)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Key Sections", cats.A.Name, cats.B.Name)
	for _, n := range sections.Names {
		s := res.Sections[n]
		if err := table.Append([]string{
			n.Label() + " (25%)",
			fmt.Sprintf("%.2f", s.ScoreA),
			fmt.Sprintf("%.2f", s.ScoreB),
		}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{
		"Overall Total",
		fmt.Sprintf("%.2f", res.TotalA),
		fmt.Sprintf("%.2f", res.TotalB),
	}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	dominant := cats.Get(res.Dominant)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Result:      %s (%s)\n", dominant.Name, dominant.Code)
	fmt.Fprintf(w, "Alignment:   %s\n", res.Interpretation)
	fmt.Fprintf(w, "Suggestion:  %s\n", res.Enhancement)
	if len(res.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:    %s\n", strings.Join(res.Keywords, ", "))
	}
	if !res.FuzzyEnabled {
		fmt.Fprintln(w, "Matching:    exact only")
	}

	return nil
}

// Sections prints the extracted text of every section
func Sections(w io.Writer, res *analyzer.Result) {
	for _, n := range sections.Names {
		fmt.Fprintf(w, "== %s ==\n%s\n\n", n.Label(), res.Texts[n])
	}
}

func statsTable(w io.Writer, cats Categories, s *database.Stats) error {
	fmt.Fprintln(w, "Classification Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total results:          %d\n", s.TotalResults)
	fmt.Fprintf(w, "%-24s%d\n", cats.A.Name+":", s.DominantA)
	fmt.Fprintf(w, "%-24s%d\n", cats.B.Name+":", s.DominantB)

	if s.TotalResults == 0 {
		return nil
	}

	fmt.Fprintf(w, "Average %s total:%s%.2f\n", cats.A.Code, pad(cats.A.Code), s.AvgTotalA)
	fmt.Fprintf(w, "Average %s total:%s%.2f\n", cats.B.Code, pad(cats.B.Code), s.AvgTotalB)
	if s.LastClassified != nil {
		fmt.Fprintf(w, "Last classified:        %s\n", s.LastClassified.Format("Jan 02, 2006 15:04"))
	}

	if len(s.ByLabel) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By interpretation:")
		for _, label := range labelOrder {
			if n, ok := s.ByLabel[label]; ok {
				fmt.Fprintf(w, "  %-22s%d\n", label, n)
			}
		}
	}

	if len(s.TopKeywords) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top keywords:")
		for _, kc := range s.TopKeywords {
			fmt.Fprintf(w, "  %-22s%d\n", kc.Keyword, kc.Count)
		}
	}

	return nil
}

var labelOrder = []string{
	"Full Alignment", "Strong Alignment", "Moderate Alignment",
	"Basic Alignment", "Minimal Alignment", "No Alignment",
}

func pad(code string) string {
	n := 8 - utf8.RuneCountInString(code)
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

func keywordsTable(w io.Writer, cats Categories, entries []keywords.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No keywords found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Keyword", cats.A.Code, cats.B.Code)
	for _, e := range entries {
		if err := table.Append([]string{e.Term, fmt.Sprint(e.WeightA), fmt.Sprint(e.WeightB)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func evaluationTable(w io.Writer, cats Categories, r *evaluate.Report) error {
	fmt.Fprintf(w, "Evaluated %d of %d labelled documents (%d unmatched)\n",
		r.Evaluated, r.Labelled, len(r.Unmatched))
	fmt.Fprintf(w, "Accuracy: %.2f%%\n\n", r.Accuracy*100)

	table := tablewriter.NewWriter(w)
	table.Header("Category", "Precision", "Recall", "F1", "Support")
	for _, m := range r.PerCategory {
		if err := table.Append([]string{
			cats.Get(m.Category).Code,
			fmt.Sprintf("%.3f", m.Precision),
			fmt.Sprintf("%.3f", m.Recall),
			fmt.Sprintf("%.3f", m.F1),
			fmt.Sprint(m.Support),
		}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{
		"macro avg",
		fmt.Sprintf("%.3f", r.Macro.Precision),
		fmt.Sprintf("%.3f", r.Macro.Recall),
		fmt.Sprintf("%.3f", r.Macro.F1),
		fmt.Sprint(r.Evaluated),
	}); err != nil {
		return err
	}
	return table.Render()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
