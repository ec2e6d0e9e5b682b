package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/fuzzy"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/output"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect the keyword table",
}

var keywordsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the keyword table and report problems",
	Long: `Load the configured keyword table and list every row that was skipped
or repaired (malformed rows, non-numeric weights, duplicate terms).

Examples:
  thesisalign keywords check
  thesisalign keywords check --list   # Also print the loaded terms`,
	RunE: runKeywordsCheck,
}

var keywordsLookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Show the weights of a term",
	Long: `Show the per-category weights of a term. Unknown terms get the
closest table entries as suggestions.

Examples:
  thesisalign keywords lookup "Machine-Learning"
  thesisalign keywords lookup algoritm`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywordsLookup,
}

var keywordsList bool

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsCheckCmd)
	keywordsCmd.AddCommand(keywordsLookupCmd)

	keywordsCheckCmd.Flags().BoolVar(&keywordsList, "list", false, "Print all loaded terms")
}

func runKeywordsCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kw, err := keywords.LoadFile(cfg.Keywords.Path, cfg.Keywords.Columns())
	if err != nil {
		return fmt.Errorf("failed to load keyword table: %w", err)
	}
	warnings := kw.Warnings()

	if outputFmt == "json" {
		report := struct {
			Path     string             `json:"path"`
			Terms    int                `json:"terms"`
			Warnings []keywords.Warning `json:"warnings"`
			Entries  []keywords.Entry   `json:"entries,omitempty"`
		}{
			Path:     cfg.Keywords.Path,
			Terms:    kw.Len(),
			Warnings: warnings,
		}
		if keywordsList {
			report.Entries = kw.Entries()
		}
		return output.JSON(report)
	}

	fmt.Printf("Keyword table: %s\n", cfg.Keywords.Path)
	fmt.Printf("Terms loaded:  %d\n", kw.Len())
	fmt.Printf("Problems:      %d\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}

	if keywordsList {
		fmt.Println()
		return output.Table(categories(cfg), kw.Entries())
	}
	return nil
}

// suggestionThreshold is the minimum similarity for lookup suggestions
const suggestionThreshold = 70

func runKeywordsLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kw, err := loadKeywords(cfg)
	if err != nil {
		return err
	}

	term := keywords.Normalize(args[0])
	cats := categories(cfg)

	if e, ok := kw.Get(term); ok {
		return output.Output(outputFmt, cats, []keywords.Entry{e})
	}

	type scored struct {
		entry keywords.Entry
		score float64
	}
	var near []scored
	for _, e := range kw.Entries() {
		if s := fuzzy.Ratio(term, e.Term); s >= suggestionThreshold {
			near = append(near, scored{e, s})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].score > near[j].score })
	if len(near) > 5 {
		near = near[:5]
	}

	suggestions := make([]keywords.Entry, 0, len(near))
	for _, c := range near {
		suggestions = append(suggestions, c.entry)
	}

	if outputFmt == "json" {
		return output.JSON(struct {
			Term        string           `json:"term"`
			Found       bool             `json:"found"`
			Suggestions []keywords.Entry `json:"suggestions"`
		}{term, false, suggestions})
	}

	fmt.Printf("%q is not in the keyword table (weights %s=0, %s=0)\n", term, cats.A.Code, cats.B.Code)
	if len(suggestions) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Did you mean:")
	return output.Table(cats, suggestions)
}
