package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	Long: `List stored classification results, newest first.

Examples:
  thesisalign list                    # List all results
  thesisalign list --dominant=IT      # Only documents decided for IT
  thesisalign list --since=7d         # Results from the last 7 days
  thesisalign list --source=campus    # Source name contains "campus"
  thesisalign list -o json            # Output as JSON`,
	RunE: runList,
}

var (
	listDominant string
	listSince    string
	listSource   string
	listLimit    int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDominant, "dominant", "", "Filter by decided category code (e.g. CS, IT)")
	listCmd.Flags().StringVar(&listSince, "since", "", "Filter by time (e.g., 7d, 2w, 1m)")
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter by source name (partial match)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.ListOptions{
		Limit: listLimit,
	}

	if listDominant != "" {
		c, err := resolveCategory(categories(cfg), listDominant)
		if err != nil {
			return err
		}
		opts.Dominant = &c
	}

	if opts.Since, err = sinceFlag(listSince); err != nil {
		return err
	}

	if listSource != "" {
		opts.Source = &listSource
	}

	records, err := db.ListResults(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	return output.Output(outputFmt, categories(cfg), records)
}

// resolveCategory maps a category code or "A"/"B" onto a category
func resolveCategory(cats output.Categories, s string) (keywords.Category, error) {
	switch {
	case strings.EqualFold(s, cats.A.Code):
		return keywords.CategoryA, nil
	case strings.EqualFold(s, cats.B.Code):
		return keywords.CategoryB, nil
	}
	c, err := keywords.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("unknown category %q (use %s or %s)", s, cats.A.Code, cats.B.Code)
	}
	return c, nil
}
