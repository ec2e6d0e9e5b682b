package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored results",
	Long: `Search stored results by source name, title, surfaced keyword or
interpretation.

Examples:
  thesisalign search inventory
  thesisalign search "machine learning"
  thesisalign search "strong alignment"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outputFmt == "json" {
		return output.JSON(results)
	}

	if len(results) == 0 {
		fmt.Printf("No results found matching: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d result(s) matching: %s\n\n", len(results), query)
	return output.Table(categories(cfg), results)
}
