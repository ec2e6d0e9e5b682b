package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id|source>",
	Short: "Show a stored result",
	Long: `Show the full scores of a stored result.

The identifier can be:
  - Result ID or a unique ID prefix
  - Source name (case-insensitive; the latest result is shown)

Examples:
  thesisalign show 0f4c2a9e
  thesisalign show campus.txt
  thesisalign show --sections campus.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showSections bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showSections, "sections", false, "Print the extracted section texts")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	identifier := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// ID first, then source name
	rec, err := db.GetResult(ctx, identifier)
	if errors.Is(err, database.ErrNotFound) {
		rec, err = db.GetResultBySource(ctx, identifier)
	}
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("result not found: %s", identifier)
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if outputFmt == "json" {
		return output.JSON(rec)
	}

	if showSections {
		output.Sections(os.Stdout, &rec.Result)
	}
	return output.Table(categories(cfg), rec)
}
