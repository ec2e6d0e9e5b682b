package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show classification statistics",
	Long: `Display aggregate statistics over stored results: documents per
category, average totals, interpretation breakdown and the most frequent
decisive keywords.

Examples:
  thesisalign stats             # Overall stats
  thesisalign stats --since=7d  # Stats for last 7 days`,
	RunE: runStats,
}

var statsSince string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
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

	since, err := sinceFlag(statsSince)
	if err != nil {
		return err
	}

	stats, err := db.GetStats(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	return output.Output(outputFmt, categories(cfg), stats)
}
