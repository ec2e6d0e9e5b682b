package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/evaluate"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/output"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compare stored decisions with known labels",
	Long: `Compute accuracy and per-category precision, recall and F1 of stored
results against a labels file.

The labels file is a CSV with a "source" and a "label" column. Labels are
category codes (e.g. CS, IT) or A/B. Sources are matched to stored results by
file name, case-insensitively; the latest result per source is used.

Examples:
  thesisalign evaluate --labels labels.csv
  thesisalign evaluate --labels labels.csv -o json`,
	RunE: runEvaluate,
}

var evaluateLabels string

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVarP(&evaluateLabels, "labels", "l", "", "CSV file with source,label columns")
	evaluateCmd.MarkFlagRequired("labels")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cats := categories(cfg)

	f, err := os.Open(evaluateLabels)
	if err != nil {
		return fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	labels, err := evaluate.LoadLabels(f, evaluate.Codes{A: cats.A.Code, B: cats.B.Code})
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListResults(ctx, database.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	// newest first, so the first record per source wins
	predictions := make(map[string]keywords.Category, len(records))
	for _, r := range records {
		key := evaluate.SourceKey(r.Source)
		if _, ok := predictions[key]; !ok {
			predictions[key] = r.Result.Dominant
		}
	}

	report := evaluate.Evaluate(labels, predictions)
	for _, src := range report.Unmatched {
		log.Warn().Str("source", src).Msg("no stored result for labelled document")
	}

	return output.Output(outputFmt, cats, report)
}
