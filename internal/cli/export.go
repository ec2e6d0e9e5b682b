package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results to CSV, JSON or PDF",
	Long: `Export stored classification results.

Supported formats:
  - csv: with --id, the Key Sections spreadsheet of one result;
         otherwise one row per result with all section scores
  - json: JSON array of stored results
  - pdf: report with one page per result

Examples:
  thesisalign export --format=csv > history.csv
  thesisalign export --format=csv --id=0f4c2a9e > campus.csv
  thesisalign export --format=pdf --file=report.pdf
  thesisalign export --format=json --since=30d`,
	RunE: runExport,
}

var (
	exportFormat   string
	exportID       string
	exportFile     string
	exportSince    string
	exportDominant string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json, pdf)")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Export a single result by ID or ID prefix")
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write to a file instead of stdout")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only results from this period (e.g., 7d, 2w, 1m)")
	exportCmd.Flags().StringVar(&exportDominant, "dominant", "", "Only results decided for this category code")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch exportFormat {
	case "csv", "json", "pdf":
	default:
		return fmt.Errorf("unknown format: %s (use csv, json or pdf)", exportFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cats := categories(cfg)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var records []database.Record
	if exportID != "" {
		rec, err := db.GetResult(ctx, exportID)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("result not found: %s", exportID)
		}
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		records = []database.Record{*rec}
	} else {
		opts := database.ListOptions{}
		if opts.Since, err = sinceFlag(exportSince); err != nil {
			return err
		}
		if exportDominant != "" {
			c, err := resolveCategory(cats, exportDominant)
			if err != nil {
				return err
			}
			opts.Dominant = &c
		}
		if records, err = db.ListResults(ctx, opts); err != nil {
			return fmt.Errorf("failed to list results: %w", err)
		}
	}

	var w io.Writer = os.Stdout
	if exportFile != "" {
		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportFile, err)
		}
		defer f.Close()
		w = f
	}

	switch exportFormat {
	case "csv":
		if exportID != "" {
			err = output.Spreadsheet(w, cats, &records[0].Result)
		} else {
			err = output.History(w, cats, records)
		}
	case "json":
		err = output.JSONTo(w, records)
	case "pdf":
		err = output.PDF(w, cats, records)
	}
	if err != nil {
		return err
	}

	if exportFile != "" {
		log.Info().Str("file", exportFile).Int("results", len(records)).Str("format", exportFormat).Msg("export written")
	}
	return nil
}
