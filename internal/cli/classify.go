package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/config"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/output"
	"github.com/thesisalign/thesisalign/internal/source"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file|->...",
	Short: "Classify one or more documents",
	Long: `Classify manuscripts against the keyword table.

Inputs may be plain text (.txt), Markdown (.md), HTML (.html) or
pre-sectioned YAML/JSON documents with title, introduction, objectives and
scope keys. Use "-" to read text from stdin. PDF files must be converted to
text first.

Examples:
  thesisalign classify thesis.txt
  thesisalign classify --save chapters/*.txt
  pdftotext thesis.pdf - | thesisalign classify -
  thesisalign classify --sections thesis.txt     # Show extracted sections
  thesisalign classify -o json thesis.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var (
	classifySave     bool
	classifyWorkers  int
	classifySections bool
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifySave, "save", false, "Store results in the history database")
	classifyCmd.Flags().IntVarP(&classifyWorkers, "workers", "w", 0, "Parallel workers (default from config, 0 = one per CPU)")
	classifyCmd.Flags().BoolVar(&classifySections, "sections", false, "Print the extracted section texts")
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	az, err := loadAnalyzer(cfg)
	if err != nil {
		return err
	}

	var db *database.DB
	if classifySave {
		db, err = openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	term := NewTerminal()
	failed := 0

	inputs := make([]analyzer.Input, 0, len(args))
	for i, path := range args {
		if len(args) > 1 {
			term.Progress(analyzer.Progress{Phase: analyzer.PhaseReading, Current: i + 1, Total: len(args), Description: path})
		}
		src, err := source.Open(path, os.Stdin)
		if err != nil {
			log.Error().Err(err).Str("source", path).Msg("failed to read input")
			failed++
			continue
		}
		inputs = append(inputs, src.Input())
	}

	workers := classifyWorkers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}

	var progress analyzer.ProgressCallback
	if len(inputs) > 1 {
		progress = term.Progress
	}

	results, err := az.AnalyzeBatch(ctx, inputs, workers, progress)
	if err != nil {
		return fmt.Errorf("classification interrupted: %w", err)
	}

	records := make([]database.Record, 0, len(results))
	for _, br := range results {
		if br.Err != nil {
			log.Error().Err(br.Err).Str("source", br.Name).Msg("classification failed")
			failed++
			continue
		}
		records = append(records, database.Record{
			Source:       br.Name,
			KeywordTable: keywordTableName(cfg),
			Result:       *br.Result,
			CreatedAt:    time.Now(),
		})
	}

	if db != nil {
		if err := saveRecords(ctx, db, records, term); err != nil {
			return err
		}
	}

	if err := printClassified(cfg, records); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) could not be classified", failed, len(args))
	}
	return nil
}

func saveRecords(ctx context.Context, db *database.DB, records []database.Record, term *Terminal) error {
	started := time.Now()
	return db.SaveResults(ctx, records, func(i int) {
		log.Debug().Str("id", records[i].ID).Str("source", records[i].Source).Msg("result saved")
		if len(records) > 1 {
			term.Progress(analyzer.Progress{
				Phase:       analyzer.PhaseSaving,
				Current:     i + 1,
				Total:       len(records),
				Description: records[i].Source,
				StartedAt:   started,
			})
		}
	})
}

func printClassified(cfg *config.Config, records []database.Record) error {
	cats := categories(cfg)

	if outputFmt == "json" {
		if len(records) == 1 {
			return output.JSON(records[0])
		}
		return output.JSON(records)
	}
	if outputFmt != "table" && outputFmt != "" {
		return fmt.Errorf("unknown output format: %s", outputFmt)
	}

	if len(records) != 1 {
		if classifySections {
			writeSections(os.Stdout, records)
		}
		return output.Table(cats, records)
	}

	r := &records[0]
	if classifySections {
		output.Sections(os.Stdout, &r.Result)
	}
	if err := output.Table(cats, &r.Result); err != nil {
		return err
	}
	if r.ID != "" {
		term := NewTerminal()
		fmt.Println()
		fmt.Println(term.Color(ColorGreen, "Saved as "+r.ShortID()))
	}
	return nil
}

// writeSections prints the extracted sections of each record under its source
func writeSections(w io.Writer, records []database.Record) {
	for i := range records {
		fmt.Fprintf(w, "### %s\n\n", records[i].Source)
		output.Sections(w, &records[i].Result)
	}
}
