package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/config"
	"github.com/thesisalign/thesisalign/internal/mcp"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	verbose    bool
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
	mcp.Version = v
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "thesisalign",
	Short: "Classify thesis manuscripts into subject categories",
	Long: `thesisalign scores academic manuscripts against a weighted keyword table
and decides which of two subject categories (by default Computer Science and
Information Technology) a document aligns with.

It provides:
  - Section extraction (title, introduction, objectives, scope)
  - Exact and fuzzy keyword matching with per-section scores
  - Alignment interpretation with improvement suggestions
  - Result history with CSV, JSON and PDF export
  - MCP server for AI assistant integration`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath,
		"config file")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging configures the global logger. The config file is read a
// second time by the command itself; a broken file only affects the level.
func setupLogging(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	jsonLogs := false
	if cfg, err := config.LoadOrDefault(configPath); err == nil {
		if l, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = l
		}
		jsonLogs = cfg.Logging.JSON
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if jsonLogs {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("thesisalign %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
