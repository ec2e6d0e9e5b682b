package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thesisalign/thesisalign/internal/analyzer"
	"github.com/thesisalign/thesisalign/internal/config"
	"github.com/thesisalign/thesisalign/internal/database"
	"github.com/thesisalign/thesisalign/internal/keywords"
	"github.com/thesisalign/thesisalign/internal/output"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadKeywords reads the keyword table and logs every skipped or repaired row
func loadKeywords(cfg *config.Config) (*keywords.Map, error) {
	kw, err := keywords.LoadFile(cfg.Keywords.Path, cfg.Keywords.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword table: %w", err)
	}

	for _, w := range kw.Warnings() {
		log.Warn().Int("line", w.Line).Str("term", w.Term).Msg(w.Reason)
	}
	log.Debug().Str("path", cfg.Keywords.Path).Int("terms", kw.Len()).Msg("keyword table loaded")
	return kw, nil
}

func loadAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	kw, err := loadKeywords(cfg)
	if err != nil {
		return nil, err
	}

	az, err := analyzer.New(kw, cfg.Analyzer())
	if err != nil {
		return nil, err
	}
	if !cfg.Matching.Fuzzy {
		log.Info().Bool("degraded", true).Msg("fuzzy matching disabled, exact matches only")
	}
	return az, nil
}

func categories(cfg *config.Config) output.Categories {
	ac := cfg.Analyzer()
	return output.Categories{A: ac.CategoryA, B: ac.CategoryB}
}

func keywordTableName(cfg *config.Config) string {
	return filepath.Base(cfg.Keywords.Path)
}

// parseDuration parses a human-readable duration like "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use d, w, or m)", unit)
	}
}

func sinceFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	t := time.Now().Add(-d)
	return &t, nil
}
