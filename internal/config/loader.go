package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by Load when the config file does not exist
var ErrNotFound = errors.New("config file not found")

// DefaultPath is where the CLI looks for its configuration
const DefaultPath = "~/.config/thesisalign/config.toml"

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'thesisalign config init' to create)", ErrNotFound, expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML on top of the defaults, then expands and validates it
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config file, falling back to the defaults when it
// does not exist. Other errors are returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		log.Debug().Str("path", path).Msg("no config file, using defaults")
		cfg = Default()
		if err := cfg.expandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}
	return cfg, err
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// ExpandPath expands a leading ~ in a user supplied path
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Keywords.Path, err = expandPath(c.Keywords.Path)
	if err != nil {
		return err
	}

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Keywords.Path == "" {
		errs = append(errs, errors.New("keywords.path is required"))
	}
	if c.Keywords.TermColumn == "" || c.Keywords.AColumn == "" || c.Keywords.BColumn == "" {
		errs = append(errs, errors.New("keywords.term_column, a_column and b_column are required"))
	}

	if c.Categories.ACode == "" || c.Categories.BCode == "" {
		errs = append(errs, errors.New("categories.a_code and categories.b_code are required"))
	}
	if c.Categories.ACode != "" && strings.EqualFold(c.Categories.ACode, c.Categories.BCode) {
		errs = append(errs, fmt.Errorf("categories must differ, both are '%s'", c.Categories.ACode))
	}
	tb := strings.ToUpper(c.Categories.TieBreak)
	if tb != "A" && tb != "B" {
		errs = append(errs, fmt.Errorf("categories.tie_break must be 'A' or 'B', got '%s'", c.Categories.TieBreak))
	}

	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold >= 100 {
		errs = append(errs, errors.New("matching.fuzzy_threshold must be between 0 and 100"))
	}

	if c.Batch.Workers < 0 {
		errs = append(errs, errors.New("batch.workers cannot be negative"))
	}

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}
	if c.MCP.RecentLimit < 1 {
		errs = append(errs, errors.New("mcp.recent_limit must be at least 1"))
	}

	// stage settings validate themselves
	ac := c.Analyzer()
	stages := []struct {
		name string
		err  error
	}{
		{"extraction", ac.Rules.Validate()},
		{"scoring", ac.Scoring.Validate()},
		{"interpretation", ac.Thresholds.Validate()},
		{"surfacing", ac.Surface.Validate()},
	}
	for _, s := range stages {
		if s.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, s.err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the database and keyword directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		filepath.Dir(c.Keywords.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
