package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration and keyword table",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile, err := config.ExpandPath(configPath)
	if err != nil {
		return err
	}

	cfg := config.Default()
	keywordsFile, err := config.ExpandPath(cfg.Keywords.Path)
	if err != nil {
		return err
	}
	dataDir, err := config.ExpandPath(filepath.Dir(cfg.Database.Path))
	if err != nil {
		return err
	}

	for _, dir := range []string{filepath.Dir(configFile), filepath.Dir(keywordsFile), dataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := writeIfMissing(configFile, defaultConfig); err != nil {
		return err
	}
	if err := writeIfMissing(keywordsFile, starterKeywords); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Replace %s with your full keyword table\n", keywordsFile)
	fmt.Println("  2. Run 'thesisalign keywords check' to validate it")
	fmt.Println("  3. Run 'thesisalign classify --save thesis.txt'")
	return nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Already exists: %s\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if errors.Is(err, config.ErrNotFound) {
		fmt.Println("# No config file found, showing defaults. Run 'thesisalign config init' to create one.")
		fmt.Println()
		cfg, err = config.LoadOrDefault(configPath)
	} else if err == nil {
		fmt.Printf("# Config file: %s\n\n", configPath)
	}
	if err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

const defaultConfig = `# thesisalign configuration
# Settings left out keep their built-in defaults.

[keywords]
path = "~/.config/thesisalign/keywords.csv"  # .csv or .yaml
term_column = "keyword"
a_column = "CS"
b_column = "IT"

[categories]
a_code = "CS"
a_name = "Computer Science"
b_code = "IT"
b_name = "Information Technology"
tie_break = "B"  # category chosen when both totals are equal

[extraction]
title_anchor = ["Republic of the Philippines", "College of Computer Studies"]
max_title_lines = 6
# introduction, objectives, scope, terminators and title_stops list the
# header phrases; see 'thesisalign config show' for the defaults

[matching]
fuzzy = true
fuzzy_threshold = 85.0  # 0-100 similarity for approximate matches

[scoring]
# raw sum that maps to the full 25 points of a section
title_ceiling = 50.0
introduction_ceiling = 200.0
objectives_ceiling = 200.0
scope_ceiling = 200.0

[interpretation]
full = 90.0
strong = 80.0
moderate = 70.0
basic = 60.0
minimal = 50.0
weak_high = 18.0    # weak section below this when total >= weak_switch
weak_low = 20.0
weak_switch = 70.0

[surfacing]
rule = "pair"  # "pair" (exact favored/other weights) or "ratio"
favored_weight = 20
other_weight = 10
min_weight = 15
min_ratio = 2.0
max_keywords = 5

[surfacing.aliases]
ai = "artificial intelligence"
iot = "internet of things"
ml = "machine learning"

[database]
path = "~/.local/share/thesisalign/thesisalign.db"

[logging]
level = "info"
json = false

[batch]
workers = 0  # 0 = one per CPU

[mcp]
enabled = true
transport = "stdio"
recent_limit = 10
`

const starterKeywords = `keyword,CS,IT
algorithm,20,10
artificial intelligence,20,10
machine learning,20,10
compiler,20,10
automata,20,10
data structure,20,10
computational complexity,20,10
neural network,20,10
network,10,20
database,10,20
information system,10,20
web application,10,20
network security,10,20
system administration,10,20
cloud computing,10,20
inventory,5,15
`
