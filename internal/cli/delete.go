package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesisalign/thesisalign/internal/database"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored result",
	Long: `Delete a stored result by ID or unique ID prefix.

Examples:
  thesisalign delete 0f4c2a9e`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	rec, err := db.GetResult(ctx, args[0])
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("result not found: %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if err := db.DeleteResult(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	fmt.Printf("Deleted %s (%s)\n", rec.ShortID(), rec.Source)
	return nil
}
