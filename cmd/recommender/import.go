package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/db"
	"github.com/jonathan/college-recommender/internal/programs"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import program rows into PostgreSQL",
	Long: "Validates a JSON program rows file and upserts it into the colleges, departments " +
		"and courses tables, creating them first unless --migrate=false.",
	RunE: runImport,
}

var (
	importIn      string
	importMigrate bool
)

func init() {
	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "Path to program rows JSON (required)")
	importCmd.Flags().BoolVar(&importMigrate, "migrate", true, "Create tables before importing")

	if err := importCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	rows, err := programs.LoadRowsFile(importIn)
	if err != nil {
		return err
	}
	// Reject rows the store would refuse before touching the database.
	if _, err := programs.Load(rows); err != nil {
		return err
	}

	if appConfig.Database.URL == "" {
		return fmt.Errorf("config error: 'database.url' (DATABASE_URL) is required for import")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, appConfig.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if importMigrate {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	n, err := database.ImportPrograms(ctx, rows)
	if err != nil {
		return err
	}

	logger.Info().Int("courses", n).Str("file", importIn).Msg("programs imported")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d programs from %s\n", n, importIn)
	return nil
}
