package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/programs"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [field]",
	Short: "Rank programs by a single numeric field",
	Long: "Orders every loaded program by one numeric field, highest first. " +
		"Without a field argument, lists the fields that can be ranked.",
	Args: cobra.MaximumNArgs(1),
	RunE: runFields,
}

var (
	fieldsPrograms string
	fieldsLimit    int
)

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsPrograms, "programs", "p", "", "Path to program rows JSON (default: data.programs_file or the database)")
	fieldsCmd.Flags().IntVarP(&fieldsLimit, "limit", "n", 10, "Number of programs to show (0 = all)")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(programs.RankableFields(), "\n"))
		return nil
	}
	field := args[0]

	_, set, database, err := loadCatalog(cmd.Context(), fieldsPrograms)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	results, err := set.RankByField(field, fieldsLimit)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintFieldRanking(field, results)
		return nil
	}

	jsonOutput, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal field ranking to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
	return nil
}
