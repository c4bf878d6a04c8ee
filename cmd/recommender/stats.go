package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/programs"
)

var statsCmd = &cobra.Command{
	Use:   "stats <group>",
	Short: "Summarize programs per course, college or location",
	Long: "Reports program counts, fee range and spread, average rating, pass percentage, " +
		"cutoff ranks and seats per group. Groups: " + strings.Join(programs.StatsGroups(), ", ") +
		" (fee groups by course, most expensive first).",
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var statsPrograms string

func init() {
	statsCmd.Flags().StringVarP(&statsPrograms, "programs", "p", "", "Path to program rows JSON (default: data.programs_file or the database)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	group, err := programs.ParseStatsGroup(args[0])
	if err != nil {
		return err
	}

	_, set, database, err := loadCatalog(cmd.Context(), statsPrograms)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	stats, err := set.Statistics(group)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintStatistics(group, stats)
		return nil
	}

	jsonOutput, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statistics to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
	return nil
}
