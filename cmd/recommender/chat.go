package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/pipeline"
	"github.com/jonathan/college-recommender/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Recommend programs from an extracted intent and entities",
	Long: "Runs the conversational flow for an already-extracted intent and entity bag: builds a " +
		"student profile, derives comparison factors, counts matching programs and ranks the top five.",
	Example: `  recommender chat --intent find_affordable_college --entity LOCATION=Kathmandu --entity MAX_FEE=500000`,
	RunE:    runChat,
}

var (
	chatPrograms string
	chatIntent   string
	chatEntities []string
	chatTop      int
)

func init() {
	chatCmd.Flags().StringVarP(&chatPrograms, "programs", "p", "", "Path to program rows JSON (default: data.programs_file or the database)")
	chatCmd.Flags().StringVarP(&chatIntent, "intent", "i", "", "Extracted intent (required)")
	chatCmd.Flags().StringArrayVarP(&chatEntities, "entity", "e", nil, "Extracted entity as TYPE=value (repeatable)")
	chatCmd.Flags().IntVarP(&chatTop, "top", "n", pipeline.DefaultTopN, "Number of programs to recommend")

	if err := chatCmd.MarkFlagRequired("intent"); err != nil {
		panic(fmt.Sprintf("failed to mark intent flag as required: %v", err))
	}

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	entities, err := parseEntityFlags(chatEntities)
	if err != nil {
		return err
	}

	_, set, database, err := loadCatalog(cmd.Context(), chatPrograms)
	if err != nil {
		return err
	}
	opts := pipeline.RunOptions{Ranker: newRanker(), Logger: logger}
	if database != nil {
		defer database.Close()
		opts.Counter = database
	}
	if verbose {
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			logger.Info().Str("step", e.Step).Msg(e.Message)
		}
	}

	result, err := pipeline.Run(cmd.Context(), set, pipeline.Query{
		Intent:   chatIntent,
		Entities: entities,
		TopN:     chatTop,
	}, opts)
	if err != nil {
		return err
	}

	if verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintProfile(result.Profile)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Comparing on: %s | Matching programs: %d\n",
			strings.Join(result.Factors, ", "), result.CandidateCount)
		printer.PrintRecommendations(result.Ranked)
		return nil
	}

	jsonOutput, err := json.MarshalIndent(struct {
		*pipeline.Result
		Recommendations []map[string]any `json:"recommendations"`
	}{
		Result:          result,
		Recommendations: types.NewRecommendationSet(result.Factors, result.Ranked).Recommendations,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chat result to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
	return nil
}

// parseEntityFlags turns TYPE=value pairs into an entity bag.
func parseEntityFlags(pairs []string) (map[string][]string, error) {
	entities := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --entity %q: expected TYPE=value", pair)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		entities[key] = append(entities[key], value)
	}
	return entities, nil
}
