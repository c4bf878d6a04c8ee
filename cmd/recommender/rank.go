package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/ranking"
	"github.com/jonathan/college-recommender/internal/schemas"
	"github.com/jonathan/college-recommender/internal/types"
	embedded "github.com/jonathan/college-recommender/schemas"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank programs for a student profile",
	Long: "Loads program rows, scores every program on the requested factors with equal weights " +
		"and prints the top programs with match percentages and per-factor reasoning.",
	RunE: runRank,
}

var (
	rankPrograms    string
	rankProfile     string
	rankFactors     string
	rankTop         int
	rankOutput      string
	rankEntrance    int
	rankBudget      float64
	rankLocations   []string
	rankCourses     []string
	rankCollegeType string
	rankHostel      bool
	rankLatitude    float64
	rankLongitude   float64
	rankMaxDistance float64
	rankPriorities  map[string]string
)

func init() {
	rankCmd.Flags().StringVarP(&rankPrograms, "programs", "p", "", "Path to program rows JSON (default: data.programs_file or the database)")
	rankCmd.Flags().StringVar(&rankProfile, "profile", "", "Path to StudentProfile JSON; flags below override its fields")
	rankCmd.Flags().StringVarP(&rankFactors, "factors", "f", "", "Comma-separated factors (default: ranking.default_factors or location,fee,pass_rate)")
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", 0, "Number of programs to return (default: ranking.default_top_n)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Write recommendations JSON to this file instead of stdout")

	rankCmd.Flags().IntVar(&rankEntrance, "entrance-rank", 0, "Entrance exam rank")
	rankCmd.Flags().Float64Var(&rankBudget, "budget", 0, "Maximum fee")
	rankCmd.Flags().StringSliceVar(&rankLocations, "location", nil, "Preferred location (repeatable)")
	rankCmd.Flags().StringSliceVar(&rankCourses, "course", nil, "Preferred course (repeatable)")
	rankCmd.Flags().StringVar(&rankCollegeType, "college-type", "", "Preferred college type")
	rankCmd.Flags().BoolVar(&rankHostel, "hostel", false, "Require a hostel")
	rankCmd.Flags().Float64Var(&rankLatitude, "lat", 0, "Latitude for proximity scoring")
	rankCmd.Flags().Float64Var(&rankLongitude, "lon", 0, "Longitude for proximity scoring")
	rankCmd.Flags().Float64Var(&rankMaxDistance, "max-distance", 0, "Maximum distance in km for proximity scoring")
	rankCmd.Flags().StringToStringVar(&rankPriorities, "priority", nil,
		"Priority levels, e.g. rating=HIGH,internship=LOW (rating, pass, internship, scholarship)")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	profile, err := buildProfile(cmd)
	if err != nil {
		return err
	}

	factors := ranking.SplitFactors(rankFactors)
	if len(factors) == 0 {
		factors = appConfig.Ranking.DefaultFactors
	}
	factors, err = ranking.NormalizeFactors(factors)
	if err != nil {
		return err
	}

	topN := rankTop
	if topN <= 0 {
		topN = appConfig.Ranking.DefaultTopN
	}

	_, set, database, err := loadCatalog(cmd.Context(), rankPrograms)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	recs, err := newRanker().Rank(set, profile, factors, topN)
	if err != nil {
		return fmt.Errorf("failed to rank programs: %w", err)
	}

	if verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintProfile(profile)
		printer.PrintRecommendations(recs)
		return nil
	}

	return writeRecommendations(cmd, types.NewRecommendationSet(factors, recs), rankOutput)
}

// buildProfile reads --profile when given, then applies any profile flags
// the user set explicitly.
func buildProfile(cmd *cobra.Command) (*types.StudentProfile, error) {
	profile := &types.StudentProfile{}
	if rankProfile != "" {
		content, err := os.ReadFile(rankProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file %s: %w", rankProfile, err)
		}
		if err := schemas.ValidateDocument(embedded.StudentProfile, content); err != nil {
			return nil, fmt.Errorf("profile %s: %w", rankProfile, err)
		}
		if err := json.Unmarshal(content, profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("entrance-rank") {
		profile.EntranceRank = &rankEntrance
	}
	if flags.Changed("budget") {
		profile.BudgetMax = &rankBudget
	}
	if flags.Changed("location") {
		profile.PreferredLocations = rankLocations
	}
	if flags.Changed("course") {
		profile.PreferredCourses = rankCourses
	}
	if flags.Changed("college-type") {
		profile.PreferredCollegeType = rankCollegeType
	}
	if flags.Changed("hostel") {
		profile.HostelRequired = rankHostel
	}
	if flags.Changed("lat") || flags.Changed("lon") {
		profile.LocationProximity = &types.Coordinates{Latitude: rankLatitude, Longitude: rankLongitude}
	}
	if flags.Changed("max-distance") {
		profile.MaxDistanceKm = &rankMaxDistance
	}
	for name, level := range rankPriorities {
		p, err := types.ParsePriority(level)
		if err != nil {
			return nil, fmt.Errorf("--priority %s: %w", name, err)
		}
		switch name {
		case "rating":
			profile.RatingPriority = p
		case "pass", "pass_percentage":
			profile.PassPercentagePriority = p
		case "internship":
			profile.InternshipPriority = p
		case "scholarship":
			profile.ScholarshipPriority = p
		default:
			return nil, fmt.Errorf("--priority: unknown criterion %q (rating, pass, internship, scholarship)", name)
		}
	}

	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid student profile: %w", err)
	}
	return profile, nil
}

// writeRecommendations prints the set as indented JSON, or writes it to path,
// then checks it against the recommendations schema.
func writeRecommendations(cmd *cobra.Command, set types.RecommendationSet, path string) error {
	jsonOutput, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations to JSON: %w", err)
	}

	// Output validation is a safety check, not a requirement
	if err := schemas.ValidateDocument(embedded.Recommendations, jsonOutput); err != nil {
		logger.Warn().Err(err).Msg("output validation failed")
	}

	if path == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write recommendations to %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d recommendations to %s\n", len(set.Recommendations), path)
	return nil
}
