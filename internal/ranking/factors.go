package ranking

import (
	"strings"

	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/types"
)

// Factor names accepted by Rank.
const (
	FactorLocation      = "location"
	FactorFee           = "fee"
	FactorPassRate      = "pass_rate"
	FactorAffordability = "affordability"
	FactorQuality       = "quality"
	FactorAccessibility = "accessibility"
	FactorFeature       = "feature"
)

// scoreInput carries everything a factor may read. Nothing in it is written during scoring.
type scoreInput struct {
	record  *types.ProgramRecord
	profile *types.StudentProfile
	stats   programs.Stats
}

type factor struct {
	label  string
	score  func(in scoreInput) float64
	assign func(s *types.RecommendationScore, v float64)
}

var factors = map[string]factor{
	FactorLocation: {
		label:  "Location",
		score:  func(in scoreInput) float64 { return LocationScore(in.record, in.profile) },
		assign: func(s *types.RecommendationScore, v float64) { s.LocationScore = v },
	},
	FactorFee: {
		label:  "Fee",
		score:  func(in scoreInput) float64 { return FeeScore(in.record, in.stats) },
		assign: func(s *types.RecommendationScore, v float64) { s.FeeScore = v },
	},
	FactorPassRate: {
		label:  "Pass Rate",
		score:  func(in scoreInput) float64 { return PassRateScore(in.record) },
		assign: func(s *types.RecommendationScore, v float64) { s.PassRateScore = v },
	},
	FactorAffordability: {
		label:  "Affordability",
		score:  func(in scoreInput) float64 { return AffordabilityScore(in.record, in.profile, in.stats) },
		assign: func(s *types.RecommendationScore, v float64) { s.AffordabilityScore = v },
	},
	FactorQuality: {
		label:  "Quality",
		score:  func(in scoreInput) float64 { return QualityScore(in.record, in.profile) },
		assign: func(s *types.RecommendationScore, v float64) { s.QualityScore = v },
	},
	FactorAccessibility: {
		label:  "Accessibility",
		score:  func(in scoreInput) float64 { return AccessibilityScore(in.record, in.profile) },
		assign: func(s *types.RecommendationScore, v float64) { s.AccessibilityScore = v },
	},
	FactorFeature: {
		label:  "Feature Match",
		score:  func(in scoreInput) float64 { return FeatureScore(in.record, in.profile) },
		assign: func(s *types.RecommendationScore, v float64) { s.FeatureScore = v },
	},
}

// DefaultFactors is used when a caller requests no factors.
func DefaultFactors() []string {
	return []string{FactorLocation, FactorFee, FactorPassRate}
}

// KnownFactors lists every accepted factor name in a fixed order.
func KnownFactors() []string {
	return []string{
		FactorLocation, FactorFee, FactorPassRate,
		FactorAffordability, FactorQuality, FactorAccessibility, FactorFeature,
	}
}

// NormalizeFactors trims and lowercases factor names and drops repeats,
// keeping request order. An empty request yields DefaultFactors. Any unknown
// name fails the whole request.
func NormalizeFactors(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return DefaultFactors(), nil
	}

	seen := make(map[string]bool, len(requested))
	normalized := make([]string, 0, len(requested))
	for _, name := range requested {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := factors[key]; !ok {
			return nil, &InvalidFactorError{Factor: name, Known: KnownFactors()}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, key)
	}
	return normalized, nil
}

// SplitFactors parses a comma-separated factor list, ignoring blank entries.
func SplitFactors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FactorLabel returns the display name used in reasoning strings.
func FactorLabel(name string) string {
	if f, ok := factors[name]; ok {
		return f.label
	}
	return name
}
