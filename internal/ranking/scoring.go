// Package ranking scores program records against a student profile and ranks them.
package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/types"
)

const (
	// neutralScore is returned when a preference is absent or cannot be evaluated.
	neutralScore = 0.5

	earthRadiusKm = 6371.0

	// defaultBudgetFactor scales the median fee into a reference budget when
	// the student gave none.
	defaultBudgetFactor = 1.2
)

// AffordabilityScore rewards an effective fee under budget and penalizes
// overage proportionally. Being exactly at budget scores 0.3, never 0.
func AffordabilityScore(record *types.ProgramRecord, profile *types.StudentProfile, stats programs.Stats) float64 {
	effectiveFee := record.EffectiveFee()

	budget := defaultBudgetFactor * stats.MedianFee
	if profile.BudgetMax != nil {
		budget = *profile.BudgetMax
	}

	if effectiveFee <= budget {
		if budget <= 0 {
			return 1.0
		}
		return clamp(1-(effectiveFee/budget)*0.7, 0.3, 1.0)
	}

	if budget <= 0 {
		return 0.0
	}
	return clamp(1-(effectiveFee-budget)/budget, 0.0, 1.0)
}

// QualityScore is the priority-weighted average of rating, pass percentage
// and internship availability.
func QualityScore(record *types.ProgramRecord, profile *types.StudentProfile) float64 {
	ratingScore := record.Rating / 5
	passScore := record.PassPercentage / 100
	internshipScore := 0.5
	if record.HasInternship {
		internshipScore = 1.0
	}

	ratingWeight := priorityWeight(profile.RatingPriority)
	passWeight := priorityWeight(profile.PassPercentagePriority)
	internshipWeight := priorityWeight(profile.InternshipPriority)

	totalWeight := ratingWeight + passWeight + internshipWeight
	if totalWeight == 0 {
		return clamp((ratingScore+passScore+internshipScore)/3, 0, 1)
	}

	weighted := ratingScore*ratingWeight + passScore*passWeight + internshipScore*internshipWeight
	return clamp(weighted/totalWeight, 0, 1)
}

// priorityWeight maps a priority level onto (0, 1].
func priorityWeight(p types.Priority) float64 {
	return clamp(float64(p)/float64(types.PriorityCritical), 0, 1)
}

// AccessibilityScore estimates how likely the student is to clear the
// program's cutoff rank. Lower rank numbers are better.
func AccessibilityScore(record *types.ProgramRecord, profile *types.StudentProfile) float64 {
	cutoff := record.AverageCutoffRank
	if profile.EntranceRank == nil || cutoff <= 0 {
		return neutralScore
	}

	rank := float64(*profile.EntranceRank)
	if rank <= cutoff {
		buffer := (cutoff - rank) / cutoff
		return clamp(math.Min(1.0, 0.7+buffer*0.3), 0, 1)
	}

	gap := (rank - cutoff) / cutoff
	return clamp(math.Max(0.0, 0.5-gap*0.5), 0, 1)
}

// LocationScore combines preferred-location text matching with distance
// from the student's coordinates when both coordinates and a radius are given.
func LocationScore(record *types.ProgramRecord, profile *types.StudentProfile) float64 {
	score := neutralScore

	if containsAnyFold(record.Location, profile.PreferredLocations) {
		score = math.Max(score, 0.9)
	}

	if profile.HasProximity() {
		maxDistance := *profile.MaxDistanceKm
		distance := DistanceKm(profile.LocationProximity, record.Latitude, record.Longitude)
		if distance <= maxDistance {
			score = math.Max(score, 1-(distance/maxDistance)*0.5)
		} else {
			score = math.Min(score, 0.3)
		}
	}

	return clamp(score, 0, 1)
}

// FeatureScore adjusts a neutral baseline for college type, course and
// hostel matches.
func FeatureScore(record *types.ProgramRecord, profile *types.StudentProfile) float64 {
	score := neutralScore

	if profile.PreferredCollegeType != "" && profile.PreferredCollegeType == record.CollegeType {
		score += 0.2
	}

	if containsAnyFold(record.CourseName, profile.PreferredCourses) {
		score += 0.2
	}

	if profile.HostelRequired {
		if record.HostelAvailable {
			score += 0.2
		} else {
			score -= 0.1
		}
	}

	return clamp(score, 0, 1)
}

// FeeScore compares the nominal fee against the most expensive program in the set.
func FeeScore(record *types.ProgramRecord, stats programs.Stats) float64 {
	maxFee := stats.MaxFee
	if maxFee <= 0 {
		maxFee = 1
	}
	return clamp(1-record.Fee/maxFee, 0, 1)
}

// PassRateScore is the pass percentage on a 0-1 scale.
func PassRateScore(record *types.ProgramRecord) float64 {
	return clamp(record.PassPercentage/100, 0, 1)
}

// DistanceKm returns the haversine distance between from and the given
// coordinates. Missing or NaN coordinates are infinitely far away.
func DistanceKm(from *types.Coordinates, lat, lon *float64) float64 {
	if from == nil || lat == nil || lon == nil || math.IsNaN(*lat) || math.IsNaN(*lon) {
		return math.Inf(1)
	}
	return haversine(from.Latitude, from.Longitude, *lat, *lon)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// containsAnyFold reports whether any non-blank needle is a case-insensitive substring of s.
func containsAnyFold(s string, needles []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, needle := range needles {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
