// Package types provides type definitions for structured data used throughout the college-recommender system.
package types

// RecommendationScore is the per-program score breakdown. Factor fields that
// were not requested stay 0, which means "not evaluated", not "poor".
type RecommendationScore struct {
	OverallScore       float64 `json:"overall_score"`
	AffordabilityScore float64 `json:"affordability_score"`
	QualityScore       float64 `json:"quality_score"`
	AccessibilityScore float64 `json:"accessibility_score"`
	LocationScore      float64 `json:"location_score"`
	FeatureScore       float64 `json:"feature_score"`
	FeeScore           float64 `json:"fee_score"`
	PassRateScore      float64 `json:"pass_rate_score"`
	// Evaluated lists the factor names that contributed, in request order.
	Evaluated []string `json:"evaluated_factors"`
	Reasoning string   `json:"reasoning"`
}

// CollegeRecommendation is one ranked program.
type CollegeRecommendation struct {
	Program         ProgramRecord       `json:"program"`
	Score           RecommendationScore `json:"score"`
	Rank            int                 `json:"rank"`
	MatchPercentage float64             `json:"match_percentage"`
}

// ToMap flattens the recommendation into field name -> value for transport
// to a presentation layer.
func (r *CollegeRecommendation) ToMap() map[string]any {
	p := r.Program
	return map[string]any{
		"college_id":               p.CollegeID,
		"college_name":             p.CollegeName,
		"department_id":            p.DepartmentID,
		"department_name":          p.DepartmentName,
		"course_id":                p.CourseID,
		"course_name":              p.CourseName,
		"location":                 p.Location,
		"college_type":             p.CollegeType,
		"contact_number":           p.ContactNumber,
		"email":                    p.Email,
		"latitude":                 p.Latitude,
		"longitude":                p.Longitude,
		"fee":                      p.Fee,
		"rating":                   p.Rating,
		"pass_percentage":          p.PassPercentage,
		"average_cutoff_rank":      p.AverageCutoffRank,
		"total_seats":              p.TotalSeats,
		"faculty_to_student_ratio": p.FacultyToStudentRatio,
		"scholarship_percent":      p.ScholarshipPercent,
		"has_internship":           p.HasInternship,
		"hostel_available":         p.HostelAvailable,
		"admission_process":        p.AdmissionProcess,
		"duration_in_years":        p.DurationInYears,
		"recommendation_rank":      r.Rank,
		"match_percentage":         r.MatchPercentage,
		"overall_score":            r.Score.OverallScore,
		"affordability_score":      r.Score.AffordabilityScore,
		"quality_score":            r.Score.QualityScore,
		"accessibility_score":      r.Score.AccessibilityScore,
		"location_score":           r.Score.LocationScore,
		"feature_score":            r.Score.FeatureScore,
		"fee_score":                r.Score.FeeScore,
		"pass_rate_score":          r.Score.PassRateScore,
		"reasoning":                r.Score.Reasoning,
	}
}

// RecommendationSet is the transport form of one ranking call: the factors
// that were evaluated and the flattened recommendations in rank order.
type RecommendationSet struct {
	Factors         []string         `json:"factors"`
	Recommendations []map[string]any `json:"recommendations"`
}

// NewRecommendationSet flattens recs with ToMap.
func NewRecommendationSet(factors []string, recs []CollegeRecommendation) RecommendationSet {
	flat := make([]map[string]any, len(recs))
	for i := range recs {
		flat[i] = recs[i].ToMap()
	}
	return RecommendationSet{Factors: factors, Recommendations: flat}
}
