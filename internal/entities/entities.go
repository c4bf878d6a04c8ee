package entities

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/college-recommender/internal/ranking"
	"github.com/jonathan/college-recommender/internal/types"
)

// Entity types produced by the extraction step.
const (
	College    = "COLLEGE"
	Location   = "LOCATION"
	Course     = "COURSE"
	Department = "DEPARTMENT"
	Type       = "TYPE"
	MaxFee     = "MAX_FEE"
	Hostel     = "HOSTEL"
	Rank       = "RANK"
)

// Intents that change result ordering.
const (
	IntentFindAffordable = "find_affordable_college"
	IntentFindTopRated   = "find_top_rated_college"
)

// Entities maps an entity type to the strings extracted for it.
type Entities map[string][]string

// Normalize upper-cases keys and drops blank values and empty entries.
func Normalize(raw map[string][]string) Entities {
	out := make(Entities, len(raw))
	for key, values := range raw {
		key = strings.ToUpper(strings.TrimSpace(key))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				out[key] = append(out[key], v)
			}
		}
	}
	return out
}

// Values returns the non-blank values for an entity type.
func (e Entities) Values(entity string) []string {
	var out []string
	for _, v := range e[entity] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether at least one non-blank value exists for entity.
func (e Entities) Has(entity string) bool {
	return len(e.Values(entity)) > 0
}

func (e Entities) first(entity string) (string, bool) {
	values := e.Values(entity)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// BuildStudentProfile populates a profile from an entity bag. Values that
// cannot be parsed leave their field unset and are returned as warnings.
func BuildStudentProfile(ents Entities) (*types.StudentProfile, []*ParseError) {
	profile := types.NewStudentProfile()
	var warnings []*ParseError

	profile.PreferredLocations = ents.Values(Location)
	profile.PreferredCourses = ents.Values(Course)

	if collegeType, ok := ents.first(Type); ok {
		profile.PreferredCollegeType = collegeType
	}

	if raw, ok := ents.first(MaxFee); ok {
		budget, err := parseAmount(MaxFee, raw)
		if err != nil {
			warnings = append(warnings, err)
		} else {
			profile.BudgetMax = &budget
		}
	}

	profile.HostelRequired = ents.Has(Hostel)

	if raw, ok := ents.first(Rank); ok {
		rank, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		switch {
		case err != nil:
			warnings = append(warnings, &ParseError{Entity: Rank, Value: raw, Message: "not an integer", Cause: err})
		case rank <= 0:
			warnings = append(warnings, &ParseError{Entity: Rank, Value: raw, Message: "rank must be positive"})
		default:
			profile.EntranceRank = &rank
		}
	}

	return profile, warnings
}

// parseAmount parses a non-negative number, allowing thousands separators.
func parseAmount(entity, raw string) (float64, *ParseError) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, &ParseError{Entity: entity, Value: raw, Message: "not a number", Cause: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Entity: entity, Value: raw, Message: "amount must be finite"}
	}
	if v < 0 {
		return 0, &ParseError{Entity: entity, Value: raw, Message: "amount must be non-negative"}
	}
	return v, nil
}

// ComparisonFactors picks ranking factors from the intent and entities:
// location when a location was mentioned, fee when a budget was given or the
// intent is about cost, pass rate when the intent is about quality. With none
// of these the default set is used.
func ComparisonFactors(intent string, ents Entities) []string {
	intent = strings.ToLower(intent)
	var factors []string

	if ents.Has(Location) {
		factors = append(factors, ranking.FactorLocation)
	}
	if ents.Has(MaxFee) || strings.Contains(intent, "fee") || strings.Contains(intent, "affordable") {
		factors = append(factors, ranking.FactorFee)
	}
	if strings.Contains(intent, "quality") || strings.Contains(intent, "top") || strings.Contains(intent, "best") {
		factors = append(factors, ranking.FactorPassRate)
	}

	if len(factors) == 0 {
		return ranking.DefaultFactors()
	}
	return factors
}

// BuildFilter turns an entity bag into a program filter. Courses and
// departments are alternatives to each other; every other entity type narrows
// the result. The intent selects ordering.
func BuildFilter(intent string, ents Entities) (types.ProgramFilter, []*ParseError) {
	filter := types.ProgramFilter{
		CollegeNames:   ents.Values(College),
		Locations:      ents.Values(Location),
		Courses:        ents.Values(Course),
		Departments:    ents.Values(Department),
		CollegeTypes:   ents.Values(Type),
		HostelRequired: ents.Has(Hostel),
		Order:          OrderFor(intent),
	}

	var warnings []*ParseError
	if raw, ok := ents.first(MaxFee); ok {
		maxFee, err := parseAmount(MaxFee, raw)
		if err != nil {
			warnings = append(warnings, err)
		} else {
			filter.MaxFee = &maxFee
		}
	}

	return filter, warnings
}

// OrderFor maps an intent to result ordering.
func OrderFor(intent string) types.ProgramOrder {
	switch strings.ToLower(strings.TrimSpace(intent)) {
	case IntentFindAffordable:
		return types.OrderByFeeAsc
	case IntentFindTopRated:
		return types.OrderByRatingDesc
	default:
		return types.OrderByName
	}
}
