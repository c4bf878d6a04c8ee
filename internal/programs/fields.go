package programs

import (
	"sort"
	"strings"

	"github.com/jonathan/college-recommender/internal/types"
)

var fieldValues = map[string]func(*types.ProgramRecord) float64{
	"fee":                      func(p *types.ProgramRecord) float64 { return p.Fee },
	"rating":                   func(p *types.ProgramRecord) float64 { return p.Rating },
	"pass_percentage":          func(p *types.ProgramRecord) float64 { return p.PassPercentage },
	"average_cutoff_rank":      func(p *types.ProgramRecord) float64 { return p.AverageCutoffRank },
	"total_seats":              func(p *types.ProgramRecord) float64 { return p.TotalSeats },
	"faculty_to_student_ratio": func(p *types.ProgramRecord) float64 { return p.FacultyToStudentRatio },
	"scholarship_percent":      func(p *types.ProgramRecord) float64 { return p.ScholarshipPercent },
	"effective_fee":            func(p *types.ProgramRecord) float64 { return p.EffectiveFee() },
	"duration_in_years":        func(p *types.ProgramRecord) float64 { return float64(p.DurationInYears) },
}

// RankableFields lists the field names accepted by RankByField, sorted: the
// imputed numeric columns plus effective_fee (fee after scholarship) and
// duration_in_years.
func RankableFields() []string {
	names := make([]string, 0, len(fieldValues))
	for name := range fieldValues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RankByField orders every record by one numeric field, highest first. Equal
// values keep load order. limit <= 0 returns all records.
func (s *RecordSet) RankByField(field string, limit int) ([]types.FieldValue, error) {
	name := strings.ToLower(strings.TrimSpace(field))
	get, ok := fieldValues[name]
	if !ok {
		return nil, &FieldError{Field: field}
	}

	results := make([]types.FieldValue, len(s.records))
	for i := range s.records {
		results[i] = types.FieldValue{
			CollegeName: s.records[i].CollegeName,
			CourseName:  s.records[i].CourseName,
			Field:       name,
			Value:       get(&s.records[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Value > results[j].Value
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}
