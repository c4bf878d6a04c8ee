package programs

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/college-recommender/internal/types"
)

// Stats holds set-level aggregates that scorers compare individual records against.
type Stats struct {
	MedianFee float64
	MaxFee    float64
}

// RecordSet is an immutable, cleaned collection of program records. It is
// safe for concurrent reads; a new load produces a new RecordSet.
type RecordSet struct {
	records  []types.ProgramRecord
	stats    Stats
	medians  map[string]float64
	loadedAt time.Time
}

// Records returns the cleaned records in load order. The slice is shared and must not be modified.
func (s *RecordSet) Records() []types.ProgramRecord {
	return s.records
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Stats returns the set-level aggregates computed at load time.
func (s *RecordSet) Stats() Stats {
	return s.stats
}

// ImputedMedian returns the median used to fill nulls in a numeric column.
func (s *RecordSet) ImputedMedian(column string) (float64, bool) {
	v, ok := s.medians[column]
	return v, ok
}

// LoadedAt is the time the set was built.
func (s *RecordSet) LoadedAt() time.Time {
	return s.loadedAt
}

// numericColumns are imputed with the column median over the whole input.
var numericColumns = map[string]func(*types.RawProgram) *float64{
	"fee":                      func(r *types.RawProgram) *float64 { return r.Fee },
	"rating":                   func(r *types.RawProgram) *float64 { return r.Rating },
	"pass_percentage":          func(r *types.RawProgram) *float64 { return r.PassPercentage },
	"average_cutoff_rank":      func(r *types.RawProgram) *float64 { return r.AverageCutoffRank },
	"total_seats":              func(r *types.RawProgram) *float64 { return r.TotalSeats },
	"faculty_to_student_ratio": func(r *types.RawProgram) *float64 { return r.FacultyToStudentRatio },
	"scholarship_percent":      func(r *types.RawProgram) *float64 { return r.ScholarshipPercent },
}

// Load cleans raw program rows into a RecordSet.
//
// Numeric nulls take the column median over all non-null input values (0 when
// a column is entirely null), categorical nulls (college type, admission
// process) and blank college names become "Unknown", and boolean nulls become
// false. Only an empty input is a DataError.
func Load(rows []types.RawProgram) (*RecordSet, error) {
	if len(rows) == 0 {
		return nil, &DataError{Message: "no program rows to load", Row: -1}
	}

	medians := make(map[string]float64, len(numericColumns))
	for column, get := range numericColumns {
		values := make([]float64, 0, len(rows))
		for i := range rows {
			if v := get(&rows[i]); v != nil && !math.IsNaN(*v) {
				values = append(values, *v)
			}
		}
		medians[column] = median(values)
	}

	records := make([]types.ProgramRecord, len(rows))
	for i := range rows {
		records[i] = cleanRow(&rows[i], medians)
	}

	return &RecordSet{
		records:  records,
		stats:    computeStats(records),
		medians:  medians,
		loadedAt: time.Now(),
	}, nil
}

func cleanRow(r *types.RawProgram, medians map[string]float64) types.ProgramRecord {
	return types.ProgramRecord{
		CollegeID:      r.CollegeID,
		CollegeName:    nameOr(r.CollegeName),
		DepartmentID:   r.DepartmentID,
		DepartmentName: stringOr(r.DepartmentName, ""),
		CourseID:       r.CourseID,
		CourseName:     stringOr(r.CourseName, ""),

		Location:      stringOr(r.Location, ""),
		CollegeType:   stringOr(r.CollegeType, types.UnknownCategory),
		ContactNumber: stringOr(r.ContactNumber, ""),
		Email:         stringOr(r.Email, ""),
		Latitude:      coordinate(r.Latitude),
		Longitude:     coordinate(r.Longitude),

		Fee:                   floatOr(r.Fee, medians["fee"]),
		Rating:                floatOr(r.Rating, medians["rating"]),
		PassPercentage:        floatOr(r.PassPercentage, medians["pass_percentage"]),
		AverageCutoffRank:     floatOr(r.AverageCutoffRank, medians["average_cutoff_rank"]),
		TotalSeats:            floatOr(r.TotalSeats, medians["total_seats"]),
		FacultyToStudentRatio: floatOr(r.FacultyToStudentRatio, medians["faculty_to_student_ratio"]),
		ScholarshipPercent:    floatOr(r.ScholarshipPercent, medians["scholarship_percent"]),

		HasInternship:   r.HasInternship != nil && *r.HasInternship,
		HostelAvailable: r.HostelAvailable != nil && *r.HostelAvailable,

		AdmissionProcess: stringOr(r.AdmissionProcess, types.UnknownCategory),
		DurationInYears:  intOr(r.DurationInYears, 0),
	}
}

func computeStats(records []types.ProgramRecord) Stats {
	fees := make([]float64, len(records))
	maxFee := 0.0
	for i := range records {
		fees[i] = records[i].Fee
		if records[i].Fee > maxFee {
			maxFee = records[i].Fee
		}
	}
	return Stats{MedianFee: median(fees), MaxFee: maxFee}
}

// median returns the middle value (mean of the two middle values for even
// counts), or 0 for an empty slice.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// coordinate drops NaN so a missing coordinate is always nil downstream.
func coordinate(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	c := *v
	return &c
}

func nameOr(name string) string {
	if strings.TrimSpace(name) == "" {
		return types.UnknownCategory
	}
	return name
}
