// Package types provides type definitions for structured data used throughout the college-recommender system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// UnknownCategory is the value imputed for missing categorical fields.
const UnknownCategory = "Unknown"

// RawProgram is one flat college/department/course row as supplied by a data
// collaborator. Any field may be null; pointer fields distinguish "absent"
// from a legitimate zero.
type RawProgram struct {
	CollegeID    int64  `json:"college_id"`
	CollegeName  string `json:"college_name"`
	DepartmentID int64  `json:"department_id"`
	// DepartmentName and CourseName are descriptive; null becomes "".
	DepartmentName *string `json:"department_name"`
	CourseID       int64   `json:"course_id"`
	CourseName     *string `json:"course_name"`

	Location      *string  `json:"location"`
	CollegeType   *string  `json:"college_type"`
	ContactNumber *string  `json:"contact_number"`
	Email         *string  `json:"email"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	Fee                   *float64 `json:"fee"`
	Rating                *float64 `json:"rating"`
	PassPercentage        *float64 `json:"pass_percentage"`
	AverageCutoffRank     *float64 `json:"average_cutoff_rank"`
	TotalSeats            *float64 `json:"total_seats"`
	FacultyToStudentRatio *float64 `json:"faculty_to_student_ratio"`
	ScholarshipPercent    *float64 `json:"scholarship_percent"`

	HasInternship   *bool `json:"has_internship"`
	HostelAvailable *bool `json:"hostel_available"`

	AdmissionProcess *string `json:"admission_process"`
	DurationInYears  *int    `json:"duration_in_years"`
}

// ProgramRecord is a cleaned program row. Every numeric feature is populated;
// Latitude/Longitude stay nil when the source had no coordinates.
type ProgramRecord struct {
	CollegeID      int64  `json:"college_id"`
	CollegeName    string `json:"college_name"`
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	CourseID       int64  `json:"course_id"`
	CourseName     string `json:"course_name"`

	Location      string   `json:"location"`
	CollegeType   string   `json:"college_type"`
	ContactNumber string   `json:"contact_number"`
	Email         string   `json:"email"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	Fee                   float64 `json:"fee"`
	Rating                float64 `json:"rating"`
	PassPercentage        float64 `json:"pass_percentage"`
	AverageCutoffRank     float64 `json:"average_cutoff_rank"`
	TotalSeats            float64 `json:"total_seats"`
	FacultyToStudentRatio float64 `json:"faculty_to_student_ratio"`
	ScholarshipPercent    float64 `json:"scholarship_percent"`

	HasInternship   bool `json:"has_internship"`
	HostelAvailable bool `json:"hostel_available"`

	AdmissionProcess string `json:"admission_process"`
	DurationInYears  int    `json:"duration_in_years"`
}

// EffectiveFee is the nominal fee reduced by the scholarship percentage.
func (p *ProgramRecord) EffectiveFee() float64 {
	return p.Fee * (1 - p.ScholarshipPercent/100)
}

// FieldValue is one entry of a single-field ranking.
type FieldValue struct {
	CollegeName string  `json:"college_name"`
	CourseName  string  `json:"course_name"`
	Field       string  `json:"field"`
	Value       float64 `json:"value"`
}

// ProgramOrder selects how a program query is ordered.
type ProgramOrder string

const (
	// OrderByName orders by college, department, then course name.
	OrderByName ProgramOrder = "name"
	// OrderByFeeAsc puts the cheapest programs first.
	OrderByFeeAsc ProgramOrder = "fee_asc"
	// OrderByRatingDesc puts the best-rated programs first.
	OrderByRatingDesc ProgramOrder = "rating_desc"
)

// ProgramFilter narrows a program query at the data source. Empty slices mean
// "no constraint"; values within one slice are alternatives.
type ProgramFilter struct {
	CollegeNames   []string     `json:"college_names,omitempty"`
	Locations      []string     `json:"locations,omitempty"`
	Courses        []string     `json:"courses,omitempty"`
	Departments    []string     `json:"departments,omitempty"`
	CollegeTypes   []string     `json:"college_types,omitempty"`
	HostelRequired bool         `json:"hostel_required,omitempty"`
	MaxFee         *float64     `json:"max_fee,omitempty"`
	Order          ProgramOrder `json:"order,omitempty"`
}

// IsEmpty reports whether the filter applies no constraint.
func (f ProgramFilter) IsEmpty() bool {
	return len(f.CollegeNames) == 0 &&
		len(f.Locations) == 0 &&
		len(f.Courses) == 0 &&
		len(f.Departments) == 0 &&
		len(f.CollegeTypes) == 0 &&
		!f.HostelRequired &&
		f.MaxFee == nil
}

// StatsGroup names how Statistics buckets programs.
type StatsGroup string

const (
	GroupByCourse   StatsGroup = "course"
	GroupByCollege  StatsGroup = "college"
	GroupByLocation StatsGroup = "location"
	// GroupByFee buckets by course like GroupByCourse but orders by average
	// fee, most expensive first, for a fee distribution view.
	GroupByFee StatsGroup = "fee"
)

// GroupStats summarizes the programs sharing one course name, college or
// location. Averages are over the cleaned (imputed) values.
type GroupStats struct {
	Group       string `json:"group"`
	Location    string `json:"location,omitempty"`
	CollegeType string `json:"college_type,omitempty"`
	HasHostel   *bool  `json:"has_hostel,omitempty"`

	Programs    int `json:"programs"`
	Colleges    int `json:"colleges"`
	Departments int `json:"departments"`

	AverageFee float64 `json:"average_fee"`
	MinFee     float64 `json:"min_fee"`
	MaxFee     float64 `json:"max_fee"`
	FeeStdDev  float64 `json:"fee_std_dev"`

	AverageRating         float64 `json:"average_rating"`
	AveragePassPercentage float64 `json:"average_pass_percentage"`
	AverageCutoffRank     float64 `json:"average_cutoff_rank"`
	BestCutoffRank        float64 `json:"best_cutoff_rank"`
	WorstCutoffRank       float64 `json:"worst_cutoff_rank"`
	TotalSeats            float64 `json:"total_seats"`
	AverageScholarship    float64 `json:"average_scholarship"`
}
