// Package types provides type definitions for structured data used throughout the college-recommender system.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Priority is an ordinal importance level for one quality criterion.
type Priority int

// Priority levels. The numeric value is the scoring weight numerator.
const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

// Valid reports whether p is one of the four ordinal levels.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority accepts a level name (case-insensitive) or its number.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Priority(n).Valid() {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("invalid priority %q: must be LOW, MEDIUM, HIGH or CRITICAL", s)
}

// MarshalJSON encodes the priority by name.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return json.Marshal(int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a level name or a number.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParsePriority(name)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("priority must be a string or number: %w", err)
	}
	if !Priority(n).Valid() {
		return fmt.Errorf("priority %d out of range: expected %d..%d", n, PriorityLow, PriorityCritical)
	}
	*p = Priority(n)
	return nil
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// StudentProfile describes a student's preferences and constraints. A nil or
// empty field means "no constraint".
type StudentProfile struct {
	EntranceRank         *int     `json:"entrance_rank,omitempty" validate:"omitempty,gt=0"`
	BudgetMax            *float64 `json:"budget_max,omitempty" validate:"omitempty,gte=0"`
	PreferredLocations   []string `json:"preferred_locations,omitempty"`
	PreferredCourses     []string `json:"preferred_courses,omitempty"`
	PreferredCollegeType string   `json:"preferred_college_type,omitempty"`
	HostelRequired       bool     `json:"hostel_required"`

	InternshipPriority     Priority `json:"internship_priority" validate:"min=1,max=4"`
	ScholarshipPriority    Priority `json:"scholarship_priority" validate:"min=1,max=4"`
	RatingPriority         Priority `json:"rating_priority" validate:"min=1,max=4"`
	PassPercentagePriority Priority `json:"pass_percentage_priority" validate:"min=1,max=4"`

	LocationProximity *Coordinates `json:"location_proximity,omitempty" validate:"omitempty"`
	MaxDistanceKm     *float64     `json:"max_distance_km,omitempty" validate:"omitempty,gt=0"`
}

// NewStudentProfile returns a profile with no constraints and the default
// priority levels.
func NewStudentProfile() *StudentProfile {
	p := &StudentProfile{}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills unset (zero) priorities with their default levels.
// Out-of-range levels are left for Validate to report.
func (p *StudentProfile) ApplyDefaults() {
	if p.InternshipPriority == 0 {
		p.InternshipPriority = PriorityMedium
	}
	if p.ScholarshipPriority == 0 {
		p.ScholarshipPriority = PriorityMedium
	}
	if p.RatingPriority == 0 {
		p.RatingPriority = PriorityHigh
	}
	if p.PassPercentagePriority == 0 {
		p.PassPercentagePriority = PriorityMedium
	}
}

// Validate checks field ranges using the struct tags.
func (p *StudentProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// HasProximity reports whether both proximity coordinates and a distance
// threshold were supplied.
func (p *StudentProfile) HasProximity() bool {
	return p.LocationProximity != nil && p.MaxDistanceKm != nil && *p.MaxDistanceKm > 0
}
