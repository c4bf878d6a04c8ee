package programs

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/college-recommender/internal/types"
)

// Filter returns the records matching f in the order f asks for. Text
// constraints are case-insensitive substring matches; college types must match
// exactly, as they do at the database.
func (s *RecordSet) Filter(f types.ProgramFilter) []types.ProgramRecord {
	matched := make([]types.ProgramRecord, 0, len(s.records))
	for i := range s.records {
		if matchesFilter(&s.records[i], &f) {
			matched = append(matched, s.records[i])
		}
	}

	switch f.Order {
	case types.OrderByFeeAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Fee < matched[j].Fee })
	case types.OrderByRatingDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := &matched[i], &matched[j]
			if a.CollegeName != b.CollegeName {
				return a.CollegeName < b.CollegeName
			}
			if a.DepartmentName != b.DepartmentName {
				return a.DepartmentName < b.DepartmentName
			}
			return a.CourseName < b.CourseName
		})
	}
	return matched
}

// CountPrograms counts matching records. It lets a loaded set stand in for
// the database when reporting candidate counts.
func (s *RecordSet) CountPrograms(_ context.Context, f types.ProgramFilter) (int, error) {
	n := 0
	for i := range s.records {
		if matchesFilter(&s.records[i], &f) {
			n++
		}
	}
	return n, nil
}

func matchesFilter(p *types.ProgramRecord, f *types.ProgramFilter) bool {
	if len(f.CollegeNames) > 0 && !containsAnyFold(p.CollegeName, f.CollegeNames) {
		return false
	}
	if len(f.Locations) > 0 && !containsAnyFold(p.Location, f.Locations) {
		return false
	}
	if len(f.Courses) > 0 || len(f.Departments) > 0 {
		if !containsAnyFold(p.CourseName, f.Courses) && !containsAnyFold(p.DepartmentName, f.Departments) {
			return false
		}
	}
	if len(f.CollegeTypes) > 0 && !containsExact(p.CollegeType, f.CollegeTypes) {
		return false
	}
	if f.HostelRequired && !p.HostelAvailable {
		return false
	}
	if f.MaxFee != nil && p.Fee > *f.MaxFee {
		return false
	}
	return true
}

func containsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func containsExact(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
