package programs

import (
	"context"
	"testing"

	"github.com/jonathan/college-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture(t *testing.T) *RecordSet {
	t.Helper()
	set, err := Load([]types.RawProgram{
		{CollegeName: "Pulchowk Campus", Location: ptr("Lalitpur"), CollegeType: ptr("Government"),
			DepartmentName: ptr("Civil Engineering"), CourseName: ptr("BE Civil"),
			Fee: ptr(120000.0), Rating: ptr(4.6), HostelAvailable: ptr(true)},
		{CollegeName: "Kathmandu University", Location: ptr("Dhulikhel"), CollegeType: ptr("Private"),
			DepartmentName: ptr("Computer Science"), CourseName: ptr("BSc CS"),
			Fee: ptr(800000.0), Rating: ptr(4.4), HostelAvailable: ptr(true)},
		{CollegeName: "Advanced College", Location: ptr("Lalitpur"), CollegeType: ptr("Private"),
			DepartmentName: ptr("Engineering"), CourseName: ptr("BE Computer"),
			Fee: ptr(550000.0), Rating: ptr(3.9)},
	})
	require.NoError(t, err)
	return set
}

func names(records []types.ProgramRecord) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].CollegeName
	}
	return out
}

func TestFilter(t *testing.T) {
	set := filterFixture(t)

	tests := []struct {
		name     string
		filter   types.ProgramFilter
		expected []string
	}{
		{
			name:     "empty filter orders by name",
			expected: []string{"Advanced College", "Kathmandu University", "Pulchowk Campus"},
		},
		{
			name:     "location substring",
			filter:   types.ProgramFilter{Locations: []string{"lalit"}, Order: types.OrderByFeeAsc},
			expected: []string{"Pulchowk Campus", "Advanced College"},
		},
		{
			name:     "course or department",
			filter:   types.ProgramFilter{Courses: []string{"computer"}, Departments: []string{"civil"}, Order: types.OrderByRatingDesc},
			expected: []string{"Pulchowk Campus", "Advanced College"},
		},
		{
			name:     "type is exact",
			filter:   types.ProgramFilter{CollegeTypes: []string{"private"}},
			expected: []string{},
		},
		{
			name:     "hostel and fee cap",
			filter:   types.ProgramFilter{HostelRequired: true, MaxFee: ptr(500000.0)},
			expected: []string{"Pulchowk Campus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Filter(tt.filter)
			assert.Equal(t, tt.expected, names(got))

			count, err := set.CountPrograms(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expected), count)
		})
	}
}
