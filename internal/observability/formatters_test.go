package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/college-recommender/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rank := 4200
	budget := 600000.0
	dist := 30.0
	profile := types.NewStudentProfile()
	profile.EntranceRank = &rank
	profile.BudgetMax = &budget
	profile.PreferredLocations = []string{"Kathmandu", "Lalitpur"}
	profile.PreferredCourses = []string{"Computer"}
	profile.HostelRequired = true
	profile.LocationProximity = &types.Coordinates{Latitude: 27.7, Longitude: 85.3}
	profile.MaxDistanceKm = &dist

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "STUDENT PROFILE")
	assert.Contains(t, output, "Entrance rank: 4200")
	assert.Contains(t, output, "Budget:        600000")
	assert.Contains(t, output, "Kathmandu, Lalitpur")
	assert.Contains(t, output, "Hostel:        required")
	assert.Contains(t, output, "(30 km)")
	assert.Contains(t, output, "rating=HIGH")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := []types.CollegeRecommendation{
		{
			Program: types.ProgramRecord{
				CollegeName: "Pulchowk Campus",
				CourseName:  "BE Computer",
				Location:    "Lalitpur",
				Fee:         150000,
			},
			Score:           types.RecommendationScore{Reasoning: "Location: 1.00, Fee: 0.75"},
			Rank:            1,
			MatchPercentage: 87.5,
		},
	}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.Contains(t, output, "RECOMMENDATIONS")
	assert.Contains(t, output, "Programs ranked: 1")
	assert.Contains(t, output, "#1  Pulchowk Campus")
	assert.Contains(t, output, "Course: BE Computer")
	assert.Contains(t, output, "Match: 87.5% | Fee: 150000")
	assert.Contains(t, output, "Location: Lalitpur")
	assert.Contains(t, output, "Location: 1.00, Fee: 0.75")
	assert.NotContains(t, output, "more programs")
}

func TestPrintRecommendations_Overflow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := make([]types.CollegeRecommendation, 8)
	for i := range recs {
		recs[i] = types.CollegeRecommendation{
			Program: types.ProgramRecord{CollegeName: fmt.Sprintf("College %d", i+1)},
			Rank:    i + 1,
		}
	}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.Contains(t, output, "#5  College 5")
	assert.NotContains(t, output, "College 6")
	assert.Contains(t, output, "... and 3 more programs")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(nil)

	assert.Contains(t, buf.String(), "No programs matched.")
}

func TestPrintFieldRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFieldRanking("rating", []types.FieldValue{
		{CollegeName: "Kathmandu University", CourseName: "BBA", Field: "rating", Value: 4.8},
		{CollegeName: "Ace Institute", Field: "rating", Value: 4.1},
	})
	output := buf.String()

	assert.Contains(t, output, "TOP PROGRAMS BY RATING")
	assert.Contains(t, output, " 1. Kathmandu University - BBA")
	assert.Contains(t, output, "4.80")
	assert.Contains(t, output, " 2. Ace Institute")
}

func TestPrintFieldRanking_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFieldRanking("fee", nil)

	assert.Contains(t, buf.String(), "No programs loaded.")
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStatistics(types.GroupByLocation, []types.GroupStats{
		{Group: "Kathmandu", Programs: 3, Colleges: 2, AverageFee: 450000, MinFee: 400000, MaxFee: 500000,
			AverageRating: 3.5, AveragePassPercentage: 75, TotalSeats: 80},
		{Group: "Lalitpur", Programs: 1, Colleges: 1},
	})
	output := buf.String()

	assert.Contains(t, output, "STATISTICS BY LOCATION")
	assert.Contains(t, output, "Kathmandu (3 programs, 2 colleges)")
	assert.Contains(t, output, "Fee: avg 450000, min 400000, max 500000, sd 0")
	assert.Contains(t, output, "Rating 3.50 | Pass 75.0% | Seats 80")
	assert.Contains(t, output, "Lalitpur (1 programs, 1 colleges)")

	buf.Reset()
	p.PrintStatistics(types.GroupByCourse, nil)
	assert.Contains(t, buf.String(), "No programs loaded.")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := []types.CollegeRecommendation{{
		Program: types.ProgramRecord{
			CollegeName: "A Very Long College Name That Should Be Truncated To Fit Inside The Box",
		},
		Rank: 1,
	}}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ÅÅÅÅÅÅÅ...", truncate(strings.Repeat("Å", 20), 10))
}
