package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollegeRecommendation_ToMap(t *testing.T) {
	lat := 27.68
	rec := CollegeRecommendation{
		Program: ProgramRecord{
			CollegeID:   7,
			CollegeName: "Pulchowk Campus",
			CourseName:  "BE Civil",
			Location:    "Lalitpur",
			Latitude:    &lat,
			Fee:         120000,
			Rating:      4.6,
		},
		Score: RecommendationScore{
			OverallScore:  0.8,
			FeeScore:      0.9,
			LocationScore: 0.7,
			Evaluated:     []string{"location", "fee"},
			Reasoning:     "Location: 0.70, Fee: 0.90",
		},
		Rank:            1,
		MatchPercentage: 80,
	}

	m := rec.ToMap()
	assert.Equal(t, "Pulchowk Campus", m["college_name"])
	assert.Equal(t, int64(7), m["college_id"])
	assert.Equal(t, 1, m["recommendation_rank"])
	assert.Equal(t, 80.0, m["match_percentage"])
	assert.Equal(t, 0.8, m["overall_score"])
	assert.Equal(t, 0.9, m["fee_score"])
	assert.Equal(t, 0.0, m["quality_score"])
	assert.Equal(t, "Location: 0.70, Fee: 0.90", m["reasoning"])
	assert.Equal(t, &lat, m["latitude"])

	// Every value must survive JSON encoding, including nil coordinates.
	_, err := json.Marshal(m)
	require.NoError(t, err)
}

func TestNewRecommendationSet(t *testing.T) {
	recs := []CollegeRecommendation{
		{Program: ProgramRecord{CollegeName: "A"}, Rank: 1},
		{Program: ProgramRecord{CollegeName: "B"}, Rank: 2},
	}

	set := NewRecommendationSet([]string{"fee"}, recs)
	require.Len(t, set.Recommendations, 2)
	assert.Equal(t, "B", set.Recommendations[1]["college_name"])

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"factors":["fee"]`)

	empty := NewRecommendationSet([]string{"fee"}, nil)
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendations":[]`)
}

func TestProgramRecord_EffectiveFee(t *testing.T) {
	p := ProgramRecord{Fee: 900000, ScholarshipPercent: 50}
	assert.Equal(t, 450000.0, p.EffectiveFee())
}

func TestProgramFilter_IsEmpty(t *testing.T) {
	assert.True(t, ProgramFilter{Order: OrderByFeeAsc}.IsEmpty())
	assert.False(t, ProgramFilter{HostelRequired: true}.IsEmpty())
	fee := 10.0
	assert.False(t, ProgramFilter{MaxFee: &fee}.IsEmpty())
}

func TestRawProgram_NullFields(t *testing.T) {
	input := `{"college_id": 1, "college_name": "X", "course_id": 2, "fee": null, "has_internship": false}`

	var raw RawProgram
	require.NoError(t, json.Unmarshal([]byte(input), &raw))
	assert.Nil(t, raw.Fee)
	require.NotNil(t, raw.HasInternship)
	assert.False(t, *raw.HasInternship)
	assert.Nil(t, raw.HostelAvailable)
}
