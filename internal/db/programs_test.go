package db

import (
	"strings"
	"testing"

	"github.com/jonathan/college-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProgramsQuery_NoFilter(t *testing.T) {
	query, args, err := buildProgramsQuery(types.ProgramFilter{})
	require.NoError(t, err)

	assert.Contains(t, query, "FROM colleges c")
	assert.Contains(t, query, "LEFT JOIN departments d ON d.college_id = c.college_id")
	assert.Contains(t, query, "LEFT JOIN courses co ON co.department_id = d.department_id")
	assert.Contains(t, query, "co.course_id IS NOT NULL")
	assert.True(t, strings.HasSuffix(query, "ORDER BY c.name, d.name, co.name, co.course_id"), query)
	assert.Empty(t, args)
}

func TestBuildProgramsQuery_FullFilter(t *testing.T) {
	maxFee := 300000.0
	filter := types.ProgramFilter{
		CollegeNames:   []string{"Pulchowk"},
		Locations:      []string{"Lalitpur", "Kathmandu"},
		Courses:        []string{"Civil"},
		Departments:    []string{"Engineering"},
		CollegeTypes:   []string{"Government", "Community"},
		HostelRequired: true,
		MaxFee:         &maxFee,
		Order:          types.OrderByFeeAsc,
	}

	query, args, err := buildProgramsQuery(filter)
	require.NoError(t, err)

	assert.Contains(t, query, "c.name ILIKE $1")
	assert.Contains(t, query, "(c.location ILIKE $2 OR c.location ILIKE $3)")
	assert.Contains(t, query, "(co.name ILIKE $4 OR d.name ILIKE $5)")
	assert.Contains(t, query, "c.college_type IN ($6,$7)")
	assert.Contains(t, query, "c.hostel_available = $8")
	assert.Contains(t, query, "co.fee <= $9")
	assert.Contains(t, query, "ORDER BY co.fee ASC NULLS LAST")

	assert.Equal(t, []any{
		"%Pulchowk%", "%Lalitpur%", "%Kathmandu%", "%Civil%", "%Engineering%",
		"Government", "Community", true, 300000.0,
	}, args)
}

func TestBuildProgramsQuery_RatingOrder(t *testing.T) {
	query, _, err := buildProgramsQuery(types.ProgramFilter{Order: types.OrderByRatingDesc})
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY co.rating DESC NULLS LAST")
}

func TestBuildCountQuery(t *testing.T) {
	query, args, err := buildCountQuery(types.ProgramFilter{Courses: []string{"MBA"}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT COUNT(*) FROM colleges c"), query)
	assert.Contains(t, query, "co.name ILIKE $1")
	assert.NotContains(t, query, "ORDER BY")
	assert.Equal(t, []any{"%MBA%"}, args)
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\% online%`, likePattern("100% online"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\d%`, likePattern(`c:\d`))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS colleges")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS courses")
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "postgres", (&DB{}).Name())
}
