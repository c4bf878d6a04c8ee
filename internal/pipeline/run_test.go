package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
	"github.com/jonathan/college-recommender/internal/types"
)

func ptr[T any](v T) *T { return &v }

func testSet(t *testing.T) *programs.RecordSet {
	t.Helper()
	set, err := programs.Load([]types.RawProgram{
		{CollegeID: 1, CollegeName: "Kathmandu Engineering College", CourseID: 11, CourseName: ptr("BE Computer"),
			Location: ptr("Kathmandu"), CollegeType: ptr("Private"), Fee: ptr(400000.0), PassPercentage: ptr(70.0),
			HostelAvailable: ptr(true)},
		{CollegeID: 2, CollegeName: "Pokhara Engineering College", CourseID: 12, CourseName: ptr("BE Civil"),
			Location: ptr("Pokhara"), CollegeType: ptr("Private"), Fee: ptr(200000.0), PassPercentage: ptr(90.0)},
		{CollegeID: 3, CollegeName: "Lalitpur Technical Campus", CourseID: 13, CourseName: ptr("BE Computer"),
			Location: ptr("Lalitpur"), CollegeType: ptr("Government"), Fee: ptr(300000.0), PassPercentage: ptr(60.0)},
	})
	require.NoError(t, err)
	return set
}

type fixedCounter struct {
	count int
	err   error
	seen  types.ProgramFilter
}

func (c *fixedCounter) CountPrograms(_ context.Context, f types.ProgramFilter) (int, error) {
	c.seen = f
	return c.count, c.err
}

func TestRun_AffordableWithLocation(t *testing.T) {
	set := testSet(t)

	var steps []string
	result, err := Run(context.Background(), set, Query{
		Intent: "find_affordable_college",
		Entities: map[string][]string{
			"location": {"Kathmandu"},
			"MAX_FEE":  {"500,000"},
		},
	}, RunOptions{
		Logger:     zerolog.Nop(),
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{ranking.FactorLocation, ranking.FactorFee}, result.Factors)
	assert.Equal(t, []string{StepProfile, StepFactors, StepCandidates, StepRank}, steps)
	assert.Empty(t, result.Warnings)

	require.NotNil(t, result.Profile.BudgetMax)
	assert.Equal(t, 500000.0, *result.Profile.BudgetMax)
	assert.Equal(t, []string{"Kathmandu"}, result.Profile.PreferredLocations)
	assert.Equal(t, types.OrderByFeeAsc, result.Filter.Order)
	assert.Equal(t, 1, result.CandidateCount)

	// location 0.5 / fee 0.5 beats location 0.9 / fee 0.0
	require.Len(t, result.Ranked, 3)
	assert.Equal(t, "Pokhara Engineering College", result.Ranked[0].Program.CollegeName)
	assert.InDelta(t, 0.5, result.Ranked[0].Score.OverallScore, 1e-9)
	assert.Equal(t, "Kathmandu Engineering College", result.Ranked[1].Program.CollegeName)
	assert.InDelta(t, 0.45, result.Ranked[1].Score.OverallScore, 1e-9)
}

func TestRun_DefaultFactorsAndTopN(t *testing.T) {
	result, err := Run(context.Background(), testSet(t), Query{Intent: "greeting", TopN: 2}, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, ranking.DefaultFactors(), result.Factors)
	assert.Equal(t, 3, result.CandidateCount)
	assert.Len(t, result.Ranked, 2)
	assert.Equal(t, types.OrderByName, result.Filter.Order)
}

func TestRun_WarningsAreNotFatal(t *testing.T) {
	result, err := Run(context.Background(), testSet(t), Query{
		Intent: "find_top_rated_college",
		Entities: map[string][]string{
			"RANK":    {"first"},
			"MAX_FEE": {"lots"},
		},
	}, RunOptions{Logger: zerolog.Nop()})
	require.NoError(t, err)

	// MAX_FEE fails for both the profile and the filter but is reported once.
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "MAX_FEE")
	assert.Contains(t, result.Warnings[1], "RANK")
	assert.Nil(t, result.Profile.EntranceRank)
	assert.Nil(t, result.Filter.MaxFee)
	assert.Equal(t, []string{ranking.FactorFee, ranking.FactorPassRate}, result.Factors)
	assert.Equal(t, "Pokhara Engineering College", result.Ranked[0].Program.CollegeName)
}

func TestRun_UsesCounter(t *testing.T) {
	counter := &fixedCounter{count: 42}

	result, err := Run(context.Background(), testSet(t), Query{
		Intent:   "find_college",
		Entities: map[string][]string{"TYPE": {"Government"}, "HOSTEL": {"yes"}},
	}, RunOptions{Counter: counter})
	require.NoError(t, err)

	assert.Equal(t, 42, result.CandidateCount)
	assert.Equal(t, []string{"Government"}, counter.seen.CollegeTypes)
	assert.True(t, counter.seen.HostelRequired)
}

func TestRun_CounterFailureFallsBackToSet(t *testing.T) {
	counter := &fixedCounter{err: errors.New("connection refused")}

	result, err := Run(context.Background(), testSet(t), Query{
		Intent:   "find_college",
		Entities: map[string][]string{"COURSE": {"computer"}},
	}, RunOptions{Counter: counter, Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CandidateCount)
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing intent", func(t *testing.T) {
		_, err := Run(context.Background(), testSet(t), Query{}, RunOptions{})
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})

	t.Run("negative top n", func(t *testing.T) {
		_, err := Run(context.Background(), testSet(t), Query{Intent: "x", TopN: -1}, RunOptions{})
		assert.Error(t, err)
	})

	t.Run("no records", func(t *testing.T) {
		_, err := Run(context.Background(), nil, Query{Intent: "x"}, RunOptions{})
		var dataErr *programs.DataError
		assert.True(t, errors.As(err, &dataErr))
	})

	t.Run("no records with counter", func(t *testing.T) {
		_, err := Run(context.Background(), nil, Query{Intent: "x"}, RunOptions{Counter: &fixedCounter{count: 3}})
		var dataErr *programs.DataError
		assert.True(t, errors.As(err, &dataErr))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, testSet(t), Query{Intent: "x"}, RunOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
