package programs

import (
	"errors"
	"math"
	"testing"

	"github.com/jonathan/college-recommender/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLoad_ImputesMissingValues(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeID: 1, CollegeName: "A", Fee: ptr(100.0), Rating: ptr(4.0), PassPercentage: ptr(90.0), CollegeType: ptr("Government"), HostelAvailable: ptr(true)},
		{CollegeID: 2, CollegeName: "B", Fee: ptr(300.0), Rating: nil, PassPercentage: ptr(70.0)},
		{CollegeID: 3, CollegeName: "C", Fee: nil, Rating: ptr(2.0), PassPercentage: nil},
		{CollegeID: 4, CollegeName: "D", Fee: ptr(500.0), Rating: ptr(3.0), PassPercentage: ptr(80.0), AdmissionProcess: ptr("Entrance")},
	}

	set, err := Load(rows)
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	records := set.Records()
	assert.Equal(t, 300.0, records[2].Fee, "fee median of 100,300,500")
	assert.Equal(t, 3.0, records[1].Rating, "rating median of 4,2,3")
	assert.Equal(t, 80.0, records[2].PassPercentage, "pass median of 90,70,80")

	assert.Equal(t, "Government", records[0].CollegeType)
	assert.Equal(t, types.UnknownCategory, records[1].CollegeType)
	assert.Equal(t, types.UnknownCategory, records[0].AdmissionProcess)
	assert.Equal(t, "Entrance", records[3].AdmissionProcess)

	assert.True(t, records[0].HostelAvailable)
	assert.False(t, records[1].HostelAvailable)
	assert.False(t, records[1].HasInternship)

	// Entirely-null columns impute to zero.
	assert.Equal(t, 0.0, records[0].TotalSeats)
	median, ok := set.ImputedMedian("total_seats")
	assert.True(t, ok)
	assert.Equal(t, 0.0, median)
}

func TestLoad_EvenCountMedianAverages(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeName: "A", Fee: ptr(100.0)},
		{CollegeName: "B", Fee: ptr(200.0)},
		{CollegeName: "C", Fee: nil},
	}

	set, err := Load(rows)
	require.NoError(t, err)
	assert.Equal(t, 150.0, set.Records()[2].Fee)
}

func TestLoad_Stats(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeName: "A", Fee: ptr(100000.0)},
		{CollegeName: "B", Fee: ptr(200000.0)},
		{CollegeName: "C", Fee: ptr(600000.0)},
	}

	set, err := Load(rows)
	require.NoError(t, err)
	assert.Equal(t, Stats{MedianFee: 200000, MaxFee: 600000}, set.Stats())
	assert.False(t, set.LoadedAt().IsZero())
}

func TestLoad_NaNTreatedAsMissing(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeName: "A", Fee: ptr(10.0), Latitude: ptr(math.NaN()), Longitude: ptr(77.0)},
		{CollegeName: "B", Fee: ptr(math.NaN())},
	}

	set, err := Load(rows)
	require.NoError(t, err)
	assert.Equal(t, 10.0, set.Records()[1].Fee)
	assert.Nil(t, set.Records()[0].Latitude)
	require.NotNil(t, set.Records()[0].Longitude)
	assert.Equal(t, 77.0, *set.Records()[0].Longitude)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rows    []types.RawProgram
		wantRow int
	}{
		{name: "nil input", rows: nil, wantRow: -1},
		{name: "empty input", rows: []types.RawProgram{}, wantRow: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Load(tt.rows)
			assert.Nil(t, set)

			var dataErr *DataError
			require.True(t, errors.As(err, &dataErr))
			assert.Equal(t, tt.wantRow, dataErr.Row)
			assert.Contains(t, err.Error(), "data error")
		})
	}
}

func TestLoad_NamelessRowImputed(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeName: "A", Fee: ptr(100.0)},
		{CollegeID: 2, Fee: ptr(100.0)},
		{CollegeID: 3, CollegeName: "   "},
	}

	set, err := Load(rows)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())

	records := set.Records()
	assert.Equal(t, "A", records[0].CollegeName)
	assert.Equal(t, types.UnknownCategory, records[1].CollegeName)
	assert.Equal(t, types.UnknownCategory, records[2].CollegeName)
	assert.Equal(t, 100.0, records[2].Fee)
}

func TestLoad_DoesNotModifyInput(t *testing.T) {
	rows := []types.RawProgram{
		{CollegeName: "A", Fee: ptr(100.0)},
		{CollegeName: "B"},
	}

	_, err := Load(rows)
	require.NoError(t, err)
	assert.Nil(t, rows[1].Fee)
}
