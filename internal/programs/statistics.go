package programs

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/college-recommender/internal/types"
)

// StatsGroups lists the groupings accepted by Statistics.
func StatsGroups() []string {
	return []string{
		string(types.GroupByCourse),
		string(types.GroupByCollege),
		string(types.GroupByLocation),
		string(types.GroupByFee),
	}
}

// ParseStatsGroup matches a grouping name case-insensitively.
func ParseStatsGroup(name string) (types.StatsGroup, error) {
	g := types.StatsGroup(strings.ToLower(strings.TrimSpace(name)))
	switch g {
	case types.GroupByCourse, types.GroupByCollege, types.GroupByLocation, types.GroupByFee:
		return g, nil
	}
	return "", &GroupError{Group: name, Known: StatsGroups()}
}

// groupAcc collects one bucket's running totals.
type groupAcc struct {
	stats       types.GroupStats
	colleges    map[int64]struct{}
	departments map[int64]struct{}
	fees        []float64
	sums        struct{ rating, pass, cutoff, scholarship float64 }
}

// Statistics summarizes the set per course name, college or location.
//
// Course and college groups are ordered by average rating descending, then
// average fee ascending; location groups by college count descending, then
// average rating descending; fee groups (per course) by average fee
// descending. Remaining ties keep first-seen order.
func (s *RecordSet) Statistics(group types.StatsGroup) ([]types.GroupStats, error) {
	group, err := ParseStatsGroup(string(group))
	if err != nil {
		return nil, err
	}

	index := make(map[string]*groupAcc)
	var order []*groupAcc
	for i := range s.records {
		p := &s.records[i]
		key, label := groupKey(group, p)

		acc, ok := index[key]
		if !ok {
			acc = &groupAcc{
				colleges:    make(map[int64]struct{}),
				departments: make(map[int64]struct{}),
			}
			acc.stats.Group = label
			acc.stats.MinFee = p.Fee
			acc.stats.MaxFee = p.Fee
			acc.stats.BestCutoffRank = p.AverageCutoffRank
			acc.stats.WorstCutoffRank = p.AverageCutoffRank
			if group == types.GroupByCollege {
				acc.stats.Location = p.Location
				acc.stats.CollegeType = p.CollegeType
				hostel := p.HostelAvailable
				acc.stats.HasHostel = &hostel
			}
			index[key] = acc
			order = append(order, acc)
		}
		acc.add(p)
	}

	results := make([]types.GroupStats, len(order))
	for i, acc := range order {
		results[i] = acc.finish()
	}
	sort.SliceStable(results, statsLess(group, results))
	return results, nil
}

func groupKey(group types.StatsGroup, p *types.ProgramRecord) (key, label string) {
	switch group {
	case types.GroupByCollege:
		return strconv.FormatInt(p.CollegeID, 10) + "/" + p.CollegeName, p.CollegeName
	case types.GroupByLocation:
		label = orUnknown(p.Location)
	default:
		label = orUnknown(p.CourseName)
	}
	return strings.ToLower(label), label
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return types.UnknownCategory
	}
	return strings.TrimSpace(s)
}

func (a *groupAcc) add(p *types.ProgramRecord) {
	a.stats.Programs++
	a.colleges[p.CollegeID] = struct{}{}
	a.departments[p.DepartmentID] = struct{}{}
	a.fees = append(a.fees, p.Fee)

	a.stats.MinFee = math.Min(a.stats.MinFee, p.Fee)
	a.stats.MaxFee = math.Max(a.stats.MaxFee, p.Fee)
	a.stats.BestCutoffRank = math.Min(a.stats.BestCutoffRank, p.AverageCutoffRank)
	a.stats.WorstCutoffRank = math.Max(a.stats.WorstCutoffRank, p.AverageCutoffRank)
	a.stats.TotalSeats += p.TotalSeats

	a.sums.rating += p.Rating
	a.sums.pass += p.PassPercentage
	a.sums.cutoff += p.AverageCutoffRank
	a.sums.scholarship += p.ScholarshipPercent
}

func (a *groupAcc) finish() types.GroupStats {
	st := a.stats
	n := float64(st.Programs)
	st.Colleges = len(a.colleges)
	st.Departments = len(a.departments)
	st.AverageRating = a.sums.rating / n
	st.AveragePassPercentage = a.sums.pass / n
	st.AverageCutoffRank = a.sums.cutoff / n
	st.AverageScholarship = a.sums.scholarship / n

	var total float64
	for _, f := range a.fees {
		total += f
	}
	st.AverageFee = total / n
	// Sample standard deviation; a single program has none.
	if len(a.fees) > 1 {
		var sq float64
		for _, f := range a.fees {
			sq += (f - st.AverageFee) * (f - st.AverageFee)
		}
		st.FeeStdDev = math.Sqrt(sq / (n - 1))
	}
	return st
}

func statsLess(group types.StatsGroup, r []types.GroupStats) func(i, j int) bool {
	switch group {
	case types.GroupByLocation:
		return func(i, j int) bool {
			if r[i].Colleges != r[j].Colleges {
				return r[i].Colleges > r[j].Colleges
			}
			return r[i].AverageRating > r[j].AverageRating
		}
	case types.GroupByFee:
		return func(i, j int) bool { return r[i].AverageFee > r[j].AverageFee }
	default:
		return func(i, j int) bool {
			if r[i].AverageRating != r[j].AverageRating {
				return r[i].AverageRating > r[j].AverageRating
			}
			return r[i].AverageFee < r[j].AverageFee
		}
	}
}
