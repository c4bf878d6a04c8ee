package ranking

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/types"
)

// minParallelRecords is the set size below which scoring stays on one goroutine.
const minParallelRecords = 512

// Ranker scores a RecordSet with a bounded number of workers. The zero value
// uses GOMAXPROCS workers. A Ranker holds no per-request state and may be
// shared between concurrent requests.
type Ranker struct {
	Workers int
}

// Rank ranks with a default Ranker.
func Rank(set *programs.RecordSet, profile *types.StudentProfile, requested []string, topN int) ([]types.CollegeRecommendation, error) {
	var r Ranker
	return r.Rank(set, profile, requested, topN)
}

// Rank scores every record in set on the requested factors with equal
// weights, sorts by overall score descending and returns the first topN with
// ranks 1..n. Exact ties keep load order. An empty factor list means
// DefaultFactors; topN <= 0 returns an empty result.
func (r *Ranker) Rank(set *programs.RecordSet, profile *types.StudentProfile, requested []string, topN int) ([]types.CollegeRecommendation, error) {
	start := time.Now()

	names, err := NormalizeFactors(requested)
	if err != nil {
		observability.RankingRequestsTotal.WithLabelValues("invalid_factor").Inc()
		return nil, err
	}
	if set == nil || set.Len() == 0 {
		observability.RankingRequestsTotal.WithLabelValues("no_data").Inc()
		return nil, &programs.DataError{Message: "no program records to rank", Row: -1}
	}

	for _, name := range names {
		observability.FactorRequestsTotal.WithLabelValues(name).Inc()
	}

	if topN <= 0 {
		observability.RankingRequestsTotal.WithLabelValues("ok").Inc()
		return []types.CollegeRecommendation{}, nil
	}

	effective := resolveProfile(profile)
	recs, err := r.scoreAll(set, effective, names)
	if err != nil {
		observability.RankingRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score.OverallScore > recs[j].Score.OverallScore
	})

	if topN < len(recs) {
		recs = recs[:topN]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}

	observability.RankingRequestsTotal.WithLabelValues("ok").Inc()
	observability.RankingDuration.Observe(time.Since(start).Seconds())
	return recs, nil
}

// resolveProfile returns a copy of profile with default priorities filled in.
// The caller's profile is never modified.
func resolveProfile(profile *types.StudentProfile) *types.StudentProfile {
	if profile == nil {
		return types.NewStudentProfile()
	}
	resolved := *profile
	resolved.ApplyDefaults()
	return &resolved
}

// scoreAll scores records in contiguous chunks. Each worker writes only its
// own indexes, so the output order matches load order.
func (r *Ranker) scoreAll(set *programs.RecordSet, profile *types.StudentProfile, names []string) (recs []types.CollegeRecommendation, err error) {
	records := set.Records()
	stats := set.Stats()
	recs = make([]types.CollegeRecommendation, len(records))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(records) < minParallelRecords {
		workers = 1
	}
	chunk := (len(records) + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < len(records); lo += chunk {
		hi := min(lo+chunk, len(records))
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("scoring records %d-%d panicked: %v", lo, hi-1, p)
				}
			}()
			for i := lo; i < hi; i++ {
				recs[i] = scoreRecord(&records[i], profile, stats, names)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Join(errors.New("failed to score program records"), err)
	}
	return recs, nil
}

// scoreRecord evaluates only the requested factors.
func scoreRecord(record *types.ProgramRecord, profile *types.StudentProfile, stats programs.Stats, names []string) types.CollegeRecommendation {
	in := scoreInput{record: record, profile: profile, stats: stats}
	weight := 1.0 / float64(len(names))

	score := types.RecommendationScore{Evaluated: names}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		f := factors[name]
		v := f.score(in)
		f.assign(&score, v)
		score.OverallScore += v * weight
		parts = append(parts, fmt.Sprintf("%s: %.2f", f.label, v))
	}
	score.OverallScore = clamp(score.OverallScore, 0, 1)
	score.Reasoning = strings.Join(parts, ", ")

	return types.CollegeRecommendation{
		Program:         *record,
		Score:           score,
		MatchPercentage: score.OverallScore * 100,
	}
}
