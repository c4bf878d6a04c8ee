// Package pipeline provides the high-level orchestration for the conversational
// recommendation flow: entity bag to student profile, comparison factors,
// candidate count and ranked programs.
package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jonathan/college-recommender/internal/entities"
	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
	"github.com/jonathan/college-recommender/internal/types"
)

// DefaultTopN is the number of programs a chat reply recommends.
const DefaultTopN = 5

// Step names reported through ProgressCallback.
const (
	StepProfile    = "build_profile"
	StepFactors    = "derive_factors"
	StepCandidates = "count_candidates"
	StepRank       = "rank_programs"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when a step completes
type ProgressCallback func(event ProgressEvent)

// CandidateCounter counts the programs matching a filter. Both *db.DB and
// *programs.RecordSet implement it.
type CandidateCounter interface {
	CountPrograms(ctx context.Context, f types.ProgramFilter) (int, error)
}

// Query is one extracted user request.
type Query struct {
	Intent   string              `json:"intent" validate:"required"`
	Entities map[string][]string `json:"entities"`
	TopN     int                 `json:"top_n,omitempty" validate:"gte=0"`
}

// Result holds everything derived for one Query.
type Result struct {
	Intent         string                `json:"intent"`
	Entities       entities.Entities     `json:"entities"`
	Profile        *types.StudentProfile `json:"profile"`
	Factors        []string              `json:"comparison_factors"`
	Filter         types.ProgramFilter   `json:"filter"`
	CandidateCount int                   `json:"candidate_count"`
	Warnings       []string              `json:"warnings,omitempty"`
	// Ranked is exposed to transports through types.NewRecommendationSet.
	Ranked []types.CollegeRecommendation `json:"-"`
}

// RunOptions holds the collaborators for a run
type RunOptions struct {
	Ranker *ranking.Ranker
	// Counter reports candidate counts. Nil counts against the record set.
	Counter    CandidateCounter
	Logger     zerolog.Logger
	OnProgress ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

var validate = validator.New()

// Run maps q onto a profile and filter, counts the matching candidates and
// ranks set on the factors the query implies. Unparseable entity values
// become warnings, never errors. A failing counter falls back to counting
// the record set.
//
//nolint:gocritic // RunOptions is passed by value like the logger it carries
func Run(ctx context.Context, set *programs.RecordSet, q Query, opts RunOptions) (*Result, error) {
	if err := validate.Struct(q); err != nil {
		return nil, err
	}
	if opts.Ranker == nil {
		opts.Ranker = &ranking.Ranker{}
	}
	topN := q.TopN
	if topN == 0 {
		topN = DefaultTopN
	}
	logger := opts.Logger.With().Str("component", "pipeline").Str("intent", q.Intent).Logger()

	ents := entities.Normalize(q.Entities)
	result := &Result{Intent: q.Intent, Entities: ents}

	profile, profileWarnings := entities.BuildStudentProfile(ents)
	result.Profile = profile
	result.addWarnings(logger, profileWarnings)
	emitProgress(&opts, StepProfile, "student profile built", profile)

	filter, filterWarnings := entities.BuildFilter(q.Intent, ents)
	result.Filter = filter
	result.addWarnings(logger, filterWarnings)

	result.Factors = entities.ComparisonFactors(q.Intent, ents)
	emitProgress(&opts, StepFactors, fmt.Sprintf("comparing on %v", result.Factors), result.Factors)

	count, err := countCandidates(ctx, set, filter, &opts)
	if err != nil {
		return nil, err
	}
	result.CandidateCount = count
	emitProgress(&opts, StepCandidates, fmt.Sprintf("%d candidate programs", count), count)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked, err := opts.Ranker.Rank(set, profile, result.Factors, topN)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}
	result.Ranked = ranked
	emitProgress(&opts, StepRank, fmt.Sprintf("%d programs recommended", len(ranked)), nil)

	logger.Debug().
		Strs("factors", result.Factors).
		Int("candidates", count).
		Int("recommended", len(ranked)).
		Msg("chat query processed")

	return result, nil
}

func countCandidates(ctx context.Context, set *programs.RecordSet, filter types.ProgramFilter, opts *RunOptions) (int, error) {
	if opts.Counter != nil {
		count, err := opts.Counter.CountPrograms(ctx, filter)
		if err == nil {
			return count, nil
		}
		opts.Logger.Warn().Err(err).Msg("candidate count failed, counting loaded programs instead")
	}
	if set == nil {
		return 0, &programs.DataError{Message: "no program records loaded", Row: -1}
	}
	return set.CountPrograms(ctx, filter)
}

func (r *Result) addWarnings(logger zerolog.Logger, warnings []*entities.ParseError) {
	for _, w := range warnings {
		if slices.Contains(r.Warnings, w.Error()) {
			continue
		}
		logger.Warn().Str("entity", w.Entity).Str("value", w.Value).Msg(w.Message)
		r.Warnings = append(r.Warnings, w.Error())
	}
}
