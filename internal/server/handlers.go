package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/college-recommender/internal/pipeline"
	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
	"github.com/jonathan/college-recommender/internal/types"
)

// maxListLimit caps program listings and field rankings.
const maxListLimit = 500

// RecommendRequest represents the request body for /recommendations
type RecommendRequest struct {
	Profile *types.StudentProfile `json:"profile"`
	Factors []string              `json:"factors,omitempty"`
	TopN    *int                  `json:"top_n,omitempty" validate:"omitempty,gte=0"`
}

// RecommendResponse represents the response for /recommendations
type RecommendResponse struct {
	RequestID string `json:"request_id"`
	types.RecommendationSet
}

// ChatResponse represents the response for /chat
type ChatResponse struct {
	RequestID string `json:"request_id"`
	*pipeline.Result
	Recommendations []map[string]any `json:"recommendations"`
}

// FieldRankingResponse represents the response for /programs/fields/{field}
type FieldRankingResponse struct {
	Field   string             `json:"field"`
	Results []types.FieldValue `json:"results"`
}

// StatisticsResponse represents the response for /programs/stats/{group}
type StatisticsResponse struct {
	Group  types.StatsGroup   `json:"group"`
	Groups []types.GroupStats `json:"groups"`
}

// ProgramListResponse represents the response for /programs
type ProgramListResponse struct {
	Total    int                   `json:"total"`
	Programs []types.ProgramRecord `json:"programs"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	set, err := s.catalog.Current()
	if err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"records":   set.Len(),
		"loaded_at": set.LoadedAt().Format(time.RFC3339),
	})
}

// handleRecommendations ranks the loaded programs for one student profile
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Profile == nil {
		req.Profile = types.NewStudentProfile()
	}
	req.Profile.ApplyDefaults()
	if err := s.validator.Struct(req); err != nil {
		s.handleError(w, r, err)
		return
	}

	requested := req.Factors
	if len(requested) == 0 {
		requested = s.cfg.DefaultFactors
	}
	factors, err := ranking.NormalizeFactors(requested)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	topN := s.cfg.DefaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	set, err := s.catalog.Current()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	recs, err := s.ranker.Rank(set, req.Profile, factors, topN)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, RecommendResponse{
		RequestID:         RequestID(r.Context()),
		RecommendationSet: types.NewRecommendationSet(factors, recs),
	})
}

// handleChat runs the conversational flow for an extracted intent and entity bag
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var q pipeline.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	set, err := s.catalog.Current()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := pipeline.Run(r.Context(), set, q, pipeline.RunOptions{
		Ranker:  s.ranker,
		Counter: s.counter,
		Logger:  s.logger.With().Str("request_id", RequestID(r.Context())).Logger(),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		RequestID:       RequestID(r.Context()),
		Result:          result,
		Recommendations: types.NewRecommendationSet(result.Factors, result.Ranked).Recommendations,
	})
}

// handleListPrograms lists loaded programs matching query parameters
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := parseLimit(r, 50)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	set, err := s.catalog.Current()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	matched := set.Filter(filter)
	resp := ProgramListResponse{Total: len(matched), Programs: matched}
	if len(matched) > limit {
		resp.Programs = matched[:limit]
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleReload reloads the program catalog from its source
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	set, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"records":    set.Len(),
		"median_fee": set.Stats().MedianFee,
		"loaded_at":  set.LoadedAt().Format(time.RFC3339),
	})
}

// handleListFields lists the fields accepted by the field ranking endpoint
func (s *Server) handleListFields(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"fields": programs.RankableFields()})
}

// handleFieldRanking orders loaded programs by one numeric field
func (s *Server) handleFieldRanking(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	limit, err := parseLimit(r, 10)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	set, err := s.catalog.Current()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	results, err := set.RankByField(field, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FieldRankingResponse{Field: strings.ToLower(field), Results: results})
}

// handleStatistics summarizes loaded programs per course, college or location
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	group, err := programs.ParseStatsGroup(chi.URLParam(r, "group"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	set, err := s.catalog.Current()
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	stats, err := set.Statistics(group)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, StatisticsResponse{Group: group, Groups: stats})
}

// parseLimit reads ?limit=, defaulting to def and capping at maxListLimit.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
	}
	return min(limit, maxListLimit), nil
}

// filterFromQuery builds a program filter from repeatable query parameters.
func filterFromQuery(r *http.Request) (types.ProgramFilter, error) {
	q := r.URL.Query()
	filter := types.ProgramFilter{
		CollegeNames: q["college"],
		Locations:    q["location"],
		Courses:      q["course"],
		Departments:  q["department"],
		CollegeTypes: q["type"],
	}

	if raw := q.Get("hostel"); raw != "" {
		hostel, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &ErrValidation{Field: "hostel", Message: "must be a boolean"}
		}
		filter.HostelRequired = hostel
	}

	if raw := q.Get("max_fee"); raw != "" {
		maxFee, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxFee < 0 || math.IsNaN(maxFee) {
			return filter, &ErrValidation{Field: "max_fee", Message: "must be a non-negative number"}
		}
		filter.MaxFee = &maxFee
	}

	switch order := types.ProgramOrder(q.Get("order")); order {
	case "":
		filter.Order = types.OrderByName
	case types.OrderByName, types.OrderByFeeAsc, types.OrderByRatingDesc:
		filter.Order = order
	default:
		return filter, &ErrValidation{Field: "order", Message: "must be name, fee_asc or rating_desc"}
	}

	return filter, nil
}
