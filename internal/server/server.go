package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jonathan/college-recommender/internal/pipeline"
	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// requestIDHeader carries the per-request correlation ID in both directions.
const requestIDHeader = "X-Request-ID"

// Config holds server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	DefaultTopN    int
	DefaultFactors []string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// Server represents the HTTP server
type Server struct {
	cfg        Config
	catalog    *programs.Catalog
	ranker     *ranking.Ranker
	counter    pipeline.CandidateCounter
	logger     zerolog.Logger
	validator  *validator.Validate
	httpServer *http.Server
}

// New creates a new server instance. counter may be nil, in which case
// candidate counts come from the loaded catalog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, catalog *programs.Catalog, ranker *ranking.Ranker, counter pipeline.CandidateCounter, logger zerolog.Logger) *Server {
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 10
	}
	if ranker == nil {
		ranker = &ranking.Ranker{}
	}

	s := &Server{
		cfg:       cfg,
		catalog:   catalog,
		ranker:    ranker,
		counter:   counter,
		logger:    logger.With().Str("component", "server").Logger(),
		validator: validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the chi router with middleware and all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.withRequestID)
	r.Use(s.withLogging)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimiter())

		r.Post("/recommendations", s.handleRecommendations)
		r.Post("/chat", s.handleChat)

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", s.handleListPrograms)
			r.Post("/reload", s.handleReload)
			r.Get("/fields", s.handleListFields)
			r.Get("/fields/{field}", s.handleFieldRanking)
			r.Get("/stats/{group}", s.handleStatistics)
		})
	})

	return r
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

// rateLimiter limits requests per client IP, or passes everything through
// when disabled.
func (s *Server) rateLimiter() func(http.Handler) http.Handler {
	if s.cfg.RateLimitDisabled || s.cfg.RateLimitRequests <= 0 || s.cfg.RateLimitWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.cfg.RateLimitRequests,
		s.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Warn().Str("remote", r.RemoteAddr).Str("path", r.URL.Path).Msg("rate limit exceeded")
			s.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
		}),
	)
}

type ctxKey int

const requestIDKey ctxKey = iota

// withRequestID reuses a client-supplied X-Request-ID or generates one, and
// echoes it on the response.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the request ID stored by the server middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request completed")
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error":      message,
		"request_id": RequestID(r.Context()),
	})
}

// handleError maps err to a status and writes it. Server-side failures are
// logged; client errors are not.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	s.errorResponse(w, r, status, errorMessage(err))
}
