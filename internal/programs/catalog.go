package programs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/college-recommender/internal/observability"
	"github.com/jonathan/college-recommender/internal/types"
	"github.com/rs/zerolog"
)

// Source supplies raw program rows. Implementations perform all external I/O
// so that loading and ranking stay CPU-only.
type Source interface {
	Name() string
	LoadRows(ctx context.Context) ([]types.RawProgram, error)
}

// Catalog holds the current RecordSet. Reload is the only mutation: rows are
// fetched and cleaned without holding the read lock, then the new set is
// swapped in whole, so readers never observe a partially loaded set.
type Catalog struct {
	source Source
	logger zerolog.Logger

	reloadMu sync.Mutex
	mu       sync.RWMutex
	current  *RecordSet
}

// NewCatalog creates an empty catalog backed by source.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalog(source Source, logger zerolog.Logger) *Catalog {
	return &Catalog{
		source: source,
		logger: logger.With().Str("component", "catalog").Str("source", source.Name()).Logger(),
	}
}

// Reload fetches rows from the source and replaces the current set. On error
// the previous set stays in place.
func (c *Catalog) Reload(ctx context.Context) (*RecordSet, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	start := time.Now()
	rows, err := c.source.LoadRows(ctx)
	if err != nil {
		observability.ProgramLoadsTotal.WithLabelValues(c.source.Name(), "error").Inc()
		c.logger.Error().Err(err).Msg("failed to fetch program rows")
		return nil, fmt.Errorf("failed to fetch program rows from %s: %w", c.source.Name(), err)
	}

	set, err := Load(rows)
	if err != nil {
		observability.ProgramLoadsTotal.WithLabelValues(c.source.Name(), "error").Inc()
		c.logger.Error().Err(err).Int("rows", len(rows)).Msg("failed to load program rows")
		return nil, err
	}

	c.mu.Lock()
	c.current = set
	c.mu.Unlock()

	observability.ProgramLoadsTotal.WithLabelValues(c.source.Name(), "ok").Inc()
	observability.ProgramRecordsLoaded.Set(float64(set.Len()))
	observability.ProgramLoadDuration.Observe(time.Since(start).Seconds())
	c.logger.Info().
		Int("records", set.Len()).
		Float64("median_fee", set.Stats().MedianFee).
		Dur("took", time.Since(start)).
		Msg("program catalog loaded")

	return set, nil
}

// Current returns the most recently loaded set.
func (c *Catalog) Current() (*RecordSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNotLoaded
	}
	return c.current, nil
}

// StaticSource serves a fixed slice of rows.
type StaticSource struct {
	Rows []types.RawProgram
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// LoadRows implements Source.
func (s *StaticSource) LoadRows(_ context.Context) ([]types.RawProgram, error) {
	return s.Rows, nil
}
