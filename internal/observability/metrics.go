package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProgramLoadsTotal counts catalog loads by source and outcome.
	ProgramLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_program_loads_total",
			Help: "Total number of program catalog loads",
		},
		[]string{"source", "status"},
	)

	ProgramRecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_program_records",
			Help: "Number of program records in the current catalog",
		},
	)

	ProgramLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_program_load_duration_seconds",
			Help:    "Duration of program catalog loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RankingRequestsTotal counts ranking calls by outcome (ok, invalid_factor).
	RankingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_ranking_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"status"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_ranking_duration_seconds",
			Help:    "Duration of ranking calls in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// FactorRequestsTotal counts how often each factor is requested.
	FactorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_factor_requests_total",
			Help: "Total number of times each scoring factor was requested",
		},
		[]string{"factor"},
	)
)
