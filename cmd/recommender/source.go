package main

import (
	"context"
	"fmt"

	"github.com/jonathan/college-recommender/internal/db"
	"github.com/jonathan/college-recommender/internal/programs"
	"github.com/jonathan/college-recommender/internal/ranking"
)

// programSource picks where program rows come from: an explicit rows file,
// then data.programs_file, then database.url. The returned database is nil
// for file sources; callers close it when set.
func programSource(ctx context.Context, programsFile string) (programs.Source, *db.DB, error) {
	if programsFile == "" {
		programsFile = appConfig.Data.ProgramsFile
	}
	if programsFile != "" {
		return &programs.FileSource{Path: programsFile}, nil, nil
	}

	if err := appConfig.RequireSource(); err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, appConfig.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if appConfig.Database.Migrate {
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return database, database, nil
}

// loadCatalog opens the program source and performs the initial load.
func loadCatalog(ctx context.Context, programsFile string) (*programs.Catalog, *programs.RecordSet, *db.DB, error) {
	source, database, err := programSource(ctx, programsFile)
	if err != nil {
		return nil, nil, nil, err
	}

	catalog := programs.NewCatalog(source, logger)
	set, err := catalog.Reload(ctx)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, nil, nil, err
	}
	return catalog, set, database, nil
}

// newRanker builds a ranker sized by ranking.workers.
func newRanker() *ranking.Ranker {
	return &ranking.Ranker{Workers: appConfig.Ranking.Workers}
}
