package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/pipeline"
	"github.com/jonathan/college-recommender/internal/server"
)

var (
	servePort     int
	servePrograms string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for ranking programs, field rankings and the chat flow.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: server.port)")
	serveCmd.Flags().StringVarP(&servePrograms, "programs", "p", "", "Path to program rows JSON (default: data.programs_file or the database)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, _, database, err := loadCatalog(ctx, servePrograms)
	if err != nil {
		return err
	}

	// A nil *db.DB must not become a non-nil interface.
	var counter pipeline.CandidateCounter
	if database != nil {
		defer database.Close()
		counter = database
	}

	serverCfg := appConfig.Server
	if servePort > 0 {
		serverCfg.Port = servePort
	}

	srv := server.New(server.Config{
		Addr:              serverCfg.Addr(),
		ReadTimeout:       serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
		DefaultTopN:       appConfig.Ranking.DefaultTopN,
		DefaultFactors:    appConfig.Ranking.DefaultFactors,
		RateLimitRequests: appConfig.RateLimit.Requests,
		RateLimitWindow:   appConfig.RateLimit.Window,
		RateLimitDisabled: appConfig.RateLimit.Disabled,
	}, catalog, newRanker(), counter, logger)

	return srv.Start(ctx)
}
