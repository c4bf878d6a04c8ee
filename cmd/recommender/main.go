// Package main provides the entry point for the college recommender CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/college-recommender/internal/config"
	"github.com/jonathan/college-recommender/internal/observability"
)

var (
	configPath string
	verbose    bool
	logLevel   string

	// Set by the root PersistentPreRunE for every subcommand.
	appConfig *config.Config
	logger    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "College program recommender",
	Long: "Ranks college programs against a student profile on location, fee, pass rate, " +
		"affordability, quality, accessibility and feature factors, from a JSON rows file or PostgreSQL.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (default: recommender.yaml or $"+config.PathEnvVar+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted boxes instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (trace, debug, info, warn, error)")
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	appConfig = cfg

	format := cfg.Logging.Format
	if cmd.Name() != "serve" {
		// Interactive commands keep stderr readable.
		format = "console"
	}
	logger = observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
