// Package config provides layered configuration loading and validation for the CLI and API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the environment variable that points at a YAML config file.
const PathEnvVar = "RECOMMENDER_CONFIG"

// DefaultPaths are searched in order when no path is given.
var DefaultPaths = []string{
	"recommender.yaml",
	"recommender.yml",
	"/etc/recommender/config.yaml",
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Data      DataConfig      `koanf:"data"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// DatabaseConfig points at the PostgreSQL program tables. Empty URL means no database.
type DatabaseConfig struct {
	URL     string `koanf:"url"`
	Migrate bool   `koanf:"migrate"`
}

// DataConfig points at a JSON program rows file, used when no database is configured.
type DataConfig struct {
	ProgramsFile string `koanf:"programs_file"`
}

// RankingConfig holds ranking defaults.
type RankingConfig struct {
	DefaultTopN    int      `koanf:"default_top_n"`
	Workers        int      `koanf:"workers"` // 0 = GOMAXPROCS
	DefaultFactors []string `koanf:"default_factors"`
}

// LoggingConfig selects zerolog level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// RateLimitConfig configures per-IP request limiting on the API.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Data: DataConfig{
			ProgramsFile: "",
		},
		Ranking: RankingConfig{
			DefaultTopN: 10,
			Workers:     0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (or
// the first of DefaultPaths found when path is empty), then environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"recommender_host":          "server.host",
	"recommender_port":          "server.port",
	"recommender_read_timeout":  "server.read_timeout",
	"recommender_write_timeout": "server.write_timeout",

	"database_url":         "database.url",
	"recommender_migrate":  "database.migrate",
	"programs_file":        "data.programs_file",
	"recommender_programs": "data.programs_file",

	"ranking_top_n":   "ranking.default_top_n",
	"ranking_workers": "ranking.workers",
	"ranking_factors": "ranking.default_factors",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
	"disable_rate_limit":  "rate_limit.disabled",
}

// envTransformFunc maps known environment variables to config paths and
// drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"ranking.default_factors",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Whether a program source is present is checked by RequireSource, since not
// every command needs one.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("config error: server timeouts must be non-negative")
	}
	if c.Ranking.DefaultTopN <= 0 {
		return fmt.Errorf("config error: 'ranking.default_top_n' must be positive")
	}
	if c.Ranking.Workers < 0 {
		return fmt.Errorf("config error: 'ranking.workers' must be non-negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'logging.format' must be json or console, got %q", c.Logging.Format)
	}
	if !c.RateLimit.Disabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("config error: 'rate_limit.requests' must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("config error: 'rate_limit.window' must be positive")
		}
	}
	if c.Data.ProgramsFile != "" {
		if _, err := os.Stat(c.Data.ProgramsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: programs file not found: %s", c.Data.ProgramsFile)
		}
	}
	return nil
}

// RequireSource checks that a database URL or a programs file is configured.
func (c *Config) RequireSource() error {
	if c.Database.URL == "" && c.Data.ProgramsFile == "" {
		return fmt.Errorf("config error: set 'database.url' (DATABASE_URL) or 'data.programs_file' (PROGRAMS_FILE)")
	}
	return nil
}
