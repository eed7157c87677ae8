package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopower/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Solver   SolverConfig
	Output   OutputConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	Profiling      bool
}

// DatabaseConfig holds the optional analysis history database.
// An empty URL selects the in-memory history.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SolverConfig holds root finding and curve sweep settings
type SolverConfig struct {
	XTol         float64
	MaxIter      int
	CurveWorkers int
}

// OutputConfig holds file output settings for the CLI
type OutputConfig struct {
	Dir string
}

// LoadDotEnv loads variables from the given files (default .env) if present.
// Variables already set in the environment win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Output:   OutputConfig{Dir: getEnvOrDefault("OUTPUT_DIR", ".")},
	}

	solverConfig, err := loadSolverConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load solver configuration")
	}
	config.Solver = *solverConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		Profiling:      getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func loadSolverConfig() (*SolverConfig, error) {
	xtol, err := getEnvFloat("SOLVER_XTOL", 2e-12)
	if err != nil {
		return nil, err
	}
	maxIter, err := getEnvInt("SOLVER_MAX_ITER", 100)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("CURVE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	return &SolverConfig{
		XTol:         xtol,
		MaxIter:      maxIter,
		CurveWorkers: workers,
	}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	if config.Server.RequestTimeout <= 0 {
		return errors.ConfigInvalid("REQUEST_TIMEOUT must be positive")
	}
	switch config.LogLevel {
	case "ERROR", "WARN", "WARNING", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN (or WARNING), INFO, DEBUG, TRACE")
	}
	if !(config.Solver.XTol > 0) {
		return errors.ConfigInvalid("SOLVER_XTOL must be positive")
	}
	if config.Solver.MaxIter < 1 {
		return errors.ConfigInvalid("SOLVER_MAX_ITER must be at least 1")
	}
	if config.Solver.CurveWorkers < 1 {
		return errors.ConfigInvalid("CURVE_WORKERS must be at least 1")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		return 0
	}
	return defaultValue
}
