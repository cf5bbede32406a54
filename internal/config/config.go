// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/smartcity/airquality/internal/hourperiod"
)

// Data source kinds
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceMemory   = "memory"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	Port     string

	DataSource  string
	DataPath    string
	DatabaseURL string
	SQLitePath  string

	// DataStrict makes a failing data source fatal instead of falling back to sample data
	DataStrict bool

	WindTopK        int
	HourPeriodOrder []string
}

// Load reads an optional .env file and then the environment. The returned
// bool reports whether a .env file was found.
func Load(files ...string) (Config, bool, error) {
	found := godotenv.Load(files...) == nil
	cfg, err := LoadFromEnv()
	return cfg, found, err
}

// LoadFromEnv reads and validates the environment
func LoadFromEnv() (Config, error) {
	appEnv := getEnv("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	port := getEnv("PORT", "8080")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", port)
	}

	source := strings.ToLower(getEnv("DATA_SOURCE", SourceCSV))
	switch source {
	case SourceCSV, SourcePostgres, SourceSQLite, SourceMemory:
	default:
		return Config{}, fmt.Errorf("invalid DATA_SOURCE %q (allowed: csv, postgres, sqlite, memory)", source)
	}

	cfg := Config{
		AppEnv:      appEnv,
		LogLevel:    level,
		Port:        port,
		DataSource:  source,
		DataPath:    getEnv("DATA_PATH", "main_data.csv"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "airquality.db"),
	}

	if source == SourcePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
	}

	strict := getEnv("DATA_STRICT", "false")
	cfg.DataStrict, err = strconv.ParseBool(strict)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DATA_STRICT %q: %w", strict, err)
	}

	topK := getEnv("WIND_TOP_K", "5")
	cfg.WindTopK, err = strconv.Atoi(topK)
	if err != nil || cfg.WindTopK <= 0 {
		return Config{}, fmt.Errorf("invalid WIND_TOP_K %q (must be a positive integer)", topK)
	}

	if order := getEnv("HOUR_PERIOD_ORDER", ""); order != "" {
		cfg.HourPeriodOrder = strings.Split(order, ",")
		if _, err := cfg.HourPeriods(); err != nil {
			return Config{}, fmt.Errorf("invalid HOUR_PERIOD_ORDER %q: %w", order, err)
		}
	}

	return cfg, nil
}

// HourPeriods builds the hour period scheme, reordered by HourPeriodOrder when set
func (c Config) HourPeriods() (*hourperiod.Scheme, error) {
	scheme := hourperiod.Default()
	if len(c.HourPeriodOrder) == 0 {
		return scheme, nil
	}
	return scheme.WithOrder(c.HourPeriodOrder)
}

// IsDev reports whether the server runs in development mode
func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
