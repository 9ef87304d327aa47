package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"klinetime"
	"klinetime/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds configuration for the kline tooling.
type Config struct {
	// Binance API. Kline endpoints are public; keys are optional.
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Series selection
	Symbol    string
	Interval  klinetime.Interval
	Timezone  klinetime.TimezoneRef
	FetchDays int // How far back fetch tools reach

	// Storage
	DBPath  string
	DataDir string // CSV exports land here

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	// Series selection
	cfg.Symbol = getEnv("SYMBOL", "ETHUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	interval, err := klinetime.ParseInterval(getEnv("INTERVAL", "1h"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INTERVAL: %v", err))
	} else {
		cfg.Interval = interval
	}

	tzName := getEnv("TIMEZONE", "UTC")
	cfg.Timezone = klinetime.TZ(tzName)
	if _, err := cfg.Timezone.Resolve(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEZONE: %v", err))
	}

	cfg.FetchDays = getEnvAsInt("FETCH_DAYS", 7)
	if cfg.FetchDays <= 0 {
		errs = append(errs, "FETCH_DAYS must be positive")
	}

	// Storage
	cfg.DBPath = getEnv("DB_PATH", "./data/klines.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}
	cfg.DataDir = getEnv("DATA_DIR", "./data")
	if cfg.DataDir == "" {
		errs = append(errs, "DATA_DIR must be set")
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
