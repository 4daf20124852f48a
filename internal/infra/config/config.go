package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL    string
	HTTPPort       string
	JWTSecret      string
	MailerBaseURL  string
	ChartsBaseURL  string
	StorageBaseURL string
	LogLevel       string
	Environment    string
	// CronSpecDispatch schedules the pending-novedad dispatch job.
	CronSpecDispatch string
	// CronSpecDailyReport schedules the daily statistics chart job.
	CronSpecDailyReport string
	// DispatchBatchSize bounds how many novedades one dispatch run picks up.
	DispatchBatchSize int
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.HTTPPort = os.Getenv("HTTP_PORT")
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}

	cfg.MailerBaseURL = os.Getenv("MAILER_BASE_URL")
	if cfg.MailerBaseURL == "" {
		return nil, fmt.Errorf("MAILER_BASE_URL is not set")
	}

	cfg.ChartsBaseURL = os.Getenv("CHARTS_BASE_URL")
	if cfg.ChartsBaseURL == "" {
		return nil, fmt.Errorf("CHARTS_BASE_URL is not set")
	}

	cfg.StorageBaseURL = os.Getenv("STORAGE_BASE_URL")
	if cfg.StorageBaseURL == "" {
		return nil, fmt.Errorf("STORAGE_BASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecDispatch = os.Getenv("CRON_SPEC_DISPATCH")
	if cfg.CronSpecDispatch == "" {
		cfg.CronSpecDispatch = "* * * * *" // Default: every minute
	}

	cfg.CronSpecDailyReport = os.Getenv("CRON_SPEC_DAILY_REPORT")
	if cfg.CronSpecDailyReport == "" {
		cfg.CronSpecDailyReport = "0 6 * * *" // Default: 6:00 AM daily
	}

	cfg.DispatchBatchSize = 100
	if v := os.Getenv("DISPATCH_BATCH_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid DISPATCH_BATCH_SIZE: %q", v)
		}
		cfg.DispatchBatchSize = size
	}

	return cfg, nil
}
