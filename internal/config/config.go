// Package config loads all runtime configuration from environment variables.
// No config files and no third-party config framework are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the ideas portal.
type Config struct {
	HTTP          HTTPConfig
	DB            DBConfig
	Log           LogConfig
	JWT           JWTConfig
	App           AppConfig
	Notifications NotificationConfig
	Analytics     AnalyticsConfig
	Redis         RedisConfig
	Worker        WorkerConfig
	OTel          OTelConfig
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int
}

// DBConfig holds database connection configuration.
type DBConfig struct {
	Driver   string // "sqlite" (default) or "postgres"
	DSN      string // required when Driver == "postgres"
	File     string // SQLite database file path (default: "ideaportal.db")
	MaxConns int    // Postgres only
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string
	Format string
}

// JWTConfig holds the settings used to verify identity provider tokens.
type JWTConfig struct {
	Secret string //nolint:gosec // intentional: holds JWT verification secret loaded from env
	Issuer string
}

// AppConfig holds application-level settings such as the seed admin.
type AppConfig struct {
	SeedAdminID    string
	SeedAdminEmail string
}

// NotificationConfig controls notification listing and retention.
type NotificationConfig struct {
	PageSize  int
	Retention time.Duration
}

// AnalyticsConfig controls caching of aggregated statistics.
type AnalyticsConfig struct {
	CacheTTL time.Duration
}

// RedisConfig selects the analytics cache backend. An empty URL means in-process.
type RedisConfig struct {
	URL string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	Concurrency int
}

// OTelConfig holds OpenTelemetry exporter settings.
type OTelConfig struct {
	OTLPEndpoint string
}

// Load reads configuration from environment variables, applies defaults,
// and returns an error if any required field is absent.
func Load() (*Config, error) {
	cfg := &Config{}

	// HTTP
	cfg.HTTP.Port = envInt("HTTP_PORT", 8080)

	// DB
	cfg.DB.Driver = envStr("DB_DRIVER", "sqlite")
	cfg.DB.File = envStr("DB_FILE", "ideaportal.db")
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.Driver == "postgres" && cfg.DB.DSN == "" {
		return nil, errors.New("DB_DSN is required when DB_DRIVER=postgres")
	}
	cfg.DB.MaxConns = envInt("DB_MAX_CONNS", 25)

	// Log
	cfg.Log.Level = envStr("LOG_LEVEL", "info")
	cfg.Log.Format = envStr("LOG_FORMAT", "json")

	// JWT (required)
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	cfg.JWT.Issuer = os.Getenv("JWT_ISSUER")

	// App
	cfg.App.SeedAdminID = os.Getenv("SEED_ADMIN_ID")
	cfg.App.SeedAdminEmail = envStr("SEED_ADMIN_EMAIL", "admin@ideaportal.local")

	// Notifications
	cfg.Notifications.PageSize = envInt("NOTIFICATIONS_PAGE_SIZE", 10)
	if cfg.Notifications.PageSize <= 0 {
		return nil, fmt.Errorf("NOTIFICATIONS_PAGE_SIZE must be positive, got %d", cfg.Notifications.PageSize)
	}
	var err error
	cfg.Notifications.Retention, err = envDuration("NOTIFICATION_RETENTION", 720*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("NOTIFICATION_RETENTION: %w", err)
	}

	// Analytics
	cfg.Analytics.CacheTTL, err = envDuration("ANALYTICS_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("ANALYTICS_CACHE_TTL: %w", err)
	}

	// Redis
	cfg.Redis.URL = os.Getenv("REDIS_URL")

	// Worker
	cfg.Worker.Concurrency = envInt("WORKER_CONCURRENCY", 10)

	// OTel
	cfg.OTel.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	return d, nil
}
