package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/d9705996/ideaportal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDBDSN(t *testing.T) {
	// DB_DSN is only required when DB_DRIVER=postgres.
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoad_SQLiteNoDBDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	// Clear optional vars to ensure defaults apply
	for _, k := range []string{
		"HTTP_PORT", "LOG_LEVEL", "LOG_FORMAT", "WORKER_CONCURRENCY", "DB_DRIVER", "DB_FILE",
		"NOTIFICATIONS_PAGE_SIZE", "NOTIFICATION_RETENTION", "ANALYTICS_CACHE_TTL",
		"REDIS_URL", "SEED_ADMIN_EMAIL", "SEED_ADMIN_ID", "JWT_ISSUER",
	} {
		os.Unsetenv(k)
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Worker.Concurrency)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "ideaportal.db", cfg.DB.File)
	assert.Equal(t, 10, cfg.Notifications.PageSize)
	assert.Equal(t, 720*time.Hour, cfg.Notifications.Retention)
	assert.Equal(t, time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, "admin@ideaportal.local", cfg.App.SeedAdminEmail)
	assert.Empty(t, cfg.App.SeedAdminID)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.JWT.Issuer)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "https://id.example.com")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("WORKER_CONCURRENCY", "20")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_FILE", "test.db")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "25")
	t.Setenv("NOTIFICATION_RETENTION", "48h")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SEED_ADMIN_ID", "user_admin")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Worker.Concurrency)
	assert.Equal(t, "test.db", cfg.DB.File)
	assert.Equal(t, 25, cfg.Notifications.PageSize)
	assert.Equal(t, 48*time.Hour, cfg.Notifications.Retention)
	assert.Equal(t, 30*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "user_admin", cfg.App.SeedAdminID)
	assert.Equal(t, "https://id.example.com", cfg.JWT.Issuer)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFICATION_RETENTION", "not-a-duration")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_RETENTION")
}

func TestLoad_NonPositivePageSize(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATIONS_PAGE_SIZE")
}
