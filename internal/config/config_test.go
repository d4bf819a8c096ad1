package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DatabaseURL)
	assert.Equal(t, QuotaStrategySoft, cfg.QuotaStrategy)
	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.Equal(t, 4, cfg.NotifyWorkers)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("QUOTA_STRATEGY", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "evidence")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("NOTIFY_QUEUE_SIZE", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, QuotaStrategyRedis, cfg.QuotaStrategy)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "evidence", cfg.S3.Bucket)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 1024, cfg.NotifyQueueSize)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"стратегия квот":         {"QUOTA_STRATEGY": "strict"},
		"драйвер хранилища":      {"STORAGE_DRIVER": "ftp"},
		"s3 без бакета":          {"STORAGE_DRIVER": "s3", "S3_BUCKET": ""},
		"длительность":           {"ACCESS_TOKEN_TTL": "soon"},
		"число":                  {"NOTIFY_WORKERS": "four"},
		"production без секрета": {"APP_ENV": "production", "JWT_SECRET": "short", "CORS_ALLOWED_ORIGINS": "https://x"},
		"production без CORS": {
			"APP_ENV":              "production",
			"JWT_SECRET":           "0123456789abcdef0123456789abcdef",
			"CORS_ALLOWED_ORIGINS": "",
		},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "pg")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "gigs")

	assert.Equal(t, "postgres://app:p%40ss@pg:5432/gigs?sslmode=disable", getDatabaseURL())
}
