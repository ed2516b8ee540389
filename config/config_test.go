package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
	cfg.Sanitize()

	assert.Equal(t, "http://localhost:8180", cfg.Directory.BaseURL)
	assert.Equal(t, "campus", cfg.Directory.Realm)
	assert.Equal(t, "campus-api", cfg.Directory.ClientID)
	assert.Equal(t, 4*time.Minute, cfg.Directory.TokenMargin)
	assert.Equal(t, 10*time.Second, cfg.Directory.Timeout)

	assert.Equal(t, "http://localhost:8180/realms/campus", cfg.OIDC.IssuerURL)
	assert.Equal(t, "campus-api", cfg.OIDC.ClientID)
	assert.Equal(t, "campus", cfg.Permission.RoleNamespace)

	assert.Equal(t, 8, cfg.Enrichment.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Enrichment.CacheTTL)

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.False(t, cfg.Redis.Enabled())
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	environ := map[string]string{
		"DIRECTORY_BASE_URL":         "https://id.campus.example",
		"DIRECTORY_REALM":            "staff",
		"DIRECTORY_TOKEN_MARGIN":     "90s",
		"ENRICHMENT_MAX_CONCURRENCY": "2",
		"REDIS_ADDR":                 "localhost:6379",
	}

	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: environ}))
	cfg.Sanitize()

	assert.Equal(t, "https://id.campus.example", cfg.Directory.BaseURL)
	assert.Equal(t, "staff", cfg.Directory.Realm)
	assert.Equal(t, 90*time.Second, cfg.Directory.TokenMargin)
	assert.Equal(t, 2, cfg.Enrichment.MaxConcurrency)
	assert.True(t, cfg.Redis.Enabled())
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{
		Directory:  DirectoryConfig{TokenMargin: -time.Minute, Timeout: 0},
		Enrichment: EnrichmentConfig{MaxConcurrency: 0, CacheTTL: -time.Second},
	}
	cfg.Sanitize()

	assert.Equal(t, 4*time.Minute, cfg.Directory.TokenMargin)
	assert.Equal(t, 10*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, 1, cfg.Enrichment.MaxConcurrency)
	assert.Equal(t, time.Duration(0), cfg.Enrichment.CacheTTL)
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)

	t.Setenv("APP_ENV", "production")
	cfg = AppConfig{}
	cfg.Sanitize()
	assert.False(t, cfg.IsDev)
}
