package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: identity directory, token verification, and permission configuration
//   - database.go: database and cache configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, relaxed guardrails).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Identity directory (Keycloak) configuration
	Directory DirectoryConfig `envPrefix:"DIRECTORY_"`

	// Inbound bearer token verification configuration
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// Permission resolution configuration
	Permission PermissionConfig `envPrefix:"PERMISSION_"`

	// Enrichment fan-out and caching configuration
	Enrichment EnrichmentConfig `envPrefix:"ENRICHMENT_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Directory.Sanitize()
	c.Enrichment.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// APP_ENV is checked as a fallback so deployments that only set an
// environment name still get dev behavior locally.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
