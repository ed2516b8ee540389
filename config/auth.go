package config

import "time"

// DirectoryConfig contains configuration for the identity directory
// (Keycloak) admin API: service credentials, endpoints, and timeouts.
type DirectoryConfig struct {
	// BaseURL is the root URL of the directory, e.g. "https://id.example.edu".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8180"`

	// Realm is the directory realm holding campus users.
	Realm string `env:"REALM" envDefault:"campus"`

	// ClientID and ClientSecret authenticate this service against the
	// directory's token endpoint (client-credentials grant).
	ClientID     string `env:"CLIENT_ID"     envDefault:"campus-api"`
	ClientSecret string `env:"CLIENT_SECRET"`

	// TokenMargin is how long an acquired service token is treated as valid.
	// It must stay below the directory-side token lifetime (5m by default in
	// Keycloak), so the cached token is always discarded before the
	// directory would reject it.
	TokenMargin time.Duration `env:"TOKEN_MARGIN" envDefault:"4m"`

	// Timeout bounds every HTTP call against the directory.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to directory configuration values.
func (d *DirectoryConfig) Sanitize() {
	if d.TokenMargin <= 0 {
		d.TokenMargin = 4 * time.Minute
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
}

// OIDCConfig contains configuration for verifying inbound bearer tokens.
type OIDCConfig struct {
	// IssuerURL is the realm issuer used for discovery and JWKS,
	// e.g. "https://id.example.edu/realms/campus".
	IssuerURL string `env:"ISSUER_URL" envDefault:"http://localhost:8180/realms/campus"`

	// ClientID is the audience this service accepts. It is also the key
	// under the token's resource_access claim whose roles are honored.
	ClientID string `env:"CLIENT_ID" envDefault:"campus-api"`
}

// PermissionConfig contains configuration for permission resolution.
type PermissionConfig struct {
	// RoleNamespace prefixes every required role name,
	// e.g. namespace "campus" yields roles like "campus.Read.Student".
	RoleNamespace string `env:"ROLE_NAMESPACE" envDefault:"campus"`
}

// EnrichmentConfig controls directory enrichment fan-out and caching.
type EnrichmentConfig struct {
	// MaxConcurrency bounds parallel directory lookups during batch enrichment.
	MaxConcurrency int `env:"MAX_CONCURRENCY" envDefault:"8"`

	// CacheTTL is the lifetime of cached directory lookups. Lookups are only
	// cached when a cache backend is wired; claim sets are never cached.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to enrichment configuration values.
func (e *EnrichmentConfig) Sanitize() {
	if e.MaxConcurrency < 1 {
		e.MaxConcurrency = 1
	}
	if e.CacheTTL < 0 {
		e.CacheTTL = 0
	}
}
