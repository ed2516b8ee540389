package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/uniport/campus-api/config"
	"github.com/uniport/campus-api/internal/adapters/keycloak"
	"github.com/uniport/campus-api/internal/adapters/oidc"
	"github.com/uniport/campus-api/internal/data"
	"github.com/uniport/campus-api/internal/ports"
	"github.com/uniport/campus-api/internal/service"
)

// ServiceDeps bundles the shared dependencies services are built from.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // optional; nil disables the lookup cache
	Logger      *slog.Logger
}

// Services holds the constructed service graph consumed by the request
// layer and the operator CLI.
type Services struct {
	Persons         ports.PersonRepository
	Tokens          ports.TokenSource
	DirectoryClient ports.DirectoryClient
	Directory       *service.DirectoryService
	Enrichment      *service.EnrichmentService
	Permission      *service.PermissionService
}

// NewServices wires adapters and services from configuration.
func NewServices(deps *ServiceDeps) *Services {
	cfg := deps.Config

	httpClient := &http.Client{Timeout: cfg.Directory.Timeout}

	tokens := keycloak.NewCachedTokenSource(keycloak.TokenSourceConfig{
		BaseURL:      cfg.Directory.BaseURL,
		Realm:        cfg.Directory.Realm,
		ClientID:     cfg.Directory.ClientID,
		ClientSecret: cfg.Directory.ClientSecret,
		Margin:       cfg.Directory.TokenMargin,
		HTTPClient:   httpClient,
	})

	directoryClient := keycloak.NewClient(keycloak.ClientOptions{
		BaseURL:    cfg.Directory.BaseURL,
		Realm:      cfg.Directory.Realm,
		Tokens:     tokens,
		HTTPClient: httpClient,
		Logger:     deps.Logger,
	})

	var cache ports.CacheRepository
	if deps.RedisClient != nil {
		cache = data.NewRedisCacheRepo(deps.RedisClient)
	}

	persons := data.NewPersonRepo(deps.DB)

	return &Services{
		Persons:         persons,
		Tokens:          tokens,
		DirectoryClient: directoryClient,
		Directory: service.NewDirectoryService(service.DirectoryServiceOptions{
			Directory: directoryClient,
			Logger:    deps.Logger,
		}),
		Enrichment: service.NewEnrichmentService(service.EnrichmentServiceOptions{
			Directory:      directoryClient,
			Cache:          cache,
			CacheTTL:       cfg.Enrichment.CacheTTL,
			MaxConcurrency: cfg.Enrichment.MaxConcurrency,
			Logger:         deps.Logger,
		}),
		Permission: service.NewPermissionService(service.PermissionServiceOptions{
			Persons:       persons,
			Claims:        service.NewClaimAggregator(cfg.OIDC.ClientID),
			RoleNamespace: cfg.Permission.RoleNamespace,
			Logger:        deps.Logger,
		}),
	}
}

// NewTokenVerifier builds the inbound bearer verifier. It performs one
// discovery fetch against the realm issuer, so it needs the directory to be
// reachable at construction time.
//
//nolint:ireturn // the verifier is only consumed through its port.
func NewTokenVerifier(ctx context.Context, cfg config.OIDCConfig) (ports.TokenVerifier, error) {
	return oidc.NewVerifier(ctx, oidc.VerifierConfig{
		IssuerURL: cfg.IssuerURL,
		ClientID:  cfg.ClientID,
	})
}
