package ports

// Package ports defines interfaces (hexagonal ports) for directory and
// authorization behavior. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/uniport/campus-api/internal/domain/auth"
	"github.com/uniport/campus-api/internal/domain/model"
)

// TokenSource yields a valid service credential for the identity directory,
// refreshing it on demand. Implementations must collapse concurrent
// refreshes into a single request.
type TokenSource interface {
	// Token returns a credential satisfying now < ExpiresAt, or an
	// unavailability error when the directory's token endpoint cannot be
	// reached.
	Token(ctx context.Context) (domainauth.AccessToken, error)
}

// DirectoryClient issues user operations against the identity directory.
//
// Creation is a mutating operation whose failure must be visible; the find
// operations are best-effort enrichment lookups and never return an error:
// every read-side failure mode (404, timeout, malformed body, 5xx)
// converges to an empty slice.
type DirectoryClient interface {
	CreateUser(ctx context.Context, req model.CreateDirectoryUserRequest) (*model.DirectoryUser, error)
	FindByID(ctx context.Context, id string) []model.DirectoryUser
	FindByEmail(ctx context.Context, email string) []model.DirectoryUser
}

// TokenVerifier validates an inbound bearer token and exposes its subject
// and decoded claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (domainauth.Token, error)
}

// PersonRepository is the persistence collaborator for local person records.
type PersonRepository interface {
	// GetByID returns the person or a NotFound error.
	GetByID(ctx context.Context, id string) (*model.Person, error)
	Create(ctx context.Context, req model.CreatePersonRequest) (*model.Person, error)
	Update(ctx context.Context, id string, req model.UpdatePersonRequest) (*model.Person, error)
	Delete(ctx context.Context, id string) error
}

// CacheRepository is a byte-oriented cache used for short-lived directory
// lookup results.
type CacheRepository interface {
	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil when the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
