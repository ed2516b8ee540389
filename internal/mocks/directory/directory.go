package directory

// Package directory contains simple hand-written test doubles for the
// directory ports. These are lightweight and suitable for unit tests
// without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/uniport/campus-api/internal/domain/auth"
	"github.com/uniport/campus-api/internal/domain/model"
	"github.com/uniport/campus-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.DirectoryClient = (*MockDirectoryClient)(nil)
	_ ports.TokenSource     = (*StaticTokenSource)(nil)
	_ ports.TokenVerifier   = (*MockTokenVerifier)(nil)
	_ ports.CacheRepository = (*MemoryCacheRepo)(nil)
)

// MockDirectoryClient simulates the identity directory with overridable
// behavior per operation. Unset funcs fall back to empty results.
type MockDirectoryClient struct {
	CreateUserFunc  func(ctx context.Context, req model.CreateDirectoryUserRequest) (*model.DirectoryUser, error)
	FindByIDFunc    func(ctx context.Context, id string) []model.DirectoryUser
	FindByEmailFunc func(ctx context.Context, email string) []model.DirectoryUser

	// Users keyed by ID, consulted when FindByIDFunc is unset.
	Users map[string]model.DirectoryUser

	mu           sync.Mutex
	findByIDArgs []string
}

// NewMockDirectoryClient creates an empty mock directory.
func NewMockDirectoryClient() *MockDirectoryClient {
	return &MockDirectoryClient{Users: make(map[string]model.DirectoryUser)}
}

func (m *MockDirectoryClient) CreateUser(ctx context.Context, req model.CreateDirectoryUserRequest) (*model.DirectoryUser, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, req)
	}
	u := model.DirectoryUser{
		ID:        req.ID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Enabled:   req.Enabled,
	}
	if m.Users == nil {
		m.Users = make(map[string]model.DirectoryUser)
	}
	m.Users[u.ID] = u
	return &u, nil
}

func (m *MockDirectoryClient) FindByID(ctx context.Context, id string) []model.DirectoryUser {
	m.mu.Lock()
	m.findByIDArgs = append(m.findByIDArgs, id)
	m.mu.Unlock()

	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	if u, ok := m.Users[id]; ok {
		return []model.DirectoryUser{u}
	}
	return nil
}

func (m *MockDirectoryClient) FindByEmail(ctx context.Context, email string) []model.DirectoryUser {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	for _, u := range m.Users {
		if u.Email == email {
			return []model.DirectoryUser{u}
		}
	}
	return nil
}

// FindByIDCalls returns the IDs passed to FindByID so far.
func (m *MockDirectoryClient) FindByIDCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.findByIDArgs))
	copy(out, m.findByIDArgs)
	return out
}

// StaticTokenSource returns a fixed credential, or Err when set.
type StaticTokenSource struct {
	Value string
	Err   error
}

func (s StaticTokenSource) Token(_ context.Context) (domainauth.AccessToken, error) {
	if s.Err != nil {
		return domainauth.AccessToken{}, s.Err
	}
	value := s.Value
	if value == "" {
		value = "test-token"
	}
	return domainauth.AccessToken{
		Value:     value,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// MockTokenVerifier accepts any token and returns a configurable identity.
type MockTokenVerifier struct {
	VerifyFunc func(ctx context.Context, raw string) (domainauth.Token, error)

	Subject string
	Claims  map[string]any
}

func (m *MockTokenVerifier) Verify(ctx context.Context, raw string) (domainauth.Token, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, raw)
	}
	subject := m.Subject
	if subject == "" {
		subject = "mock-subject"
	}
	return domainauth.Token{Subject: subject, Claims: m.Claims}, nil
}

// MemoryCacheRepo is an in-memory cache for unit tests. TTLs are honored
// against the wall clock.
type MemoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCacheRepo creates a new in-memory cache.
func NewMemoryCacheRepo() *MemoryCacheRepo {
	return &MemoryCacheRepo{entries: make(map[string]cacheEntry)}
}

func (m *MemoryCacheRepo) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	return entry.value, nil
}

func (m *MemoryCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

// Len reports how many live entries the cache holds.
func (m *MemoryCacheRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
