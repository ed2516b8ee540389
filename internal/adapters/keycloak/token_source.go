package keycloak

// Package keycloak provides the identity directory adapter: service
// credential caching, user creation, and best-effort user lookups against a
// Keycloak realm's admin API.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	domainauth "github.com/uniport/campus-api/internal/domain/auth"
	"github.com/uniport/campus-api/internal/ports"
	"golang.org/x/sync/singleflight"
)

// TokenSourceConfig holds configuration for CachedTokenSource.
type TokenSourceConfig struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	// Margin is how long a fetched token is treated as valid. It must stay
	// below the directory-side token lifetime so the cache never hands out a
	// token the directory would reject.
	Margin time.Duration

	HTTPClient *http.Client // Optional, defaults to a 10s-timeout client
}

// CachedTokenSource caches one service credential and refreshes it on
// demand. Concurrent callers observing an expired token share a single
// in-flight refresh; a failed refresh is never cached.
type CachedTokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	margin       time.Duration
	httpClient   *http.Client

	mu     sync.Mutex
	cached domainauth.AccessToken
	group  singleflight.Group

	now func() time.Time
}

const defaultTokenMargin = 4 * time.Minute

// NewCachedTokenSource creates a token source for the configured realm.
func NewCachedTokenSource(cfg TokenSourceConfig) *CachedTokenSource {
	margin := cfg.Margin
	if margin <= 0 {
		margin = defaultTokenMargin
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	return &CachedTokenSource{
		tokenURL:     fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", base, cfg.Realm),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		margin:       margin,
		httpClient:   hc,
		now:          time.Now,
	}
}

// Token returns the cached credential when still within its margin, and
// otherwise performs one client-credentials request shared by all waiters.
func (s *CachedTokenSource) Token(ctx context.Context) (domainauth.AccessToken, error) {
	s.mu.Lock()
	if s.cached.Valid(s.now()) {
		tok := s.cached
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("token", func() (any, error) {
		// A waiter may arrive after the winning refresh already stored a
		// fresh token; re-check before issuing another request.
		s.mu.Lock()
		if s.cached.Valid(s.now()) {
			tok := s.cached
			s.mu.Unlock()
			return tok, nil
		}
		s.mu.Unlock()

		tok, fetchErr := s.fetchToken(ctx)
		if fetchErr != nil {
			return domainauth.AccessToken{}, fetchErr
		}

		s.mu.Lock()
		s.cached = tok
		s.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return domainauth.AccessToken{}, err
	}

	tok, ok := v.(domainauth.AccessToken)
	if !ok {
		return domainauth.AccessToken{}, fmt.Errorf("%w: unexpected token type", ports.ErrDirectoryUnavailable)
	}
	return tok, nil
}

// tokenResponse is the directory's token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// fetchToken performs the client-credentials grant against the token endpoint.
func (s *CachedTokenSource) fetchToken(ctx context.Context) (domainauth.AccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domainauth.AccessToken{}, fmt.Errorf("%w: build token request: %w", ports.ErrDirectoryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domainauth.AccessToken{}, fmt.Errorf("%w: token request: %w", ports.ErrDirectoryUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return domainauth.AccessToken{}, fmt.Errorf("%w: token endpoint returned status %d", ports.ErrDirectoryUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domainauth.AccessToken{}, fmt.Errorf("%w: read token response: %w", ports.ErrDirectoryUnavailable, err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return domainauth.AccessToken{}, fmt.Errorf("%w: decode token response: %w", ports.ErrDirectoryUnavailable, err)
	}
	if tr.AccessToken == "" {
		return domainauth.AccessToken{}, fmt.Errorf("%w: token endpoint returned no access_token", ports.ErrDirectoryUnavailable)
	}

	return domainauth.AccessToken{
		Value:     tr.AccessToken,
		ExpiresAt: s.now().Add(s.margin),
	}, nil
}

var _ ports.TokenSource = (*CachedTokenSource)(nil)
