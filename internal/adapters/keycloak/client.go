package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uniport/campus-api/internal/domain/model"
	"github.com/uniport/campus-api/internal/ports"
)

// maxResponseBytes bounds how much of a directory response body is read.
const maxResponseBytes = 1 << 20

// ClientOptions bundles dependencies for NewClient.
type ClientOptions struct {
	BaseURL    string
	Realm      string
	Tokens     ports.TokenSource
	HTTPClient *http.Client // Optional, defaults to a 10s-timeout client
	Logger     *slog.Logger // Optional, defaults to slog.Default()
}

// Client implements ports.DirectoryClient against a Keycloak realm's admin
// user API.
type Client struct {
	usersURL   string
	tokens     ports.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a directory client for the configured realm.
func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := strings.TrimSuffix(opts.BaseURL, "/")
	return &Client{
		usersURL:   fmt.Sprintf("%s/admin/realms/%s/users", base, opts.Realm),
		tokens:     opts.Tokens,
		httpClient: hc,
		logger:     logger,
	}
}

// CreateUser provisions a user in the directory. The creation response is
// recovered through the malformed-body parser; when no record can be
// recovered the error is surfaced, because the remote side effect may
// already have happened and needs operator attention.
func (c *Client) CreateUser(ctx context.Context, req model.CreateDirectoryUserRequest) (*model.DirectoryUser, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode create request: %w", ports.ErrDirectoryCreateFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build create request: %w", ports.ErrDirectoryCreateFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ports.ErrDirectoryCreateFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read create response: %w", ports.ErrDirectoryCreateFailed, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: create endpoint returned status %d", ports.ErrDirectoryCreateFailed, resp.StatusCode)
	}

	user := parseCreateResponse(string(body))
	if user == nil {
		return nil, fmt.Errorf("%w: no user record in response", ports.ErrDirectoryCreateFailed)
	}

	if pw := extractInitPassword(string(body)); pw != "" {
		c.logger.InfoContext(ctx, "directory issued an initial password", "user_id", user.ID)
	}

	return user, nil
}

// FindByID looks up directory users by the shared identifier. Lookups are
// best-effort enrichment reads: every failure mode converges to an empty
// slice so a directory outage never breaks the caller's primary operation.
func (c *Client) FindByID(ctx context.Context, id string) []model.DirectoryUser {
	return c.find(ctx, "id", id)
}

// FindByEmail looks up directory users by email, with the same best-effort
// contract as FindByID.
func (c *Client) FindByEmail(ctx context.Context, email string) []model.DirectoryUser {
	return c.find(ctx, "email", email)
}

func (c *Client) find(ctx context.Context, param, value string) []model.DirectoryUser {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "directory lookup skipped: no service credential", "param", param, "error", err)
		return nil
	}

	q := url.Values{}
	q.Set(param, value)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL+"?"+q.Encode(), nil)
	if err != nil {
		c.logger.WarnContext(ctx, "directory lookup failed: build request", "param", param, "error", err)
		return nil
	}
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "directory lookup failed", "param", param, "error", err)
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "directory lookup returned unexpected status", "param", param, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.WarnContext(ctx, "directory lookup failed: read response", "param", param, "error", err)
		return nil
	}

	var users []model.DirectoryUser
	if err := json.Unmarshal(body, &users); err != nil {
		c.logger.WarnContext(ctx, "directory lookup failed: decode response", "param", param, "error", err)
		return nil
	}
	return users
}

var _ ports.DirectoryClient = (*Client)(nil)
