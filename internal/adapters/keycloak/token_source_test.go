package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniport/campus-api/internal/ports"
)

func newTokenServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/realms/campus/protocol/openid-connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "campus-api", r.PostForm.Get("client_id"))

		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":300,"token_type":"Bearer"}`, n)
	}))
}

func newTestTokenSource(serverURL string) *CachedTokenSource {
	return NewCachedTokenSource(TokenSourceConfig{
		BaseURL:      serverURL,
		Realm:        "campus",
		ClientID:     "campus-api",
		ClientSecret: "shhh",
		Margin:       4 * time.Minute,
	})
}

func TestCachedTokenSource_ReusesTokenWithinMargin(t *testing.T) {
	var calls atomic.Int64
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	src := newTestTokenSource(srv.URL)

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first.Value)

	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", second.Value)

	assert.Equal(t, int64(1), calls.Load())
}

func TestCachedTokenSource_RefreshesAfterExpiry(t *testing.T) {
	var calls atomic.Int64
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	src := newTestTokenSource(srv.URL)

	base := time.Now()
	current := base
	var mu sync.Mutex
	src.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first.Value)
	assert.Equal(t, base.Add(4*time.Minute), first.ExpiresAt)

	mu.Lock()
	current = base.Add(5 * time.Minute)
	mu.Unlock()

	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", second.Value)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCachedTokenSource_ConcurrentCallersShareOneRefresh(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		fmt.Fprint(w, `{"access_token":"tok-shared","expires_in":300,"token_type":"Bearer"}`)
	}))
	defer srv.Close()

	src := newTestTokenSource(srv.URL)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := src.Token(context.Background())
			results[i] = tok.Value
			errs[i] = err
		}()
	}

	// Give the goroutines time to pile up on the in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-shared", results[i])
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestCachedTokenSource_Failures(t *testing.T) {
	t.Run("unreachable endpoint", func(t *testing.T) {
		src := newTestTokenSource("http://127.0.0.1:1")

		_, err := src.Token(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ports.ErrDirectoryUnavailable))
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		src := newTestTokenSource(srv.URL)

		_, err := src.Token(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ports.ErrDirectoryUnavailable))
	})

	t.Run("malformed token payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `not json`)
		}))
		defer srv.Close()

		src := newTestTokenSource(srv.URL)

		_, err := src.Token(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ports.ErrDirectoryUnavailable))
	})

	t.Run("failed refresh is not cached", func(t *testing.T) {
		var fail atomic.Bool
		fail.Store(true)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"access_token":"tok-ok","expires_in":300,"token_type":"Bearer"}`)
		}))
		defer srv.Close()

		src := newTestTokenSource(srv.URL)

		_, err := src.Token(context.Background())
		require.Error(t, err)

		fail.Store(false)
		tok, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-ok", tok.Value)
	})
}
