package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDiscoveryServer serves a minimal realm discovery document and an empty
// key set, enough for verifier construction.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var issuer string
	mux.HandleFunc("/realms/campus/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"issuer": %q,
			"authorization_endpoint": %q,
			"token_endpoint": %q,
			"jwks_uri": %q,
			"id_token_signing_alg_values_supported": ["RS256"]
		}`, issuer, issuer+"/auth", issuer+"/token", issuer+"/keys")
	})
	mux.HandleFunc("/realms/campus/keys", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"keys":[]}`)
	})

	srv := httptest.NewServer(mux)
	issuer = srv.URL + "/realms/campus"
	t.Cleanup(srv.Close)
	return srv
}

func TestNewVerifier(t *testing.T) {
	t.Run("constructs against a reachable issuer", func(t *testing.T) {
		srv := newDiscoveryServer(t)

		v, err := NewVerifier(context.Background(), VerifierConfig{
			IssuerURL: srv.URL + "/realms/campus",
			ClientID:  "campus-api",
		})
		require.NoError(t, err)
		require.NotNil(t, v)
	})

	t.Run("requires an issuer URL", func(t *testing.T) {
		_, err := NewVerifier(context.Background(), VerifierConfig{})
		assert.Error(t, err)
	})

	t.Run("unreachable issuer fails discovery", func(t *testing.T) {
		_, err := NewVerifier(context.Background(), VerifierConfig{
			IssuerURL: "http://127.0.0.1:1/realms/campus",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oidc discovery")
	})

	t.Run("issuer mismatch fails discovery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"issuer":"https://somewhere.else/realms/campus","jwks_uri":"https://somewhere.else/keys"}`)
		}))
		defer srv.Close()

		_, err := NewVerifier(context.Background(), VerifierConfig{IssuerURL: srv.URL})
		assert.Error(t, err)
	})
}

func TestVerifier_Verify(t *testing.T) {
	srv := newDiscoveryServer(t)

	v, err := NewVerifier(context.Background(), VerifierConfig{
		IssuerURL: srv.URL + "/realms/campus",
	})
	require.NoError(t, err)

	t.Run("empty token is rejected", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not.a.jwt")
		assert.Error(t, err)
	})
}
