package ehr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfront/ehr-admin-api/internal/config"
)

func grantServer(t *testing.T, grants *int, expiresIn string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ema-dev/firm/firm1/ema/ws/oauth2/grant", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))

		*grants++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-` + expiresIn + `","refresh_token":"refresh-1","expires_in":` + expiresIn + `}`))
	}))
}

func authConfig(baseURL string) config.EHRConfig {
	return config.EHRConfig{
		BaseURL:     baseURL,
		FirmPrefix:  "firm1",
		APIKey:      "test-key",
		Username:    "svc-user",
		Password:    "svc-pass",
		Environment: "production",
	}
}

func TestPasswordGrantSendsCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "svc-user", r.PostForm.Get("username"))
		assert.Equal(t, "svc-pass", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","refresh_token":"def","expires_in":600}`))
	}))
	defer ts.Close()

	a := NewAuthenticator(authConfig(ts.URL), zerolog.Nop())
	tokens, err := a.PasswordGrant(context.Background(), "svc-user", "svc-pass")
	require.NoError(t, err)
	assert.Equal(t, "abc", tokens.AccessToken)
	assert.Equal(t, "def", tokens.RefreshToken)
	assert.EqualValues(t, 600, tokens.ExpiresIn)
}

func TestPasswordGrantRejectsEmptyCredentials(t *testing.T) {
	a := NewAuthenticator(authConfig("http://unused"), zerolog.Nop())
	_, err := a.PasswordGrant(context.Background(), "", "")
	require.Error(t, err)
}

func TestRefreshGrantKeepsTokenWhenNotRotated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","expires_in":600}`))
	}))
	defer ts.Close()

	a := NewAuthenticator(authConfig(ts.URL), zerolog.Nop())
	tokens, err := a.RefreshGrant(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tokens.AccessToken)
	assert.Equal(t, "old-refresh", tokens.RefreshToken)
}

func TestGrantDefaultsExpiry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc"}`))
	}))
	defer ts.Close()

	a := NewAuthenticator(authConfig(ts.URL), zerolog.Nop())
	tokens, err := a.PasswordGrant(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, tokens.ExpiresIn)
}

func TestGrantSurfacesUpstreamRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	a := NewAuthenticator(authConfig(ts.URL), zerolog.Nop())
	_, err := a.PasswordGrant(context.Background(), "u", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTokenProviderCachesUntilExpiry(t *testing.T) {
	grants := 0
	ts := grantServer(t, &grants, "3600")
	defer ts.Close()

	p := NewTokenProvider(authConfig(ts.URL), zerolog.Nop())
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return current }

	token, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-3600", token)
	assert.Equal(t, 1, grants)

	// Within the margin-adjusted lifetime the cached token is reused.
	current = current.Add(58 * time.Minute)
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, grants)

	// The token expires one minute before the upstream deadline.
	current = current.Add(2 * time.Minute)
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, grants)
}

func TestTokenProviderRequiresCredentials(t *testing.T) {
	cfg := authConfig("http://unused")
	cfg.Username = ""
	cfg.Password = ""

	p := NewTokenProvider(cfg, zerolog.Nop())
	_, err := p.Token(context.Background())
	require.Error(t, err)
}
