package ehr

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

	"github.com/rs/zerolog"

	"github.com/medfront/ehr-admin-api/internal/config"
	apperrors "github.com/medfront/ehr-admin-api/pkg/errors"
)

// Tokens is an access/refresh pair issued by the upstream grant endpoint.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds
}

type grantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Authenticator performs OAuth2 grants against the upstream token endpoint.
type Authenticator struct {
	cfg  config.EHRConfig
	http *http.Client
	log  zerolog.Logger
}

func NewAuthenticator(cfg config.EHRConfig, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
		log:  log.With().Str("component", "ehr_auth").Logger(),
	}
}

// PasswordGrant exchanges user credentials for a token pair.
func (a *Authenticator) PasswordGrant(ctx context.Context, username, password string) (*Tokens, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewAuthentication("missing username or password", nil)
	}
	form := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	}
	return a.grant(ctx, form)
}

// RefreshGrant exchanges a refresh token for a fresh token pair. The upstream
// provider may or may not rotate the refresh token; the caller keeps the old
// one when the response omits it.
func (a *Authenticator) RefreshGrant(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, apperrors.NewAuthentication("no refresh token available", nil)
	}
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	tokens, err := a.grant(ctx, form)
	if err != nil {
		return nil, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func (a *Authenticator) grant(ctx context.Context, form url.Values) (*Tokens, error) {
	if a.cfg.APIKey == "" || a.cfg.FirmPrefix == "" {
		return nil, apperrors.NewAuthentication("missing firm prefix or API key in server configuration", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewAuthentication("failed to build grant request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-api-key", a.cfg.APIKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, apperrors.NewAuthentication("grant request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.log.Warn().Int("status", resp.StatusCode).Msg("grant request rejected")
		return nil, apperrors.NewAuthentication(
			fmt.Sprintf("auth failed: %d - %s", resp.StatusCode, string(body)), nil)
	}

	var parsed grantResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewAuthentication("failed to decode grant response", err)
	}
	if parsed.AccessToken == "" {
		return nil, apperrors.NewAuthentication("failed to obtain access token", nil)
	}
	if parsed.ExpiresIn == 0 {
		parsed.ExpiresIn = 3600
	}
	return &Tokens{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresIn:    parsed.ExpiresIn,
	}, nil
}

// Tokens expire one minute before the upstream deadline so in-flight requests
// never carry a token that lapses mid-call.
const expiryMargin = time.Minute

// TokenProvider caches a service-account bearer token for the process
// lifetime, refreshing it via password grant once expired.
//
// Refreshes are not coalesced: concurrent callers racing past an expired
// token each perform an independent grant and the last writer wins. That is
// acceptable for this service's load profile and is a known limitation, not
// a defect. The mutex only guards field access.
type TokenProvider struct {
	cfg  config.EHRConfig
	auth *Authenticator
	log  zerolog.Logger
	now  func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenProvider(cfg config.EHRConfig, log zerolog.Logger) *TokenProvider {
	return &TokenProvider{
		cfg:  cfg,
		auth: NewAuthenticator(cfg, log),
		log:  log.With().Str("component", "token_provider").Logger(),
		now:  time.Now,
	}
}

// Token returns the cached bearer token, performing a password grant with the
// configured service account when none is cached or the cached one expired.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.token != "" && p.now().Before(p.expiry) {
		token := p.token
		p.mu.Unlock()
		return token, nil
	}
	p.mu.Unlock()

	if p.cfg.Username == "" || p.cfg.Password == "" {
		return "", apperrors.NewAuthentication("missing required environment variables for authentication", nil)
	}

	tokens, err := p.auth.PasswordGrant(ctx, p.cfg.Username, p.cfg.Password)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.token = tokens.AccessToken
	p.expiry = p.now().Add(time.Duration(tokens.ExpiresIn)*time.Second - expiryMargin)
	p.mu.Unlock()

	p.log.Debug().Int64("expires_in", tokens.ExpiresIn).Msg("refreshed service-account token")
	return tokens.AccessToken, nil
}
