// Package ehr implements the client for the upstream FHIR-compliant clinical
// data provider: token lifecycle, request transport with bounded retry, and a
// development mock mode.
package ehr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/medfront/ehr-admin-api/internal/config"
)

const (
	maxRetries     = 3
	defaultBackoff = time.Second
)

// Response is the outcome of a successful upstream call. Data is nil for 204
// responses and non-JSON bodies.
type Response struct {
	Status int
	Data   json.RawMessage
}

// transport abstracts the wire so mock mode is an explicit strategy rather
// than a branch buried inside the HTTP call.
type transport interface {
	roundTrip(ctx context.Context, method, url string, body []byte, token string) (status int, contentType string, payload []byte, err error)
}

// Client issues requests against the upstream FHIR API. It retries 429/503
// responses with linear backoff, surfaces structured errors for everything
// else, and serves canned responses in mock mode.
type Client struct {
	cfg     config.EHRConfig
	tokens  *TokenProvider
	wire    transport
	breaker *gobreaker.CircuitBreaker
	metrics *Metrics
	log     zerolog.Logger

	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client in live or mock mode depending on configuration.
// tokens may be nil in mock mode. metrics may be nil.
func NewClient(cfg config.EHRConfig, tokens *TokenProvider, breakerCfg config.BreakerConfig, metrics *Metrics, log zerolog.Logger) *Client {
	c := &Client{
		cfg:     cfg,
		tokens:  tokens,
		metrics: metrics,
		log:     log.With().Str("component", "ehr_client").Logger(),
		backoff: defaultBackoff,
		sleep:   sleepContext,
	}
	if cfg.MockMode() {
		c.wire = newMockTransport()
	} else {
		c.wire = &liveTransport{
			http:   &http.Client{Timeout: cfg.RequestTimeout},
			apiKey: cfg.APIKey,
		}
	}
	if breakerCfg.Enabled && !cfg.MockMode() {
		failures := breakerCfg.ConsecutiveFailures
		if failures == 0 {
			failures = 10
		}
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "ehr-upstream",
			Timeout: breakerCfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
		})
	}
	return c
}

// MockMode reports whether the client serves canned responses.
func (c *Client) MockMode() bool {
	return c.cfg.MockMode()
}

// Request performs an upstream call authenticated with the service-account
// token provider.
func (c *Client) Request(ctx context.Context, method, url string, body interface{}) (*Response, error) {
	token := ""
	if !c.cfg.MockMode() {
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
	}
	return c.RequestWithToken(ctx, method, url, body, token)
}

// RequestWithToken performs an upstream call with a caller-supplied bearer
// token. The patient flow uses this with cookie-held tokens so it can refresh
// on 401 and replay.
func (c *Client) RequestWithToken(ctx context.Context, method, url string, body interface{}, token string) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var lastErr *UpstreamError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		status, contentType, data, err := c.roundTrip(ctx, method, url, payload, token)
		if err != nil {
			c.countFailure("transport")
			return nil, err
		}
		c.countRequest(method, status)

		if status >= 200 && status < 300 {
			if status == http.StatusNoContent || !isJSONContent(contentType) {
				return &Response{Status: status, Data: nil}, nil
			}
			return &Response{Status: status, Data: data}, nil
		}

		lastErr = newUpstreamError(status, http.StatusText(status), contentType, data)

		if (status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable) && attempt < maxRetries {
			delay := c.backoff * time.Duration(attempt+1)
			c.log.Warn().Int("status", status).Int("attempt", attempt+2).Dur("backoff", delay).
				Str("method", method).Str("url", url).Msg("retrying upstream request")
			c.countRetry(status)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
			lastErr.RetriesExhausted = true
			c.countFailure("retries_exhausted")
		} else {
			c.countFailure("upstream_status")
		}
		return nil, lastErr
	}
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, url string, payload []byte, token string) (int, string, []byte, error) {
	if c.breaker == nil {
		return c.wire.roundTrip(ctx, method, url, payload, token)
	}

	type result struct {
		status      int
		contentType string
		payload     []byte
	}
	// Only transport-level failures count against the breaker; HTTP error
	// statuses flow through the normal retry/error path.
	out, err := c.breaker.Execute(func() (interface{}, error) {
		status, contentType, data, err := c.wire.roundTrip(ctx, method, url, payload, token)
		if err != nil {
			return nil, err
		}
		return result{status, contentType, data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, "", nil, newUpstreamError(http.StatusServiceUnavailable, "Service Unavailable", "",
				[]byte("upstream circuit open"))
		}
		return 0, "", nil, err
	}
	r := out.(result)
	return r.status, r.contentType, r.payload, nil
}

func (c *Client) countRequest(method string, status int) {
	if c.metrics != nil {
		c.metrics.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
}

func (c *Client) countRetry(status int) {
	if c.metrics != nil {
		c.metrics.Retries.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

func (c *Client) countFailure(reason string) {
	if c.metrics != nil {
		c.metrics.Failures.WithLabelValues(reason).Inc()
	}
}

// liveTransport talks to the real provider with FHIR headers attached.
type liveTransport struct {
	http   *http.Client
	apiKey string
}

func (t *liveTransport) roundTrip(ctx context.Context, method, url string, body []byte, token string) (int, string, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, "", nil, err
	}
	req.Header.Set("Accept", "application/fhir+json")
	req.Header.Set("Content-Type", "application/fhir+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", t.apiKey)

	resp, err := t.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, "", nil, &TimeoutError{Method: method, URL: url, Timeout: t.http.Timeout.String()}
		}
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, err
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), payload, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
