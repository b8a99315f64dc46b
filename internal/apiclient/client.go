// internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/common/metrics"
)

// TokenSource supplies credentials for outbound calls. The session Manager
// implements it.
type TokenSource interface {
	IsAuthenticated() bool
	AccessToken(ctx context.Context) (string, error)
}

// Options configures the resilient request client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration // per attempt
	WarmupDelay time.Duration // fixed wait between the two attempts
	WarmupPaths []string      // health probe order

	// RedirectToLogin is invoked when a call fails for lack of a valid
	// session. Optional; the default only logs.
	RedirectToLogin func()

	// Sleep is swappable in tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Client wraps outbound REST API calls with a warm-up-and-retry policy for a
// backend that may be cold. Retry state is local to each call.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenSource
	log         logger.Logger
	warmupDelay time.Duration
	warmupPaths []string
	redirect    func()
	sleep       func(time.Duration)
}

func New(tokens TokenSource, opts Options, log logger.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.WarmupDelay == 0 {
		opts.WarmupDelay = 4 * time.Second
	}
	if len(opts.WarmupPaths) == 0 {
		opts.WarmupPaths = []string{"/health", "/api/health", "/"}
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	c := &Client{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: opts.Timeout},
		tokens:      tokens,
		log:         log.WithFields(map[string]interface{}{"component": "apiclient"}),
		warmupDelay: opts.WarmupDelay,
		warmupPaths: opts.WarmupPaths,
		redirect:    opts.RedirectToLogin,
		sleep:       opts.Sleep,
	}
	if c.redirect == nil {
		c.redirect = func() {
			c.log.Warn("redirecting to login", nil)
		}
	}
	return c
}

// transientStatus reports whether a first-attempt response justifies a
// warm-up and one retry. 401 is included: a freshly woken backend rejects
// the token it never saw before the sleep.
func transientStatus(status int) bool {
	return status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout ||
		status == http.StatusUnauthorized
}

// call performs an authenticated request with at most two attempts. The
// endpoint label only feeds metrics and logs.
func (c *Client) call(ctx context.Context, endpoint, method, path string, body interface{}) (json.RawMessage, error) {
	if !c.tokens.IsAuthenticated() {
		c.redirect()
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "auth_error").Inc()
		return nil, errors.NewAuthenticationError("no authenticated session for " + endpoint)
	}

	var payload []byte
	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s body: %w", endpoint, err)
		}
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			if errors.IsAuthFailure(err) {
				c.redirect()
			}
			metrics.APIRequestsTotal.WithLabelValues(endpoint, "auth_error").Inc()
			return nil, err
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt == 0 {
				c.log.WithError(err).Warn("network failure, warming up and retrying", map[string]interface{}{
					"endpoint": endpoint,
				})
				c.warmUp(ctx)
				c.sleep(c.warmupDelay)
				metrics.APIRetriesTotal.WithLabelValues(endpoint).Inc()
				lastErr = err
				continue
			}
			metrics.APIRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return nil, errors.NewNetworkError(endpoint, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			metrics.APIRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
			if resp.StatusCode == http.StatusNoContent {
				return nil, nil
			}
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
			}
			if len(raw) == 0 {
				return nil, nil
			}
			return json.RawMessage(raw), nil
		}

		if attempt == 0 && transientStatus(resp.StatusCode) {
			c.log.Warn("transient status, warming up and retrying", map[string]interface{}{
				"endpoint": endpoint,
				"status":   resp.StatusCode,
			})
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.warmUp(ctx)
			c.sleep(c.warmupDelay)
			metrics.APIRetriesTotal.WithLabelValues(endpoint).Inc()
			lastErr = fmt.Errorf("transient status %d", resp.StatusCode)
			continue
		}

		// Non-retryable rejection: surface the server message, falling
		// back to the HTTP status text.
		message := resp.Status
		var errBody struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			message = errBody.Message
		}
		resp.Body.Close()
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "api_error").Inc()
		return nil, errors.NewAPIError(resp.StatusCode, message)
	}

	metrics.APIRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
	return nil, errors.NewNetworkError(endpoint, fmt.Errorf("exhausted retry budget: %w", lastErr))
}

// warmUp probes the candidate health endpoints in order until one answers
// in a way that proves the server is awake. 2xx, 401, 403 and 404 all count;
// only 5xx or a connection failure means still cold. Total failure to wake
// is non-fatal, the caller retries anyway.
func (c *Client) warmUp(ctx context.Context) {
	metrics.APIWarmupsTotal.Inc()
	for _, path := range c.warmupPaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			continue
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		status := resp.StatusCode
		awake := (status >= 200 && status < 300) ||
			status == http.StatusUnauthorized ||
			status == http.StatusForbidden ||
			status == http.StatusNotFound
		if awake {
			c.log.Debug("backend awake", map[string]interface{}{"probe": path, "status": status})
			return
		}
	}
	c.log.Warn("warm-up probes exhausted, backend may still be cold", nil)
}

// decodeResult maps both wire shapes the backend emits, {"data": {...}} and
// a bare object, into the caller's type. A nil raw (204) leaves v zeroed.
func decodeResult(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, v)
	}
	return json.Unmarshal(raw, v)
}
