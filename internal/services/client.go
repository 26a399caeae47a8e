package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	logx "github.com/surftrip-planner/server/pkg/logger"
)

// DefaultTimeout applies when no HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 512

// NewHTTPClient returns a client with the given timeout, or DefaultTimeout when zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// RequestOption decorates an outgoing request.
type RequestOption func(*http.Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithBasicAuth authenticates with user and an empty password when password is "".
func WithBasicAuth(user, password string) RequestOption {
	return func(r *http.Request) { r.SetBasicAuth(user, password) }
}

// GetJSON issues a GET to base with query and decodes the JSON body into out.
// Non-2xx answers are errors carrying the status and a body excerpt.
func GetJSON(ctx context.Context, client *http.Client, base string, query url.Values, out any, opts ...RequestOption) error {
	if client == nil {
		client = NewHTTPClient(0)
	}

	target := base
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			logx.Warn().Err(closeErr).Str("url", base).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	logx.Debug().Str("url", base).Int("status", res.StatusCode).Dur("elapsed", time.Since(start)).Msg("HTTP GET")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		excerpt := string(body)
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, excerpt)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
