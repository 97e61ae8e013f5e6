// Package api is the client of the trakli REST API: transactions, wallets,
// user configuration and server-computed statistics.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/parsererror"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Client talks to the REST API with a bearer token.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     logging.Logger
	loc        *time.Location

	stats singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLocation sets the zone transaction timestamps are converted to.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL, token string, logger logging.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &parsererror.ValidationError{Field: "api base url", Reason: fmt.Sprintf("%q is not an absolute URL", baseURL)}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c := &Client{
		baseURL:    u,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.WithField(logging.FieldComponent, "api"),
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpointURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.endpointURL(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("API request failed",
			logging.F(logging.FieldEndpoint, path))
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	c.logger.Debug("API request completed",
		logging.F(logging.FieldEndpoint, path),
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(started).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &parsererror.RemoteError{Endpoint: path, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
