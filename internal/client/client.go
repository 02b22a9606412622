package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spt/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the versioned Spotify Web API base path.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Client makes authenticated requests to the Spotify Web API.
//
// Single-threaded, blocking, no retry. Requests are rate limited to stay
// under Spotify's rolling request window.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the API base URL, used by tests to point at mock servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithRateLimit overrides the outgoing request rate limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithClientLogger overrides the client's logger.
func WithClientLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the given bearer access token.
//
// The HTTP client is built from an [oauth2.StaticTokenSource], so every
// request carries an Authorization: Bearer header injected by the
// [oauth2.Transport].
func New(accessToken string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(context.Background(), src),
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		logger:     shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queryParams holds query parameters in declaration order. url.Values
// sorts keys on Encode, so it is not used here.
type queryParams []struct{ key, value string }

func (q queryParams) add(key, value string) queryParams {
	return append(q, struct{ key, value string }{key, value})
}

func (q queryParams) encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

// response is the raw result of one API call.
type response struct {
	Status int
	Body   []byte
}

// request performs one authenticated HTTP call against the API base.
//
// A JSON body is only attached (with Content-Type) when body is non-nil.
func (c *Client) request(ctx context.Context, method, path string, query queryParams, body map[string]any) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiURL := c.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &response{Status: resp.StatusCode, Body: raw}, nil
}

// doJSON runs a request whose contract is a parsed JSON mapping.
func (c *Client) doJSON(ctx context.Context, method, path string, query queryParams, body map[string]any) (map[string]any, error) {
	resp, err := c.request(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return data, nil
}

// doMarker runs a request whose contract is an empty body on success.
// Returns "Success", or the raw response body text as the error indicator.
func (c *Client) doMarker(ctx context.Context, method, path string, body map[string]any) (string, error) {
	resp, err := c.request(ctx, method, path, nil, body)
	if err != nil {
		return "", err
	}

	if len(resp.Body) == 0 {
		return "Success", nil
	}
	return string(resp.Body), nil
}

// doPlayer runs a playback-control request, mapping the status codes the
// player endpoints use for business conditions.
func (c *Client) doPlayer(ctx context.Context, method, path string, query queryParams) (string, error) {
	resp, err := c.request(ctx, method, path, query, nil)
	if err != nil {
		return "", err
	}

	switch resp.Status {
	case http.StatusForbidden:
		return "Error, not a premium user", nil
	case http.StatusNotFound:
		return "Error, device not found", nil
	}

	return "Successful", nil
}
