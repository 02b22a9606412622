package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spt/internal/shared"
)

const (
	// DefaultAuthURL is Spotify's authorization endpoint.
	DefaultAuthURL = "https://accounts.spotify.com/authorize"
	// DefaultTokenURL is Spotify's token exchange endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// TokenResponse is the token endpoint's JSON payload.
//
// The refresh grant may omit refresh_token (it is not rotated) and scope.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Session performs the OAuth2 authorization-code and refresh-token grants
// for a single set of [Credentials].
type Session struct {
	creds      Credentials
	authURL    string
	tokenURL   string
	httpClient *http.Client
	input      io.Reader
	output     io.Writer
	logger     *log.Logger
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithHTTPClient overrides the HTTP client used for token requests.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(s *Session) { s.httpClient = c }
}

// WithEndpoints overrides the authorize and token endpoint URLs.
func WithEndpoints(authURL, tokenURL string) SessionOption {
	return func(s *Session) {
		s.authURL = authURL
		s.tokenURL = tokenURL
	}
}

// WithPrompt overrides where the interactive flow prints the authorization
// URL and reads the pasted redirect from.
func WithPrompt(in io.Reader, out io.Writer) SessionOption {
	return func(s *Session) {
		s.input = in
		s.output = out
	}
}

// WithSessionLogger overrides the session's logger.
func WithSessionLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a Session for the given credentials against the
// Spotify account endpoints.
func NewSession(creds Credentials, opts ...SessionOption) *Session {
	s := &Session{
		creds:      creds,
		authURL:    DefaultAuthURL,
		tokenURL:   DefaultTokenURL,
		httpClient: http.DefaultClient,
		input:      os.Stdin,
		output:     os.Stdout,
		logger:     shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials returns the session's client credentials.
func (s *Session) Credentials() Credentials {
	return s.creds
}

// AuthorizationURL constructs the authorization endpoint URL with
// client_id, response_type=code, redirect_uri, and scope.
//
// The scope parameter is omitted entirely when no scope was requested;
// an empty scope value is rejected by some servers.
func (s *Session) AuthorizationURL() string {
	params := []string{
		"client_id=" + url.QueryEscape(s.creds.ClientID),
		"response_type=code",
		"redirect_uri=" + url.QueryEscape(s.creds.RedirectURI),
	}
	if scope := s.creds.Scope(); scope != "" {
		params = append(params, "scope="+url.QueryEscape(scope))
	}
	return s.authURL + "?" + strings.Join(params, "&")
}

// AuthorizationURLWithState appends a state parameter for flows that
// capture the redirect with a local callback server.
func (s *Session) AuthorizationURLWithState(state string) string {
	return s.AuthorizationURL() + "&state=" + url.QueryEscape(state)
}

// Exchange trades an authorization code for tokens.
func (s *Session) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.creds.RedirectURI)

	return s.postToken(ctx, form)
}

// Refresh obtains a new access token using a refresh token.
//
// The response may omit refresh_token; callers must retain the prior one.
func (s *Session) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return s.postToken(ctx, form)
}

// postToken POSTs a form to the token endpoint with Basic authentication
// built from the client credentials.
func (s *Session) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+s.creds.EncodeBasic())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAuthExchange, resp.StatusCode)
	}

	return &tokens, nil
}

// Authorize runs the human-in-the-loop authorization flow: present the
// authorization URL (opening a browser when asked), block reading the
// pasted redirect URL, extract the code, and exchange it for tokens.
//
// This blocks indefinitely on input; cancellation is process exit.
func (s *Session) Authorize(ctx context.Context, openBrowser bool) (*TokenResponse, error) {
	authURL := s.AuthorizationURL()

	fmt.Fprintln(s.output, "After redirect paste url here:")
	if openBrowser {
		if err := shared.OpenBrowser(authURL); err != nil {
			s.logger.Warnf("failed to open browser: %v", err)
			fmt.Fprintln(s.output, authURL)
		}
	} else {
		fmt.Fprintln(s.output, authURL)
	}

	scanner := bufio.NewScanner(s.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read redirect URL: %w", err)
		}
		return nil, fmt.Errorf("%w: no redirect URL entered", shared.ErrAuthFailed)
	}

	code := s.extractCode(scanner.Text())
	if code == "" {
		return nil, fmt.Errorf("%w: redirect URL missing code parameter", shared.ErrAuthFailed)
	}

	return s.Exchange(ctx, code)
}

// extractCode strips the known redirect_uri + "?code=" prefix from the
// pasted redirect URL and drops any trailing query parameters.
func (s *Session) extractCode(redirect string) string {
	trimmed := strings.TrimSpace(redirect)
	code := strings.TrimPrefix(trimmed, s.creds.RedirectURI+"?code=")
	if code == trimmed && trimmed != "" {
		// Pasted something other than the full redirect; treat it as a bare code.
		code = trimmed
	}
	if i := strings.IndexByte(code, '&'); i >= 0 {
		code = code[:i]
	}
	return code
}
