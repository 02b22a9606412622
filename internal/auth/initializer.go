package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spt/internal/shared"
)

// TokenLifetime is how long an issued access token stays usable.
const TokenLifetime = 3600 * time.Second

// Initializer orchestrates [FileStore] and [Session] to produce a valid
// access token, deciding among reuse, refresh, and reauthorization.
//
// It is stateless between calls; the filesystem cache is the only state.
type Initializer struct {
	session     *Session
	store       FileStore
	logger      *log.Logger
	now         func() time.Time
	openBrowser bool
}

// InitializerOption configures an [Initializer].
type InitializerOption func(*Initializer)

// WithClock overrides the time source, used by tests to simulate expiry.
func WithClock(now func() time.Time) InitializerOption {
	return func(i *Initializer) { i.now = now }
}

// WithoutBrowser makes the interactive flow print the authorization URL
// instead of opening a browser.
func WithoutBrowser() InitializerOption {
	return func(i *Initializer) { i.openBrowser = false }
}

// WithInitializerLogger overrides the initializer's logger.
func WithInitializerLogger(l *log.Logger) InitializerOption {
	return func(i *Initializer) { i.logger = l }
}

// NewInitializer creates an Initializer over the given session.
func NewInitializer(session *Session, opts ...InitializerOption) *Initializer {
	i := &Initializer{
		session:     session,
		logger:      shared.NewLogger(nil),
		now:         time.Now,
		openBrowser: true,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// EnsureToken reads the cache at location and returns a valid access
// token, persisting the (possibly updated) record before returning.
//
// Decision order, first match wins:
//  1. no cached record: interactive authorization
//  2. issued_at older than [TokenLifetime]: refresh
//  3. requested scope not a subset of granted scope: reauthorization,
//     since refresh tokens cannot expand granted scope
//  4. otherwise: reuse the cached token unchanged
//
// Expiry is checked before scope because an expired token cannot be
// scope-validated meaningfully. A corrupt cache file fails fast rather
// than degrading to reauthorization.
func (i *Initializer) EnsureToken(ctx context.Context, location string) (string, error) {
	rec, err := i.store.Read(location)

	switch {
	case errors.Is(err, shared.ErrCacheMiss):
		i.logger.Debug("no cached token, starting authorization", "cache", location)
		if rec, err = i.authorize(ctx); err != nil {
			return "", err
		}

	case err != nil:
		return "", err

	case rec.Expired(i.now(), TokenLifetime):
		i.logger.Debug("cached token expired, refreshing")
		resp, err := i.session.Refresh(ctx, rec.RefreshToken)
		if err != nil {
			return "", err
		}
		rec.AccessToken = resp.AccessToken
		if resp.RefreshToken != "" {
			rec.RefreshToken = resp.RefreshToken
		}
		if resp.Scope != "" {
			rec.Scopes = strings.Fields(resp.Scope)
		} else if len(rec.Scopes) > 0 {
			// The server may narrow scope without reporting it; the cached
			// value can drift. Flagged, not repaired.
			i.logger.Warn("refresh response omitted scope, keeping cached scope")
		}
		rec.IssuedAt = i.now()

	case len(i.session.creds.Scopes) > 0 && !rec.HasScope(i.session.creds.Scopes):
		i.logger.Debug("granted scope insufficient, reauthorizing",
			"requested", i.session.creds.Scope(), "granted", strings.Join(rec.Scopes, " "))
		if rec, err = i.authorize(ctx); err != nil {
			return "", err
		}
	}

	if err := i.store.Write(location, rec); err != nil {
		return "", err
	}

	return rec.AccessToken, nil
}

func (i *Initializer) authorize(ctx context.Context) (*TokenRecord, error) {
	resp, err := i.session.Authorize(ctx, i.openBrowser)
	if err != nil {
		return nil, err
	}

	scopes := strings.Fields(resp.Scope)
	if len(scopes) == 0 {
		scopes = i.session.creds.Scopes
	}

	return &TokenRecord{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		IssuedAt:     i.now(),
		Scopes:       scopes,
	}, nil
}

// InitOptions configures [Init]. RedirectURI is required; client id and
// secret fall back to the SPOTIFY_ID and SPOTIFY_SECRET environment
// variables when empty.
type InitOptions struct {
	RedirectURI  string
	ClientID     string
	ClientSecret string
	Scope        string // space-separated requested scopes
	User         string // logical user identity, may be empty
	CacheDir     string // defaults to the working directory
	NoBrowser    bool   // print the authorization URL instead of opening it

	Input  io.Reader
	Output io.Writer
	Logger *log.Logger
}

// Init is the externally facing initializer: it resolves credentials and
// the cache location, then delegates to [Initializer.EnsureToken]. All
// endpoint operations require the access token it returns.
func Init(ctx context.Context, opts InitOptions) (string, error) {
	if opts.RedirectURI == "" {
		return "", fmt.Errorf("%w: redirect_uri", shared.ErrMissingArgument)
	}

	if opts.ClientID == "" {
		opts.ClientID = os.Getenv(shared.EnvClientID)
	}
	if opts.ClientSecret == "" {
		opts.ClientSecret = os.Getenv(shared.EnvClientSecret)
	}
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return "", fmt.Errorf("%w: client id and secret not set and %s/%s unset",
			shared.ErrMissingCredentials, shared.EnvClientID, shared.EnvClientSecret)
	}

	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	creds := Credentials{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURI:  opts.RedirectURI,
		Scopes:       strings.Fields(opts.Scope),
	}

	sessionOpts := []SessionOption{WithSessionLogger(opts.Logger)}
	if opts.Input != nil || opts.Output != nil {
		in := opts.Input
		if in == nil {
			in = os.Stdin
		}
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		sessionOpts = append(sessionOpts, WithPrompt(in, out))
	}

	session := NewSession(creds, sessionOpts...)

	initOpts := []InitializerOption{WithInitializerLogger(opts.Logger)}
	if opts.NoBrowser {
		initOpts = append(initOpts, WithoutBrowser())
	}

	location := FileStore{}.Resolve(opts.CacheDir, opts.User)

	return NewInitializer(session, initOpts...).EnsureToken(ctx, location)
}
