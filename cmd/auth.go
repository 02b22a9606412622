package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/spt/internal/auth"
	"github.com/desertthunder/spt/internal/server"
	"github.com/desertthunder/spt/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the authorization-code flow and caches the resulting tokens.
//
// By default the user pastes the redirect URL back into the terminal;
// with --listen a temporary local server captures the redirect instead.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	opts := r.initOptions(cmd)

	if opts.ClientID == "" && opts.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials in config.toml or %s/%s",
			shared.ErrMissingCredentials, shared.EnvClientID, shared.EnvClientSecret)
	}

	if cmd.Bool("listen") {
		return r.authListen(ctx, opts)
	}

	token, err := auth.Init(ctx, opts)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	if cmd.Bool("show-token") {
		r.writePlain("%s\n", token)
	}

	return nil
}

// authListen captures the authorization redirect with a local callback
// server instead of a terminal paste.
func (r *Runner) authListen(ctx context.Context, opts auth.InitOptions) error {
	redirect, err := url.Parse(opts.RedirectURI)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("%w: redirect_uri %q is not listenable", shared.ErrInvalidArgument, opts.RedirectURI)
	}

	creds := auth.Credentials{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURI:  opts.RedirectURI,
		Scopes:       strings.Fields(opts.Scope),
	}
	session := auth.NewSession(creds, auth.WithSessionLogger(r.logger))

	state := shared.GenerateState()
	handler := server.NewCodeHandler(state)

	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{Addr: redirect.Host, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()

	authURL := session.AuthorizationURLWithState(state)
	r.writePlain("Authorize in your browser:\n%s\n", authURL)
	if !opts.NoBrowser {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser: %v", err)
		}
	}

	result := <-handler.Result()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if err := result.Error(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	tokens, err := session.Exchange(ctx, result.Code)
	if err != nil {
		return err
	}

	scopes := strings.Fields(tokens.Scope)
	if len(scopes) == 0 {
		scopes = creds.Scopes
	}

	store := auth.FileStore{}
	location := store.Resolve(opts.CacheDir, opts.User)
	record := &auth.TokenRecord{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		IssuedAt:     time.Now(),
		Scopes:       scopes,
	}
	if err := store.Write(location, record); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens cached at %s\n", location)

	return nil
}

// AuthStatus reports the cached token state for the configured user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	opts := r.initOptions(cmd)

	store := auth.FileStore{}
	location := store.Resolve(opts.CacheDir, opts.User)

	record, err := store.Read(location)
	if errors.Is(err, shared.ErrCacheMiss) {
		return r.writePlain("✗ Not authenticated (no cache at %s)\n", location)
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Token cached at %s\n", location)
	if record.Expired(time.Now(), auth.TokenLifetime) {
		r.writePlain("Status: expired (issued %s), will refresh on next use\n", record.IssuedAt.Format(time.RFC3339))
	} else {
		r.writePlain("Status: valid (issued %s)\n", record.IssuedAt.Format(time.RFC3339))
	}
	r.writePlain("Scope: %s\n", strings.Join(record.Scopes, " "))

	return nil
}

// authCommand handles the token lifecycle
func authCommand(r *Runner) *cli.Command {
	authFlags := []cli.Flag{
		&cli.StringFlag{Name: "scope", Usage: "Space-separated scopes to request"},
		&cli.StringFlag{Name: "user", Usage: "Logical user identity for the token cache"},
		&cli.StringFlag{Name: "cache-dir", Usage: "Token cache base directory"},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Run the authorization-code flow and cache tokens",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "no-browser", Usage: "Print the authorization URL instead of opening a browser"},
					&cli.BoolFlag{Name: "listen", Usage: "Capture the redirect with a local callback server"},
					&cli.BoolFlag{Name: "show-token", Usage: "Print the access token on success"},
				}, authFlags...),
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show cached token state",
				Flags:  authFlags,
				Action: r.AuthStatus,
			},
		},
	}
}
