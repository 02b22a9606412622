package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spt/internal/shared"
	internaltest "github.com/desertthunder/spt/internal/testing"
)

// fixedClock returns a deterministic time source for expiry decisions.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestEnsureToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("Cache Miss Authorizes", func(t *testing.T) {
		counter := &internaltest.CountingHandler{Handler: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access_token":"AT1","refresh_token":"RT1","scope":"user-top-read"}`)
		}}
		server := httptest.NewServer(counter)
		defer server.Close()

		creds := testCredentials()
		session := NewSession(creds,
			WithEndpoints(server.URL, server.URL),
			WithPrompt(strings.NewReader("some_code\n"), &bytes.Buffer{}),
		)
		init := NewInitializer(session, WithClock(fixedClock(now)), WithoutBrowser())

		location := FileStore{}.Resolve(t.TempDir(), "alice")

		token, err := init.EnsureToken(context.Background(), location)
		if err != nil {
			t.Fatalf("EnsureToken failed: %v", err)
		}

		if token != "AT1" {
			t.Errorf("expected access token AT1, got %q", token)
		}
		if counter.Hits != 1 {
			t.Errorf("expected 1 token request, got %d", counter.Hits)
		}

		rec, err := FileStore{}.Read(location)
		if err != nil {
			t.Fatalf("cache was not written: %v", err)
		}
		if rec.AccessToken != "AT1" || rec.RefreshToken != "RT1" {
			t.Errorf("unexpected cached record: %+v", rec)
		}
		if !rec.IssuedAt.Equal(now) {
			t.Errorf("expected issued_at %v, got %v", now, rec.IssuedAt)
		}
		if strings.Join(rec.Scopes, " ") != "user-top-read" {
			t.Errorf("expected granted scope cached, got %v", rec.Scopes)
		}
	})

	t.Run("Expired Token Refreshes", func(t *testing.T) {
		var gotGrant string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			gotGrant = r.PostForm.Get("grant_type")
			fmt.Fprint(w, `{"access_token":"AT2"}`)
		}))
		defer server.Close()

		session := NewSession(testCredentials(), WithEndpoints(server.URL, server.URL))
		init := NewInitializer(session, WithClock(fixedClock(now)))

		location := FileStore{}.Resolve(t.TempDir(), "alice")
		stale := &TokenRecord{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			IssuedAt:     now.Add(-2 * time.Hour),
			Scopes:       []string{"user-top-read"},
		}
		if err := (FileStore{}).Write(location, stale); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		token, err := init.EnsureToken(context.Background(), location)
		if err != nil {
			t.Fatalf("EnsureToken failed: %v", err)
		}

		if gotGrant != "refresh_token" {
			t.Errorf("expected a refresh grant, got %q", gotGrant)
		}
		if token != "AT2" {
			t.Errorf("expected refreshed access token AT2, got %q", token)
		}

		rec, err := FileStore{}.Read(location)
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}
		if rec.RefreshToken != "RT1" {
			t.Errorf("expected the prior refresh token to be retained, got %q", rec.RefreshToken)
		}
		if strings.Join(rec.Scopes, " ") != "user-top-read" {
			t.Errorf("expected the cached scope to be retained, got %v", rec.Scopes)
		}
		if !rec.IssuedAt.Equal(now) {
			t.Errorf("expected issued_at advanced to %v, got %v", now, rec.IssuedAt)
		}
	})

	t.Run("Scope Upgrade Reauthorizes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if grant := r.PostForm.Get("grant_type"); grant != "authorization_code" {
				t.Errorf("expected an authorization_code grant, got %q", grant)
			}
			fmt.Fprint(w, `{"access_token":"AT3","refresh_token":"RT3","scope":"user-top-read user-modify-playback-state"}`)
		}))
		defer server.Close()

		creds := testCredentials()
		creds.Scopes = []string{"user-top-read", "user-modify-playback-state"}
		session := NewSession(creds,
			WithEndpoints(server.URL, server.URL),
			WithPrompt(strings.NewReader("another_code\n"), &bytes.Buffer{}),
		)
		init := NewInitializer(session, WithClock(fixedClock(now)), WithoutBrowser())

		location := FileStore{}.Resolve(t.TempDir(), "alice")
		narrow := &TokenRecord{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			IssuedAt:     now.Add(-time.Minute),
			Scopes:       []string{"user-top-read"},
		}
		if err := (FileStore{}).Write(location, narrow); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		token, err := init.EnsureToken(context.Background(), location)
		if err != nil {
			t.Fatalf("EnsureToken failed: %v", err)
		}

		if token != "AT3" {
			t.Errorf("expected new access token AT3, got %q", token)
		}

		rec, _ := FileStore{}.Read(location)
		if !rec.HasScope(creds.Scopes) {
			t.Errorf("expected the cached record to carry the wider scope, got %v", rec.Scopes)
		}
	})

	t.Run("Valid Token Reused Without Network", func(t *testing.T) {
		counter := &internaltest.CountingHandler{Handler: func(w http.ResponseWriter, r *http.Request) {
			t.Error("no token request should be made for a valid cached token")
		}}
		server := httptest.NewServer(counter)
		defer server.Close()

		creds := testCredentials()
		creds.Scopes = []string{"user-top-read"}
		session := NewSession(creds, WithEndpoints(server.URL, server.URL))
		init := NewInitializer(session, WithClock(fixedClock(now)))

		location := FileStore{}.Resolve(t.TempDir(), "alice")
		fresh := &TokenRecord{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			IssuedAt:     now.Add(-time.Minute),
			Scopes:       []string{"user-top-read", "playlist-read-private"},
		}
		if err := (FileStore{}).Write(location, fresh); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		token, err := init.EnsureToken(context.Background(), location)
		if err != nil {
			t.Fatalf("EnsureToken failed: %v", err)
		}

		if token != "AT1" {
			t.Errorf("expected the cached access token, got %q", token)
		}
		if counter.Hits != 0 {
			t.Errorf("expected no token requests, got %d", counter.Hits)
		}

		rec, _ := FileStore{}.Read(location)
		if rec.AccessToken != "AT1" || !rec.IssuedAt.Equal(fresh.IssuedAt) {
			t.Errorf("expected the record unchanged, got %+v", rec)
		}
	})

	t.Run("Idempotent Across Calls", func(t *testing.T) {
		session := NewSession(testCredentials())
		init := NewInitializer(session, WithClock(fixedClock(now)))

		location := FileStore{}.Resolve(t.TempDir(), "alice")
		fresh := &TokenRecord{AccessToken: "AT1", RefreshToken: "RT1", IssuedAt: now}
		if err := (FileStore{}).Write(location, fresh); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		for i := 0; i < 3; i++ {
			token, err := init.EnsureToken(context.Background(), location)
			if err != nil {
				t.Fatalf("call %d failed: %v", i, err)
			}
			if token != "AT1" {
				t.Errorf("call %d: expected AT1, got %q", i, token)
			}
		}
	})

	t.Run("Corrupt Cache Fails Fast", func(t *testing.T) {
		session := NewSession(testCredentials(),
			WithPrompt(strings.NewReader("should_not_be_read\n"), &bytes.Buffer{}),
		)
		init := NewInitializer(session, WithClock(fixedClock(now)), WithoutBrowser())

		location := filepath.Join(t.TempDir(), "u.cache")
		if err := os.WriteFile(location, []byte("only\ntwo\n"), 0600); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		_, err := init.EnsureToken(context.Background(), location)
		if !errors.Is(err, shared.ErrCacheCorrupt) {
			t.Errorf("expected ErrCacheCorrupt, got %v", err)
		}
	})

	t.Run("Expired Without Refresh Token", func(t *testing.T) {
		session := NewSession(testCredentials())
		init := NewInitializer(session, WithClock(fixedClock(now)))

		location := FileStore{}.Resolve(t.TempDir(), "alice")
		stale := &TokenRecord{AccessToken: "AT1", IssuedAt: now.Add(-2 * time.Hour)}
		if err := (FileStore{}).Write(location, stale); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		_, err := init.EnsureToken(context.Background(), location)
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("Missing Redirect URI", func(t *testing.T) {
		_, err := Init(context.Background(), InitOptions{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		t.Setenv(shared.EnvClientID, "")
		t.Setenv(shared.EnvClientSecret, "")

		_, err := Init(context.Background(), InitOptions{RedirectURI: "http://localhost:8080/callback"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Environment Fallback With Cached Token", func(t *testing.T) {
		t.Setenv(shared.EnvClientID, "env_client_id")
		t.Setenv(shared.EnvClientSecret, "env_client_secret")

		cacheDir := t.TempDir()
		location := FileStore{}.Resolve(cacheDir, "alice")
		fresh := &TokenRecord{AccessToken: "AT1", RefreshToken: "RT1", IssuedAt: time.Now()}
		if err := (FileStore{}).Write(location, fresh); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		token, err := Init(context.Background(), InitOptions{
			RedirectURI: "http://localhost:8080/callback",
			User:        "alice",
			CacheDir:    cacheDir,
			NoBrowser:   true,
		})
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		if token != "AT1" {
			t.Errorf("expected the cached token, got %q", token)
		}
	})
}
