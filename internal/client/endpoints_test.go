package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/spt/internal/shared"
	internaltest "github.com/desertthunder/spt/internal/testing"
)

func TestEndpointPaths(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	api := newTestClient(t, server)
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{
			"Playlist",
			func() error { _, err := api.Playlist(ctx, "p1"); return err },
			http.MethodGet, "/playlists/p1", "",
		},
		{
			"Playlist Tracks With Pagination",
			func() error { _, err := api.PlaylistTracks(ctx, "p1", 20, 40); return err },
			http.MethodGet, "/playlists/p1/tracks", "limit=20&offset=40",
		},
		{
			"Playlist Tracks Without Pagination",
			func() error { _, err := api.PlaylistTracks(ctx, "p1", 0, 0); return err },
			http.MethodGet, "/playlists/p1/tracks", "",
		},
		{
			"User Playlists",
			func() error { _, err := api.UserPlaylists(ctx, 50, 0); return err },
			http.MethodGet, "/me/playlists", "limit=50",
		},
		{
			"Create Playlist",
			func() error { _, err := api.CreatePlaylist(ctx, "u1", "Mix", PlaylistDetails{}); return err },
			http.MethodPost, "/users/u1/playlists", "",
		},
		{
			"Top Artists",
			func() error { _, err := api.TopArtists(ctx, "long_term", 0, 0); return err },
			http.MethodGet, "/me/top/artists", "time_range=long_term",
		},
		{
			"Genre Seeds",
			func() error { _, err := api.GenreSeeds(ctx); return err },
			http.MethodGet, "/recommendations/available-genre-seeds", "",
		},
		{
			"Tracks",
			func() error { _, err := api.Tracks(ctx, []string{"t1", "t2"}); return err },
			http.MethodGet, "/tracks", "ids=t1%2Ct2",
		},
		{
			"Artists",
			func() error { _, err := api.Artists(ctx, []string{"a1"}); return err },
			http.MethodGet, "/artists", "ids=a1",
		},
		{
			"Playback",
			func() error { _, err := api.Playback(ctx); return err },
			http.MethodGet, "/me/player", "",
		},
		{
			"Recommendations",
			func() error {
				_, err := api.Recommendations(ctx, 10, []string{"a1", "a2"}, []string{"indie"}, nil)
				return err
			},
			http.MethodGet, "/recommendations", "limit=10&seed_artists=a1%2Ca2&seed_genres=indie",
		},
		{
			"Current User",
			func() error { _, err := api.User(ctx); return err },
			http.MethodGet, "/me", "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if gotMethod != tc.method {
				t.Errorf("expected method %s, got %s", tc.method, gotMethod)
			}
			if gotPath != tc.path {
				t.Errorf("expected path %s, got %s", tc.path, gotPath)
			}
			if gotQuery != tc.query {
				t.Errorf("expected query %q, got %q", tc.query, gotQuery)
			}
		})
	}
}

func TestBatchIDLimit(t *testing.T) {
	tooMany := make([]string, maxTrackIDs+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("id%d", i)
	}

	t.Run("Tracks Rejects Before Any Request", func(t *testing.T) {
		counter := &internaltest.CountingHandler{Handler: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}}
		server := httptest.NewServer(counter)
		defer server.Close()

		api := newTestClient(t, server)
		_, err := api.Tracks(context.Background(), tooMany)
		if !errors.Is(err, shared.ErrTooManyIDs) {
			t.Errorf("expected ErrTooManyIDs, got %v", err)
		}
		if counter.Hits != 0 {
			t.Errorf("expected no requests, got %d", counter.Hits)
		}
	})

	t.Run("Artists Rejects Before Any Request", func(t *testing.T) {
		counter := &internaltest.CountingHandler{Handler: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}}
		server := httptest.NewServer(counter)
		defer server.Close()

		api := newTestClient(t, server)
		_, err := api.Artists(context.Background(), tooMany)
		if !errors.Is(err, shared.ErrTooManyIDs) {
			t.Errorf("expected ErrTooManyIDs, got %v", err)
		}
		if counter.Hits != 0 {
			t.Errorf("expected no requests, got %d", counter.Hits)
		}
	})

	t.Run("Exactly Fifty Accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		api := newTestClient(t, server)
		if _, err := api.Tracks(context.Background(), tooMany[:maxTrackIDs]); err != nil {
			t.Errorf("expected 50 ids to be accepted, got %v", err)
		}
	})
}

func TestPlaylistDetailsBody(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	t.Run("All Fields", func(t *testing.T) {
		details := PlaylistDetails{
			Name:          "Mix",
			Public:        boolPtr(true),
			Collaborative: boolPtr(false),
			Description:   "a mix",
		}

		body := details.body()

		if body["name"] != "Mix" || body["description"] != "a mix" {
			t.Errorf("unexpected body: %v", body)
		}
		if body["public"] != "true" {
			t.Errorf("expected public \"true\", got %v", body["public"])
		}
		if body["collaborative"] != "false" {
			t.Errorf("expected collaborative \"false\", got %v", body["collaborative"])
		}
	})

	t.Run("Empty Fields Omitted", func(t *testing.T) {
		body := PlaylistDetails{}.body()
		if len(body) != 0 {
			t.Errorf("expected an empty body, got %v", body)
		}
	})
}

func TestEndpointValidation(t *testing.T) {
	api := New("token")

	t.Run("Add Items Requires URIs", func(t *testing.T) {
		_, err := api.AddPlaylistItems(context.Background(), "p1", nil, -1)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Create Playlist Requires Name", func(t *testing.T) {
		_, err := api.CreatePlaylist(context.Background(), "u1", "", PlaylistDetails{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
