// Endpoint wrappers for the Spotify Web API.
//
// Paths and parameter names follow https://developer.spotify.com/documentation/web-api/reference/
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/spt/internal/shared"
)

// maxTrackIDs is the ids-per-request cap on the batch track and artist endpoints.
const maxTrackIDs = 50

// PlaylistDetails holds the optional fields for playlist creation and
// detail updates. Nil pointers and empty strings are omitted from the
// request body; Public and Collaborative are encoded as the strings
// "true"/"false" the endpoint expects.
type PlaylistDetails struct {
	Name          string
	Public        *bool
	Collaborative *bool
	Description   string
}

func (d PlaylistDetails) body() map[string]any {
	body := map[string]any{}
	if d.Name != "" {
		body["name"] = d.Name
	}
	if d.Public != nil {
		body["public"] = strconv.FormatBool(*d.Public)
	}
	if d.Collaborative != nil {
		body["collaborative"] = strconv.FormatBool(*d.Collaborative)
	}
	if d.Description != "" {
		body["description"] = d.Description
	}
	return body
}

// FollowPlaylist follows the given playlist, privately when private is set.
func (c *Client) FollowPlaylist(ctx context.Context, playlistID string, private bool) (string, error) {
	body := map[string]any{"public": strconv.FormatBool(!private)}
	return c.doMarker(ctx, http.MethodPut, "/playlists/"+playlistID+"/tracks", body)
}

// UnfollowPlaylist unfollows the given playlist.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string, private bool) (string, error) {
	body := map[string]any{"public": strconv.FormatBool(!private)}
	return c.doMarker(ctx, http.MethodDelete, "/playlists/"+playlistID+"/tracks", body)
}

// AddPlaylistItems adds track URIs to a playlist at position, or at the
// end when position is negative.
func (c *Client) AddPlaylistItems(ctx context.Context, playlistID string, uris []string, position int) (map[string]any, error) {
	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: uris", shared.ErrMissingArgument)
	}

	body := map[string]any{"uris": uris}
	if position >= 0 {
		body["position"] = position
	}

	return c.doJSON(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", nil, body)
}

// ChangePlaylistDetails updates a playlist's name, publicity,
// collaborative flag, or description.
func (c *Client) ChangePlaylistDetails(ctx context.Context, playlistID string, details PlaylistDetails) (string, error) {
	return c.doMarker(ctx, http.MethodPut, "/playlists/"+playlistID, details.body())
}

// CreatePlaylist creates a playlist named name for the given user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, details PlaylistDetails) (map[string]any, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	details.Name = name
	return c.doJSON(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, details.body())
}

// Playlist retrieves a playlist by ID.
func (c *Client) Playlist(ctx context.Context, playlistID string) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodGet, "/playlists/"+playlistID, nil, nil)
}

// PlaylistTracks retrieves a playlist's tracks. limit (max 100) and
// offset are passed through when positive.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (map[string]any, error) {
	var query queryParams
	if limit > 0 {
		query = query.add("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query = query.add("offset", strconv.Itoa(offset))
	}

	return c.doJSON(ctx, http.MethodGet, "/playlists/"+playlistID+"/tracks", query, nil)
}

// topItems serves the /me/top/{type} endpoints, which share parameters.
func (c *Client) topItems(ctx context.Context, kind, timeRange string, limit, offset int) (map[string]any, error) {
	var query queryParams
	if timeRange != "" {
		query = query.add("time_range", timeRange)
	}
	if limit > 0 {
		query = query.add("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query = query.add("offset", strconv.Itoa(offset))
	}

	return c.doJSON(ctx, http.MethodGet, "/me/top/"+kind, query, nil)
}

// TopTracks retrieves the user's top tracks. timeRange is one of
// long_term, medium_term, or short_term; empty means the server default.
func (c *Client) TopTracks(ctx context.Context, timeRange string, limit, offset int) (map[string]any, error) {
	return c.topItems(ctx, "tracks", timeRange, limit, offset)
}

// TopArtists retrieves the user's top artists.
func (c *Client) TopArtists(ctx context.Context, timeRange string, limit, offset int) (map[string]any, error) {
	return c.topItems(ctx, "artists", timeRange, limit, offset)
}

// UserPlaylists retrieves the current user's playlists with pagination.
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (map[string]any, error) {
	var query queryParams
	if limit > 0 {
		query = query.add("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query = query.add("offset", strconv.Itoa(offset))
	}

	return c.doJSON(ctx, http.MethodGet, "/me/playlists", query, nil)
}

// GenreSeeds retrieves the available genre seeds for recommendations.
func (c *Client) GenreSeeds(ctx context.Context) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodGet, "/recommendations/available-genre-seeds", nil, nil)
}

// Tracks retrieves multiple tracks by ID (max 50). Over-long id lists are
// rejected before any HTTP call.
func (c *Client) Tracks(ctx context.Context, ids []string) (map[string]any, error) {
	if len(ids) > maxTrackIDs {
		return nil, fmt.Errorf("%w: maximum %d track ids, got %d", shared.ErrTooManyIDs, maxTrackIDs, len(ids))
	}

	query := queryParams{}.add("ids", strings.Join(ids, ","))
	return c.doJSON(ctx, http.MethodGet, "/tracks", query, nil)
}

// Playback retrieves the user's current playback state.
func (c *Client) Playback(ctx context.Context) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodGet, "/me/player", nil, nil)
}

// QueueTrack adds a track URI to the user's playback queue.
func (c *Client) QueueTrack(ctx context.Context, trackURI string) (string, error) {
	query := queryParams{}.add("uri", trackURI)
	return c.doPlayer(ctx, http.MethodPost, "/me/player/queue", query)
}

// PausePlayback pauses the user's playback.
func (c *Client) PausePlayback(ctx context.Context) (string, error) {
	return c.doPlayer(ctx, http.MethodPut, "/me/player/pause", nil)
}

// Recommendations retrieves recommended tracks seeded by artists, genres,
// and tracks. limit (max 100) is passed through when positive.
func (c *Client) Recommendations(ctx context.Context, limit int, artists, genres, tracks []string) (map[string]any, error) {
	var query queryParams
	if limit > 0 {
		query = query.add("limit", strconv.Itoa(limit))
	}
	if len(artists) > 0 {
		query = query.add("seed_artists", strings.Join(artists, ","))
	}
	if len(genres) > 0 {
		query = query.add("seed_genres", strings.Join(genres, ","))
	}
	if len(tracks) > 0 {
		query = query.add("seed_tracks", strings.Join(tracks, ","))
	}

	return c.doJSON(ctx, http.MethodGet, "/recommendations", query, nil)
}

// User retrieves the current authenticated user's profile.
func (c *Client) User(ctx context.Context) (map[string]any, error) {
	return c.doJSON(ctx, http.MethodGet, "/me", nil, nil)
}

// Artists retrieves multiple artists by ID.
func (c *Client) Artists(ctx context.Context, ids []string) (map[string]any, error) {
	if len(ids) > maxTrackIDs {
		return nil, fmt.Errorf("%w: maximum %d artist ids, got %d", shared.ErrTooManyIDs, maxTrackIDs, len(ids))
	}

	query := queryParams{}.add("ids", strings.Join(ids, ","))
	return c.doJSON(ctx, http.MethodGet, "/artists", query, nil)
}
