// package repositories persists fetched playlist and track metadata to a
// local sqlite database so repeated CLI listings work offline.
//
// Rows are keyed by their Spotify ID; caching an already-cached resource
// updates it in place (upsert).
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spt/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound indicates no cached row matched the lookup.
var ErrNotFound = errors.New("not found in local cache")

// CachedPlaylist is a playlist row in the local cache.
type CachedPlaylist struct {
	ID          string
	SpotifyID   string
	OwnerID     string
	Name        string
	Description string
	TrackCount  int
	Public      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CachedTrack is a track row in the local cache, optionally tied to the
// playlist it was fetched through.
type CachedTrack struct {
	ID         string
	SpotifyID  string
	PlaylistID string
	Title      string
	Artist     string
	Album      string
	DurationMS int
	URI        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func newRowID() string {
	return uuid.New().String()
}

func scanErr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("failed to query %s: %w", what, err)
}

// FromPlaylist converts an API playlist into a cache row.
func FromPlaylist(p models.Playlist) CachedPlaylist {
	return CachedPlaylist{
		SpotifyID:   p.ID,
		OwnerID:     p.Owner.ID,
		Name:        p.Name,
		Description: p.Description,
		TrackCount:  p.TrackCount(),
		Public:      p.Public,
	}
}

// FromTrack converts an API track into a cache row tied to playlistID.
func FromTrack(t models.Track, playlistID string) CachedTrack {
	return CachedTrack{
		SpotifyID:  t.ID,
		PlaylistID: playlistID,
		Title:      t.Name,
		Artist:     t.Artist(),
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		URI:        t.URI,
	}
}
