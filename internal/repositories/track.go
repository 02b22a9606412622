package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// TrackRepository caches track metadata in sqlite.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a TrackRepository over db.
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts the track or updates the cached metadata when its
// Spotify ID is already present.
func (r *TrackRepository) Upsert(t CachedTrack) error {
	if t.SpotifyID == "" {
		return fmt.Errorf("track missing spotify id")
	}

	now := time.Now()

	query := `
		INSERT INTO tracks (id, spotify_id, playlist_id, title, artist, album, duration_ms, uri, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			playlist_id = excluded.playlist_id,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration_ms = excluded.duration_ms,
			uri = excluded.uri,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		newRowID(), t.SpotifyID, t.PlaylistID, t.Title, t.Artist, t.Album, t.DurationMS, t.URI, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// GetBySpotifyID retrieves a cached track by its Spotify ID.
func (r *TrackRepository) GetBySpotifyID(spotifyID string) (*CachedTrack, error) {
	query := `
		SELECT id, spotify_id, playlist_id, title, artist, album, duration_ms, uri, created_at, updated_at
		FROM tracks
		WHERE spotify_id = ?
	`

	var t CachedTrack
	err := r.db.QueryRow(query, spotifyID).Scan(
		&t.ID, &t.SpotifyID, &t.PlaylistID, &t.Title, &t.Artist, &t.Album, &t.DurationMS, &t.URI, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err, "track "+spotifyID)
	}

	return &t, nil
}

// ListByPlaylist returns the cached tracks tied to a playlist's Spotify ID.
func (r *TrackRepository) ListByPlaylist(playlistID string) ([]CachedTrack, error) {
	query := `
		SELECT id, spotify_id, playlist_id, title, artist, album, duration_ms, uri, created_at, updated_at
		FROM tracks
		WHERE playlist_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []CachedTrack
	for rows.Next() {
		var t CachedTrack
		if err := rows.Scan(
			&t.ID, &t.SpotifyID, &t.PlaylistID, &t.Title, &t.Artist, &t.Album, &t.DurationMS, &t.URI, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}
