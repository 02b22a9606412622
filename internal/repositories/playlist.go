package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// PlaylistRepository caches playlist metadata in sqlite.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a PlaylistRepository over db.
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Upsert inserts the playlist or, when its Spotify ID is already cached,
// updates the cached metadata in place.
func (r *PlaylistRepository) Upsert(p CachedPlaylist) error {
	if p.SpotifyID == "" {
		return fmt.Errorf("playlist missing spotify id")
	}

	now := time.Now()

	query := `
		INSERT INTO playlists (id, spotify_id, owner_id, name, description, track_count, public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			description = excluded.description,
			track_count = excluded.track_count,
			public = excluded.public,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		newRowID(), p.SpotifyID, p.OwnerID, p.Name, p.Description, p.TrackCount, p.Public, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to cache playlist: %w", err)
	}

	return nil
}

// GetBySpotifyID retrieves a cached playlist by its Spotify ID.
func (r *PlaylistRepository) GetBySpotifyID(spotifyID string) (*CachedPlaylist, error) {
	query := `
		SELECT id, spotify_id, owner_id, name, description, track_count, public, created_at, updated_at
		FROM playlists
		WHERE spotify_id = ?
	`

	var p CachedPlaylist
	err := r.db.QueryRow(query, spotifyID).Scan(
		&p.ID, &p.SpotifyID, &p.OwnerID, &p.Name, &p.Description, &p.TrackCount, &p.Public, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err, "playlist "+spotifyID)
	}

	return &p, nil
}

// List returns all cached playlists, most recently updated first.
func (r *PlaylistRepository) List() ([]CachedPlaylist, error) {
	query := `
		SELECT id, spotify_id, owner_id, name, description, track_count, public, created_at, updated_at
		FROM playlists
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []CachedPlaylist
	for rows.Next() {
		var p CachedPlaylist
		if err := rows.Scan(
			&p.ID, &p.SpotifyID, &p.OwnerID, &p.Name, &p.Description, &p.TrackCount, &p.Public, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	return playlists, rows.Err()
}

// Delete removes a cached playlist by its Spotify ID.
func (r *PlaylistRepository) Delete(spotifyID string) error {
	result, err := r.db.Exec("DELETE FROM playlists WHERE spotify_id = ?", spotifyID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: playlist %s", ErrNotFound, spotifyID)
	}

	return nil
}
