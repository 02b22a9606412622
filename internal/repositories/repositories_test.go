package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/spt/internal/models"
	"github.com/desertthunder/spt/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func samplePlaylist() CachedPlaylist {
	return CachedPlaylist{
		SpotifyID:   "pl123",
		OwnerID:     "user1",
		Name:        "Morning Mix",
		Description: "wake up",
		TrackCount:  12,
		Public:      true,
	}
}

func sampleTrack() CachedTrack {
	return CachedTrack{
		SpotifyID:  "tr123",
		PlaylistID: "pl123",
		Title:      "Song One",
		Artist:     "Artist One",
		Album:      "Album One",
		DurationMS: 215000,
		URI:        "spotify:track:tr123",
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Upsert And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Upsert(samplePlaylist()); err != nil {
			t.Fatalf("failed to upsert playlist: %v", err)
		}

		got, err := repo.GetBySpotifyID("pl123")
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		if got.Name != "Morning Mix" {
			t.Errorf("expected name Morning Mix, got %s", got.Name)
		}
		if got.TrackCount != 12 {
			t.Errorf("expected 12 tracks, got %d", got.TrackCount)
		}
		if got.ID == "" {
			t.Error("row ID should be assigned on insert")
		}
	})

	t.Run("Upsert Updates In Place", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Upsert(samplePlaylist()); err != nil {
			t.Fatalf("failed to upsert playlist: %v", err)
		}

		updated := samplePlaylist()
		updated.Name = "Evening Mix"
		updated.TrackCount = 20
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("failed to upsert updated playlist: %v", err)
		}

		got, err := repo.GetBySpotifyID("pl123")
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if got.Name != "Evening Mix" || got.TrackCount != 20 {
			t.Errorf("expected updated fields, got %+v", got)
		}

		all, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected a single row after upsert, got %d", len(all))
		}
	})

	t.Run("Upsert Requires Spotify ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Upsert(CachedPlaylist{Name: "nameless"}); err == nil {
			t.Error("expected an error for a missing spotify id")
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		_, err := repo.GetBySpotifyID("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Upsert(samplePlaylist()); err != nil {
			t.Fatalf("failed to upsert playlist: %v", err)
		}

		if err := repo.Delete("pl123"); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		if err := repo.Delete("pl123"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	t.Run("Upsert And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Upsert(sampleTrack()); err != nil {
			t.Fatalf("failed to upsert track: %v", err)
		}

		got, err := repo.GetBySpotifyID("tr123")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if got.Title != "Song One" || got.Artist != "Artist One" {
			t.Errorf("unexpected track: %+v", got)
		}
		if got.DurationMS != 215000 {
			t.Errorf("expected duration 215000, got %d", got.DurationMS)
		}
	})

	t.Run("Upsert Requires Spotify ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Upsert(CachedTrack{Title: "nameless"}); err == nil {
			t.Error("expected an error for a missing spotify id")
		}
	})

	t.Run("ListByPlaylist", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		first := sampleTrack()
		second := sampleTrack()
		second.SpotifyID = "tr456"
		second.Title = "Song Two"
		other := sampleTrack()
		other.SpotifyID = "tr789"
		other.PlaylistID = "pl999"

		for _, tr := range []CachedTrack{first, second, other} {
			if err := repo.Upsert(tr); err != nil {
				t.Fatalf("failed to upsert track: %v", err)
			}
		}

		tracks, err := repo.ListByPlaylist("pl123")
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if len(tracks) != 2 {
			t.Errorf("expected 2 tracks for pl123, got %d", len(tracks))
		}
	})
}

func TestConverters(t *testing.T) {
	t.Run("FromPlaylist", func(t *testing.T) {
		playlist := models.Playlist{
			ID:          "pl123",
			Name:        "Morning Mix",
			Description: "wake up",
			Owner:       models.Owner{ID: "user1"},
			Public:      true,
		}

		row := FromPlaylist(playlist)

		if row.SpotifyID != "pl123" || row.OwnerID != "user1" {
			t.Errorf("unexpected row: %+v", row)
		}
		if row.Name != "Morning Mix" || !row.Public {
			t.Errorf("unexpected row: %+v", row)
		}
	})

	t.Run("FromTrack", func(t *testing.T) {
		track := models.Track{
			ID:         "tr123",
			Name:       "Song One",
			Artists:    []models.Artist{{Name: "Artist One"}, {Name: "Artist Two"}},
			Album:      models.Album{Name: "Album One"},
			DurationMS: 215000,
			URI:        "spotify:track:tr123",
		}

		row := FromTrack(track, "pl123")

		if row.SpotifyID != "tr123" || row.PlaylistID != "pl123" {
			t.Errorf("unexpected row: %+v", row)
		}
		if row.Artist != "Artist One" {
			t.Errorf("expected the primary artist, got %s", row.Artist)
		}
	})
}
