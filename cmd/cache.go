package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/spt/internal/models"
	"github.com/desertthunder/spt/internal/repositories"
	"github.com/desertthunder/spt/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata cache (run `spt setup db` first): %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return db, nil
}

// CacheSync fetches a playlist and its tracks from the API and persists
// their metadata to the local database.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlistID := cmd.String("id")

	raw, err := api.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}
	var playlist models.Playlist
	if err := models.Decode(raw, &playlist); err != nil {
		return err
	}

	playlists := repositories.NewPlaylistRepository(db)
	if err := playlists.Upsert(repositories.FromPlaylist(playlist)); err != nil {
		return err
	}

	rawTracks, err := api.PlaylistTracks(ctx, playlistID, 100, 0)
	if err != nil {
		return err
	}
	var page models.Page[models.PlaylistTrack]
	if err := models.Decode(rawTracks, &page); err != nil {
		return err
	}

	tracks := repositories.NewTrackRepository(db)
	for _, item := range page.Items {
		if item.Track.ID == "" {
			continue
		}
		if err := tracks.Upsert(repositories.FromTrack(item.Track, playlist.ID)); err != nil {
			return err
		}
	}

	r.writePlain("✓ Cached %s with %d tracks\n", playlist.Name, len(page.Items))

	return nil
}

// CacheList lists cached playlists, or a cached playlist's tracks.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if playlistID := cmd.String("id"); playlistID != "" {
		tracks, err := repositories.NewTrackRepository(db).ListByPlaylist(playlistID)
		if err != nil {
			return err
		}
		for _, t := range tracks {
			r.writePlain("%s  %s — %s (%s)\n", t.SpotifyID, t.Title, t.Artist, t.Album)
		}
		return nil
	}

	playlists, err := repositories.NewPlaylistRepository(db).List()
	if err != nil {
		return err
	}

	for _, p := range playlists {
		r.writePlain("%s  %s (%d tracks, updated %s)\n",
			p.SpotifyID, p.Name, p.TrackCount, p.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// CacheDelete removes a cached playlist by Spotify ID.
func (r *Runner) CacheDelete(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlistID := cmd.String("id")
	if err := repositories.NewPlaylistRepository(db).Delete(playlistID); err != nil {
		return err
	}

	r.writePlain("✓ Removed %s from the local cache\n", playlistID)

	return nil
}

// cacheCommand manages the local playlist metadata cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local playlist metadata cache",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch a playlist and cache its metadata locally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
				},
				Action: r.CacheSync,
			},
			{
				Name:  "list",
				Usage: "List cached playlists, or a cached playlist's tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID to list tracks for"},
				},
				Action: r.CacheList,
			},
			{
				Name:  "delete",
				Usage: "Remove a cached playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
				},
				Action: r.CacheDelete,
			},
		},
	}
}
