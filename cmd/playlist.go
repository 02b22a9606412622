package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spt/internal/client"
	"github.com/desertthunder/spt/internal/formatter"
	"github.com/desertthunder/spt/internal/models"
	"github.com/urfave/cli/v3"
)

// PlaylistGet fetches a playlist by ID.
func (r *Runner) PlaylistGet(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.Playlist(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// PlaylistTracks fetches a playlist's tracks with optional limit/offset.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.PlaylistTracks(ctx, cmd.String("id"), int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// PlaylistList lists the current user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.UserPlaylists(ctx, int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	var page models.Page[models.Playlist]
	if err := models.Decode(data, &page); err != nil {
		return err
	}

	for _, pl := range page.Items {
		r.writePlain("%s  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount())
	}

	return nil
}

// PlaylistCreate creates a playlist for a user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	details := playlistDetails(cmd)
	data, err := api.CreatePlaylist(ctx, cmd.String("user-id"), cmd.String("name"), details)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// PlaylistFollow follows or unfollows a playlist.
func (r *Runner) PlaylistFollow(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	var result string
	if cmd.Bool("unfollow") {
		result, err = api.UnfollowPlaylist(ctx, cmd.String("id"), cmd.Bool("private"))
	} else {
		result, err = api.FollowPlaylist(ctx, cmd.String("id"), cmd.Bool("private"))
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", result)
}

// PlaylistAdd adds track URIs to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	position := -1
	if cmd.IsSet("position") {
		position = int(cmd.Int("position"))
	}

	data, err := api.AddPlaylistItems(ctx, cmd.String("id"), cmd.StringSlice("uri"), position)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// PlaylistEdit changes a playlist's details.
func (r *Runner) PlaylistEdit(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := api.ChangePlaylistDetails(ctx, cmd.String("id"), playlistDetails(cmd))
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", result)
}

// PlaylistExport writes a playlist's tracks to CSV or Markdown.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")

	raw, err := api.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}
	var playlist models.Playlist
	if err := models.Decode(raw, &playlist); err != nil {
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

	var output []byte
	switch format := cmd.String("format"); format {
	case "csv":
		output, err = formatter.ExportToCSV(page.Items)
	case "markdown", "md":
		output, err = formatter.ExportToMarkdown(playlist, page.Items)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, output, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return r.writePlain("✓ Exported %s to %s\n", playlist.Name, path)
	}

	return r.writePlain("%s", string(output))
}

func playlistDetails(cmd *cli.Command) (details client.PlaylistDetails) {
	details.Name = cmd.String("name")
	details.Description = cmd.String("description")
	if cmd.IsSet("public") {
		v := cmd.Bool("public")
		details.Public = &v
	}
	if cmd.IsSet("collaborative") {
		v := cmd.Bool("collaborative")
		details.Collaborative = &v
	}
	return details
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	idFlag := &cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true}
	outputFlags := []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
	}
	detailFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Playlist name"},
		&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
		&cli.BoolFlag{Name: "collaborative", Usage: "Make the playlist collaborative"},
		&cli.StringFlag{Name: "description", Usage: "Playlist description"},
	}

	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Fetch a playlist by ID",
				Flags:  append([]cli.Flag{idFlag}, outputFlags...),
				Action: r.PlaylistGet,
			},
			{
				Name:  "tracks",
				Usage: "Fetch a playlist's tracks",
				Flags: append([]cli.Flag{
					idFlag,
					&cli.IntFlag{Name: "limit", Usage: "Maximum tracks to return (max 100)"},
					&cli.IntFlag{Name: "offset", Usage: "Index to start from"},
				}, outputFlags...),
				Action: r.PlaylistTracks,
			},
			{
				Name:  "list",
				Usage: "List the current user's playlists",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum playlists to return (max 50)", Value: 50},
					&cli.IntFlag{Name: "offset", Usage: "Index to start from"},
				}, outputFlags...),
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "user-id", Usage: "Owner user ID", Required: true},
				}, append(detailFlags, outputFlags...)...),
				Action: r.PlaylistCreate,
			},
			{
				Name:  "follow",
				Usage: "Follow (or unfollow) a playlist",
				Flags: []cli.Flag{
					idFlag,
					&cli.BoolFlag{Name: "private", Usage: "Follow privately"},
					&cli.BoolFlag{Name: "unfollow", Usage: "Unfollow instead"},
				},
				Action: r.PlaylistFollow,
			},
			{
				Name:  "add",
				Usage: "Add track URIs to a playlist",
				Flags: append([]cli.Flag{
					idFlag,
					&cli.StringSliceFlag{Name: "uri", Usage: "Track URI to add (repeatable)", Required: true},
					&cli.IntFlag{Name: "position", Usage: "Insert position (defaults to the end)"},
				}, outputFlags...),
				Action: r.PlaylistAdd,
			},
			{
				Name:   "edit",
				Usage:  "Change a playlist's details",
				Flags:  append([]cli.Flag{idFlag}, detailFlags...),
				Action: r.PlaylistEdit,
			},
			{
				Name:  "export",
				Usage: "Export a playlist's tracks to CSV or Markdown",
				Flags: []cli.Flag{
					idFlag,
					&cli.StringFlag{Name: "format", Usage: "csv or markdown", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}
