package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Me fetches the current user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.User(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// Top fetches the user's top tracks or artists.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	timeRange := cmd.String("time-range")
	limit := int(cmd.Int("limit"))
	offset := int(cmd.Int("offset"))

	var data map[string]any
	if cmd.Name == "artists" {
		data, err = api.TopArtists(ctx, timeRange, limit, offset)
	} else {
		data, err = api.TopTracks(ctx, timeRange, limit, offset)
	}
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// TracksByID fetches up to 50 tracks by ID.
func (r *Runner) TracksByID(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.Tracks(ctx, cmd.StringSlice("id"))
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// ArtistsByID fetches up to 50 artists by ID.
func (r *Runner) ArtistsByID(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.Artists(ctx, cmd.StringSlice("id"))
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// Recommend fetches recommendations seeded by artists, genres, and tracks.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.Recommendations(ctx,
		int(cmd.Int("limit")),
		cmd.StringSlice("artist"),
		cmd.StringSlice("genre"),
		cmd.StringSlice("track"),
	)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// Genres fetches the available genre seeds.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.GenreSeeds(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// libraryCommand covers profile, top items, lookups, and recommendations
func libraryCommand(r *Runner) *cli.Command {
	prettyFlag := &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"}
	topFlags := []cli.Flag{
		&cli.StringFlag{Name: "time-range", Usage: "long_term, medium_term, or short_term"},
		&cli.IntFlag{Name: "limit", Usage: "Maximum items to return"},
		&cli.IntFlag{Name: "offset", Usage: "Index to start from"},
		prettyFlag,
	}
	idFlags := []cli.Flag{
		&cli.StringSliceFlag{Name: "id", Usage: "Spotify ID (repeatable, max 50)", Required: true},
		prettyFlag,
	}

	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Profile, top items, lookups, and recommendations",
		Commands: []*cli.Command{
			{
				Name:   "me",
				Usage:  "Fetch the current user's profile",
				Flags:  []cli.Flag{prettyFlag},
				Action: r.Me,
			},
			{
				Name:  "top",
				Usage: "Fetch the user's top tracks or artists",
				Commands: []*cli.Command{
					{Name: "tracks", Usage: "Top tracks", Flags: topFlags, Action: r.Top},
					{Name: "artists", Usage: "Top artists", Flags: topFlags, Action: r.Top},
				},
			},
			{
				Name:   "tracks",
				Usage:  "Fetch tracks by ID",
				Flags:  idFlags,
				Action: r.TracksByID,
			},
			{
				Name:   "artists",
				Usage:  "Fetch artists by ID",
				Flags:  idFlags,
				Action: r.ArtistsByID,
			},
			{
				Name:    "recommend",
				Aliases: []string{"recs"},
				Usage:   "Fetch recommendations from seed artists, genres, and tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum tracks to return (max 100)"},
					&cli.StringSliceFlag{Name: "artist", Usage: "Seed artist ID (repeatable)"},
					&cli.StringSliceFlag{Name: "genre", Usage: "Seed genre (repeatable)"},
					&cli.StringSliceFlag{Name: "track", Usage: "Seed track ID (repeatable)"},
					prettyFlag,
				},
				Action: r.Recommend,
			},
			{
				Name:   "genres",
				Usage:  "List the available genre seeds",
				Flags:  []cli.Flag{prettyFlag},
				Action: r.Genres,
			},
		},
	}
}
