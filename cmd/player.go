package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// PlayerStatus fetches the current playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := api.Playback(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// PlayerQueue adds a track URI to the playback queue.
func (r *Runner) PlayerQueue(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := api.QueueTrack(ctx, cmd.String("uri"))
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", result)
}

// PlayerPause pauses playback on the active device.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := api.PausePlayback(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", result)
}

// playerCommand controls playback on the user's active device
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Playback state and controls (requires Spotify Premium)",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the current playback state",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.PlayerStatus,
			},
			{
				Name:  "queue",
				Usage: "Add a track URI to the playback queue",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Usage: "Track URI to queue", Required: true},
				},
				Action: r.PlayerQueue,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlayerPause,
			},
		},
	}
}
