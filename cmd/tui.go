package main

import (
	"context"

	"github.com/desertthunder/spt/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	api, err := r.ensureClient(ctx, cmd)
	if err != nil {
		return err
	}

	return ui.Run(ctx, api)
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse your playlists interactively",
		Action: r.TUI,
	}
}
