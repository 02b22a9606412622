package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spt/internal/auth"
	"github.com/desertthunder/spt/internal/client"
	"github.com/desertthunder/spt/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	input  io.Reader
	api    *client.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
	API    *client.Client
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
		api:    opts.API,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistCommand, libraryCommand, playerCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// initOptions assembles auth options from config and per-command flags.
func (r *Runner) initOptions(cmd *cli.Command) auth.InitOptions {
	opts := auth.InitOptions{
		RedirectURI:  r.config.Credentials.RedirectURI,
		ClientID:     r.config.Credentials.ClientID,
		ClientSecret: r.config.Credentials.ClientSecret,
		Scope:        r.config.Credentials.Scope,
		User:         r.config.Cache.User,
		CacheDir:     r.config.Cache.Dir,
		Input:        r.input,
		Output:       r.output,
		Logger:       r.logger,
	}

	if cmd != nil {
		if v := cmd.String("scope"); v != "" {
			opts.Scope = v
		}
		if v := cmd.String("user"); v != "" {
			opts.User = v
		}
		if v := cmd.String("cache-dir"); v != "" {
			opts.CacheDir = v
		}
		if cmd.Bool("no-browser") {
			opts.NoBrowser = true
		}
	}

	return opts
}

// ensureClient returns an API client bearing a valid access token,
// running the token lifecycle (reuse, refresh, or reauthorize) first.
func (r *Runner) ensureClient(ctx context.Context, cmd *cli.Command) (*client.Client, error) {
	if r.api != nil {
		return r.api, nil
	}

	token, err := auth.Init(ctx, r.initOptions(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	return client.New(token, client.WithClientLogger(r.logger)), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
