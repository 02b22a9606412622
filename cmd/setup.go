package main

import (
	"context"

	"github.com/desertthunder/spt/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes an example config.toml to the working directory.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Created %s\n", path)
	r.writePlainln("Fill in your Spotify client credentials, or set them via SPOTIFY_ID and SPOTIFY_SECRET.")

	return nil
}

// SetupDatabase creates the local metadata cache database and applies
// any pending migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if v := cmd.String("path"); v != "" {
		path = v
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.writePlain("✓ Rolled back latest migration on %s\n", path)
		return nil
	}

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	r.writePlain("✓ Database ready at %s\n", path)

	return nil
}

// setupCommand scaffolds local configuration and storage
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Scaffold configuration and local storage",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Destination path", Value: "config.toml"},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "db",
				Usage: "Create the metadata cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Database file path (overrides config)"},
					&cli.BoolFlag{Name: "rollback", Usage: "Roll back the latest migration instead"},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
