package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/shared"
)

// SetupDatabase creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if !cmd.IsSet("config") && r.configPath != "" {
		configPath = r.configPath
	}

	config := r.setupConfig(configPath)
	dbPath := config.Database.Path
	r.logger.Info("initializing database", "path", dbPath)

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create database: %v", shared.ErrStorage, err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("%w: failed to run migrations: %v", shared.ErrStorage, err)
	}
	r.logger.Info("setup complete", "database", dbPath, "config", configPath)

	r.writePlain("✓ Database ready at %s\n", dbPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'courtside sync' to fetch fixtures and standings\n")
	r.writePlain("2. Run 'courtside tui' to browse them interactively\n")
	return nil
}

// setupConfig loads the config at path, writing the template first when the file is missing.
//
// Any failure falls back to the built-in defaults so setup can still create the database.
func (r *Runner) setupConfig(path string) *shared.Config {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}
