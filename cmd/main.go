package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/favorites"
	"github.com/desertthunder/courtside/internal/repositories"
	"github.com/desertthunder/courtside/internal/services"
	"github.com/desertthunder/courtside/internal/session"
	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/theme"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := run(context.Background(), logger, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented", "error", err)
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// run wires one instance of every store and service and hands them to the CLI.
func run(ctx context.Context, logger *log.Logger, args []string) error {
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, config.Log.LogLevel())

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	defer db.Close()

	prefs := repositories.NewPreferenceRepository(db)
	cache := repositories.NewMatchCacheRepository(db)

	favs, err := favorites.Load(prefs, logger)
	if err != nil {
		return err
	}
	defer favs.Close()

	provider, err := theme.Load(prefs, theme.Resolve(config.UI.Theme))
	if err != nil {
		logger.Warn("failed to read theme preference", "error", err)
	}

	httpClient := &http.Client{Timeout: config.SportsDB.Timeout()}
	auth := services.NewAuthService(config.Auth, httpClient, logger)
	sess := session.NewManager(prefs, auth, logger)
	if _, err := sess.Load(); err != nil && !errors.Is(err, shared.ErrNotAuthenticated) {
		logger.Warn("failed to restore session", "error", err)
	}

	gateway := services.NewSportsDBService(services.SportsDBOptions{
		Config: config.SportsDB,
		Client: httpClient,
		Logger: logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Gateway:    gateway,
		Profiles:   auth,
		API:        services.NewAPIService(gateway.BaseURL(), httpClient),
		Favorites:  favs,
		Theme:      provider,
		Session:    sess,
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "courtside",
		Usage:    "NBA fixtures, standings and favorites in your terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	return app.Run(ctx, args)
}
