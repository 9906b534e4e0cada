package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/tasks"
	"github.com/desertthunder/courtside/internal/ui"
)

// TUI launches the interactive terminal client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireGateway(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	shared.SetLogLevel(fileLogger, r.config.Log.LogLevel())
	r.SetLogger(fileLogger)

	var cached []models.Match
	if r.cache != nil {
		if cached, err = r.cache.List(); err != nil {
			fileLogger.Warn("failed to read cached fixtures", "error", err)
			cached = nil
		}
	}

	model := ui.NewModel(ctx, ui.Options{
		Refresher: tasks.NewRefresher(r.gateway, r.cache, fileLogger),
		Favorites: r.favorites,
		Theme:     r.theme,
		Logger:    fileLogger,
		Season:    r.config.SportsDB.Season,
		Matches:   cached,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
