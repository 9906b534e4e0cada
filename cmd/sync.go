package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/tasks"
)

// Sync fetches fixtures and standings, caching the fixtures for offline use.
//
// A partial failure still caches whatever half succeeded and is reported as an error.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	season := r.season(cmd)
	r.logger.Info("starting sync", "season", season)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.printProgress(progress, done)

	result, err := r.refresher.Refresh(ctx, season, progress)
	close(progress)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writeRefreshSummary(result)
	return err
}

// Export refreshes fixtures and standings and writes them, plus optional badges, to a directory.
//
// A half that failed to refresh is skipped and listed in the export manifest.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	season := r.season(cmd)
	r.logger.Info("starting export", "season", season, "format", format)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go r.printProgress(progress, done)

	result, refreshErr := r.refresher.Refresh(ctx, season, progress)
	if result == nil {
		close(progress)
		<-done
		return refreshErr
	}
	if refreshErr != nil {
		r.logger.Warn("exporting partial refresh", "error", refreshErr)
	}

	exported, err := r.refresher.Export(ctx, progress, result, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		Favorites:  r.favoriteSet(),
		Badges:     cmd.Bool("badges"),
		NumWorkers: int(cmd.Int("workers")),
		Client:     r.httpClient,
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writeRefreshSummary(result)
	r.writePlain("Directory: %s\n", exported.OutputDirectory)
	for _, f := range exported.Files {
		r.writePlain("  - %s\n", f)
	}

	if len(exported.Badges) > 0 {
		failed := 0
		for _, b := range exported.Badges {
			if b.Error != nil {
				failed++
			}
		}
		r.writePlain("Badges: %d downloaded, %d failed\n", len(exported.Badges)-failed, failed)
	}
	r.writePlain("Manifest: %s\n", exported.ManifestPath)
	return nil
}

func (r *Runner) writeRefreshSummary(result *tasks.RefreshResult) {
	r.writePlain("Season: %s\n", result.Season)

	if result.MatchesErr != nil {
		r.writePlain("Fixtures: failed (%v)\n", result.MatchesErr)
	} else {
		r.writePlain("Fixtures: %d\n", len(result.Matches))
	}

	switch {
	case result.StandingsErr != nil:
		r.writePlain("Standings: failed (%v)\n", result.StandingsErr)
	case result.Simulated:
		r.writePlain("Standings: %d teams (simulated)\n", len(result.Standings))
	default:
		r.writePlain("Standings: %d teams\n", len(result.Standings))
	}
}
