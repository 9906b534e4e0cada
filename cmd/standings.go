package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/standings"
)

// Standings ranks the season's table and prints it.
func (r *Runner) Standings(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.requireGateway(); err != nil {
		return err
	}

	season := r.season(cmd)
	r.logger.Debug("fetching standings", "season", season)

	records, err := r.gateway.Standings(ctx, season)
	if err != nil {
		return err
	}

	report := &formatter.StandingsReport{Season: season, Teams: standings.Rank(records)}
	for _, rec := range records {
		if rec.Simulated {
			report.Simulated = true
			break
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	data, err := formatter.RenderStandings(format, report)
	if err != nil {
		return fmt.Errorf("failed to render standings: %w", err)
	}
	return r.writeRendered(data)
}

// season returns the --season flag, or the configured season.
func (r *Runner) season(cmd *cli.Command) string {
	if s := cmd.String("season"); s != "" {
		return s
	}
	return r.config.SportsDB.Season
}
