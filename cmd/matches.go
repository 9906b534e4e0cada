package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

const eventPageURL = "https://www.thesportsdb.com/event/"

// MatchesList prints upcoming matches, marking favorites.
func (r *Runner) MatchesList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	matches, err := r.loadMatches(ctx, cmd.Bool("offline"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(matches, cmd.Bool("pretty"))
	}

	if len(matches) == 0 {
		return r.writePlain("No upcoming matches\n")
	}

	data, err := formatter.RenderFixtures(format, &formatter.FixtureList{
		Title:     "Upcoming Matches",
		Matches:   matches,
		Favorites: r.favoriteSet(),
	})
	if err != nil {
		return fmt.Errorf("failed to render fixtures: %w", err)
	}
	return r.writeRendered(data)
}

// MatchesShow prints every known detail of a single match.
//
// When the API cannot be reached the last synced copy is shown instead.
func (r *Runner) MatchesShow(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: match id is required", shared.ErrMissingArgument)
	}

	match, err := r.findMatch(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(match, true); err != nil {
			return err
		}
	} else {
		favorite := r.favorites != nil && r.favorites.IsFavorite(match.ID)
		if err := r.writeBytes(formatter.MatchDetails(*match, favorite)); err != nil {
			return err
		}
	}

	if cmd.Bool("open") {
		url := eventPageURL + match.ID
		r.logger.Info("opening match page", "url", url)
		if err := r.openURL(url); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

// loadMatches fetches upcoming fixtures and refreshes the offline cache, or reads the cache alone.
func (r *Runner) loadMatches(ctx context.Context, offline bool) ([]models.Match, error) {
	if offline {
		if r.cache == nil {
			return nil, fmt.Errorf("%w: match cache not initialized", shared.ErrServiceUnavailable)
		}
		return r.cache.List()
	}

	if err := r.requireGateway(); err != nil {
		return nil, err
	}

	matches, err := r.gateway.UpcomingMatches(ctx)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Replace(matches); err != nil {
			r.logger.Warn("failed to cache fixtures", "error", err)
		}
	}
	return matches, nil
}

func (r *Runner) findMatch(ctx context.Context, id string) (*models.Match, error) {
	if r.gateway == nil && r.cache == nil {
		return nil, r.requireGateway()
	}

	var err error
	if r.gateway != nil {
		var match *models.Match
		match, err = r.gateway.MatchDetails(ctx, id)
		if err == nil || errors.Is(err, shared.ErrMatchNotFound) || r.cache == nil {
			return match, err
		}
	}

	cached, cacheErr := r.cache.Get(id)
	if cacheErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, cacheErr
	}
	if err != nil {
		r.logger.Warn("showing last synced copy", "match", id, "error", err)
	}
	return cached, nil
}

// favoriteSet returns the favorite ids as a lookup table for the formatters.
func (r *Runner) favoriteSet() map[string]bool {
	if r.favorites == nil {
		return nil
	}

	ids := r.favorites.All()
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// writeRendered writes formatter output, ending it with a newline.
func (r *Runner) writeRendered(data []byte) error {
	if err := r.writeBytes(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		return r.writePlain("\n")
	}
	return nil
}
