package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// FavoritesList prints favorite matches found in the last synced fixtures.
//
// It never calls the API, so it works offline.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireFavorites(); err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ids := r.favorites.All()

	matches := []models.Match{}
	if r.cache != nil {
		cached, err := r.cache.List()
		if err != nil {
			return err
		}
		matches = r.favorites.FilterFavorites(cached)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			IDs     []string       `json:"ids"`
			Matches []models.Match `json:"matches"`
		}{ids, matches}, true)
	}

	if len(ids) == 0 {
		return r.writePlain("No favorites yet. Add one with 'courtside favorites toggle <id>'.\n")
	}

	if len(matches) > 0 {
		data, err := formatter.RenderFixtures(format, &formatter.FixtureList{
			Title:     "Favorite Matches",
			Matches:   matches,
			Favorites: r.favoriteSet(),
		})
		if err != nil {
			return fmt.Errorf("failed to render favorites: %w", err)
		}
		if err := r.writeRendered(data); err != nil {
			return err
		}
	}

	if missing := len(ids) - len(matches); missing > 0 {
		return r.writePlainln("%d favorite(s) not in the last synced fixtures. Run 'courtside sync' to refresh.", missing)
	}
	return nil
}

// FavoritesToggle adds a match to favorites, or removes it when already present.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := r.favoriteArg(cmd)
	if err != nil {
		return err
	}

	if r.favorites.Toggle(id) {
		return r.writePlain("★ Added %s to favorites\n", id)
	}
	return r.writePlain("☆ Removed %s from favorites\n", id)
}

// FavoritesCheck reports whether a match is a favorite.
func (r *Runner) FavoritesCheck(ctx context.Context, cmd *cli.Command) error {
	id, err := r.favoriteArg(cmd)
	if err != nil {
		return err
	}

	if r.favorites.IsFavorite(id) {
		return r.writePlain("★ %s is a favorite\n", id)
	}
	return r.writePlain("☆ %s is not a favorite\n", id)
}

// FavoritesClear removes every favorite.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireFavorites(); err != nil {
		return err
	}

	n := r.favorites.Len()
	r.favorites.Clear()
	r.logger.Info("cleared favorites", "count", n)
	return r.writePlain("✓ Cleared %d favorite(s)\n", n)
}

func (r *Runner) favoriteArg(cmd *cli.Command) (string, error) {
	if err := r.requireFavorites(); err != nil {
		return "", err
	}
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: match id is required", shared.ErrMissingArgument)
	}
	return id, nil
}
