package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/models"
)

var (
	_ list.Item = matchItem{}
	_ list.Item = teamItem{}
)

// matchItem wraps [models.Match] to implement [list.Item].
type matchItem struct {
	match    models.Match
	favorite bool
}

func (i matchItem) FilterValue() string { return i.match.HomeTeam + " " + i.match.AwayTeam }
func (i matchItem) Title() string {
	title := fmt.Sprintf("%s %s %s", i.match.HomeTeam, i.match.Scoreline(), i.match.AwayTeam)
	if i.favorite {
		title = "★ " + title
	}
	return title
}
func (i matchItem) Description() string {
	desc := i.match.Status
	if kickoff := formatter.FormatKickoff(i.match); kickoff != "" {
		desc = fmt.Sprintf("%s • %s", kickoff, desc)
	}
	if i.match.Venue != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.match.Venue)
	}
	return desc
}

// teamItem wraps [models.RankedTeam] to implement [list.Item].
type teamItem struct {
	team models.RankedTeam
}

func (i teamItem) FilterValue() string { return i.team.Name }
func (i teamItem) Title() string       { return fmt.Sprintf("%d. %s", i.team.Rank, i.team.Name) }
func (i teamItem) Description() string {
	return fmt.Sprintf("%d-%d • %s • GB %s • %s",
		i.team.Wins,
		i.team.Losses,
		formatter.FormatPercentage(i.team.WinPercentage),
		formatter.FormatGamesBack(i.team.GamesBack),
		i.team.Streak,
	)
}

// matchItems converts matches into list items, marking favorites.
func matchItems(matches []models.Match, isFavorite func(string) bool) []list.Item {
	items := make([]list.Item, len(matches))
	for i, m := range matches {
		items[i] = matchItem{match: m, favorite: isFavorite(m.ID)}
	}
	return items
}

func teamItems(teams []models.RankedTeam) []list.Item {
	items := make([]list.Item, len(teams))
	for i, t := range teams {
		items[i] = teamItem{team: t}
	}
	return items
}
