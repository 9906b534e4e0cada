package models

import "fmt"

// Match represents a single fixture from the sports data feed.
type Match struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	League     string `json:"league"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM:SS
	Status     string `json:"status"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeTeamID string `json:"home_team_id,omitempty"`
	AwayTeamID string `json:"away_team_id,omitempty"`
	HomeScore  *int   `json:"home_score,omitempty"`
	AwayScore  *int   `json:"away_score,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Venue      string `json:"venue,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	Season     string `json:"season,omitempty"`
	Round      string `json:"round,omitempty"`
	Spectators *int   `json:"spectators,omitempty"`
}

// HasScore reports whether both scores are known.
func (m Match) HasScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Scoreline renders "102 - 99" for scored matches and "vs" otherwise.
func (m Match) Scoreline() string {
	if !m.HasScore() {
		return "vs"
	}
	return fmt.Sprintf("%d - %d", *m.HomeScore, *m.AwayScore)
}

// TeamStanding is a team's season record as published by the feed.
//
// Counts are kept as the feed's text and parsed by the standings package.
type TeamStanding struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Team      string `json:"team"`
	Badge     string `json:"badge,omitempty"`
	League    string `json:"league,omitempty"`
	Season    string `json:"season,omitempty"`
	Form      string `json:"form,omitempty"` // oldest result first
	Played    string `json:"played,omitempty"`
	Wins      string `json:"wins"`
	Losses    string `json:"losses"`
	Draws     string `json:"draws,omitempty"`
	Points    string `json:"points,omitempty"`
	Simulated bool   `json:"simulated,omitempty"` // synthesized from the team roster
}

// RankedTeam is a display-ready standings row.
type RankedTeam struct {
	Rank          int     `json:"rank"`
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPercentage float64 `json:"win_percentage"`
	GamesBack     int     `json:"games_back"`
	Streak        string  `json:"streak"`
	Form          string  `json:"form,omitempty"`
	Badge         string  `json:"badge,omitempty"`
}

// User is the authenticated session profile.
type User struct {
	Token     string `json:"-"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}
