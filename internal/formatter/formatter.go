// Package formatter renders standings and fixture lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// SimulatedNotice is shown with standings synthesized from the team roster.
const SimulatedNotice = "Simulated standings: the league table is unavailable, records are generated from the team roster."

// ParseFormat accepts a format name or its common alias (txt, md).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (text, csv, markdown, json)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// StandingsReport is a ranked table with its season context.
type StandingsReport struct {
	Season    string              `json:"season"`
	Simulated bool                `json:"simulated"`
	Teams     []models.RankedTeam `json:"teams"`
}

// FixtureList is a list of matches with the user's favorites marked.
type FixtureList struct {
	Title     string          `json:"title"`
	Matches   []models.Match  `json:"matches"`
	Favorites map[string]bool `json:"-"`
}

// FormatPercentage renders a win percentage with three decimals.
func FormatPercentage(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 3, 64)
}

// FormatGamesBack renders games back, using "-" for the leader.
func FormatGamesBack(gb int) string {
	if gb == 0 {
		return "-"
	}
	return strconv.Itoa(gb)
}

// FormatKickoff joins a match date and time, trimming seconds.
func FormatKickoff(m models.Match) string {
	t := m.Time
	if len(t) == len("15:04:05") && strings.Count(t, ":") == 2 {
		t = t[:5]
	}
	return strings.TrimSpace(m.Date + " " + t)
}

// RenderStandings encodes r in format f.
func RenderStandings(f Format, r *StandingsReport) ([]byte, error) {
	switch f {
	case FormatCSV:
		return StandingsToCSV(r)
	case FormatMarkdown:
		return StandingsToMarkdown(r), nil
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	default:
		return StandingsToText(r), nil
	}
}

// RenderFixtures encodes l in format f.
func RenderFixtures(f Format, l *FixtureList) ([]byte, error) {
	switch f {
	case FormatCSV:
		return FixturesToCSV(l)
	case FormatMarkdown:
		return FixturesToMarkdown(l), nil
	case FormatJSON:
		return json.MarshalIndent(l, "", "  ")
	default:
		return FixturesToText(l), nil
	}
}

var standingsHeaders = []string{"Rank", "Team", "W", "L", "PCT", "GB", "Streak"}

func standingsRow(t models.RankedTeam) []string {
	return []string{
		strconv.Itoa(t.Rank),
		t.Name,
		strconv.Itoa(t.Wins),
		strconv.Itoa(t.Losses),
		FormatPercentage(t.WinPercentage),
		FormatGamesBack(t.GamesBack),
		t.Streak,
	}
}

// StandingsToCSV converts a report to CSV with columns: Rank, Team, W, L, PCT, GB, Streak, Form
func StandingsToCSV(r *StandingsReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(append(standingsHeaders, "Form")); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, team := range r.Teams {
		if err := writer.Write(append(standingsRow(team), team.Form)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// StandingsToMarkdown converts a report to a Markdown table
func StandingsToMarkdown(r *StandingsReport) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Standings %s\n\n", r.Season)
	if r.Simulated {
		fmt.Fprintf(&buf, "> %s\n\n", SimulatedNotice)
	}

	buf.WriteString("| " + strings.Join(standingsHeaders, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(standingsHeaders)) + "\n")
	for _, team := range r.Teams {
		cells := standingsRow(team)
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return buf.Bytes()
}

// StandingsToText converts a report to a bordered plain text table
func StandingsToText(r *StandingsReport) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Standings %s\n", r.Season)
	if r.Simulated {
		fmt.Fprintf(&buf, "%s\n", SimulatedNotice)
	}

	rows := make([][]string, 0, len(r.Teams))
	for _, team := range r.Teams {
		rows = append(rows, standingsRow(team))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(standingsHeaders...).
		Rows(rows...)
	buf.WriteString(t.String())
	buf.WriteString("\n")

	return buf.Bytes()
}

var fixtureHeaders = []string{"ID", "Kickoff", "Home", "Away", "Score", "Status", "Favorite"}

func fixtureRow(m models.Match, favorite bool) []string {
	score := ""
	if m.HasScore() {
		score = m.Scoreline()
	}
	fav := ""
	if favorite {
		fav = "yes"
	}
	return []string{m.ID, FormatKickoff(m), m.HomeTeam, m.AwayTeam, score, m.Status, fav}
}

// FixturesToCSV converts a fixture list to CSV with columns: ID, Kickoff, Home, Away, Score, Status, Favorite, Venue
func FixturesToCSV(l *FixtureList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(append(fixtureHeaders, "Venue")); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range l.Matches {
		if err := writer.Write(append(fixtureRow(m, l.Favorites[m.ID]), m.Venue)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// FixturesToMarkdown converts a fixture list to a Markdown list
func FixturesToMarkdown(l *FixtureList) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	fmt.Fprintf(&buf, "**Matches**: %d\n\n", len(l.Matches))

	for i, m := range l.Matches {
		star := ""
		if l.Favorites[m.ID] {
			star = " ★"
		}
		fmt.Fprintf(&buf, "%d. **%s** %s %s (%s, %s)%s\n",
			i+1, m.HomeTeam, m.Scoreline(), m.AwayTeam, FormatKickoff(m), m.Status, star)
	}

	return buf.Bytes()
}

// FixturesToText converts a fixture list to plain text, one match per line
func FixturesToText(l *FixtureList) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", l.Title)
	fmt.Fprintf(&buf, "Matches: %d\n\n", len(l.Matches))

	for _, m := range l.Matches {
		marker := " "
		if l.Favorites[m.ID] {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s %-10s %-16s %s %s %s [%s]\n",
			marker, m.ID, FormatKickoff(m), m.HomeTeam, m.Scoreline(), m.AwayTeam, m.Status)
	}

	return buf.Bytes()
}

type detailField struct {
	label string
	value string
}

// MatchDetails renders every known field of a single match as plain text.
func MatchDetails(m models.Match, favorite bool) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", m.Title)
	fmt.Fprintf(&buf, "%s %s %s\n\n", m.HomeTeam, m.Scoreline(), m.AwayTeam)

	fields := []detailField{
		{"ID", m.ID},
		{"League", m.League},
		{"Kickoff", FormatKickoff(m)},
		{"Status", m.Status},
		{"Venue", m.Venue},
		{"City", m.City},
		{"Country", m.Country},
		{"Season", m.Season},
		{"Round", m.Round},
	}
	if m.Spectators != nil {
		fields = append(fields, detailField{"Spectators", strconv.Itoa(*m.Spectators)})
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&buf, "%-11s %s\n", f.label+":", f.value)
	}

	fav := "no"
	if favorite {
		fav = "yes"
	}
	fmt.Fprintf(&buf, "%-11s %s\n", "Favorite:", fav)

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExportManifest summarizes the files written by an export run.
type ExportManifest struct {
	RunID       string    `json:"run_id"`
	Season      string    `json:"season"`
	Format      Format    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       []string  `json:"files"`
	Badges      int       `json:"badges"`
	Errors      []string  `json:"errors,omitempty"`
}

// WriteExportManifest writes m as indented JSON to path.
func WriteExportManifest(m *ExportManifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return WriteFile(path, data)
}
