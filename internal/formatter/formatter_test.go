package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
	th "github.com/desertthunder/courtside/internal/testing"
)

func sampleReport(simulated bool) *StandingsReport {
	return &StandingsReport{
		Season:    "2024-2025",
		Simulated: simulated,
		Teams: []models.RankedTeam{
			{Rank: 1, Name: "Boston Celtics", Wins: 64, Losses: 18, WinPercentage: 64.0 / 82.0, GamesBack: 0, Streak: "W2", Form: "LWLWW"},
			{Rank: 2, Name: "New York Knicks", Wins: 50, Losses: 32, WinPercentage: 50.0 / 82.0, GamesBack: 14, Streak: "L1", Form: "WWWWL"},
		},
	}
}

func sampleFixtures() *FixtureList {
	home, away := 110, 103
	return &FixtureList{
		Title: "Upcoming NBA fixtures",
		Matches: []models.Match{
			{ID: "2070001", Date: "2024-10-22", Time: "23:30:00", HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks", Status: "Scheduled", Venue: "TD Garden"},
			{ID: "2070002", Date: "2024-10-22", Time: "02:00:00", HomeTeam: "Los Angeles Lakers", AwayTeam: "Minnesota Timberwolves", Status: "Match Finished", HomeScore: &home, AwayScore: &away},
		},
		Favorites: map[string]bool{"2070002": true},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ext  string
	}{
		{"", FormatText, "txt"},
		{"txt", FormatText, "txt"},
		{"CSV", FormatCSV, "csv"},
		{"md", FormatMarkdown, "md"},
		{"markdown", FormatMarkdown, "md"},
		{"json", FormatJSON, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if got.Extension() != tt.ext {
				t.Errorf("expected extension %s, got %s", tt.ext, got.Extension())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestHelpers(t *testing.T) {
	if got := FormatPercentage(0.78049); got != "0.780" {
		t.Errorf("expected 0.780, got %s", got)
	}
	if got := FormatGamesBack(0); got != "-" {
		t.Errorf("expected -, got %s", got)
	}
	if got := FormatGamesBack(14); got != "14" {
		t.Errorf("expected 14, got %s", got)
	}
	if got := FormatKickoff(models.Match{Date: "2024-10-22", Time: "23:30:00"}); got != "2024-10-22 23:30" {
		t.Errorf("unexpected kickoff %q", got)
	}
	if got := FormatKickoff(models.Match{Date: "2024-10-22"}); got != "2024-10-22" {
		t.Errorf("unexpected kickoff %q", got)
	}
}

func TestStandingsExporters(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := StandingsToCSV(sampleReport(false))
		if err != nil {
			t.Fatalf("StandingsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Rank,Team,W,L,PCT,GB,Streak,Form\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Boston Celtics,64,18,0.780,-,W2,LWLWW") {
			t.Errorf("CSV missing leader row, got: %s", output)
		}
		if !strings.Contains(output, "2,New York Knicks,50,32,0.610,14,L1,WWWWL") {
			t.Errorf("CSV missing second row, got: %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		output := string(StandingsToMarkdown(sampleReport(true)))

		if !strings.Contains(output, "# Standings 2024-2025") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, SimulatedNotice) {
			t.Errorf("Markdown missing simulated notice")
		}
		if !strings.Contains(output, "| 1 | Boston Celtics | 64 | 18 | 0.780 | - | W2 |") {
			t.Errorf("Markdown missing leader row, got: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		output := string(StandingsToText(sampleReport(false)))

		if strings.Contains(output, SimulatedNotice) {
			t.Error("Text should not carry simulated notice for real standings")
		}
		for _, want := range []string{"Standings 2024-2025", "Boston Celtics", "New York Knicks", "Streak", "0.610"} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := RenderStandings(FormatJSON, sampleReport(true))
		if err != nil {
			t.Fatalf("RenderStandings failed: %v", err)
		}

		var decoded StandingsReport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !decoded.Simulated || len(decoded.Teams) != 2 {
			t.Errorf("unexpected decoded report: %+v", decoded)
		}
	})
}

func TestFixtureExporters(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := RenderFixtures(FormatCSV, sampleFixtures())
		if err != nil {
			t.Fatalf("RenderFixtures failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Kickoff,Home,Away,Score,Status,Favorite,Venue") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2070001,2024-10-22 23:30,Boston Celtics,New York Knicks,,Scheduled,,TD Garden") {
			t.Errorf("CSV missing scheduled row, got: %s", output)
		}
		if !strings.Contains(output, "110 - 103,Match Finished,yes") {
			t.Errorf("CSV missing finished favorite row, got: %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		output := string(FixturesToMarkdown(sampleFixtures()))

		if !strings.Contains(output, "# Upcoming NBA fixtures") {
			t.Error("Markdown missing title")
		}
		if !strings.Contains(output, "**Matches**: 2") {
			t.Error("Markdown missing count")
		}
		if !strings.Contains(output, "2. **Los Angeles Lakers** 110 - 103 Minnesota Timberwolves") || !strings.Contains(output, "★") {
			t.Errorf("Markdown missing favorite row, got: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		output := string(FixturesToText(sampleFixtures()))
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if len(lines) != 5 {
			t.Fatalf("expected 5 lines, got %d: %q", len(lines), output)
		}
		if !strings.HasPrefix(lines[3], "  2070001") {
			t.Errorf("expected unmarked first match, got %q", lines[3])
		}
		if !strings.HasPrefix(lines[4], "* 2070002") {
			t.Errorf("expected marked favorite, got %q", lines[4])
		}
	})
}

func TestMatchDetails(t *testing.T) {
	spectators := 19156
	m := models.Match{ID: "1", Title: "A vs B", HomeTeam: "A", AwayTeam: "B", Status: "Scheduled", Venue: "TD Garden", Spectators: &spectators}

	output := string(MatchDetails(m, true))
	for _, want := range []string{"A vs B", "A vs B\nA vs B", "Venue:      TD Garden", "Spectators: 19156", "Favorite:   yes"} {
		if !strings.Contains(output, want) {
			t.Errorf("details missing %q, got: %s", want, output)
		}
	}
	if strings.Contains(output, "City:") {
		t.Error("empty fields should be omitted")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("WriteFile creates directories", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "standings.csv")
		if err := WriteFile(path, []byte("x")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteExportManifest", func(t *testing.T) {
		path := filepath.Join(dir, "export_manifest.json")
		m := &ExportManifest{RunID: "run", Season: "2024-2025", Format: FormatCSV, Files: []string{"a.csv"}}
		if err := WriteExportManifest(m, path); err != nil {
			t.Fatalf("WriteExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, `"format": "csv"`) {
			t.Errorf("manifest missing format, got: %s", content)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("PNG"))
	}))
	defer server.Close()

	data, err := DownloadImage(server.Client(), server.URL+"/badge.png")
	if err != nil || string(data) != "PNG" {
		t.Errorf("expected PNG body, got %q (%v)", data, err)
	}

	if _, err := DownloadImage(server.Client(), server.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := DownloadImage(nil, ""); err == nil {
		t.Error("expected error for empty URL")
	}
}
