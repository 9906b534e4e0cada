package services

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/courtside/internal/shared"
	tu "github.com/desertthunder/courtside/internal/testing"
)

const eventsPayload = `{"events":[
	{"idEvent":"2070001","strEvent":"Boston Celtics vs New York Knicks","strLeague":"NBA",
	 "dateEvent":"2024-10-22","strTime":"23:30:00","strHomeTeam":"Boston Celtics","strAwayTeam":"New York Knicks",
	 "idHomeTeam":"134860","idAwayTeam":"134862","intHomeScore":null,"intAwayScore":null,"strStatus":null,
	 "strThumb":null,"strVenue":"TD Garden","intRound":"1","intSpectators":19156},
	{"idEvent":2070002,"strEvent":"Los Angeles Lakers vs Minnesota Timberwolves","strLeague":"NBA",
	 "intHomeScore":"110","intAwayScore":103,"strStatus":"Match Finished"},
	{"idEvent":null,"strEvent":"Broken"}
]}`

const tablePayload = `{"table":[
	{"idStanding":"1","idTeam":"134860","strTeam":"Boston Celtics","strBadge":"https://example.com/bos.png",
	 "strForm":"WWLWW","intPlayed":"82","intWin":"64","intLoss":18},
	{"idStanding":"2","strTeam":"","intWin":"50"},
	{"idStanding":"3","idTeam":"134862","strTeam":"New York Knicks","intWin":50,"intLoss":"32"}
]}`

const teamsPayload = `{"teams":[
	{"idTeam":"134860","strTeam":"Boston Celtics","strBadge":"https://example.com/bos.png"},
	{"idTeam":"134862","strTeam":"New York Knicks","strTeamBadge":"https://example.com/nyk.png","strLeague":"NBA"},
	{"idTeam":"134863","strTeam":null}
]}`

// newSportsDBFixture serves the given payloads by endpoint name. A missing endpoint responds 404.
func newSportsDBFixture(t *testing.T, payloads map[string]string) (*SportsDBService, *httptest.Server, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/3/")
		body, ok := payloads[endpoint]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)
	shared.SetLogLevel(logger, log.DebugLevel)

	svc := NewSportsDBService(SportsDBOptions{
		Config: shared.SportsDBConfig{BaseURL: server.URL, APIKey: "3", LeagueID: "4387", Season: "2024-2025"},
		Client: server.Client(),
		Logger: logger,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	return svc, server, &buf
}

func TestNewSportsDBService(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := NewSportsDBService(SportsDBOptions{})

		assert.Equal(t, "https://www.thesportsdb.com/api/v1/json/3", svc.BaseURL())
		assert.Equal(t, "2024-2025", svc.Season())
		assert.Equal(t, "4387", svc.leagueID)
		assert.NotNil(t, svc.httpClient)
	})

	t.Run("config overrides", func(t *testing.T) {
		svc := NewSportsDBService(SportsDBOptions{Config: shared.SportsDBConfig{
			BaseURL:           "http://localhost:9999/api/",
			APIKey:            "secret",
			LeagueID:          "4424",
			Season:            "2025",
			RequestsPerSecond: 2,
			Burst:             4,
		}})

		assert.Equal(t, "http://localhost:9999/api/secret", svc.BaseURL())
		assert.Equal(t, "2025", svc.Season())
		assert.Equal(t, 4, svc.limiter.Burst())
	})
}

func TestUpcomingMatches(t *testing.T) {
	t.Run("maps and validates events", func(t *testing.T) {
		svc, _, logs := newSportsDBFixture(t, map[string]string{"eventsnextleague.php": eventsPayload})

		matches, err := svc.UpcomingMatches(context.Background())
		require.NoError(t, err)
		require.Len(t, matches, 2)

		first := matches[0]
		assert.Equal(t, "2070001", first.ID)
		assert.Equal(t, "Boston Celtics vs New York Knicks", first.Title)
		assert.Equal(t, "Scheduled", first.Status)
		assert.Equal(t, "TD Garden", first.Venue)
		assert.Equal(t, "1", first.Round)
		require.NotNil(t, first.Spectators)
		assert.Equal(t, 19156, *first.Spectators)
		assert.False(t, first.HasScore())

		second := matches[1]
		assert.Equal(t, "2070002", second.ID)
		assert.Equal(t, "Match Finished", second.Status)
		assert.Equal(t, "110 - 103", second.Scoreline())

		assert.Contains(t, logs.String(), "dropping event")
	})

	t.Run("null events is empty", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"eventsnextleague.php": `{"events":null}`})

		matches, err := svc.UpcomingMatches(context.Background())
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("malformed payload", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"eventsnextleague.php": `<html>`})

		_, err := svc.UpcomingMatches(context.Background())
		assert.True(t, errors.Is(err, shared.ErrNetwork))
	})

	t.Run("http error", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{})

		_, err := svc.UpcomingMatches(context.Background())
		assert.True(t, errors.Is(err, shared.ErrNetwork))
		assert.True(t, errors.Is(err, shared.ErrAPIRequest))
	})

	t.Run("unreachable", func(t *testing.T) {
		svc := NewSportsDBService(SportsDBOptions{
			Client: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
		})

		_, err := svc.UpcomingMatches(context.Background())
		assert.True(t, errors.Is(err, shared.ErrNetwork))
	})

	t.Run("canceled context", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"eventsnextleague.php": eventsPayload})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.UpcomingMatches(ctx)
		assert.Error(t, err)
	})
}

func TestMatchDetails(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"lookupevent.php": eventsPayload})

		match, err := svc.MatchDetails(context.Background(), "2070001")
		require.NoError(t, err)
		assert.Equal(t, "Boston Celtics", match.HomeTeam)
		assert.Equal(t, "134862", match.AwayTeamID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"lookupevent.php": `{"events":null}`})

		_, err := svc.MatchDetails(context.Background(), "999")
		assert.True(t, errors.Is(err, shared.ErrMatchNotFound))
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, nil)

		_, err := svc.MatchDetails(context.Background(), "  ")
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))
	})
}

func TestStandings(t *testing.T) {
	t.Run("league table", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{"lookuptable.php": tablePayload})

		rows, err := svc.Standings(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "Boston Celtics", rows[0].Team)
		assert.Equal(t, "64", rows[0].Wins)
		assert.Equal(t, "18", rows[0].Losses)
		assert.Equal(t, "https://example.com/bos.png", rows[0].Badge)
		assert.False(t, rows[0].Simulated)
		assert.Equal(t, "New York Knicks", rows[1].Team)
		assert.Equal(t, "50", rows[1].Wins)
	})

	t.Run("malformed field keeps the real table", func(t *testing.T) {
		svc, _, logs := newSportsDBFixture(t, map[string]string{
			"lookuptable.php": `{"table":[
				{"idStanding":"1","strTeam":"Boston Celtics","intWin":"64","intLoss":"18"},
				{"idStanding":"2","strTeam":"Charlotte Hornets","intWin":false,"intLoss":{"n":3},"strForm":["W"]}
			]}`,
			"lookup_all_teams.php": teamsPayload,
		})

		rows, err := svc.Standings(context.Background(), "2024-2025")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "Boston Celtics", rows[0].Team)
		assert.Equal(t, "64", rows[0].Wins)
		assert.False(t, rows[0].Simulated)
		assert.Equal(t, "Charlotte Hornets", rows[1].Team)
		assert.Empty(t, rows[1].Wins)
		assert.Empty(t, rows[1].Losses)
		assert.Empty(t, rows[1].Form)
		assert.False(t, rows[1].Simulated)
		assert.NotContains(t, logs.String(), "league table unavailable")
	})

	t.Run("passes season", func(t *testing.T) {
		var season atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			season.Store(r.URL.Query().Get("s"))
			w.Write([]byte(tablePayload))
		}))
		defer server.Close()

		svc := NewSportsDBService(SportsDBOptions{Config: shared.SportsDBConfig{BaseURL: server.URL}})
		_, err := svc.Standings(context.Background(), "2023-2024")
		require.NoError(t, err)
		assert.Equal(t, "2023-2024", season.Load())
	})

	t.Run("empty table falls back to roster", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{
			"lookuptable.php":      `{"table":null}`,
			"lookup_all_teams.php": teamsPayload,
		})

		rows, err := svc.Standings(context.Background(), "2024-2025")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		for i, row := range rows {
			assert.True(t, row.Simulated)
			assert.Equal(t, strconv.Itoa(i+1), row.ID)
			assert.Equal(t, "NBA", row.League)
			assert.Equal(t, "2024-2025", row.Season)
			assert.Len(t, row.Form, 5)
			assert.Regexp(t, `^[WL]{5}$`, row.Form)

			played, _ := strconv.Atoi(row.Played)
			wins, _ := strconv.Atoi(row.Wins)
			losses, _ := strconv.Atoi(row.Losses)
			assert.GreaterOrEqual(t, played, 30)
			assert.Less(t, played, 70)
			assert.GreaterOrEqual(t, wins, 20)
			assert.Less(t, wins, 50)
			assert.GreaterOrEqual(t, losses, 10)
			assert.Less(t, losses, 30)
		}

		assert.Equal(t, "https://example.com/bos.png", rows[0].Badge)
		assert.Equal(t, "https://example.com/nyk.png", rows[1].Badge)
	})

	t.Run("table failure falls back to roster", func(t *testing.T) {
		svc, _, logs := newSportsDBFixture(t, map[string]string{"lookup_all_teams.php": teamsPayload})

		rows, err := svc.Standings(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Contains(t, logs.String(), "league table unavailable")
	})

	t.Run("roster empty", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{
			"lookuptable.php":      `{"table":[]}`,
			"lookup_all_teams.php": `{"teams":[]}`,
		})

		_, err := svc.Standings(context.Background(), "")
		assert.True(t, errors.Is(err, shared.ErrStandingsUnavailable))
	})

	t.Run("both unavailable", func(t *testing.T) {
		svc, _, _ := newSportsDBFixture(t, map[string]string{})

		_, err := svc.Standings(context.Background(), "")
		assert.True(t, errors.Is(err, shared.ErrStandingsUnavailable))
	})
}

func TestTextField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		num  *int
	}{
		{name: "string", raw: `"42"`, want: "42", num: intPtr(42)},
		{name: "number", raw: `42`, want: "42", num: intPtr(42)},
		{name: "decimal", raw: `41.0`, want: "41.0", num: intPtr(41)},
		{name: "null", raw: `null`, want: ""},
		{name: "padded", raw: `" TD Garden "`, want: "TD Garden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f textField
			require.NoError(t, f.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.want, f.String())
			assert.Equal(t, tt.num, f.Int())
		})
	}

	for _, raw := range []string{`false`, `true`, `{"a":1}`, `[1,2]`} {
		t.Run("malformed "+raw+" is empty", func(t *testing.T) {
			f := textField("stale")
			require.NoError(t, f.UnmarshalJSON([]byte(raw)))
			assert.Empty(t, f.String())
			assert.Nil(t, f.Int())
		})
	}
}

func intPtr(n int) *int { return &n }
