package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
)

const (
	defaultSportsDBURL = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey      = "3"
	defaultLeagueID    = "4387"
	defaultSeason      = "2024-2025"
	defaultLeagueName  = "NBA"
	defaultStatus      = "Scheduled"
	simulatedFormSize  = 5
)

// SportsDBOptions configures a [SportsDBService].
type SportsDBOptions struct {
	Config shared.SportsDBConfig
	Client *http.Client // defaults to a client with Config.Timeout()
	Logger *log.Logger
	Rand   *rand.Rand // source for simulated standings
}

// SportsDBService implements [SportsGateway] for TheSportsDB.
type SportsDBService struct {
	baseURL    string
	leagueID   string
	season     string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	logger     *log.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewSportsDBService creates a new TheSportsDB gateway, filling unset options with defaults.
func NewSportsDBService(opts SportsDBOptions) *SportsDBService {
	cfg := opts.Config

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultSportsDBURL
	}
	key := cfg.APIKey
	if key == "" {
		key = defaultAPIKey
	}
	leagueID := cfg.LeagueID
	if leagueID == "" {
		leagueID = defaultLeagueID
	}
	season := cfg.Season
	if season == "" {
		season = defaultSeason
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := max(cfg.Burst, 1)

	return &SportsDBService{
		baseURL:    base + "/" + url.PathEscape(key),
		leagueID:   leagueID,
		season:     season,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, burst),
		validate:   validator.New(),
		logger:     shared.WithLogger(logger, "service", "sportsdb"),
		rand:       rng,
	}
}

// BaseURL returns the API root including the key segment.
func (s *SportsDBService) BaseURL() string {
	return s.baseURL
}

// Season returns the default season used when none is requested.
func (s *SportsDBService) Season() string {
	return s.season
}

// UpcomingMatches fetches the league's next scheduled events.
func (s *SportsDBService) UpcomingMatches(ctx context.Context) ([]models.Match, error) {
	var resp eventsResponse
	if err := s.doRequest(ctx, "eventsnextleague.php", url.Values{"id": {s.leagueID}}, &resp); err != nil {
		return nil, fmt.Errorf("could not fetch fixtures: %w", err)
	}

	matches := make([]models.Match, 0, len(resp.Events))
	for _, event := range resp.Events {
		if err := s.validate.Struct(event); err != nil {
			s.logger.Debug("dropping event", "title", event.Title, "error", err)
			continue
		}
		matches = append(matches, event.toMatch())
	}

	s.logger.Debug("fetched fixtures", "count", len(matches))
	return matches, nil
}

// MatchDetails looks up a single event by id.
func (s *SportsDBService) MatchDetails(ctx context.Context, id string) (*models.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: match id", shared.ErrMissingArgument)
	}

	var resp eventsResponse
	if err := s.doRequest(ctx, "lookupevent.php", url.Values{"id": {id}}, &resp); err != nil {
		return nil, fmt.Errorf("could not fetch match details: %w", err)
	}

	for _, event := range resp.Events {
		if err := s.validate.Struct(event); err != nil {
			s.logger.Debug("dropping event", "id", id, "error", err)
			continue
		}
		match := event.toMatch()
		return &match, nil
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrMatchNotFound, id)
}

// Standings fetches the league table, falling back to simulated rows built from the team roster.
func (s *SportsDBService) Standings(ctx context.Context, season string) ([]models.TeamStanding, error) {
	if season == "" {
		season = s.season
	}

	var resp tableResponse
	err := s.doRequest(ctx, "lookuptable.php", url.Values{"l": {s.leagueID}, "s": {season}}, &resp)
	if err != nil {
		s.logger.Warn("league table unavailable, using team roster", "season", season, "error", err)
		return s.simulatedStandings(ctx, season)
	}

	rows := make([]models.TeamStanding, 0, len(resp.Table))
	for _, record := range resp.Table {
		if err := s.validate.Struct(record); err != nil {
			s.logger.Debug("dropping table row", "id", record.ID, "error", err)
			continue
		}
		rows = append(rows, record.toStanding())
	}

	if len(rows) == 0 {
		s.logger.Info("league table empty, using team roster", "season", season)
		return s.simulatedStandings(ctx, season)
	}
	return rows, nil
}

func (s *SportsDBService) simulatedStandings(ctx context.Context, season string) ([]models.TeamStanding, error) {
	var resp teamsResponse
	if err := s.doRequest(ctx, "lookup_all_teams.php", url.Values{"id": {s.leagueID}}, &resp); err != nil {
		return nil, fmt.Errorf("%w: could not fetch standings or teams data: %v", shared.ErrStandingsUnavailable, err)
	}

	s.randMu.Lock()
	defer s.randMu.Unlock()

	rows := make([]models.TeamStanding, 0, len(resp.Teams))
	for _, team := range resp.Teams {
		if err := s.validate.Struct(team); err != nil {
			s.logger.Debug("dropping team", "id", team.ID, "error", err)
			continue
		}

		league := team.League.String()
		if league == "" {
			league = defaultLeagueName
		}

		position := strconv.Itoa(len(rows) + 1)
		rows = append(rows, models.TeamStanding{
			ID:        position,
			TeamID:    team.ID.String(),
			Team:      team.Name.String(),
			Badge:     firstNonEmpty(team.TBadge, team.Badge),
			League:    league,
			Season:    season,
			Form:      s.randomForm(),
			Played:    strconv.Itoa(s.rand.IntN(40) + 30),
			Wins:      strconv.Itoa(s.rand.IntN(30) + 20),
			Losses:    strconv.Itoa(s.rand.IntN(20) + 10),
			Draws:     "0",
			Points:    "0",
			Simulated: true,
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no teams returned for league %s", shared.ErrStandingsUnavailable, s.leagueID)
	}
	return rows, nil
}

// randomForm must be called with randMu held.
func (s *SportsDBService) randomForm() string {
	var b strings.Builder
	for range simulatedFormSize {
		if s.rand.IntN(2) == 0 {
			b.WriteByte('W')
		} else {
			b.WriteByte('L')
		}
	}
	return b.String()
}

// doRequest waits for the limiter, performs a GET and decodes the JSON body into result.
func (s *SportsDBService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrNetwork, err)
	}

	apiURL := s.baseURL + "/" + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %w: %s returned status %d", shared.ErrNetwork, shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: malformed payload from %s: %v", shared.ErrNetwork, endpoint, err)
	}
	return nil
}

func (r eventRecord) toMatch() models.Match {
	status := r.Status.String()
	if status == "" {
		status = defaultStatus
	}

	return models.Match{
		ID:         r.ID.String(),
		Title:      r.Title.String(),
		League:     r.League.String(),
		Date:       r.Date.String(),
		Time:       r.Time.String(),
		Status:     status,
		HomeTeam:   r.HomeTeam.String(),
		AwayTeam:   r.AwayTeam.String(),
		HomeTeamID: r.HomeTeamID.String(),
		AwayTeamID: r.AwayTeamID.String(),
		HomeScore:  r.HomeScore.Int(),
		AwayScore:  r.AwayScore.Int(),
		Thumbnail:  r.Thumbnail.String(),
		Venue:      r.Venue.String(),
		City:       r.City.String(),
		Country:    r.Country.String(),
		Season:     r.Season.String(),
		Round:      r.Round.String(),
		Spectators: r.Spectators.Int(),
	}
}

func (r tableRecord) toStanding() models.TeamStanding {
	return models.TeamStanding{
		ID:     r.ID.String(),
		TeamID: r.TeamID.String(),
		Team:   r.Team.String(),
		Badge:  firstNonEmpty(r.TBadge, r.Badge),
		League: r.League.String(),
		Season: r.Season.String(),
		Form:   r.Form.String(),
		Played: r.Played.String(),
		Wins:   r.Wins.String(),
		Losses: r.Losses.String(),
		Draws:  r.Draws.String(),
		Points: r.Points.String(),
	}
}
