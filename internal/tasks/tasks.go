package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/services"
	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/standings"
)

// MatchCache stores the most recent fixture list.
type MatchCache interface {
	Replace(matches []models.Match) error
}

// RefreshResult contains everything fetched by a single refresh.
//
// A refresh can partially succeed: MatchesErr and StandingsErr record each half independently.
type RefreshResult struct {
	RunID        string                // Identifies the run in logs and manifests
	Season       string                // Season the standings were requested for
	Matches      []models.Match        // Upcoming fixtures in feed order
	Standings    []models.RankedTeam   // Ranked table
	Raw          []models.TeamStanding // Records the table was ranked from
	Simulated    bool                  // Standings were synthesized from the roster
	MatchesErr   error                 // Fixture fetch failure
	StandingsErr error                 // Standings fetch failure
}

// Err joins the failures of both halves, or returns nil.
func (r *RefreshResult) Err() error {
	return errors.Join(r.MatchesErr, r.StandingsErr)
}

// Refresher fetches fixtures and standings together and caches the fixtures.
type Refresher struct {
	gateway services.SportsGateway
	cache   MatchCache
	logger  *log.Logger
}

// NewRefresher creates a new Refresher. cache may be nil to skip caching.
func NewRefresher(gateway services.SportsGateway, cache MatchCache, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Refresher{gateway: gateway, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Refresh fetches upcoming fixtures and the season's standings concurrently.
//
// The returned result is never nil when the gateway is set; its error fields describe
// which half failed. The returned error is the join of both failures.
func (r *Refresher) Refresh(ctx context.Context, season string, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if r.gateway == nil {
		return nil, fmt.Errorf("%w: sports gateway not initialized", shared.ErrServiceUnavailable)
	}

	result := &RefreshResult{RunID: shared.GenerateID(), Season: season}
	logger := shared.WithLogger(r.logger, "run", result.RunID)

	var wg conc.WaitGroup
	wg.Go(func() {
		sendProgress(progress, fetchMatchesUpdate())

		matches, err := r.gateway.UpcomingMatches(ctx)
		if err != nil {
			result.MatchesErr = err
			logger.Error("fixture refresh failed", "error", err)
			sendProgress(progress, failedUpdate(FetchMatches, err))
			return
		}
		result.Matches = matches
		sendProgress(progress, fetchedMatchesUpdate(len(matches)))
	})
	wg.Go(func() {
		sendProgress(progress, fetchStandingsUpdate(season))

		raw, err := r.gateway.Standings(ctx, season)
		if err != nil {
			result.StandingsErr = err
			logger.Error("standings refresh failed", "season", season, "error", err)
			sendProgress(progress, failedUpdate(FetchStandings, err))
			return
		}
		result.Raw = raw
		result.Standings = standings.Rank(raw)
		for _, row := range raw {
			if row.Simulated {
				result.Simulated = true
				break
			}
		}
		sendProgress(progress, rankedStandingsUpdate(len(result.Standings), result.Simulated))
	})
	wg.Wait()

	if result.MatchesErr == nil && r.cache != nil {
		if err := r.cache.Replace(result.Matches); err != nil {
			logger.Warn("failed to cache fixtures", "error", err)
		} else {
			sendProgress(progress, cacheMatchesUpdate(len(result.Matches)))
		}
	}

	logger.Info("refresh complete",
		"matches", len(result.Matches),
		"teams", len(result.Standings),
		"simulated", result.Simulated,
	)
	return result, result.Err()
}
