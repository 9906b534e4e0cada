package services

import (
	"context"

	"github.com/desertthunder/courtside/internal/models"
)

// SportsGateway defines read access to a sports data provider.
type SportsGateway interface {
	// UpcomingMatches returns the next scheduled fixtures for the configured league.
	UpcomingMatches(ctx context.Context) ([]models.Match, error)

	// MatchDetails returns a single fixture by ID.
	// Returns [shared.ErrMatchNotFound] if the provider has no such event.
	MatchDetails(ctx context.Context, id string) (*models.Match, error)

	// Standings returns the league table for season.
	// An empty season selects the configured default.
	Standings(ctx context.Context, season string) ([]models.TeamStanding, error)
}

// AuthGateway defines the demo authentication provider.
type AuthGateway interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, username, password string) (*models.User, error)

	// Register creates a session for a new account.
	Register(username, password string) (*models.User, error)
}
