package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/services"
	"github.com/desertthunder/courtside/internal/shared"
)

// AuthLogin signs in against the demo auth API and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username, err := r.credentials(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "username", username)

	user, err := r.session.Login(ctx, username, cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s (@%s)\n", user.FirstName, user.Username)
}

// AuthRegister creates a local account and stores the session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username, err := r.credentials(cmd)
	if err != nil {
		return err
	}

	user, err := r.session.Register(username, cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Registered and signed in as @%s\n", user.Username)
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the signed-in user.
//
// Tokens issued by the auth API are checked against its profile endpoint; locally registered
// sessions only have the stored profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session not initialized", shared.ErrServiceUnavailable)
	}

	user, ok := r.session.Current()
	if !ok {
		return fmt.Errorf("%w: run 'courtside auth login <username>' first", shared.ErrNotAuthenticated)
	}

	if r.profiles != nil && !services.IsMockToken(user.Token) {
		if remote, err := r.profiles.Me(ctx, user.Token); err != nil {
			r.logger.Warn("failed to refresh profile, showing stored profile", "error", err)
		} else {
			user = mergeProfile(user, remote)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	return r.writePlain("Signed in as %s (@%s)\n", user.FirstName, user.Username)
}

func (r *Runner) credentials(cmd *cli.Command) (string, error) {
	if r.session == nil {
		return "", fmt.Errorf("%w: session not initialized", shared.ErrServiceUnavailable)
	}
	username := strings.TrimSpace(cmd.StringArg("username"))
	if username == "" {
		return "", fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}
	return username, nil
}

func mergeProfile(stored, remote *models.User) *models.User {
	merged := *stored
	if remote.FirstName != "" {
		merged.FirstName = remote.FirstName
	}
	if remote.Username != "" {
		merged.Username = remote.Username
	}
	return &merged
}
