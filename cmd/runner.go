package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/courtside/internal/favorites"
	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/services"
	"github.com/desertthunder/courtside/internal/session"
	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/tasks"
	"github.com/desertthunder/courtside/internal/theme"
)

// MatchCache is the offline copy of the last fetched fixture list.
type MatchCache interface {
	Replace(matches []models.Match) error
	List() ([]models.Match, error)
	Get(id string) (*models.Match, error)
	FetchedAt() (time.Time, error)
}

// ProfileFetcher resolves a user profile from an access token.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	gateway    services.SportsGateway
	profiles   ProfileFetcher
	api        *services.APIService
	favorites  *favorites.Store
	theme      *theme.Provider
	session    *session.Manager
	cache      MatchCache
	refresher  *tasks.Refresher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	configPath string
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Gateway    services.SportsGateway
	Profiles   ProfileFetcher
	API        *services.APIService
	Favorites  *favorites.Store
	Theme      *theme.Provider
	Session    *session.Manager
	Cache      MatchCache
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		gateway:    opts.Gateway,
		profiles:   opts.Profiles,
		api:        opts.API,
		favorites:  opts.Favorites,
		theme:      opts.Theme,
		session:    opts.Session,
		cache:      opts.Cache,
		refresher:  tasks.NewRefresher(opts.Gateway, opts.Cache, opts.Logger),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    shared.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, matchesCommand, standingsCommand, favoritesCommand, authCommand,
		themeCommand, apiCommand, syncCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) requireGateway() error {
	if r.gateway == nil {
		return fmt.Errorf("%w: sports gateway not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) requireFavorites() error {
	if r.favorites == nil {
		return fmt.Errorf("%w: favorites store not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// printProgress drains progress until it is closed, then signals done.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		switch update.Phase {
		case tasks.FetchMatches, tasks.FetchStandings:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.RankStandings:
			r.writePlain("📊 %s\n", update.Message)
		case tasks.CacheMatches:
			r.writePlain("💾 %s\n", update.Message)
		case tasks.WriteExport:
			r.writePlain("📝 %s\n", update.Message)
		case tasks.DownloadBadges:
			r.writePlain("   %s\n", update.Message)
		default:
			r.writePlain("%s\n", update.Message)
		}
	}
}
