package tasks

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/shared"
)

// ExportOpts contains configuration for writing a refresh to disk.
type ExportOpts struct {
	Format     formatter.Format // Export format: text, csv, markdown, json
	OutputDir  string           // Base output directory (default: courtside_export_{epoch})
	Favorites  map[string]bool  // Favorite match ids to mark in the fixture list
	Badges     bool             // Download team badges into {OutputDir}/badges
	NumWorkers int              // Concurrent badge downloads (default: 4, max: 8)
	RateLimit  float64          // Badge requests per second (default: 4)
	Client     *http.Client     // Client for badge downloads
}

// BadgeResult describes a single badge download.
type BadgeResult struct {
	Team  string
	URL   string
	Path  string
	Error error
}

// ExportResult lists the files an export produced.
type ExportResult struct {
	OutputDirectory string
	Files           []string
	Badges          []BadgeResult
	ManifestPath    string
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func badgeFilename(team, url string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(team), "_"), "_")
	if name == "" {
		name = "team"
	}
	ext := strings.ToLower(filepath.Ext(url))
	if ext == "" || len(ext) > 5 {
		ext = ".png"
	}
	return name + ext
}

// Export writes the fixtures and standings of a refresh in a single format, optionally
// downloading team badges with a bounded, rate-limited worker pool, and finishes with a manifest.
//
// Badge failures are recorded in the result and manifest without failing the export.
func (r *Refresher) Export(ctx context.Context, progress chan<- ProgressUpdate, res *RefreshResult, opts ExportOpts) (*ExportResult, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("courtside_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	result := &ExportResult{OutputDirectory: opts.OutputDir, Files: []string{}}
	manifest := &formatter.ExportManifest{
		RunID:       res.RunID,
		Season:      res.Season,
		Format:      opts.Format,
		GeneratedAt: time.Now().UTC(),
	}

	type document struct {
		name   string
		render func() ([]byte, error)
	}

	var docs []document
	if res.MatchesErr == nil {
		list := &formatter.FixtureList{Title: "Upcoming fixtures", Matches: res.Matches, Favorites: opts.Favorites}
		docs = append(docs, document{"fixtures", func() ([]byte, error) { return formatter.RenderFixtures(opts.Format, list) }})
	} else {
		manifest.Errors = append(manifest.Errors, fmt.Sprintf("fixtures: %v", res.MatchesErr))
	}
	if res.StandingsErr == nil {
		report := &formatter.StandingsReport{Season: res.Season, Simulated: res.Simulated, Teams: res.Standings}
		docs = append(docs, document{"standings", func() ([]byte, error) { return formatter.RenderStandings(opts.Format, report) }})
	} else {
		manifest.Errors = append(manifest.Errors, fmt.Sprintf("standings: %v", res.StandingsErr))
	}

	for i, doc := range docs {
		data, err := doc.render()
		if err != nil {
			return result, fmt.Errorf("failed to render %s: %w", doc.name, err)
		}

		path := filepath.Join(opts.OutputDir, doc.name+"."+opts.Format.Extension())
		if err := formatter.WriteFile(path, data); err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
		sendProgress(progress, writeExportUpdate(i+1, len(docs), path))
	}

	if opts.Badges && res.StandingsErr == nil {
		result.Badges = r.downloadBadges(ctx, progress, res, opts)
		for _, b := range result.Badges {
			if b.Error != nil {
				manifest.Errors = append(manifest.Errors, fmt.Sprintf("badge %s: %v", b.Team, b.Error))
				continue
			}
			manifest.Badges++
		}
	}

	manifest.Files = result.Files
	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	r.logger.Info("export complete", "run", res.RunID, "dir", opts.OutputDir, "files", len(result.Files), "badges", manifest.Badges)
	return result, nil
}

func (r *Refresher) downloadBadges(ctx context.Context, progress chan<- ProgressUpdate, res *RefreshResult, opts ExportOpts) []BadgeResult {
	var jobs []BadgeResult
	for _, team := range res.Standings {
		if team.Badge == "" {
			continue
		}
		jobs = append(jobs, BadgeResult{
			Team: team.Name,
			URL:  team.Badge,
			Path: filepath.Join(opts.OutputDir, "badges", badgeFilename(team.Name, team.Badge)),
		})
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	p := pool.NewWithResults[BadgeResult]().WithMaxGoroutines(opts.NumWorkers)

	var completed atomic.Int64
	total := len(jobs)

	for _, job := range jobs {
		p.Go(func() BadgeResult {
			job.Error = r.downloadBadge(ctx, limiter, job, opts.Client)

			step := int(completed.Add(1))
			if job.Error != nil {
				sendProgress(progress, badgeFailedUpdate(step, total, job.Team, job.Error))
			} else {
				sendProgress(progress, badgeCompletedUpdate(step, total, job.Team))
			}
			return job
		})
	}

	return p.Wait()
}

func (r *Refresher) downloadBadge(ctx context.Context, limiter *rate.Limiter, job BadgeResult, client *http.Client) error {
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	data, err := formatter.DownloadImage(client, job.URL)
	if err != nil {
		return err
	}
	return formatter.WriteFile(job.Path, data)
}
