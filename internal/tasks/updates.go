package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMatches Phase = iota
	FetchStandings
	RankStandings
	CacheMatches
	WriteExport
	DownloadBadges
)

func (p Phase) String() string {
	switch p {
	case FetchMatches:
		return "fetch_matches"
	case FetchStandings:
		return "fetch_standings"
	case RankStandings:
		return "rank_standings"
	case CacheMatches:
		return "cache_matches"
	case WriteExport:
		return "write_export"
	case DownloadBadges:
		return "download_badges"
	default:
		return ""
	}
}

func fetchMatchesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMatches,
		Step:    1,
		Total:   1,
		Message: "Fetching upcoming fixtures...",
	}
}

func fetchedMatchesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMatches,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d fixtures", count),
		Data:    count,
	}
}

func fetchStandingsUpdate(season string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStandings,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s standings...", season),
	}
}

func rankedStandingsUpdate(count int, simulated bool) ProgressUpdate {
	msg := fmt.Sprintf("Ranked %d teams", count)
	if simulated {
		msg += " (simulated)"
	}
	return ProgressUpdate{
		Phase:   RankStandings,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    count,
	}
}

func cacheMatchesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheMatches,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Cached %d fixtures for offline use", count),
	}
}

func failedUpdate(phase Phase, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✗ %s: %v", phase, err),
		Data:    err,
	}
}

func writeExportUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Wrote %s", step, total, path),
	}
}

func badgeCompletedUpdate(step, total int, team string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadBadges,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, team),
	}
}

func badgeFailedUpdate(step, total int, team string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadBadges,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, team, err),
	}
}
