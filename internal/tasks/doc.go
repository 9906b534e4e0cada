// Package tasks runs the multi-step operations behind the sync and export commands and the TUI refresh.
//
// # Refresh
//
// [Refresher.Refresh] fetches upcoming fixtures and the season's standings concurrently with a
// [conc.WaitGroup], ranks the table with [standings.Rank] and stores the fixtures in a [MatchCache]
// so the favorites view keeps working offline. Each half succeeds or fails independently.
// The [RefreshResult] carries whatever arrived together with the per-half errors.
//
// # Export
//
// [Refresher.Export] writes a refresh to disk in one [formatter.Format] and records a JSON manifest.
// Team badges can be downloaded alongside with a bounded [pool.ResultPool] behind a [rate.Limiter].
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages and optional data.
// Updates use select with default so a slow reader never stalls an operation.
package tasks
