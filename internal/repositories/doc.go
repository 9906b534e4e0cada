// Package repositories implements SQLite persistence for local client state.
//
// Key Implementations:
//   - [PreferenceRepository] : string key/value store backing favorites, theme and session
//   - [MatchCacheRepository] : last fetched fixture list, kept for offline lookups
//
// Both expect a database opened with [shared.OpenDatabase] so the embedded migrations have run.
package repositories
