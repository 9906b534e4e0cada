// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is organised in tabs:
//  1. [FixturesTab] : Upcoming matches, with favorites marked ★
//  2. [StandingsTab] : The ranked league table, flagged when simulated
//  3. [FavoritesTab] : Fixtures the user has starred
//
// Selecting a fixture opens the [DetailView].
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Refreshes run through [tasks.Refresher] in the background and stream progress updates over a channel.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, f, t, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
