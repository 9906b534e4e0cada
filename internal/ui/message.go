package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/courtside/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgRefreshComplete
)

// refreshOutcome is the payload of [MsgRefreshComplete].
type refreshOutcome struct {
	result *tasks.RefreshResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// refreshCompleteMsg is the constructor for [MsgRefreshComplete]
func refreshCompleteMsg(result *tasks.RefreshResult, err error) Msg {
	return Msg{kind: MsgRefreshComplete, data: refreshOutcome{result: result, err: err}}
}
