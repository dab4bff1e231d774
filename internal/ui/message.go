package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
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
	MsgLogsFetched MsgKind = iota
	MsgStatsFetched
	MsgTriggerDone
	MsgTick
	MsgRefresh
	MsgConfigReloaded
)

type logsResult struct {
	seq     uint64
	entries []models.ImportLogEntry
	err     error
}

type statsResult struct {
	seq  uint64
	resp *models.StatsResponse
	err  error
}

type triggerResult struct {
	resp *models.TriggerResponse
	err  error
}

// logsFetchedMsg is the constructor for [MsgLogsFetched]
func logsFetchedMsg(seq uint64, entries []models.ImportLogEntry, err error) Msg {
	return Msg{kind: MsgLogsFetched, data: logsResult{seq, entries, err}}
}

// statsFetchedMsg is the constructor for [MsgStatsFetched]
func statsFetchedMsg(seq uint64, resp *models.StatsResponse, err error) Msg {
	return Msg{kind: MsgStatsFetched, data: statsResult{seq, resp, err}}
}

// triggerDoneMsg is the constructor for [MsgTriggerDone]
func triggerDoneMsg(resp *models.TriggerResponse, err error) Msg {
	return Msg{kind: MsgTriggerDone, data: triggerResult{resp, err}}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}

// refreshMsg is the constructor for [MsgRefresh]
func refreshMsg() Msg {
	return Msg{kind: MsgRefresh}
}

// ConfigReloaded wraps a reloaded configuration so it can be sent into a running program.
func ConfigReloaded(cfg *shared.Config) Msg {
	return Msg{kind: MsgConfigReloaded, data: cfg}
}
