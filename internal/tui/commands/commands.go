// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/patro/internal/saved"
)

// RangesLoadedMsg is sent when the saved ranges are (re)loaded.
type RangesLoadedMsg struct {
	Ranges []*saved.SavedRange
}

// RangeSavedMsg is sent after a new range was handed to the store.
type RangeSavedMsg struct {
	Range *saved.SavedRange
	OK    bool
}

// RangeUpdatedMsg is sent after a patch was handed to the store.
type RangeUpdatedMsg struct {
	ID string
	OK bool
}

// TodosLoadedMsg is sent when a day's todo list is loaded.
type TodosLoadedMsg struct {
	RangeID string
	DateKey string
	Tasks   []saved.TodoTask
}

// TodosSavedMsg is sent after a day's todo list was handed to the store.
type TodosSavedMsg struct {
	OK bool
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadRanges loads every saved range. Store failures yield an empty list.
func LoadRanges(store *saved.BestEffort) tea.Cmd {
	return func() tea.Msg {
		return RangesLoadedMsg{Ranges: store.List(context.Background())}
	}
}

// CreateRange persists a newly saved range.
func CreateRange(store *saved.BestEffort, r *saved.SavedRange) tea.Cmd {
	return func() tea.Msg {
		return RangeSavedMsg{Range: r, OK: store.Create(context.Background(), r)}
	}
}

// UpdateRange persists a patch of a saved range.
func UpdateRange(store *saved.BestEffort, id string, patch saved.Patch) tea.Cmd {
	return func() tea.Msg {
		return RangeUpdatedMsg{ID: id, OK: store.Update(context.Background(), id, patch)}
	}
}

// LoadTodos loads the todo list of one day of a saved range.
func LoadTodos(store *saved.BestEffort, rangeID, dateKey string) tea.Cmd {
	return func() tea.Msg {
		return TodosLoadedMsg{
			RangeID: rangeID,
			DateKey: dateKey,
			Tasks:   store.Todos(context.Background(), rangeID, dateKey),
		}
	}
}

// SaveTodos replaces the todo list of one day of a saved range.
func SaveTodos(store *saved.BestEffort, rangeID, dateKey string, tasks []saved.TodoTask) tea.Cmd {
	snapshot := append([]saved.TodoTask{}, tasks...)
	return func() tea.Msg {
		return TodosSavedMsg{OK: store.SaveTodos(context.Background(), rangeID, dateKey, snapshot)}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied summary to clipboard"}
	}
}
