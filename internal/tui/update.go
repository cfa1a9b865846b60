package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/patro/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(msg.Width-6, 10)
		return m, nil

	case commands.RangesLoadedMsg:
		m.ranges = msg.Ranges
		m.syncRangeIdx()
		return m, nil

	case commands.RangeSavedMsg:
		if msg.OK {
			m.setStatus(fmt.Sprintf("Saved %q", msg.Range.Title))
		} else {
			m.setWarning(fmt.Sprintf("Saved %q locally; the store is unavailable", msg.Range.Title))
		}
		return m, nil

	case commands.RangeUpdatedMsg:
		if !msg.OK {
			m.setWarning("Changes kept locally; the store is unavailable")
		}
		return m, nil

	case commands.TodosLoadedMsg:
		// Ignore lists for a day that is no longer open.
		if msg.RangeID != m.sel.SavedID() || msg.DateKey != m.todoKey {
			return m, nil
		}
		m.todos = msg.Tasks
		m.todoCursor = max(0, min(m.todoCursor, len(m.todos)-1))
		return m, nil

	case commands.TodosSavedMsg:
		if !msg.OK {
			m.setWarning("Tasks kept locally; the store is unavailable")
		}
		return m, nil

	case commands.ErrMsg:
		m.setWarning(fmt.Sprintf("Error: %v", msg.Err))
		return m, nil

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if m.now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Forward everything else (cursor blink) to the prompt
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
