package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/tui/commands"
	"github.com/javiermolinar/patro/internal/tui/input"
	"github.com/javiermolinar/patro/internal/workday"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logger.Debug("key", "key", msg.String(), "mode", m.mode, "state", m.sel.State())

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Mode-specific handling
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeTodo:
		return m.handleTodoKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		m.moveCursor(calendar.AddDays(m.cursor, -1))
	case "l", "right":
		m.moveCursor(calendar.AddDays(m.cursor, 1))
	case "k", "up":
		m.moveCursor(calendar.AddDays(m.cursor, -7))
	case "j", "down":
		m.moveCursor(calendar.AddDays(m.cursor, 7))
	case "[", "pgup":
		m.moveCursor(shiftMonth(m.cursor, -1))
	case "]", "pgdown":
		m.moveCursor(shiftMonth(m.cursor, 1))
	case "t":
		m.moveCursor(m.now())

	// Selection
	case "enter":
		return m.pickOrOpenTodos()
	case " ":
		return m.toggleDay()
	case "L":
		return m.toggleLock()
	case "S":
		if m.sel.State() != selection.Locked {
			m.setWarning(saveHint(m.sel.State()))
			return m, nil
		}
		return m.openPrompt(input.CmdSave + " ")
	case "E":
		return m.extend()
	case "U":
		return m.updateOverrides()
	case "C":
		dirty := m.sel.Dirty()
		m.sel.Clear()
		m.rangeIdx = -1
		m.closeTodos()
		m.setStatus(withDiscarded("Selection cleared", dirty))

	// Settings
	case "W":
		p := m.sel.CyclePolicy()
		m.setStatus("Policy: " + p.Label())
	case "B":
		mode := m.sel.ToggleMode()
		m.setStatus("Calendar: " + mode.String())

	// Prompt shortcuts
	case "/":
		return m.openPrompt("/")
	case "s":
		return m.openPrompt(input.CmdStart + " ")
	case "e":
		return m.openPrompt(input.CmdEnd + " ")
	case "d":
		return m.openPrompt(input.CmdDays + " ")
	case "g":
		return m.openPrompt(input.CmdGoto + " ")

	// Saved ranges
	case "o":
		return m.cycleSavedRange()
	case "y":
		summary := m.sel.Summary()
		if summary == "" {
			m.setWarning("Nothing to copy")
			return m, nil
		}
		return m, commands.CopyToClipboard(summary)
	}
	return m, nil
}

func saveHint(state selection.State) string {
	switch state {
	case selection.Review:
		return "Range is already saved"
	case selection.Complete:
		return "Lock the range with L before saving"
	default:
		return "Pick a start and an end first"
	}
}

// pickOrOpenTodos picks the cursor day, or opens its todo list when a
// saved range is under review.
func (m Model) pickOrOpenTodos() (tea.Model, tea.Cmd) {
	if m.sel.State() == selection.Review {
		rng, _ := m.sel.Range()
		if !rng.Contains(m.cursor) {
			m.setWarning("Day is outside the saved range")
			return m, nil
		}
		m.mode = ModeTodo
		m.todoKey = calendar.DateKey(m.cursor)
		m.todos = nil
		m.todoCursor = 0
		return m, commands.LoadTodos(m.store, m.sel.SavedID(), m.todoKey)
	}

	if err := m.sel.Pick(m.cursor); err != nil {
		m.setWarning("Range is locked; press L to unlock")
		return m, nil
	}
	if m.sel.State() == selection.SelectingEnd {
		m.setStatus("Start: " + selection.FormatDate(m.cursor, m.sel.Mode()))
	} else {
		m.setStatus(fmt.Sprintf("%d working days", m.sel.WorkingDays()))
	}
	return m, nil
}

// toggleDay flips the override of the cursor day. The change stays in
// memory until updateOverrides stores it.
func (m Model) toggleDay() (tea.Model, tea.Cmd) {
	if m.sel.State() != selection.Review {
		m.setWarning("Save the range to toggle days")
		return m, nil
	}
	if !m.sel.ToggleDay(m.cursor) {
		m.setWarning("Day cannot be toggled")
		return m, nil
	}
	m.setStatus(fmt.Sprintf("%d working days (unsaved; press U to update)", m.sel.WorkingDays()))
	return m, nil
}

// updateOverrides stores the toggled days in the saved range.
func (m Model) updateOverrides() (tea.Model, tea.Cmd) {
	if m.sel.State() != selection.Review {
		m.setWarning("Open a saved range to update it")
		return m, nil
	}
	if !m.sel.Dirty() {
		m.setStatus("No changes to update")
		return m, nil
	}
	patch, err := m.sel.OverridesPatch()
	if err != nil {
		m.setWarning(err.Error())
		return m, nil
	}
	m.applyPatch(patch)
	m.setStatus(fmt.Sprintf("Updated %q", m.sel.SavedTitle()))
	return m, commands.UpdateRange(m.store, m.sel.SavedID(), patch)
}

// withDiscarded notes dropped unsaved toggles on a status message.
func withDiscarded(msg string, dirty bool) string {
	if dirty {
		return msg + "; unsaved day changes discarded"
	}
	return msg
}

func (m Model) toggleLock() (tea.Model, tea.Cmd) {
	wasSaved := m.sel.State() == selection.Review
	dirty := m.sel.Dirty()
	if err := m.sel.ToggleLock(); err != nil {
		m.setWarning("Pick a start and an end first")
		return m, nil
	}
	if m.sel.IsLocked() {
		m.setStatus("Locked")
		return m, nil
	}
	if wasSaved {
		m.rangeIdx = -1
		m.closeTodos()
	}
	m.setStatus(withDiscarded("Unlocked", dirty))
	return m, nil
}

func (m Model) extend() (tea.Model, tea.Cmd) {
	patch, err := m.sel.Extend()
	if err != nil {
		m.setWarning("Open a saved range to extend it")
		return m, nil
	}
	m.applyPatch(patch)
	end, _ := m.sel.End()
	m.moveCursor(end)
	m.setStatus(fmt.Sprintf("Extended to %s (%d working days)",
		selection.FormatDate(end, m.sel.Mode()), m.sel.WorkingDays()))
	return m, commands.UpdateRange(m.store, m.sel.SavedID(), patch)
}

// cycleSavedRange loads the next saved range for review.
func (m Model) cycleSavedRange() (tea.Model, tea.Cmd) {
	if len(m.ranges) == 0 {
		m.setWarning("No saved ranges")
		return m, nil
	}
	dirty := m.sel.Dirty()
	m.rangeIdx = (m.rangeIdx + 1) % len(m.ranges)
	r := m.ranges[m.rangeIdx]
	m.closeTodos()
	m.sel.Load(r)
	m.moveCursor(r.Start)
	m.setStatus(withDiscarded(fmt.Sprintf("%s (%d/%d)", r.Title, m.rangeIdx+1, len(m.ranges)), dirty))
	return m, nil
}

// openPrompt focuses the prompt with value pre-filled.
func (m Model) openPrompt(value string) (tea.Model, tea.Cmd) {
	m.promptFrom = m.mode
	m.mode = ModePrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	return m, m.prompt.Focus()
}

// closePrompt returns to the mode the prompt was opened from.
func (m *Model) closePrompt() {
	m.mode = m.promptFrom
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// handlePromptKeys handles keys while the prompt has focus.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.closePrompt()
		return m.handlePromptSubmit(value)

	case "tab":
		if completion, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(completion)
			m.prompt.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handlePromptSubmit runs a submitted prompt line.
func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	name, arg, ok := input.Parse(value, input.Commands)
	if !ok {
		if value != "" && value != "/" {
			m.setWarning("Unknown command: " + value)
		}
		return m, nil
	}

	switch name {
	case input.CmdStart, input.CmdEnd:
		return m.typeEndpoint(name, arg)

	case input.CmdDays:
		n, err := strconv.Atoi(arg)
		if err != nil {
			m.setWarning("Days must be a number")
			return m, nil
		}
		if err := m.sel.SetDays(n); err != nil {
			m.setWarning(daysError(err))
			return m, nil
		}
		end, _ := m.sel.End()
		m.moveCursor(end)
		m.setStatus(fmt.Sprintf("Ends %s", selection.FormatDate(end, m.sel.Mode())))
		return m, nil

	case input.CmdSave:
		r, err := m.sel.Save(arg)
		if err != nil {
			m.setWarning(saveError(err))
			return m, nil
		}
		m.ranges = append(m.ranges, r)
		m.rangeIdx = len(m.ranges) - 1
		return m, commands.CreateRange(m.store, r)

	case input.CmdUpdate:
		return m.updateOverrides()

	case input.CmdTodo:
		if m.todoKey == "" {
			m.setWarning("Open a day with enter to add tasks")
			return m, nil
		}
		task, err := saved.NewTodoTask(arg)
		if err != nil {
			m.setWarning("Task text is empty")
			return m, nil
		}
		m.todos = append(m.todos, task)
		m.todoCursor = len(m.todos) - 1
		return m, commands.SaveTodos(m.store, m.sel.SavedID(), m.todoKey, m.todos)

	case input.CmdGoto:
		t, err := time.ParseInLocation("2006-01", arg, time.Local)
		if err != nil {
			m.setWarning("Use YYYY-MM")
			return m, nil
		}
		m.moveCursor(t)
		return m, nil
	}
	return m, nil
}

// typeEndpoint applies typed MM/DD text to the start or the end.
func (m Model) typeEndpoint(name, arg string) (tea.Model, tea.Cmd) {
	text := calendar.NormalizeMMDDInput(arg)
	var (
		ok  bool
		err error
	)
	if name == input.CmdStart {
		ok, err = m.sel.TypeStart(text)
	} else {
		ok, err = m.sel.TypeEnd(text)
	}
	switch {
	case errors.Is(err, selection.ErrLocked):
		m.setWarning("Range is locked; press L to unlock")
		return m, nil
	case err != nil:
		m.setWarning(err.Error())
		return m, nil
	case !ok:
		m.setWarning(fmt.Sprintf("Invalid %s date %q", m.sel.Mode(), arg))
		return m, nil
	}

	endpoint, set := m.sel.Start()
	if name == input.CmdEnd {
		endpoint, set = m.sel.End()
	}
	if set {
		m.moveCursor(endpoint)
	}
	if m.sel.State() == selection.Complete {
		m.setStatus(fmt.Sprintf("%d working days", m.sel.WorkingDays()))
	}
	return m, nil
}

func daysError(err error) string {
	switch {
	case errors.Is(err, selection.ErrLocked):
		return "Range is locked; press L to unlock"
	case errors.Is(err, selection.ErrIncomplete):
		return "Set a start date first"
	case errors.Is(err, workday.ErrInvalidDayCount):
		return "Days must be between 1 and 999"
	default:
		return err.Error()
	}
}

func saveError(err error) string {
	switch {
	case errors.Is(err, selection.ErrNotLocked):
		return "Lock the range with L before saving"
	case errors.Is(err, selection.ErrSaved):
		return "Range is already saved"
	case errors.Is(err, saved.ErrEmptyTitle):
		return "Title is required"
	default:
		return err.Error()
	}
}

// handleTodoKeys handles keys while the todo panel has focus.
func (m Model) handleTodoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.closeTodos()
	case "j", "down":
		if m.todoCursor < len(m.todos)-1 {
			m.todoCursor++
		}
	case "k", "up":
		if m.todoCursor > 0 {
			m.todoCursor--
		}
	case "a", "/":
		return m.openPrompt(input.CmdTodo + " ")
	case " ", "enter":
		if len(m.todos) == 0 {
			return m, nil
		}
		tasks := append([]saved.TodoTask{}, m.todos...)
		tasks[m.todoCursor].Done = !tasks[m.todoCursor].Done
		m.todos = tasks
		return m, commands.SaveTodos(m.store, m.sel.SavedID(), m.todoKey, m.todos)
	case "x", "d":
		if len(m.todos) == 0 {
			return m, nil
		}
		tasks := append([]saved.TodoTask{}, m.todos[:m.todoCursor]...)
		tasks = append(tasks, m.todos[m.todoCursor+1:]...)
		m.todos = tasks
		m.todoCursor = max(0, min(m.todoCursor, len(m.todos)-1))
		return m, commands.SaveTodos(m.store, m.sel.SavedID(), m.todoKey, m.todos)
	}
	return m, nil
}
