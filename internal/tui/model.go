// Package tui provides the interactive calendar for patro.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/tui/commands"
	"github.com/javiermolinar/patro/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeTodo // todo panel of the day under the cursor has focus
)

func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "prompt"
	case ModeTodo:
		return "todo"
	default:
		return "normal"
	}
}

// statusDuration is how long status messages stay visible.
const statusDuration = 3 * time.Second

// promptMaxLines caps the prompt box height, suggestions included.
const promptMaxLines = 4

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store  *saved.BestEffort
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Selection state machine, shared across model copies
	sel    *selection.Selection
	cursor time.Time
	now    func() time.Time

	mode       Mode
	promptFrom Mode // mode to return to when the prompt closes

	// Saved ranges as last loaded; rangeIdx points at the active one or -1
	ranges   []*saved.SavedRange
	rangeIdx int

	// Todo panel
	todoKey    string
	todos      []saved.TodoTask
	todoCursor int

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusWarn bool
	statusTime time.Time
}

// New creates a new TUI model over repo.
func New(repo saved.Repository, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		logger.Warn("loading theme", "theme", cfg.UI.Theme, "err", err)
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "/start MM/DD"
	ti.Prompt = ""
	ti.TextStyle = styles.PromptTextStyle
	ti.PlaceholderStyle = styles.LegendStyle

	now := time.Now
	today := calendar.TruncateToDay(now())
	sel := selection.New(cfg.Policy(), today)
	if cfg.IsBS() {
		sel.SetMode(selection.ModeBS)
	}

	return &Model{
		store:    saved.NewBestEffort(repo),
		config:   cfg,
		theme:    t,
		styles:   styles,
		sel:      sel,
		cursor:   today,
		now:      now,
		mode:     ModeNormal,
		rangeIdx: -1,
		prompt:   ti,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadRanges(m.store)
}

// Run starts the TUI.
func Run(repo saved.Repository, cfg *config.Config) error {
	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// setStatus shows msg until statusDuration has passed.
func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusWarn = false
	m.statusTime = m.now().Add(statusDuration)
}

// setWarning shows msg in the warning color.
func (m *Model) setWarning(msg string) {
	m.setStatus(msg)
	m.statusWarn = true
}

// visibleStatus returns the status message unless it has expired.
func (m Model) visibleStatus() string {
	if m.statusMsg == "" || m.now().After(m.statusTime) {
		return ""
	}
	return m.statusMsg
}

// moveCursor puts the cursor on date and shows its month.
func (m *Model) moveCursor(date time.Time) {
	m.cursor = calendar.TruncateToDay(date)
	m.sel.SetDisplay(m.cursor)
}

// shiftMonth moves t by n months, clamping the day to the target month.
func shiftMonth(t time.Time, n int) time.Time {
	first := calendar.Date(t.Year(), t.Month()+time.Month(n), 1)
	day := min(t.Day(), calendar.DaysInMonth(first.Year(), first.Month()))
	return calendar.Date(first.Year(), first.Month(), day)
}

// activeRange returns the saved range the selection reviews, if any.
func (m Model) activeRange() *saved.SavedRange {
	if m.rangeIdx < 0 || m.rangeIdx >= len(m.ranges) {
		return nil
	}
	return m.ranges[m.rangeIdx]
}

// syncRangeIdx points rangeIdx at the saved range the selection holds.
func (m *Model) syncRangeIdx() {
	m.rangeIdx = -1
	id := m.sel.SavedID()
	if id == "" {
		return
	}
	for i, r := range m.ranges {
		if r.ID == id {
			m.rangeIdx = i
			return
		}
	}
}

// applyPatch mirrors a persisted patch onto the cached saved range so
// cycling back to it shows the latest state.
func (m *Model) applyPatch(patch saved.Patch) {
	if r := m.activeRange(); r != nil {
		updated := patch.Apply(*r)
		m.ranges[m.rangeIdx] = &updated
	}
}

// closeTodos drops the todo panel.
func (m *Model) closeTodos() {
	m.todoKey = ""
	m.todos = nil
	m.todoCursor = 0
	if m.mode == ModeTodo {
		m.mode = ModeNormal
	}
}
