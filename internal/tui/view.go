package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/grid"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/tui/input"
	"github.com/javiermolinar/patro/internal/tui/view"
	"github.com/javiermolinar/patro/internal/workday"
)

const todoPanelWidth = 34

const legendText = "[n] range edge  x excluded  . off  - deducted  + added"

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	state := view.ViewState{
		Width:            m.width,
		Height:           m.height,
		Bg:               m.styles.colorBg,
		EmptyPlaceholder: "Loading...",
	}
	if m.width <= 0 || m.height <= 0 {
		return state
	}

	state.Header = view.RenderHeader(view.HeaderModel{
		Width: m.width,
		Left:  m.headerLeft(),
		Right: m.headerRight(),
		Style: m.styles.HeaderStyle,
	})
	state.Body = m.renderMonth()
	if m.todoKey != "" && m.width >= view.MonthWidth+3+todoPanelWidth {
		state.Side = m.renderTodos()
	}

	footerH := m.height - lipgloss.Height(state.Header) - lipgloss.Height(state.Body)
	state.Footer = view.RenderFooter(m.footerModel(max(footerH, 0)))
	return state
}

func (m Model) headerLeft() string {
	if title := m.sel.SavedTitle(); title != "" {
		return "patro · " + title
	}
	return "patro"
}

func (m Model) headerRight() string {
	parts := []string{m.sel.Mode().String(), m.sel.Policy().Label(), m.sel.State().String()}
	if m.sel.Dirty() {
		parts = append(parts, "unsaved")
	}
	if m.store.Err() != nil {
		parts = append(parts, "offline")
	}
	return strings.Join(parts, " | ")
}

// gridContext classifies the month around the selection. A lone endpoint
// is shown as a one-day range.
func (m Model) gridContext() grid.Context {
	ctx := grid.Context{
		Policy:    m.sel.Policy(),
		Overrides: m.sel.Overrides(),
		Today:     m.now(),
		BS:        m.sel.Mode() == selection.ModeBS,
	}
	if r, ok := m.sel.Effective(); ok {
		ctx.Range, ctx.HasRange = r, true
		return ctx
	}
	if start, ok := m.sel.Start(); ok {
		ctx.Range, ctx.HasRange = workday.NewRange(start, start), true
	} else if end, ok := m.sel.End(); ok {
		ctx.Range, ctx.HasRange = workday.NewRange(end, end), true
	}
	return ctx
}

func (m Model) renderMonth() string {
	display := m.sel.Display()
	ctx := m.gridContext()
	return view.RenderMonth(view.MonthModel{
		Title:  grid.Title(display.Year(), display.Month(), ctx.BS),
		Cells:  grid.Month(display.Year(), display.Month(), ctx),
		Cursor: m.cursor,
		Locked: m.sel.IsLocked(),
		Styles: m.styles.Month,
	})
}

func (m Model) renderTodos() string {
	title := "Tasks"
	if day, ok := calendar.ParseDateKey(m.todoKey); ok {
		title = "Tasks for " + selection.FormatDate(day, m.sel.Mode())
	}
	return view.RenderTodos(view.TodoModel{
		Title:   title,
		Tasks:   m.todos,
		Cursor:  m.todoCursor,
		Focused: m.mode == ModeTodo,
		Width:   todoPanelWidth,
		Styles:  m.styles.Todo,
	})
}

func (m Model) footerModel(height int) view.FooterModel {
	promptWidth := max(m.width-2, 1)
	lines := view.PromptLines(view.PromptState{
		Value:    m.prompt.Value(),
		Cursor:   "_",
		Focused:  m.mode == ModePrompt,
		MaxLines: promptMaxLines,
	}, promptWidth, input.Commands)

	statusStyle := m.styles.StatusStyle
	if m.statusWarn {
		statusStyle = m.styles.WarningStyle
	}

	return view.FooterModel{
		InnerW:           m.width,
		FooterH:          height,
		StatsText:        m.statsText(),
		LegendText:       legendText,
		StatusText:       m.visibleStatus(),
		HelpText:         m.helpText(),
		PromptLines:      lines,
		PromptMax:        promptMaxLines,
		PromptFocus:      m.mode == ModePrompt,
		ShowPrompt:       m.mode == ModePrompt,
		StatsStyle:       m.styles.StatsBarStyle,
		LegendStyle:      m.styles.LegendStyle,
		StatusStyle:      statusStyle,
		HelpStyle:        m.styles.HelpStyle,
		PromptStyle:      m.styles.PromptStyle,
		PromptFocusStyle: m.styles.PromptFocusedStyle,
		VAlign:           lipgloss.Bottom,
		Bg:               m.styles.colorBg,
	}
}

// statsText describes the selection on one line.
func (m Model) statsText() string {
	mode := m.sel.Mode()
	st, ok := m.sel.Stats()
	if !ok {
		if start, set := m.sel.Start(); set {
			return fmt.Sprintf("Start %s; pick the end", selection.FormatDate(start, mode))
		}
		if end, set := m.sel.End(); set {
			return fmt.Sprintf("End %s; pick the start", selection.FormatDate(end, mode))
		}
		return "Pick a start date with enter, or type one with s"
	}

	rng, _ := m.sel.Range()
	text := fmt.Sprintf("%s - %s   %d working of %d days (%s)",
		selection.FormatDate(rng.Start, mode), selection.FormatDate(rng.End, mode),
		st.Working, st.TotalDays, m.sel.Policy().Label())
	if st.Deducted > 0 || st.Added > 0 {
		text += fmt.Sprintf(", %d deducted, %d added", st.Deducted, st.Added)
	}
	return text
}

func (m Model) helpText() string {
	switch {
	case m.mode == ModePrompt:
		return "enter run  tab complete  esc cancel"
	case m.mode == ModeTodo:
		return "j/k move  space done  a add  x delete  esc back"
	case m.sel.State() == selection.Review:
		return "space toggle day  U update  enter tasks  E extend  L unlock  o next range  y copy  q quit"
	default:
		return "hjkl move  [ ] month  enter pick  s/e type  d days  L lock  S save  o ranges  W policy  B calendar  q quit"
	}
}
