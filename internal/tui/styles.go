package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/patro/internal/tui/theme"
	"github.com/javiermolinar/patro/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg lipgloss.Color

	HeaderStyle lipgloss.Style

	Month view.MonthStyles
	Todo  view.TodoStyles

	// Footer lines
	StatsBarStyle lipgloss.Style
	LegendStyle   lipgloss.Style
	StatusStyle   lipgloss.Style
	WarningStyle  lipgloss.Style
	HelpStyle     lipgloss.Style

	// Prompt box
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style
	PromptTextStyle    lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg

	base := lipgloss.NewStyle().Background(palette.Bg).Foreground(palette.Fg)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(palette.Accent).
		Padding(0, 1)

	s.Month = view.MonthStyles{
		Title:    base.Bold(true).Foreground(palette.Accent).Align(lipgloss.Center),
		Weekday:  base.Foreground(palette.FgMuted),
		Blank:    base,
		Day:      base,
		Working:  lipgloss.NewStyle().Foreground(palette.Working).Bold(true),
		Excluded: lipgloss.NewStyle().Foreground(palette.Excluded),
		Off:      lipgloss.NewStyle().Foreground(palette.Off).Faint(true),
		Deducted: lipgloss.NewStyle().Foreground(palette.Deducted).Strikethrough(true),
		Added:    lipgloss.NewStyle().Foreground(palette.Added).Bold(true),
		Edge: lipgloss.NewStyle().
			Foreground(palette.TextOnAccent).
			Background(palette.Accent).
			Bold(true),
		Today: lipgloss.NewStyle().Foreground(palette.Today).Underline(true),
		Cursor: lipgloss.NewStyle().
			Foreground(palette.TextOnSelection).
			Background(palette.BgSelection).
			Bold(true),
		RangeBg:  palette.RangeBg,
		LockedBg: palette.LockedBg,
	}

	s.Todo = view.TodoStyles{
		Title: base.Bold(true).Foreground(palette.Accent),
		Task:  base,
		Done:  base.Foreground(palette.FgMuted).Strikethrough(true),
		Selected: lipgloss.NewStyle().
			Foreground(palette.TextOnSelection).
			Background(palette.BgSelection),
		Muted: base.Foreground(palette.FgMuted),
	}

	s.StatsBarStyle = base.Bold(true).Foreground(palette.Working)
	s.LegendStyle = base.Foreground(palette.FgMuted)
	s.StatusStyle = base.Foreground(palette.Accent)
	s.WarningStyle = base.Foreground(palette.Warning)
	s.HelpStyle = base.Foreground(palette.FgMuted)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.FgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBg).
		Foreground(palette.Fg)
	s.PromptFocusedStyle = s.PromptStyle.
		BorderForeground(palette.Accent)
	s.PromptTextStyle = base

	return s
}
