package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/grid"
)

// CellWidth is the rendered width of one day cell.
const CellWidth = 5

// MonthWidth is the rendered width of a month grid.
const MonthWidth = 7 * CellWidth

var weekdayLabels = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// MonthStyles holds the styles of the calendar grid.
type MonthStyles struct {
	Title    lipgloss.Style
	Weekday  lipgloss.Style
	Blank    lipgloss.Style
	Day      lipgloss.Style
	Working  lipgloss.Style
	Excluded lipgloss.Style
	Off      lipgloss.Style
	Deducted lipgloss.Style
	Added    lipgloss.Style
	Edge     lipgloss.Style
	Today    lipgloss.Style
	Cursor   lipgloss.Style

	// RangeBg and LockedBg tint cells inside an unlocked or locked range.
	RangeBg  lipgloss.Color
	LockedBg lipgloss.Color
}

// MonthModel is everything needed to draw one month.
type MonthModel struct {
	Title  string
	Cells  []*grid.Cell
	Cursor time.Time
	Locked bool
	Styles MonthStyles
}

// RenderMonth draws the title, the weekday header and one row per week.
func RenderMonth(m MonthModel) string {
	lines := make([]string, 0, 8)
	lines = append(lines, m.Styles.Title.Width(MonthWidth).Render(m.Title))

	var header strings.Builder
	for _, label := range weekdayLabels {
		header.WriteString(fmt.Sprintf(" %2s  ", label))
	}
	lines = append(lines, m.Styles.Weekday.Render(header.String()))

	cursorKey := ""
	if !m.Cursor.IsZero() {
		cursorKey = calendar.DateKey(m.Cursor)
	}
	for _, week := range grid.Weeks(m.Cells) {
		var row strings.Builder
		for _, c := range week {
			row.WriteString(renderCell(c, cursorKey, m))
		}
		lines = append(lines, row.String())
	}
	return strings.Join(lines, "\n")
}

func renderCell(c *grid.Cell, cursorKey string, m MonthModel) string {
	if c == nil {
		return m.Styles.Blank.Render(strings.Repeat(" ", CellWidth))
	}

	text := fmt.Sprintf(" %2d%s ", c.Day(), c.Marker())
	if c.IsEdge {
		text = fmt.Sprintf("[%2d]%s", c.Day(), c.Marker())
	}

	style := CellStyle(c, m.Styles)
	if c.InRange {
		bg := m.Styles.RangeBg
		if m.Locked {
			bg = m.Styles.LockedBg
		}
		style = style.Background(bg)
	}
	if c.IsToday {
		style = style.Inherit(m.Styles.Today)
	}
	if c.Key == cursorKey {
		style = m.Styles.Cursor
	}
	return style.Render(text)
}

// CellStyle picks the foreground style for a cell. Edges win, then
// overrides, then the policy class.
func CellStyle(c *grid.Cell, s MonthStyles) lipgloss.Style {
	switch {
	case c.IsEdge:
		return s.Edge
	case c.IsDeducted:
		return s.Deducted
	case c.IsAdded:
		return s.Added
	case c.IsWorking:
		return s.Working
	case c.IsExcluded:
		return s.Excluded
	case c.IsOff:
		return s.Off
	default:
		return s.Day
	}
}
