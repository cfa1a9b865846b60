// Package view renders the pieces of the calendar screen.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains the pre-rendered sections of the screen.
type ViewState struct {
	Width            int
	Height           int
	Header           string
	Body             string
	Side             string
	Footer           string
	Bg               lipgloss.Color
	EmptyPlaceholder string
}

// Render composes the final view output. The side panel, when present, is
// placed to the right of the body.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	body := state.Body
	if state.Side != "" {
		gap := lipgloss.NewStyle().Background(state.Bg).Render("   ")
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, gap, state.Side)
	}

	sections := make([]string, 0, 3)
	for _, s := range []string{state.Header, body, state.Footer} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	content := strings.Join(sections, "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = FitLine(line, state.Width)
	}
	return PadLinesWithBackground(strings.Join(lines, "\n"), state.Width, state.Height, state.Bg)
}
