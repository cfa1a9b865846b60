package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel is the one-line title bar.
type HeaderModel struct {
	Width int
	Left  string
	Right string
	Style lipgloss.Style
}

// RenderHeader places Left and Right at the edges of a full-width bar.
// Right is dropped when both do not fit.
func RenderHeader(m HeaderModel) string {
	inner := max(m.Width-m.Style.GetHorizontalFrameSize(), 0)
	block := max(m.Width-m.Style.GetHorizontalMargins()-m.Style.GetHorizontalBorderSize(), 0)

	left := FitLine(m.Left, inner)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(m.Right)
	content := left
	if m.Right != "" && gap >= 1 {
		content = left + strings.Repeat(" ", gap) + m.Right
	}
	return m.Style.Width(block).Render(content)
}
