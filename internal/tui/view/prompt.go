package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/patro/internal/tui/input"
)

// PromptState is what the prompt box shows.
type PromptState struct {
	Value    string
	Cursor   string
	Focused  bool
	MaxLines int // input line plus suggestions
}

// PromptLines returns the input line followed by the commands matching the
// typed prefix. At most MaxLines lines are returned, each fitted to width;
// suggestions that do not fit collapse into a "+N more" line.
func PromptLines(state PromptState, width int, commands []input.PromptCommand) []string {
	lines := []string{inputLine(state.Value+state.Cursor, width)}
	if !state.Focused {
		return lines
	}

	room := state.MaxLines - 1
	matches := input.PromptMatchingCommands(state.Value, commands)
	if room <= 0 || len(matches) == 0 {
		return lines
	}

	shown, more := matches, 0
	if len(matches) > room {
		shown = matches[:room-1]
		more = len(matches) - len(shown)
	}
	for _, cmd := range shown {
		lines = append(lines, fit("  "+usage(cmd)+"  "+cmd.Description, width))
	}
	if more > 0 {
		lines = append(lines, fit(fmt.Sprintf("  +%d more", more), width))
	}
	return lines
}

func usage(cmd input.PromptCommand) string {
	if cmd.Args == "" {
		return cmd.Name
	}
	return cmd.Name + " " + cmd.Args
}

// inputLine keeps the end of long input visible, where the cursor is.
func inputLine(value string, width int) string {
	if runewidth.StringWidth(value)+2 <= width {
		return "> " + value
	}
	runes := []rune(value)
	w, i := 0, len(runes)
	for i > 0 && w+runewidth.RuneWidth(runes[i-1]) <= width-2 {
		w += runewidth.RuneWidth(runes[i-1])
		i--
	}
	return ">…" + string(runes[i:])
}

func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// renderPromptBox draws lines in style, padded to maxLines rows so the box
// keeps its height whether or not the prompt is open.
func renderPromptBox(width int, style lipgloss.Style, lines []string, maxLines int) string {
	frameW, _ := style.GetFrameSize()
	style = style.Width(max(width-frameW, 0))
	maxLines = max(maxLines, 1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	rows := make([]string, maxLines)
	copy(rows, lines)
	return style.Render(strings.Join(rows, "\n"))
}
