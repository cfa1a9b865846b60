package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/patro/internal/saved"
)

// TodoStyles holds the styles of the todo panel.
type TodoStyles struct {
	Title    lipgloss.Style
	Task     lipgloss.Style
	Done     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
}

// TodoModel is the todo list of one day.
type TodoModel struct {
	Title   string
	Tasks   []saved.TodoTask
	Cursor  int
	Focused bool
	Width   int
	Styles  TodoStyles
}

// RenderTodos draws the todo panel: a title, one line per task and a
// completion count.
func RenderTodos(m TodoModel) string {
	width := max(m.Width, 10)
	lines := []string{m.Styles.Title.Render(FitLine(m.Title, width))}

	if len(m.Tasks) == 0 {
		lines = append(lines, m.Styles.Muted.Render("No tasks. Press a to add one."))
		return strings.Join(lines, "\n")
	}

	done := 0
	for i, task := range m.Tasks {
		box := "[ ]"
		style := m.Styles.Task
		if task.Done {
			box = "[x]"
			style = m.Styles.Done
			done++
		}
		prefix := "  "
		if m.Focused && i == m.Cursor {
			prefix = "> "
			style = m.Styles.Selected
		}
		line := fmt.Sprintf("%s%d. %s %s", prefix, i+1, box, task.Text)
		lines = append(lines, style.Render(FitLine(line, width)))
	}
	lines = append(lines, m.Styles.Muted.Render(fmt.Sprintf("%d/%d done", done, len(m.Tasks))))
	return strings.Join(lines, "\n")
}
