package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW           int
	FooterH          int
	StatsText        string
	LegendText       string
	StatusText       string
	HelpText         string
	PromptLines      []string
	PromptMax        int
	PromptFocus      bool
	ShowPrompt       bool
	StatsStyle       lipgloss.Style
	LegendStyle      lipgloss.Style
	StatusStyle      lipgloss.Style
	HelpStyle        lipgloss.Style
	PromptStyle      lipgloss.Style
	PromptFocusStyle lipgloss.Style
	VAlign           lipgloss.Position
	Bg               lipgloss.Color
}

// RenderFooter renders stats, legend, prompt, status, and help lines.
// Short terminals only get the status and help lines.
func RenderFooter(model FooterModel) string {
	if model.FooterH <= 0 {
		return ""
	}

	statusLine := footerLine(model.InnerW, model.StatusStyle, model.StatusText)
	helpLine := footerLine(model.InnerW, model.HelpStyle, model.HelpText)
	if model.FooterH < FullFooterHeight(model.PromptMax) {
		return PlaceBox(model.InnerW, model.FooterH, model.VAlign, statusLine+"\n"+helpLine, model.Bg)
	}

	promptStyle := model.PromptStyle
	if model.PromptFocus {
		promptStyle = model.PromptFocusStyle
	}
	var promptLines []string
	if model.ShowPrompt {
		promptLines = model.PromptLines
	}
	promptLine := renderPromptBox(model.InnerW, promptStyle, promptLines, model.PromptMax)

	s := footerLine(model.InnerW, model.StatsStyle, model.StatsText) + "\n"
	s += footerLine(model.InnerW, model.LegendStyle, model.LegendText) + "\n"
	s += promptLine + "\n"
	s += statusLine + "\n"
	s += helpLine
	return PlaceBox(model.InnerW, model.FooterH, model.VAlign, s, model.Bg)
}

// FullFooterHeight is the number of rows the footer needs to show every
// line with a prompt of promptMax content lines and a one-row border.
func FullFooterHeight(promptMax int) int {
	return 4 + max(promptMax, 1) + 2
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
