package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Working days inside the range: bold green
	colorWorking = color.New(color.FgGreen, color.Bold)

	// Excluded days (Saturday, weekend policy): red
	colorExcluded = color.New(color.FgRed)

	// Custom-policy off days: dim
	colorOff = color.New(color.FgWhite, color.Faint)

	// Range endpoints: reversed so they stand out
	colorEdge = color.New(color.FgGreen, color.Bold, color.ReverseVideo)

	// Today: underlined
	colorToday = color.New(color.Underline)

	// Overrides: yellow for deducted, cyan for added
	colorDeducted = color.New(color.FgYellow, color.CrossedOut)
	colorAdded    = color.New(color.FgCyan, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
