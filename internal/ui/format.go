package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/javiermolinar/patro/internal/grid"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

const weekdayHeader = " Su  Mo  Tu  We  Th  Fr  Sa"

// cellStyle picks the color for a cell. Overrides win over the policy class.
func cellStyle(c *grid.Cell) *color.Color {
	switch {
	case c.IsEdge:
		return colorEdge
	case c.IsDeducted:
		return colorDeducted
	case c.IsAdded:
		return colorAdded
	case c.IsWorking:
		return colorWorking
	case c.IsExcluded:
		return colorExcluded
	case c.IsOff:
		return colorOff
	default:
		return nil
	}
}

// cellText renders one four-column cell. B.S. mode shows the B.S. day
// number when the date is inside the table.
func cellText(c *grid.Cell) string {
	if c == nil {
		return "    "
	}
	day := c.Day()
	var s string
	if c.IsEdge {
		s = fmt.Sprintf("[%2d]", day)
	} else {
		s = fmt.Sprintf(" %2d%s", day, c.Marker())
	}
	if style := cellStyle(c); style != nil {
		s = style.Sprint(s)
	}
	if c.IsToday {
		s = colorToday.Sprint(s)
	}
	return s
}

// printMonth writes a month grid.
func printMonth(w io.Writer, year int, month time.Month, ctx grid.Context) {
	fmt.Fprintln(w, formatHeader(grid.Title(year, month, ctx.BS)))
	fmt.Fprintln(w, formatMuted(weekdayHeader))
	for _, week := range grid.Weeks(grid.Month(year, month, ctx)) {
		var b strings.Builder
		for _, c := range week {
			b.WriteString(cellText(c))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// printLegend explains the cell markers.
func printLegend(w io.Writer) {
	fmt.Fprintln(w, formatMuted("[n] range edge  x excluded  . off  - deducted  + added"))
}

// printStats writes the working-day breakdown of a range.
func printStats(w io.Writer, st workday.Stats, p workday.Policy) {
	fmt.Fprintf(w, "%s of %d days (%s)\n",
		formatStats(fmt.Sprintf("%d working", st.Working)), st.TotalDays, p.Label())
	if st.Excluded > 0 || st.Off > 0 {
		fmt.Fprintf(w, "  %d excluded, %d off\n", st.Excluded, st.Off)
	}
	if st.Deducted > 0 || st.Added > 0 {
		fmt.Fprintf(w, "  %d deducted, %d added\n", st.Deducted, st.Added)
	}
}

// shortID trims a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printRangeRow writes one saved range as a list line.
func printRangeRow(w io.Writer, r *saved.SavedRange, mode selection.Mode, titleWidth int) {
	title := r.Title
	if titleWidth > 0 && len([]rune(title)) > titleWidth {
		title = string([]rune(title)[:titleWidth-1]) + "…"
	}
	fmt.Fprintf(w, "%s  %-*s  %s - %s  %-10s %s\n",
		formatMuted(shortID(r.ID)),
		titleWidth, title,
		selection.FormatDate(r.Start, mode),
		selection.FormatDate(r.End, mode),
		r.Policy().String(),
		formatStats(fmt.Sprintf("%d days", r.WorkingDays())),
	)
}

// listTitleWidth fits titles to the terminal.
func listTitleWidth(ranges []*saved.SavedRange) int {
	longest := 5
	for _, r := range ranges {
		longest = max(longest, len([]rune(r.Title)))
	}
	// id, dates, policy and count take about 60 columns
	return max(10, min(longest, termWidth()-60))
}
