package grid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
)

// Title returns "March 2026", followed by the B.S. months the A.D. month
// spans when bsMode is set.
func Title(year int, month time.Month, bsMode bool) string {
	title := fmt.Sprintf("%s %d", month, year)
	if !bsMode {
		return title
	}
	first := calendar.Date(year, month, 1)
	last := calendar.AddDays(first, calendar.DaysInMonth(year, month)-1)
	a, okA := bs.FromGregorian(first)
	b, okB := bs.FromGregorian(last)
	switch {
	case okA && okB && a.Month == b.Month:
		return fmt.Sprintf("%s (%s %d)", title, bs.MonthName(a.Month), a.Year)
	case okA && okB:
		return fmt.Sprintf("%s (%s/%s %d)", title, bs.MonthName(a.Month), bs.MonthName(b.Month), b.Year)
	default:
		return title + " (outside B.S. table)"
	}
}

// Day is the number shown in the cell: the B.S. day when a label is
// attached, the A.D. day otherwise.
func (c *Cell) Day() int {
	if len(c.BSLabel) == 5 {
		if n, err := strconv.Atoi(c.BSLabel[3:]); err == nil {
			return n
		}
	}
	return c.DayNum
}

// Marker is the one-character plain-text hint for the cell class.
// Overrides win over the policy class.
func (c *Cell) Marker() string {
	switch {
	case c.IsDeducted:
		return "-"
	case c.IsAdded:
		return "+"
	case c.IsExcluded:
		return "x"
	case c.IsOff:
		return "."
	default:
		return " "
	}
}
