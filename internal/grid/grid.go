// Package grid builds the per-month cell sequence the calendar views render.
package grid

import (
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/workday"
)

// Context is everything a month needs to classify its cells.
type Context struct {
	Range     workday.Range
	HasRange  bool
	Policy    workday.Policy
	Overrides *workday.Overrides
	Today     time.Time
	BS        bool // attach B.S. labels
}

// Cell is one day of a month grid.
type Cell struct {
	Date   time.Time
	DayNum int
	Key    string

	InRange    bool
	IsEdge     bool
	IsToday    bool
	IsWorking  bool
	IsExcluded bool
	IsOff      bool
	IsDeducted bool
	IsAdded    bool

	BSLabel string // "MM/DD" in B.S., "" when disabled or outside the table
}

// Month returns the cells of a month: nil padding for the weekdays before
// the 1st (weeks start on Sunday), then one cell per day. Classification
// flags are only set inside the context range.
func Month(year int, month time.Month, ctx Context) []*Cell {
	pad := int(calendar.FirstWeekdayOfMonth(year, month))
	n := calendar.DaysInMonth(year, month)
	cells := make([]*Cell, pad, pad+n)

	today := calendar.DateKey(ctx.Today)
	for day := 1; day <= n; day++ {
		date := calendar.Date(year, month, day)
		c := &Cell{
			Date:   date,
			DayNum: day,
			Key:    calendar.DateKey(date),
		}
		c.IsToday = !ctx.Today.IsZero() && c.Key == today
		if ctx.BS {
			c.BSLabel = bs.FormatShort(date)
		}
		if ctx.HasRange && ctx.Range.Contains(date) {
			classify(c, ctx)
		}
		cells = append(cells, c)
	}
	return cells
}

func classify(c *Cell, ctx Context) {
	c.InRange = true
	c.IsEdge = ctx.Range.IsEdge(c.Date)
	if !calendar.IsSaturday(c.Date) {
		c.IsDeducted = ctx.Overrides.IsDeducted(c.Key)
		c.IsAdded = ctx.Overrides.IsAdded(c.Key)
	}
	switch workday.EffectiveClass(c.Date, ctx.Policy, ctx.Overrides) {
	case workday.Working:
		c.IsWorking = true
	case workday.Excluded:
		c.IsExcluded = true
	case workday.Off:
		c.IsOff = true
	}
}

// Weeks splits cells into rows of seven, padding the last row with nil.
func Weeks(cells []*Cell) [][]*Cell {
	var weeks [][]*Cell
	for i := 0; i < len(cells); i += 7 {
		row := make([]*Cell, 7)
		copy(row, cells[i:min(i+7, len(cells))])
		weeks = append(weeks, row)
	}
	return weeks
}

// Find returns the cell for date, or nil.
func Find(cells []*Cell, date time.Time) *Cell {
	key := calendar.DateKey(date)
	for _, c := range cells {
		if c != nil && c.Key == key {
			return c
		}
	}
	return nil
}
