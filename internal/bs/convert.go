package bs

import (
	"fmt"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
)

// Date is a B.S. calendar date.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..Month.Days
}

// String formats the date as "YYYY/MM/DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Converter performs lookups against a single Table.
type Converter struct {
	table Table
}

// NewConverter returns a Converter over table.
func NewConverter(table Table) *Converter {
	return &Converter{table: table}
}

var defaultConverter = NewConverter(Default)

// YearForDate returns the B.S. year whose months contain t.
func (c *Converter) YearForDate(t time.Time) (int, bool) {
	d, ok := c.FromGregorian(t)
	if !ok {
		return 0, false
	}
	return d.Year, true
}

// FromGregorian maps a Gregorian date to its B.S. year, month and day.
// Month ranges are compared as date keys; the first matching month wins.
func (c *Converter) FromGregorian(t time.Time) (Date, bool) {
	key := calendar.DateKey(t)
	for _, y := range c.table.Years() {
		for _, m := range y.Months {
			endKey := calendar.DateKey(m.End())
			if key < m.StartsGregorian || key > endKey {
				continue
			}
			return Date{
				Year:  y.YearBS,
				Month: m.Index,
				Day:   calendar.DaysBetween(m.Start(), t) + 1,
			}, true
		}
	}
	return Date{}, false
}

// ToGregorian maps a B.S. date to local midnight of its Gregorian date.
func (c *Converter) ToGregorian(d Date) (time.Time, bool) {
	y, ok := c.table.Year(d.Year)
	if !ok {
		return time.Time{}, false
	}
	m, ok := y.Month(d.Month)
	if !ok {
		return time.Time{}, false
	}
	if d.Day < 1 || d.Day > m.Days {
		return time.Time{}, false
	}
	return calendar.AddDays(m.Start(), d.Day-1), true
}

// ParseMMDD parses a B.S. "MM/DD" against bsYear and returns the Gregorian date.
func (c *Converter) ParseMMDD(s string, bsYear int) (time.Time, bool) {
	month, day, ok := calendar.SplitMMDD(s)
	if !ok {
		return time.Time{}, false
	}
	return c.ToGregorian(Date{Year: bsYear, Month: month, Day: day})
}

// FormatShort returns "MM/DD" in B.S. terms, or "" outside the table.
func (c *Converter) FormatShort(t time.Time) string {
	d, ok := c.FromGregorian(t)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d/%02d", d.Month, d.Day)
}

// FormatLong returns "<MonthName> <day>", or "" outside the table.
func (c *Converter) FormatLong(t time.Time) string {
	d, ok := c.FromGregorian(t)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %d", MonthName(d.Month), d.Day)
}

// MonthStart returns the Gregorian start of a B.S. month.
func (c *Converter) MonthStart(bsYear, monthIndex int) (time.Time, bool) {
	return c.ToGregorian(Date{Year: bsYear, Month: monthIndex, Day: 1})
}

// MonthName returns the English name of the 1-based B.S. month, or "".
func MonthName(i int) string {
	if i < 1 || i > 12 {
		return ""
	}
	return MonthNames[i-1]
}

// YearForDate uses the Default table.
func YearForDate(t time.Time) (int, bool) { return defaultConverter.YearForDate(t) }

// FromGregorian uses the Default table.
func FromGregorian(t time.Time) (Date, bool) { return defaultConverter.FromGregorian(t) }

// ToGregorian uses the Default table.
func ToGregorian(d Date) (time.Time, bool) { return defaultConverter.ToGregorian(d) }

// ParseMMDD uses the Default table.
func ParseMMDD(s string, bsYear int) (time.Time, bool) { return defaultConverter.ParseMMDD(s, bsYear) }

// FormatShort uses the Default table.
func FormatShort(t time.Time) string { return defaultConverter.FormatShort(t) }

// FormatLong uses the Default table.
func FormatLong(t time.Time) string { return defaultConverter.FormatLong(t) }
