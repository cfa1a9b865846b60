// Package calendar provides Gregorian date arithmetic and the date-key format
// used for every range comparison and set membership in patro.
package calendar

import (
	"strings"
	"time"
)

// KeyLayout is the layout of a DateKey ("YYYY-MM-DD").
const KeyLayout = "2006-01-02"

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Date returns local midnight for the given calendar fields.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today returns local midnight of the current day.
func Today() time.Time {
	return TruncateToDay(time.Now())
}

// DaysInMonth returns the number of days in the given month, leap-year aware.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st of the month (Sunday = 0).
func FirstWeekdayOfMonth(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// DateKey formats t as "YYYY-MM-DD" using t's own calendar fields.
// Keys are zero padded and ordered Y-M-D, so string comparison orders dates.
func DateKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key into local midnight.
func ParseDateKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(KeyLayout, strings.TrimSpace(key), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseISODate accepts a bare date key or a full RFC 3339 timestamp and
// returns local midnight of its calendar date. Storage backends hand dates
// back in either shape.
func ParseISODate(s string) (time.Time, bool) {
	if t, ok := ParseDateKey(s); ok {
		return t, true
	}
	if len(s) >= 10 {
		if t, ok := ParseDateKey(s[:10]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// AddDays returns t moved by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the whole number of calendar days from a to b.
// It works on calendar fields so DST transitions do not skew the result.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// IsSaturday reports whether t is a Saturday.
func IsSaturday(t time.Time) bool {
	return t.Weekday() == time.Saturday
}

// IsSunday reports whether t is a Sunday.
func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// IsWeekend reports whether t is a Saturday or a Sunday.
func IsWeekend(t time.Time) bool {
	return IsSaturday(t) || IsSunday(t)
}

// ParseWeekday returns the weekday for an English weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayMap[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}
