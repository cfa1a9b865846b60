package calendar

import (
	"strings"
	"time"
)

// ParseRelative resolves a relative day name against today.
//
// Supported inputs (case-insensitive):
//   - "today", "tomorrow", "yesterday"
//   - "next-week": the same weekday one week on
//   - weekday names and "next-<weekday>": the next occurrence after today
func ParseRelative(s string, today time.Time) (time.Time, bool) {
	today = TruncateToDay(today)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "today":
		return today, true
	case "tomorrow":
		return AddDays(today, 1), true
	case "yesterday":
		return AddDays(today, -1), true
	case "next-week":
		return AddDays(today, 7), true
	}

	input = strings.TrimPrefix(input, "next-")
	if wd, ok := weekdayMap[input]; ok {
		return nextWeekday(today, wd), true
	}
	return time.Time{}, false
}

// nextWeekday returns the next occurrence of target after today.
// If today is the target weekday, it returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(target) - int(today.Weekday())
	if days <= 0 {
		days += 7
	}
	return AddDays(today, days)
}
