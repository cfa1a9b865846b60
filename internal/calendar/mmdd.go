package calendar

import (
	"strings"
	"time"
)

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitMMDD extracts month and day from user input in MM/DD form.
// Non-digits are ignored; exactly four digits must remain.
func SplitMMDD(s string) (month, day int, ok bool) {
	d := Digits(s)
	if len(d) != 4 {
		return 0, 0, false
	}
	month = int(d[0]-'0')*10 + int(d[1]-'0')
	day = int(d[2]-'0')*10 + int(d[3]-'0')
	return month, day, true
}

// ParseMMDD parses a Gregorian "MM/DD" against year.
// It fails when the month is outside 1-12 or the day exceeds the month.
func ParseMMDD(s string, year int) (time.Time, bool) {
	month, day, ok := SplitMMDD(s)
	if !ok {
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return time.Time{}, false
	}
	return Date(year, time.Month(month), day), true
}

// FormatMMDD formats t as "MM/DD".
func FormatMMDD(t time.Time) string {
	return t.Format("01/02")
}

// NormalizeMMDDInput cleans raw keystrokes into the MM/DD entry shape:
// digits only, at most four, with a slash after the month once typed.
func NormalizeMMDDInput(raw string) string {
	d := Digits(raw)
	if len(d) > 4 {
		d = d[:4]
	}
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}
