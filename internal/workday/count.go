package workday

import (
	"fmt"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
)

// Range is an inclusive date range with Start on or before End.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange returns the range spanning a and b in either order.
func NewRange(a, b time.Time) Range {
	a, b = calendar.TruncateToDay(a), calendar.TruncateToDay(b)
	if calendar.DateKey(b) < calendar.DateKey(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Days returns the inclusive number of calendar days in the range.
func (r Range) Days() int {
	return calendar.DaysBetween(r.Start, r.End) + 1
}

// Contains reports whether date falls inside the range, compared by date key.
func (r Range) Contains(date time.Time) bool {
	key := calendar.DateKey(date)
	return key >= calendar.DateKey(r.Start) && key <= calendar.DateKey(r.End)
}

// ContainsKey is Contains for a date key.
func (r Range) ContainsKey(key string) bool {
	return key >= calendar.DateKey(r.Start) && key <= calendar.DateKey(r.End)
}

// IsEdge reports whether date is the first or last day of the range.
func (r Range) IsEdge(date time.Time) bool {
	key := calendar.DateKey(date)
	return key == calendar.DateKey(r.Start) || key == calendar.DateKey(r.End)
}

// Each calls fn for every day in the range, in order.
func (r Range) Each(fn func(time.Time)) {
	n := r.Days()
	for i := 0; i < n; i++ {
		fn(calendar.AddDays(r.Start, i))
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", calendar.DateKey(r.Start), calendar.DateKey(r.End))
}

// Count returns the number of working days in r under p.
func Count(r Range, p Policy) int {
	if p.kind == KindAllDays {
		return r.Days()
	}
	count := 0
	r.Each(func(d time.Time) {
		if IsWorking(d, p) {
			count++
		}
	})
	return count
}

// NextWorkingDay returns the first day strictly after the given date that
// the policy counts. Every policy has at least one working weekday, so the
// search ends within a week.
func NextWorkingDay(after time.Time, p Policy) time.Time {
	next := calendar.AddDays(calendar.TruncateToDay(after), 1)
	for range 7 {
		if IsWorking(next, p) {
			return next
		}
		next = calendar.AddDays(next, 1)
	}
	return next
}

// EndForWorkingDays returns the earliest end date such that the range from
// start holds exactly n working days under p.
func EndForWorkingDays(start time.Time, n int, p Policy) (time.Time, error) {
	if n < 1 || n > MaxDayCount {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrInvalidDayCount, n)
	}
	day := calendar.TruncateToDay(start)
	if !IsWorking(day, p) {
		day = NextWorkingDay(day, p)
	}
	for i := 1; i < n; i++ {
		day = NextWorkingDay(day, p)
	}
	return day, nil
}

// Stats summarizes a range.
type Stats struct {
	TotalDays int
	Working   int
	Excluded  int
	Off       int
	Deducted  int
	Added     int
}

// Summarize classifies every day of r, applying overrides when non-nil.
func Summarize(r Range, p Policy, o *Overrides) Stats {
	s := Stats{TotalDays: r.Days()}
	r.Each(func(d time.Time) {
		if o != nil {
			key := calendar.DateKey(d)
			switch {
			case o.IsDeducted(key):
				s.Deducted++
			case o.IsAdded(key):
				s.Added++
			}
		}
		switch EffectiveClass(d, p, o) {
		case Working:
			s.Working++
		case Excluded:
			s.Excluded++
		case Off:
			s.Off++
		}
	})
	return s
}
