package workday

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
)

func TestNewRange_Normalizes(t *testing.T) {
	a, b := d(2026, 3, 20), d(2026, 2, 21)
	r1 := NewRange(a, b)
	r2 := NewRange(b, a)
	if r1 != r2 {
		t.Errorf("NewRange order dependent: %v vs %v", r1, r2)
	}
	if calendar.DateKey(r1.Start) != "2026-02-21" || calendar.DateKey(r1.End) != "2026-03-20" {
		t.Errorf("got %v", r1)
	}
}

func TestCount_Scenarios(t *testing.T) {
	feb21mar20 := NewRange(d(2026, 2, 21), d(2026, 3, 20))

	tests := []struct {
		name   string
		r      Range
		policy Policy
		want   int
	}{
		{"all days", feb21mar20, AllDays(), 28},
		{"exclude weekends", feb21mar20, ExcludeWeekends(), 20},
		{"custom 5 from wednesday", NewRange(d(2026, 3, 4), d(2026, 3, 23)), mustCustom(t, 5), 14},
		{"single working day", NewRange(d(2026, 3, 4), d(2026, 3, 4)), ExcludeWeekends(), 1},
		{"single excluded day", NewRange(d(2026, 3, 7), d(2026, 3, 7)), ExcludeWeekends(), 0},
		{"single saturday all days", NewRange(d(2026, 3, 7), d(2026, 3, 7)), AllDays(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.r, tt.policy); got != tt.want {
				t.Errorf("Count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCount_AllDaysEqualsSpan(t *testing.T) {
	start := d(2025, 12, 20)
	for span := 0; span < 120; span += 7 {
		r := NewRange(start, calendar.AddDays(start, span))
		if got := Count(r, AllDays()); got != span+1 {
			t.Fatalf("span %d: got %d", span, got)
		}
	}
}

func TestCount_ExcludeWeekendsSubtractsWeekends(t *testing.T) {
	start := d(2026, 1, 1)
	for span := 0; span < 60; span++ {
		r := NewRange(start, calendar.AddDays(start, span))
		weekends := 0
		r.Each(func(day time.Time) {
			if calendar.IsWeekend(day) {
				weekends++
			}
		})
		got := Count(r, ExcludeWeekends())
		if got != r.Days()-weekends {
			t.Fatalf("span %d: got %d, want %d", span, got, r.Days()-weekends)
		}
		if got > r.Days() {
			t.Fatalf("span %d: count exceeds total days", span)
		}
	}
}

func TestCount_CustomMonotonicAndWholeWeeks(t *testing.T) {
	// Four whole weeks, Sunday Mar 1 to Saturday Mar 28 2026.
	whole := NewRange(d(2026, 3, 1), d(2026, 3, 28))
	prev := -1
	for n := 1; n <= 7; n++ {
		p := mustCustom(t, n)
		got := Count(whole, p)
		wantPerWeek := n
		if n == 7 {
			wantPerWeek = 6 // Saturday never counts
		}
		if got != 4*wantPerWeek {
			t.Errorf("n=%d: got %d, want %d", n, got, 4*wantPerWeek)
		}
		if got < prev {
			t.Errorf("n=%d: count %d decreased from %d", n, got, prev)
		}
		prev = got
	}
}

func TestNextWorkingDay(t *testing.T) {
	fri := d(2026, 3, 6)
	tests := []struct {
		name   string
		policy Policy
		want   string
	}{
		{"all days", AllDays(), "2026-03-07"},
		{"weekdays skips weekend", ExcludeWeekends(), "2026-03-09"},
		{"custom 1 goes to sunday", mustCustom(t, 1), "2026-03-08"},
		{"custom 7 skips saturday", mustCustom(t, 7), "2026-03-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWorkingDay(fri, tt.policy)
			if calendar.DateKey(got) != tt.want {
				t.Errorf("got %s, want %s", calendar.DateKey(got), tt.want)
			}
		})
	}
}

func TestNextWorkingDay_NothingSkipped(t *testing.T) {
	policies := []Policy{AllDays(), ExcludeWeekends(), mustCustom(t, 2), mustCustom(t, 5)}
	start := d(2026, 2, 1)
	for _, p := range policies {
		for i := 0; i < 14; i++ {
			from := calendar.AddDays(start, i)
			next := NextWorkingDay(from, p)
			if calendar.DaysBetween(from, next) < 1 {
				t.Fatalf("%v: next %s not after %s", p, calendar.DateKey(next), calendar.DateKey(from))
			}
			if !IsWorking(next, p) {
				t.Fatalf("%v: next %s is not working", p, calendar.DateKey(next))
			}
			for between := calendar.AddDays(from, 1); calendar.DateKey(between) < calendar.DateKey(next); between = calendar.AddDays(between, 1) {
				if IsWorking(between, p) {
					t.Fatalf("%v: skipped working day %s", p, calendar.DateKey(between))
				}
			}
		}
	}
}

func TestEndForWorkingDays(t *testing.T) {
	start := d(2026, 3, 4)
	end, err := EndForWorkingDays(start, 14, mustCustom(t, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calendar.DateKey(end) != "2026-03-23" {
		t.Errorf("got %s, want 2026-03-23", calendar.DateKey(end))
	}
	if got := Count(NewRange(start, end), mustCustom(t, 5)); got != 14 {
		t.Errorf("count over result = %d", got)
	}

	end, err = EndForWorkingDays(start, 1, AllDays())
	if err != nil || !end.Equal(start) {
		t.Errorf("one day: got %v, %v", end, err)
	}

	for _, n := range []int{0, 1000} {
		if _, err := EndForWorkingDays(start, n, AllDays()); !errors.Is(err, ErrInvalidDayCount) {
			t.Errorf("n=%d: got %v", n, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	r := NewRange(d(2026, 3, 1), d(2026, 3, 7))
	o := NewOverrides([]string{"2026-03-02"}, []string{"2026-03-05"})
	s := Summarize(r, mustCustom(t, 3), o)
	// Sun..Tue working, Wed..Fri off, Sat excluded; Mon deducted, Thu added.
	want := Stats{TotalDays: 7, Working: 3, Excluded: 2, Off: 2, Deducted: 1, Added: 1}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}
