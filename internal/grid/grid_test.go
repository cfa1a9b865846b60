package grid

import (
	"testing"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/workday"
)

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

func TestMonth_Padding(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		pad     int
		days    int
		weekRow int
	}{
		{2026, time.March, 0, 31, 5},    // starts on Sunday
		{2026, time.February, 0, 28, 4}, // fits in four rows
		{2026, time.January, 4, 31, 5},  // starts on Thursday
		{2024, time.February, 4, 29, 5},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			cells := Month(tt.year, tt.month, Context{})
			if len(cells) != tt.pad+tt.days {
				t.Fatalf("len = %d, want %d", len(cells), tt.pad+tt.days)
			}
			for i := 0; i < tt.pad; i++ {
				if cells[i] != nil {
					t.Errorf("cell %d should be padding", i)
				}
			}
			first := cells[tt.pad]
			if first == nil || first.DayNum != 1 || first.Key != calendar.DateKey(d(tt.year, tt.month, 1)) {
				t.Errorf("first cell = %+v", first)
			}
			if got := len(Weeks(cells)); got != tt.weekRow {
				t.Errorf("weeks = %d, want %d", got, tt.weekRow)
			}
		})
	}
}

func TestMonth_NoRangeNoClassification(t *testing.T) {
	cells := Month(2026, time.March, Context{Policy: workday.ExcludeWeekends(), Today: d(2026, 3, 10)})
	for _, c := range cells {
		if c.InRange || c.IsWorking || c.IsExcluded || c.IsOff {
			t.Fatalf("cell %s classified without a range", c.Key)
		}
	}
	if !Find(cells, d(2026, 3, 10)).IsToday {
		t.Error("today not flagged")
	}
}

func TestMonth_Classification(t *testing.T) {
	p, _ := workday.NewCustomWorkingDays(5)
	o := workday.NewOverrides([]string{"2026-03-05"}, []string{"2026-03-06"})
	ctx := Context{
		Range:     workday.NewRange(d(2026, 3, 4), d(2026, 3, 23)),
		HasRange:  true,
		Policy:    p,
		Overrides: o,
	}
	cells := Month(2026, time.March, ctx)

	tests := []struct {
		day                       int
		in, edge, work, excl, off bool
		ded, add                  bool
	}{
		{3, false, false, false, false, false, false, false},
		{4, true, true, true, false, false, false, false},
		{5, true, false, false, true, false, true, false},  // deducted Thursday
		{6, true, false, true, false, false, false, true},  // added Friday
		{7, true, false, false, true, false, false, false}, // Saturday
		{13, true, false, false, false, true, false, false},
		{23, true, true, true, false, false, false, false},
		{24, false, false, false, false, false, false, false},
	}
	for _, tt := range tests {
		c := Find(cells, d(2026, 3, tt.day))
		got := []bool{c.InRange, c.IsEdge, c.IsWorking, c.IsExcluded, c.IsOff, c.IsDeducted, c.IsAdded}
		want := []bool{tt.in, tt.edge, tt.work, tt.excl, tt.off, tt.ded, tt.add}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("Mar %d: flags %v, want %v", tt.day, got, want)
				break
			}
		}
	}
}

func TestMonth_BSLabels(t *testing.T) {
	cells := Month(2026, time.January, Context{BS: true})
	if got := Find(cells, d(2026, 1, 15)).BSLabel; got != "10/01" {
		t.Errorf("BSLabel = %q, want 10/01", got)
	}
	cells = Month(2030, time.January, Context{BS: true})
	if got := Find(cells, d(2030, 1, 15)).BSLabel; got != "" {
		t.Errorf("outside table BSLabel = %q", got)
	}
}
