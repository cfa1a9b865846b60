package grid

import (
	"testing"
	"time"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		bs    bool
		want  string
	}{
		{2026, time.March, false, "March 2026"},
		{2026, time.January, true, "January 2026 (Poush/Magh 2082)"},
		{2026, time.February, true, "February 2026 (Magh/Falgun 2082)"},
		{2030, time.January, true, "January 2030 (outside B.S. table)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Title(tt.year, tt.month, tt.bs); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCell_DayAndMarker(t *testing.T) {
	cells := Month(2026, time.January, Context{BS: true})
	c := Find(cells, d(2026, 1, 16))
	if got := c.Day(); got != 2 {
		t.Errorf("Day() = %d, want B.S. day 2", got)
	}

	plain := Find(Month(2026, time.January, Context{}), d(2026, 1, 16))
	if got := plain.Day(); got != 16 {
		t.Errorf("Day() = %d, want 16", got)
	}

	markers := []struct {
		cell Cell
		want string
	}{
		{Cell{IsWorking: true}, " "},
		{Cell{IsExcluded: true}, "x"},
		{Cell{IsOff: true}, "."},
		{Cell{IsWorking: true, IsAdded: true}, "+"},
		{Cell{IsOff: true, IsDeducted: true}, "-"},
	}
	for _, m := range markers {
		if got := m.cell.Marker(); got != m.want {
			t.Errorf("Marker(%+v) = %q, want %q", m.cell, got, m.want)
		}
	}
}
