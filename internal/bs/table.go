// Package bs converts between the Gregorian calendar and Bikram Sambat (B.S.),
// the Nepali calendar.
//
// B.S. month lengths are not computable; they come from a published table.
// Coverage is therefore a closed window: only the years present in a Table
// can be converted, and every lookup outside it reports a miss instead of
// guessing. Extending coverage means adding another Year to the table.
package bs

import (
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
)

// MonthNames are the English transliterations of the B.S. months, Baisakh first.
var MonthNames = [12]string{
	"Baisakh", "Jestha", "Asar", "Shrawan", "Bhadra", "Asoj",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// Month describes one B.S. month.
type Month struct {
	Index           int    // 1..12
	NameEn          string // English transliteration
	Days            int    // length of the month
	StartsGregorian string // date key of the 1st of the month
}

// Start returns the Gregorian date of the 1st of the month.
func (m Month) Start() time.Time {
	t, _ := calendar.ParseDateKey(m.StartsGregorian)
	return t
}

// End returns the Gregorian date of the last day of the month.
func (m Month) End() time.Time {
	return calendar.AddDays(m.Start(), m.Days-1)
}

// Year is the static reference data for one B.S. year.
type Year struct {
	YearBS int
	Months [12]Month
}

// Start returns the Gregorian date of 1 Baisakh.
func (y Year) Start() time.Time {
	return y.Months[0].Start()
}

// End returns the Gregorian date of the last day of Chaitra.
func (y Year) End() time.Time {
	return y.Months[11].End()
}

// Month returns the month with the 1-based index i.
func (y Year) Month(i int) (Month, bool) {
	if i < 1 || i > 12 {
		return Month{}, false
	}
	return y.Months[i-1], true
}

// Table is a lookup over a finite set of B.S. years.
type Table interface {
	// Years returns the covered years in ascending order.
	Years() []Year
	// Year returns the table entry for a B.S. year.
	Year(bsYear int) (Year, bool)
}

// StaticTable is a Table backed by an in-memory slice.
type StaticTable struct {
	years []Year
}

// NewStaticTable builds a table from years given in ascending order.
func NewStaticTable(years ...Year) *StaticTable {
	return &StaticTable{years: years}
}

// Years implements Table.
func (t *StaticTable) Years() []Year {
	out := make([]Year, len(t.years))
	copy(out, t.years)
	return out
}

// Year implements Table.
func (t *StaticTable) Year(bsYear int) (Year, bool) {
	for _, y := range t.years {
		if y.YearBS == bsYear {
			return y, true
		}
	}
	return Year{}, false
}

func month(i, days int, start string) Month {
	return Month{Index: i, NameEn: MonthNames[i-1], Days: days, StartsGregorian: start}
}

// Year2082 runs from 2025-04-14 to 2026-04-13.
var Year2082 = Year{
	YearBS: 2082,
	Months: [12]Month{
		month(1, 31, "2025-04-14"),
		month(2, 31, "2025-05-15"),
		month(3, 32, "2025-06-15"),
		month(4, 31, "2025-07-17"),
		month(5, 31, "2025-08-17"),
		month(6, 31, "2025-09-17"),
		month(7, 30, "2025-10-18"),
		month(8, 29, "2025-11-17"),
		month(9, 30, "2025-12-16"),
		month(10, 29, "2026-01-15"),
		month(11, 30, "2026-02-13"),
		month(12, 30, "2026-03-15"),
	},
}

// Year2083 runs from 2026-04-14 to 2027-04-13.
var Year2083 = Year{
	YearBS: 2083,
	Months: [12]Month{
		month(1, 31, "2026-04-14"),
		month(2, 32, "2026-05-15"),
		month(3, 31, "2026-06-16"),
		month(4, 32, "2026-07-17"),
		month(5, 31, "2026-08-18"),
		month(6, 30, "2026-09-18"),
		month(7, 30, "2026-10-18"),
		month(8, 30, "2026-11-17"),
		month(9, 29, "2026-12-17"),
		month(10, 29, "2027-01-15"),
		month(11, 30, "2027-02-13"),
		month(12, 30, "2027-03-15"),
	},
}

// Default is the built-in table used by the package-level helpers.
var Default Table = NewStaticTable(Year2082, Year2083)
