package selection

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/workday"
)

// FormatDate renders a date in mode, falling back to A.D. when the date is
// outside the B.S. table.
func FormatDate(t time.Time, mode Mode) string {
	if mode == ModeBS {
		if d, ok := bs.FromGregorian(t); ok {
			return fmt.Sprintf("%s %d, %d", bs.MonthName(d.Month), d.Day, d.Year)
		}
	}
	return t.Format("Jan 2, 2006")
}

// Summary renders a plain-text description of a range suitable for the
// clipboard.
func Summary(title string, r workday.Range, p workday.Policy, o *workday.Overrides, mode Mode) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%s\n", title)
	}
	fmt.Fprintf(&b, "%s - %s\n", FormatDate(r.Start, mode), FormatDate(r.End, mode))
	st := workday.Summarize(r, p, o)
	fmt.Fprintf(&b, "%d working days of %d (%s)", st.Working, st.TotalDays, p.Label())
	if st.Deducted > 0 || st.Added > 0 {
		fmt.Fprintf(&b, ", %d deducted, %d added", st.Deducted, st.Added)
	}
	return b.String()
}

// Summary describes the current selection, or "" without a range.
func (s *Selection) Summary() string {
	rng, ok := s.Range()
	if !ok {
		return ""
	}
	return Summary(s.savedTitle, rng, s.policy, s.overrides, s.mode)
}
