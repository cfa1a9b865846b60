package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

// Validation errors.
var (
	ErrBadDate       = errors.New("invalid date")
	ErrAmbiguousID   = errors.New("ambiguous range id")
	ErrOutsideRange  = errors.New("date is outside the saved range")
	ErrBadTaskNumber = errors.New("invalid task number")
)

// modeFor maps the --bs flag, falling back to the configured mode.
func (a *App) modeFor(bsFlag bool) selection.Mode {
	if bsFlag || a.config.IsBS() {
		return selection.ModeBS
	}
	return selection.ModeAD
}

// policyFor parses a --policy flag, falling back to the configured policy.
func (a *App) policyFor(flag string) (workday.Policy, error) {
	if strings.TrimSpace(flag) == "" {
		return a.config.Policy(), nil
	}
	return workday.ParsePolicy(flag)
}

// displayFor returns the day whose year typed MM/DD input is read against.
// A.D. years are used as given; B.S. years pick the first day of that year.
func (a *App) displayFor(mode selection.Mode, year int) (time.Time, error) {
	today := a.now()
	if year == 0 {
		return today, nil
	}
	if mode == selection.ModeBS {
		start, ok := bs.ToGregorian(bs.Date{Year: year, Month: 1, Day: 1})
		if !ok {
			return time.Time{}, fmt.Errorf("%w: B.S. year %d is outside the table", ErrBadDate, year)
		}
		return start, nil
	}
	return calendar.Date(year, today.Month(), 1), nil
}

// parseDate is parseDateArg plus relative names like "today" or "next-monday".
func (a *App) parseDate(s string, mode selection.Mode, display time.Time) (time.Time, error) {
	if t, ok := calendar.ParseRelative(s, a.now()); ok {
		return t, nil
	}
	return parseDateArg(s, mode, display)
}

// parseDateArg accepts YYYY-MM-DD or MM/DD in mode against display's year.
func parseDateArg(s string, mode selection.Mode, display time.Time) (time.Time, error) {
	if t, ok := calendar.ParseDateKey(s); ok {
		return t, nil
	}
	var (
		t  time.Time
		ok bool
	)
	if mode == selection.ModeBS {
		if year, inTable := bs.YearForDate(display); inTable {
			t, ok = bs.ParseMMDD(s, year)
		}
	} else {
		t, ok = calendar.ParseMMDD(s, display.Year())
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD or MM/DD)", ErrBadDate, s)
	}
	return t, nil
}

// resolveRange finds a saved range by full id or unique id prefix.
func (a *App) resolveRange(ctx context.Context, ref string) (*saved.SavedRange, error) {
	ref = strings.TrimSpace(ref)
	if r, err := a.repo.GetSavedRange(ctx, ref); err == nil {
		return r, nil
	} else if !errors.Is(err, saved.ErrNotFound) {
		return nil, err
	}

	ranges, err := a.repo.ListSavedRanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing saved ranges: %w", err)
	}
	var match *saved.SavedRange
	for _, r := range ranges {
		if ref != "" && strings.HasPrefix(r.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", saved.ErrNotFound, ref)
	}
	return match, nil
}

// loadSelection puts a saved range into review mode.
func (a *App) loadSelection(r *saved.SavedRange, mode selection.Mode) *selection.Selection {
	sel := selection.New(r.Policy(), r.Start)
	sel.SetMode(mode)
	sel.Load(r)
	return sel
}

// dayInRange parses a day argument and checks it lies inside r. MM/DD is
// read in the start's year first, then in the end's year for ranges that
// cross a year boundary.
func dayInRange(arg string, r *saved.SavedRange, mode selection.Mode) (time.Time, error) {
	rng := r.Range()
	day, err := parseDateArg(arg, mode, r.Start)
	if err == nil && rng.Contains(day) {
		return day, nil
	}
	if alt, altErr := parseDateArg(arg, mode, r.End); altErr == nil && rng.Contains(alt) {
		return alt, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Time{}, fmt.Errorf("%w: %s not in %s", ErrOutsideRange, calendar.DateKey(day), rng)
}
