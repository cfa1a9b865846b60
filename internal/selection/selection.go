// Package selection implements the range selection state machine: picking
// or typing endpoints, locking, saving, reviewing and extending a range.
package selection

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/workday"
)

// Domain errors.
var (
	ErrLocked     = errors.New("range is locked")
	ErrIncomplete = errors.New("range needs a start and an end")
	ErrNotLocked  = errors.New("range must be locked first")
	ErrSaved      = errors.New("range is already saved")
	ErrNotSaved   = errors.New("no saved range is active")
)

// State is the observable state of a Selection.
type State int

const (
	Empty        State = iota // no endpoint chosen
	SelectingEnd              // one endpoint chosen
	Complete                  // both endpoints chosen
	Locked                    // frozen against endpoint edits
	Review                    // saved and locked: overrides may be toggled
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case SelectingEnd:
		return "selecting end"
	case Complete:
		return "complete"
	case Locked:
		return "locked"
	case Review:
		return "review"
	default:
		return "unknown"
	}
}

// Mode selects which calendar typed MM/DD input is read in.
type Mode int

const (
	ModeAD Mode = iota
	ModeBS
)

func (m Mode) String() string {
	if m == ModeBS {
		return "B.S."
	}
	return "A.D."
}

// Selection holds the range being built and everything attached to it.
// The zero value is not usable; call New.
type Selection struct {
	start, end *time.Time
	locked     bool

	savedID    string
	savedTitle string

	policy    workday.Policy
	overrides *workday.Overrides
	dirty     bool // overrides changed since the last OverridesPatch

	mode    Mode
	display time.Time // a day of the month on screen; typed input uses its year
}

// New returns an empty selection using policy and displaying the month of
// display.
func New(policy workday.Policy, display time.Time) *Selection {
	return &Selection{
		policy:    policy,
		overrides: workday.NewOverrides(nil, nil),
		display:   calendar.TruncateToDay(display),
	}
}

// State derives the current state.
func (s *Selection) State() State {
	switch {
	case s.locked && s.savedID != "":
		return Review
	case s.locked:
		return Locked
	case s.start != nil && s.end != nil:
		return Complete
	case s.start != nil || s.end != nil:
		return SelectingEnd
	default:
		return Empty
	}
}

// Start returns the start endpoint, if set.
func (s *Selection) Start() (time.Time, bool) {
	if s.start == nil {
		return time.Time{}, false
	}
	return *s.start, true
}

// End returns the end endpoint, if set.
func (s *Selection) End() (time.Time, bool) {
	if s.end == nil {
		return time.Time{}, false
	}
	return *s.end, true
}

// Range returns the selected range when both endpoints are set.
func (s *Selection) Range() (workday.Range, bool) {
	if s.start == nil || s.end == nil {
		return workday.Range{}, false
	}
	return workday.NewRange(*s.start, *s.end), true
}

// Effective is the range the counters and grid should use.
func (s *Selection) Effective() (workday.Range, bool) {
	return s.Range()
}

// IsLocked reports whether endpoint edits are rejected.
func (s *Selection) IsLocked() bool { return s.locked }

// SavedID returns the id of the active saved range, or "".
func (s *Selection) SavedID() string { return s.savedID }

// SavedTitle returns the title of the active saved range, or "".
func (s *Selection) SavedTitle() string { return s.savedTitle }

// Policy returns the active working-day policy.
func (s *Selection) Policy() workday.Policy { return s.policy }

// Overrides returns the live override set. Mutations through ToggleDay are
// in memory only until persisted with OverridesPatch.
func (s *Selection) Overrides() *workday.Overrides { return s.overrides }

// Dirty reports whether the overrides changed since they were loaded or
// last handed out by OverridesPatch.
func (s *Selection) Dirty() bool { return s.dirty }

// Mode returns the input calendar.
func (s *Selection) Mode() Mode { return s.mode }

// SetMode switches the input calendar.
func (s *Selection) SetMode(m Mode) { s.mode = m }

// ToggleMode flips between A.D. and B.S.
func (s *Selection) ToggleMode() Mode {
	if s.mode == ModeAD {
		s.mode = ModeBS
	} else {
		s.mode = ModeAD
	}
	return s.mode
}

// Display returns the day whose month is on screen.
func (s *Selection) Display() time.Time { return s.display }

// SetDisplay moves the displayed month.
func (s *Selection) SetDisplay(t time.Time) { s.display = calendar.TruncateToDay(t) }

func (s *Selection) set(start, end *time.Time) {
	if start != nil && end != nil && end.Before(*start) {
		start, end = end, start
	}
	s.start, s.end = start, end
}

func ptr(t time.Time) *time.Time {
	t = calendar.TruncateToDay(t)
	return &t
}

// Pick handles a click on date. The first pick sets the start, the second
// sets the end (swapping if needed), and a pick on a complete range starts
// over from date.
func (s *Selection) Pick(date time.Time) error {
	if s.locked {
		return ErrLocked
	}
	d := ptr(date)
	switch {
	case s.start == nil && s.end == nil:
		s.set(d, nil)
	case s.start != nil && s.end != nil:
		s.set(d, nil)
	case s.start != nil:
		s.set(s.start, d)
	default:
		s.set(d, s.end)
	}
	return nil
}

// parse reads MM/DD in the active calendar against the displayed year.
func (s *Selection) parse(text string) (time.Time, bool) {
	if s.mode == ModeBS {
		year, ok := bs.YearForDate(s.display)
		if !ok {
			return time.Time{}, false
		}
		return bs.ParseMMDD(text, year)
	}
	return calendar.ParseMMDD(text, s.display.Year())
}

// TypeStart sets the start from MM/DD text. Empty text clears the start;
// unparseable text leaves the selection unchanged and reports false.
func (s *Selection) TypeStart(text string) (bool, error) {
	if s.locked {
		return false, ErrLocked
	}
	if strings.TrimSpace(text) == "" {
		s.start = nil
		return true, nil
	}
	d, ok := s.parse(text)
	if !ok {
		return false, nil
	}
	s.set(ptr(d), s.end)
	return true, nil
}

// TypeEnd sets the end from MM/DD text with the same rules as TypeStart.
func (s *Selection) TypeEnd(text string) (bool, error) {
	if s.locked {
		return false, ErrLocked
	}
	if strings.TrimSpace(text) == "" {
		s.end = nil
		return true, nil
	}
	d, ok := s.parse(text)
	if !ok {
		return false, nil
	}
	s.set(s.start, ptr(d))
	return true, nil
}

// SetDays sets the end so the range from the current start holds n working
// days under the active policy.
func (s *Selection) SetDays(n int) error {
	if s.locked {
		return ErrLocked
	}
	if s.start == nil {
		return ErrIncomplete
	}
	end, err := workday.EndForWorkingDays(*s.start, n, s.policy)
	if err != nil {
		return err
	}
	s.set(s.start, ptr(end))
	return nil
}

// Lock freezes a complete range.
func (s *Selection) Lock() error {
	if s.locked {
		return nil
	}
	if s.start == nil || s.end == nil {
		return ErrIncomplete
	}
	s.locked = true
	return nil
}

// Unlock releases the lock and detaches any saved range with its overrides.
func (s *Selection) Unlock() {
	s.locked = false
	s.savedID = ""
	s.savedTitle = ""
	s.overrides = workday.NewOverrides(nil, nil)
	s.dirty = false
}

// ToggleLock locks an unlocked range and unlocks a locked one.
func (s *Selection) ToggleLock() error {
	if s.locked {
		s.Unlock()
		return nil
	}
	return s.Lock()
}

// Save snapshots the locked range with the active policy and no overrides.
// The returned range must be handed to a repository; the selection enters
// review mode immediately.
func (s *Selection) Save(title string) (*saved.SavedRange, error) {
	if !s.locked {
		return nil, ErrNotLocked
	}
	if s.savedID != "" {
		return nil, ErrSaved
	}
	r, err := saved.New(title, *s.start, *s.end, s.policy)
	if err != nil {
		return nil, err
	}
	s.savedID = r.ID
	s.savedTitle = r.Title
	s.overrides = workday.NewOverrides(nil, nil)
	s.dirty = false
	return r, nil
}

// Load replaces the selection with a saved range and locks it. Overrides
// outside the saved range are dropped, as are unsaved toggles.
func (s *Selection) Load(r *saved.SavedRange) {
	rng := r.Range()
	s.set(ptr(rng.Start), ptr(rng.End))
	s.locked = true
	s.savedID = r.ID
	s.savedTitle = r.Title
	s.policy = r.Policy()
	s.overrides = r.Overrides()
	s.overrides.Prune(rng)
	s.dirty = false
}

// Extend moves the end of the saved range to the next working day after it
// and returns the patch to persist. The range only grows, so the patch
// carries the new end alone and pending overrides stay pending.
func (s *Selection) Extend() (saved.Patch, error) {
	if s.State() != Review {
		return saved.Patch{}, ErrNotSaved
	}
	next := workday.NextWorkingDay(*s.end, s.policy)
	s.end = ptr(next)
	s.overrides.Prune(workday.NewRange(*s.start, *s.end))
	return saved.Patch{End: ptr(next)}, nil
}

// Clear returns to Empty. Policy, mode and display are kept.
func (s *Selection) Clear() {
	s.start, s.end = nil, nil
	s.Unlock()
}

// SetPolicy replaces the working-day policy in any state. Overrides the
// new policy makes redundant are dropped: a deducted day must be working
// by policy and an added day must not be.
func (s *Selection) SetPolicy(p workday.Policy) {
	s.policy = p
	if s.overrides.Reconcile(p) > 0 {
		s.dirty = true
	}
}

// CyclePolicy steps all days, weekdays, then custom 1..7 and back.
func (s *Selection) CyclePolicy() workday.Policy {
	s.SetPolicy(NextPolicy(s.policy))
	return s.policy
}

// NextPolicy returns the policy after p in the cycle all, weekdays,
// custom:1 .. custom:7.
func NextPolicy(p workday.Policy) workday.Policy {
	switch p.Kind() {
	case workday.KindAllDays:
		return workday.ExcludeWeekends()
	case workday.KindExcludeWeekends:
		next, _ := workday.NewCustomWorkingDays(1)
		return next
	default:
		if p.N() >= 7 {
			return workday.AllDays()
		}
		next, _ := workday.NewCustomWorkingDays(p.N() + 1)
		return next
	}
}

// ToggleDay flips the override of date. Only review mode accepts toggles;
// it reports whether anything changed.
func (s *Selection) ToggleDay(date time.Time) bool {
	if s.State() != Review {
		return false
	}
	rng, _ := s.Range()
	if !s.overrides.Toggle(date, rng, s.policy) {
		return false
	}
	s.dirty = true
	return true
}

// OverridesPatch returns the patch that persists the current overrides and
// marks them clean.
func (s *Selection) OverridesPatch() (saved.Patch, error) {
	if s.State() != Review {
		return saved.Patch{}, ErrNotSaved
	}
	ded := s.overrides.Deducted()
	add := s.overrides.Added()
	if ded == nil {
		ded = []string{}
	}
	if add == nil {
		add = []string{}
	}
	s.dirty = false
	return saved.Patch{Deducted: &ded, Added: &add}, nil
}

// WorkingDays returns the effective working-day count, or 0 without a range.
func (s *Selection) WorkingDays() int {
	rng, ok := s.Range()
	if !ok {
		return 0
	}
	return workday.EffectiveCount(rng, s.policy, s.overrides)
}

// Stats summarizes the effective range.
func (s *Selection) Stats() (workday.Stats, bool) {
	rng, ok := s.Range()
	if !ok {
		return workday.Stats{}, false
	}
	return workday.Summarize(rng, s.policy, s.overrides), true
}
