package workday

import (
	"slices"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
)

// Overrides holds the manual per-day adjustments of one saved range.
// A key lives in at most one of the two sets, and Saturdays never appear.
type Overrides struct {
	deducted map[string]struct{} // working by policy, manually excluded
	added    map[string]struct{} // non-working by policy, manually included
}

// NewOverrides builds overrides from persisted key lists. Saturdays, keys
// that fail to parse, and keys present in both lists are dropped.
func NewOverrides(deducted, added []string) *Overrides {
	o := &Overrides{
		deducted: make(map[string]struct{}),
		added:    make(map[string]struct{}),
	}
	for _, key := range deducted {
		if eligibleKey(key) {
			o.deducted[key] = struct{}{}
		}
	}
	for _, key := range added {
		if !eligibleKey(key) {
			continue
		}
		if _, dup := o.deducted[key]; dup {
			delete(o.deducted, key)
			continue
		}
		o.added[key] = struct{}{}
	}
	return o
}

func eligibleKey(key string) bool {
	t, ok := calendar.ParseDateKey(key)
	return ok && !calendar.IsSaturday(t)
}

// IsDeducted reports whether key was manually excluded.
func (o *Overrides) IsDeducted(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.deducted[key]
	return ok
}

// IsAdded reports whether key was manually included.
func (o *Overrides) IsAdded(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.added[key]
	return ok
}

// Deducted returns the sorted deducted keys.
func (o *Overrides) Deducted() []string {
	if o == nil {
		return []string{}
	}
	return sortedKeys(o.deducted)
}

// Added returns the sorted added keys.
func (o *Overrides) Added() []string {
	if o == nil {
		return []string{}
	}
	return sortedKeys(o.added)
}

// Len returns the total number of overridden days.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.deducted) + len(o.added)
}

// Clone returns an independent copy.
func (o *Overrides) Clone() *Overrides {
	return NewOverrides(o.Deducted(), o.Added())
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Toggle flips the override state of date inside r and reports whether
// anything changed. Saturdays and dates outside r are never eligible.
// An overridden day reverts to its policy classification; a day at its
// policy classification gets the opposite override.
func (o *Overrides) Toggle(date time.Time, r Range, p Policy) bool {
	if o == nil || calendar.IsSaturday(date) || !r.Contains(date) {
		return false
	}
	key := calendar.DateKey(date)
	if _, ok := o.deducted[key]; ok {
		delete(o.deducted, key)
		return true
	}
	if _, ok := o.added[key]; ok {
		delete(o.added, key)
		return true
	}
	if IsWorking(date, p) {
		o.deducted[key] = struct{}{}
	} else {
		o.added[key] = struct{}{}
	}
	return true
}

// Prune drops overrides outside r and reports how many were removed.
func (o *Overrides) Prune(r Range) int {
	if o == nil {
		return 0
	}
	removed := 0
	for _, set := range []map[string]struct{}{o.deducted, o.added} {
		for key := range set {
			if !r.ContainsKey(key) {
				delete(set, key)
				removed++
			}
		}
	}
	return removed
}

// Reconcile drops overrides that p makes redundant: deducted days p does
// not count as working and added days it does. It reports how many were
// removed.
func (o *Overrides) Reconcile(p Policy) int {
	if o == nil {
		return 0
	}
	removed := 0
	for key := range o.deducted {
		if d, ok := calendar.ParseDateKey(key); ok && !IsWorking(d, p) {
			delete(o.deducted, key)
			removed++
		}
	}
	for key := range o.added {
		if d, ok := calendar.ParseDateKey(key); ok && IsWorking(d, p) {
			delete(o.added, key)
			removed++
		}
	}
	return removed
}

// EffectiveClass applies overrides on top of the policy classification.
// Saturday keeps its policy classification whatever the override sets hold.
func EffectiveClass(date time.Time, p Policy, o *Overrides) Class {
	class := Classify(date, p)
	if o == nil || calendar.IsSaturday(date) {
		return class
	}
	key := calendar.DateKey(date)
	if o.IsDeducted(key) {
		return Excluded
	}
	if o.IsAdded(key) {
		return Working
	}
	return class
}

// EffectiveCount counts working days in r after applying overrides.
func EffectiveCount(r Range, p Policy, o *Overrides) int {
	if o.Len() == 0 {
		return Count(r, p)
	}
	count := 0
	r.Each(func(d time.Time) {
		if EffectiveClass(d, p, o) == Working {
			count++
		}
	})
	return count
}
