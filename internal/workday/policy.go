// Package workday decides which days of a date range count as working days.
package workday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidCustomDays = errors.New("custom working days must be between 1 and 7")
	ErrInvalidDayCount   = errors.New("day count must be between 1 and 999")
	ErrInvalidPolicy     = errors.New("policy must be 'all', 'weekdays' or 'custom:N'")
)

// MaxDayCount bounds days-mode input.
const MaxDayCount = 999

// Kind identifies the active policy variant.
type Kind int

const (
	KindAllDays Kind = iota
	KindExcludeWeekends
	KindCustom
)

// Policy is the working-day policy. Exactly one kind is active; the zero
// value is AllDays.
type Policy struct {
	kind Kind
	n    int // 1..7, only for KindCustom
}

// AllDays counts every calendar day.
func AllDays() Policy {
	return Policy{kind: KindAllDays}
}

// ExcludeWeekends excludes Saturday and Sunday.
func ExcludeWeekends() Policy {
	return Policy{kind: KindExcludeWeekends}
}

// NewCustomWorkingDays makes weekday indexes 0..n-1 (Sunday based) working.
// Saturday stays excluded even when n is 7.
func NewCustomWorkingDays(n int) (Policy, error) {
	if n < 1 || n > 7 {
		return Policy{}, fmt.Errorf("%w: got %d", ErrInvalidCustomDays, n)
	}
	return Policy{kind: KindCustom, n: n}, nil
}

// Kind returns the active variant.
func (p Policy) Kind() Kind {
	return p.kind
}

// N returns the custom day count, or 0 for the other kinds.
func (p Policy) N() int {
	if p.kind != KindCustom {
		return 0
	}
	return p.n
}

// IsCustom reports whether the policy is CustomWorkingDays.
func (p Policy) IsCustom() bool {
	return p.kind == KindCustom
}

// String returns the canonical text form understood by ParsePolicy.
func (p Policy) String() string {
	switch p.kind {
	case KindExcludeWeekends:
		return "weekdays"
	case KindCustom:
		return "custom:" + strconv.Itoa(p.n)
	default:
		return "all"
	}
}

// Label returns a short human description.
func (p Policy) Label() string {
	switch p.kind {
	case KindExcludeWeekends:
		return "excluding weekends"
	case KindCustom:
		return fmt.Sprintf("first %d days of week", p.n)
	default:
		return "all days"
	}
}

// ParsePolicy parses "all", "weekdays" or "custom:N".
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all", "alldays":
		return AllDays(), nil
	case "weekdays", "exclude-weekends", "noweekends":
		return ExcludeWeekends(), nil
	}
	if rest, ok := strings.CutPrefix(s, "custom:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
		}
		return NewCustomWorkingDays(n)
	}
	return Policy{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// FromPlusDays restores a policy from a SavedRange snapshot.
// A nil snapshot means no custom policy was active when the range was saved.
func FromPlusDays(plusDays *int) Policy {
	if plusDays == nil {
		return AllDays()
	}
	p, err := NewCustomWorkingDays(*plusDays)
	if err != nil {
		return AllDays()
	}
	return p
}

// PlusDays snapshots a custom policy for persistence; other kinds yield nil.
func (p Policy) PlusDays() *int {
	if p.kind != KindCustom {
		return nil
	}
	n := p.n
	return &n
}

// Class is the per-day classification under a policy.
type Class int

const (
	Working  Class = iota // counted
	Excluded              // Saturday, or Sunday under ExcludeWeekends
	Off                   // custom policy day past N that is not Saturday
)

func (c Class) String() string {
	switch c {
	case Working:
		return "working"
	case Excluded:
		return "excluded"
	case Off:
		return "off"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Classify returns the policy classification of date.
func Classify(date time.Time, p Policy) Class {
	wd := date.Weekday()
	switch p.kind {
	case KindExcludeWeekends:
		if wd == time.Saturday || wd == time.Sunday {
			return Excluded
		}
		return Working
	case KindCustom:
		if wd == time.Saturday {
			return Excluded
		}
		if int(wd) >= p.n {
			return Off
		}
		return Working
	default:
		return Working
	}
}

// IsWorking reports whether the policy counts date.
func IsWorking(date time.Time, p Policy) bool {
	return Classify(date, p) == Working
}
