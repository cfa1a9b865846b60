// Package saved defines persisted ranges and per-day todo lists, and the
// storage contract their backends implement.
package saved

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/workday"
)

// Validation errors.
var (
	ErrEmptyTitle = errors.New("title cannot be empty")
	ErrEmptyText  = errors.New("todo text cannot be empty")
)

// Domain errors.
var (
	ErrNotFound = errors.New("saved range not found")
)

// SavedRange is a titled, persisted date range with its policy snapshot and
// day overrides.
type SavedRange struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	PlusDays *int // custom working-day count active at save time, nil otherwise

	// Override keys (YYYY-MM-DD).
	Deducted []string
	Added    []string

	CreatedAt time.Time
}

// New creates a SavedRange with a fresh ID. Start and end may come in
// either order.
func New(title string, start, end time.Time, policy workday.Policy) (*SavedRange, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	r := workday.NewRange(start, end)
	return &SavedRange{
		ID:        uuid.NewString(),
		Title:     title,
		Start:     r.Start,
		End:       r.End,
		PlusDays:  policy.PlusDays(),
		Deducted:  []string{},
		Added:     []string{},
		CreatedAt: time.Now(),
	}, nil
}

// Range returns the saved date range.
func (s *SavedRange) Range() workday.Range {
	return workday.NewRange(s.Start, s.End)
}

// Policy returns the policy restored from the snapshot.
func (s *SavedRange) Policy() workday.Policy {
	return workday.FromPlusDays(s.PlusDays)
}

// Overrides returns the day overrides as a mutable set.
func (s *SavedRange) Overrides() *workday.Overrides {
	return workday.NewOverrides(s.Deducted, s.Added)
}

// WorkingDays returns the effective working-day count of the saved range.
func (s *SavedRange) WorkingDays() int {
	return workday.EffectiveCount(s.Range(), s.Policy(), s.Overrides())
}

// StartKey returns the start as a date key.
func (s *SavedRange) StartKey() string {
	return calendar.DateKey(s.Start)
}

// EndKey returns the end as a date key.
func (s *SavedRange) EndKey() string {
	return calendar.DateKey(s.End)
}

// Patch is a partial update of a SavedRange. Nil fields are left untouched.
type Patch struct {
	Start    *time.Time
	End      *time.Time
	Deducted *[]string
	Added    *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Start == nil && p.End == nil && p.Deducted == nil && p.Added == nil
}

// Apply returns a copy of s with the patch applied.
func (p Patch) Apply(s SavedRange) SavedRange {
	if p.Start != nil {
		s.Start = calendar.TruncateToDay(*p.Start)
	}
	if p.End != nil {
		s.End = calendar.TruncateToDay(*p.End)
	}
	if p.Deducted != nil {
		s.Deducted = append([]string{}, (*p.Deducted)...)
	}
	if p.Added != nil {
		s.Added = append([]string{}, (*p.Added)...)
	}
	return s
}

// TodoTask is one entry of a day's todo list inside a saved range.
type TodoTask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// NewTodoTask creates an open task with a fresh ID.
func NewTodoTask(text string) (TodoTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TodoTask{}, ErrEmptyText
	}
	return TodoTask{ID: uuid.NewString(), Text: text}, nil
}
