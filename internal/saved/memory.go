package saved

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-process Repository. It backs the "memory" storage
// backend and tests.
type Memory struct {
	mu     sync.Mutex
	ranges []*SavedRange
	todos  map[string][]TodoTask // rangeID + "/" + dateKey
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{todos: make(map[string][]TodoTask)}
}

func todoKey(rangeID, dateKey string) string {
	return rangeID + "/" + dateKey
}

func cloneRange(r *SavedRange) *SavedRange {
	c := *r
	c.Deducted = slices.Clone(r.Deducted)
	c.Added = slices.Clone(r.Added)
	if r.PlusDays != nil {
		n := *r.PlusDays
		c.PlusDays = &n
	}
	return &c
}

// ListSavedRanges implements Repository.
func (m *Memory) ListSavedRanges(_ context.Context) ([]*SavedRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*SavedRange, 0, len(m.ranges))
	for _, r := range m.ranges {
		out = append(out, cloneRange(r))
	}
	return out, nil
}

// GetSavedRange implements Repository.
func (m *Memory) GetSavedRange(_ context.Context, id string) (*SavedRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ranges {
		if r.ID == id {
			return cloneRange(r), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// CreateSavedRange implements Repository.
func (m *Memory) CreateSavedRange(_ context.Context, r *SavedRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.ranges {
		if existing.ID == r.ID {
			return fmt.Errorf("saved range %s already exists", r.ID)
		}
	}
	m.ranges = append(m.ranges, cloneRange(r))
	return nil
}

// UpdateSavedRange implements Repository.
func (m *Memory) UpdateSavedRange(_ context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.ranges {
		if r.ID == id {
			updated := patch.Apply(*r)
			m.ranges[i] = &updated
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// DeleteSavedRange implements Repository.
func (m *Memory) DeleteSavedRange(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.ranges {
		if r.ID == id {
			m.ranges = slices.Delete(m.ranges, i, i+1)
			prefix := id + "/"
			for k := range m.todos {
				if len(k) > len(prefix) && k[:len(prefix)] == prefix {
					delete(m.todos, k)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// LoadTodoTasks implements Repository.
func (m *Memory) LoadTodoTasks(_ context.Context, rangeID, dateKey string) ([]TodoTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.todos[todoKey(rangeID, dateKey)]
	if tasks == nil {
		return []TodoTask{}, nil
	}
	return slices.Clone(tasks), nil
}

// SaveTodoTasks implements Repository.
func (m *Memory) SaveTodoTasks(_ context.Context, rangeID, dateKey string, tasks []TodoTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(tasks) == 0 {
		delete(m.todos, todoKey(rangeID, dateKey))
		return nil
	}
	m.todos[todoKey(rangeID, dateKey)] = slices.Clone(tasks)
	return nil
}

// Close implements Repository.
func (m *Memory) Close() error {
	return nil
}
