package saved

import (
	"context"
	"sync"

	"github.com/javiermolinar/patro/internal/logger"
)

// BestEffort wraps a Repository for interactive use. In-memory state is the
// source of truth and persistence is best effort: failures are logged and
// degraded to empty results instead of being returned to the caller.
// The most recent failure stays available through Err.
type BestEffort struct {
	repo Repository

	mu      sync.Mutex
	lastErr error
}

// NewBestEffort wraps repo.
func NewBestEffort(repo Repository) *BestEffort {
	return &BestEffort{repo: repo}
}

// Err returns the most recent persistence failure, if any.
func (b *BestEffort) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *BestEffort) record(op string, err error, keyvals ...any) bool {
	if err == nil {
		return true
	}
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	logger.Warn("persistence failed", append([]any{"op", op, "err", err}, keyvals...)...)
	return false
}

// List returns all saved ranges, or none when the store is unreachable.
func (b *BestEffort) List(ctx context.Context) []*SavedRange {
	ranges, err := b.repo.ListSavedRanges(ctx)
	if !b.record("list", err) {
		return []*SavedRange{}
	}
	return ranges
}

// Get returns a saved range, or nil when missing or unreachable.
func (b *BestEffort) Get(ctx context.Context, id string) *SavedRange {
	r, err := b.repo.GetSavedRange(ctx, id)
	if !b.record("get", err, "id", id) {
		return nil
	}
	return r
}

// Create persists a new range and reports success.
func (b *BestEffort) Create(ctx context.Context, r *SavedRange) bool {
	return b.record("create", b.repo.CreateSavedRange(ctx, r), "id", r.ID)
}

// Update applies patch and reports success.
func (b *BestEffort) Update(ctx context.Context, id string, patch Patch) bool {
	if patch.IsEmpty() {
		return true
	}
	return b.record("update", b.repo.UpdateSavedRange(ctx, id, patch), "id", id)
}

// Delete removes a range and reports success.
func (b *BestEffort) Delete(ctx context.Context, id string) bool {
	return b.record("delete", b.repo.DeleteSavedRange(ctx, id), "id", id)
}

// Todos returns a day's todo list, or an empty list on failure.
func (b *BestEffort) Todos(ctx context.Context, rangeID, dateKey string) []TodoTask {
	tasks, err := b.repo.LoadTodoTasks(ctx, rangeID, dateKey)
	if !b.record("load todos", err, "range", rangeID, "date", dateKey) {
		return []TodoTask{}
	}
	return tasks
}

// SaveTodos replaces a day's todo list and reports success.
func (b *BestEffort) SaveTodos(ctx context.Context, rangeID, dateKey string, tasks []TodoTask) bool {
	return b.record("save todos", b.repo.SaveTodoTasks(ctx, rangeID, dateKey, tasks), "range", rangeID, "date", dateKey)
}

// Close closes the underlying repository.
func (b *BestEffort) Close() error {
	return b.repo.Close()
}
