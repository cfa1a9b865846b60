package saved

import "context"

// Repository defines the storage interface for saved ranges and todo lists.
// All dates cross this boundary as ISO-8601 date strings; implementations
// convert to and from local dates.
type Repository interface {
	// ListSavedRanges returns every saved range, oldest first.
	ListSavedRanges(ctx context.Context) ([]*SavedRange, error)

	// GetSavedRange returns one saved range or ErrNotFound.
	GetSavedRange(ctx context.Context, id string) (*SavedRange, error)

	// CreateSavedRange persists a new saved range.
	CreateSavedRange(ctx context.Context, r *SavedRange) error

	// UpdateSavedRange applies a partial update. Returns ErrNotFound for unknown ids.
	UpdateSavedRange(ctx context.Context, id string, patch Patch) error

	// DeleteSavedRange removes a saved range and its todo lists.
	DeleteSavedRange(ctx context.Context, id string) error

	// LoadTodoTasks returns the todo list of one day of a saved range.
	LoadTodoTasks(ctx context.Context, rangeID, dateKey string) ([]TodoTask, error)

	// SaveTodoTasks replaces the todo list of one day of a saved range.
	SaveTodoTasks(ctx context.Context, rangeID, dateKey string, tasks []TodoTask) error

	// Close releases any resources held by the repository.
	Close() error
}
