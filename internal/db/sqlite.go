// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
)

// SQLite implements saved.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ saved.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectRange = `
	SELECT id, title, start_date, end_date, plus_days, deducted, added, created_at
	FROM saved_ranges
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRange(row scanner) (*saved.SavedRange, error) {
	var (
		r         saved.SavedRange
		startDate string
		endDate   string
		plusDays  sql.NullInt64
		deducted  string
		added     string
		createdAt string
	)

	if err := row.Scan(&r.ID, &r.Title, &startDate, &endDate, &plusDays, &deducted, &added, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if r.Start, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	if r.End, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if plusDays.Valid {
		n := int(plusDays.Int64)
		r.PlusDays = &n
	}
	if err := json.Unmarshal([]byte(deducted), &r.Deducted); err != nil {
		return nil, fmt.Errorf("decoding deducted days: %w", err)
	}
	if err := json.Unmarshal([]byte(added), &r.Added); err != nil {
		return nil, fmt.Errorf("decoding added days: %w", err)
	}

	return &r, nil
}

func encodeKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	b, err := json.Marshal(keys)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListSavedRanges returns every saved range, oldest first.
func (s *SQLite) ListSavedRanges(ctx context.Context) ([]*saved.SavedRange, error) {
	rows, err := s.db.QueryContext(ctx, selectRange+` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying saved ranges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ranges := []*saved.SavedRange{}
	for rows.Next() {
		r, err := scanRange(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning saved range: %w", err)
		}
		ranges = append(ranges, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved ranges: %w", err)
	}

	return ranges, nil
}

// GetSavedRange retrieves a saved range by ID.
func (s *SQLite) GetSavedRange(ctx context.Context, id string) (*saved.SavedRange, error) {
	r, err := scanRange(s.db.QueryRowContext(ctx, selectRange+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying saved range: %w", err)
	}
	return r, nil
}

// CreateSavedRange inserts a new saved range.
func (s *SQLite) CreateSavedRange(ctx context.Context, r *saved.SavedRange) error {
	deducted, err := encodeKeys(r.Deducted)
	if err != nil {
		return fmt.Errorf("encoding deducted days: %w", err)
	}
	added, err := encodeKeys(r.Added)
	if err != nil {
		return fmt.Errorf("encoding added days: %w", err)
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO saved_ranges (id, title, start_date, end_date, plus_days, deducted, added, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var plusDays any
	if r.PlusDays != nil {
		plusDays = *r.PlusDays
	}

	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.Title,
		calendar.DateKey(r.Start),
		calendar.DateKey(r.End),
		plusDays,
		deducted,
		added,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting saved range: %w", err)
	}

	return nil
}

// UpdateSavedRange applies a partial update to a saved range.
func (s *SQLite) UpdateSavedRange(ctx context.Context, id string, patch saved.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanRange(tx.QueryRowContext(ctx, selectRange+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("querying saved range: %w", err)
	}

	updated := patch.Apply(*current)
	deducted, err := encodeKeys(updated.Deducted)
	if err != nil {
		return fmt.Errorf("encoding deducted days: %w", err)
	}
	added, err := encodeKeys(updated.Added)
	if err != nil {
		return fmt.Errorf("encoding added days: %w", err)
	}

	query := `UPDATE saved_ranges SET start_date = ?, end_date = ?, deducted = ?, added = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query,
		calendar.DateKey(updated.Start),
		calendar.DateKey(updated.End),
		deducted,
		added,
		id,
	); err != nil {
		return fmt.Errorf("updating saved range: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteSavedRange removes a saved range and its todo lists.
func (s *SQLite) DeleteSavedRange(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_tasks WHERE range_id = ?`, id); err != nil {
		return fmt.Errorf("deleting todo tasks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM saved_ranges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting saved range: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// LoadTodoTasks returns the todo list of one day, in list order.
func (s *SQLite) LoadTodoTasks(ctx context.Context, rangeID, dateKey string) ([]saved.TodoTask, error) {
	query := `
		SELECT id, text, done
		FROM todo_tasks
		WHERE range_id = ? AND date_key = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, rangeID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("querying todo tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []saved.TodoTask{}
	for rows.Next() {
		var t saved.TodoTask
		if err := rows.Scan(&t.ID, &t.Text, &t.Done); err != nil {
			return nil, fmt.Errorf("scanning todo task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo tasks: %w", err)
	}

	return tasks, nil
}

// SaveTodoTasks replaces the todo list of one day in a single transaction.
func (s *SQLite) SaveTodoTasks(ctx context.Context, rangeID, dateKey string, tasks []saved.TodoTask) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_ranges WHERE id = ?`, rangeID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking saved range: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", saved.ErrNotFound, rangeID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_tasks WHERE range_id = ? AND date_key = ?`, rangeID, dateKey); err != nil {
		return fmt.Errorf("clearing todo tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todo_tasks (id, range_id, date_key, position, text, done)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, rangeID, dateKey, i, t.Text, t.Done); err != nil {
			return fmt.Errorf("inserting todo task %q: %w", t.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, ok := calendar.ParseDateKey(s); ok {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; that is a
	// stored local date, not a UTC instant.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, ok := calendar.ParseDateKey(s[:10]); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// parseTimestamp parses a DATETIME column.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
