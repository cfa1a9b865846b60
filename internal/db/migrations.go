package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS saved_ranges (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			start_date  DATE NOT NULL,
			end_date    DATE NOT NULL,
			plus_days   INTEGER CHECK(plus_days IS NULL OR plus_days BETWEEN 1 AND 7),
			deducted    TEXT NOT NULL DEFAULT '[]',
			added       TEXT NOT NULL DEFAULT '[]',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS todo_tasks (
			id        TEXT PRIMARY KEY,
			range_id  TEXT NOT NULL REFERENCES saved_ranges(id),
			date_key  TEXT NOT NULL,
			position  INTEGER NOT NULL,
			text      TEXT NOT NULL,
			done      INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_saved_ranges_created ON saved_ranges(created_at);
		CREATE INDEX IF NOT EXISTS idx_todo_tasks_day ON todo_tasks(range_id, date_key);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
