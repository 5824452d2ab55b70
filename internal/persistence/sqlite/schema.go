package sqlite

import (
	"context"
	"fmt"
)

// Dates are stored as YYYY-MM-DD text, timestamps as RFC3339 text and clock
// values as HH:MM text. SQLite's lexicographic ordering matches chronological
// ordering for all three.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		due_date TEXT,
		due_time TEXT,
		start_time TEXT,
		end_time TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		recurring INTEGER NOT NULL DEFAULT 0,
		repeat_frequency TEXT NOT NULL DEFAULT '',
		repeat_interval INTEGER NOT NULL DEFAULT 1,
		repeat_weekdays TEXT NOT NULL DEFAULT '',
		repeat_start TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
	`CREATE TABLE IF NOT EXISTS task_completions (
		task_id TEXT NOT NULL REFERENCES tasks(id),
		date TEXT NOT NULL,
		PRIMARY KEY (task_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_days REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS leave_selected_dates (
		leave_id TEXT NOT NULL REFERENCES leave_requests(id),
		date TEXT NOT NULL,
		PRIMARY KEY (leave_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS child_logs (
		id TEXT PRIMARY KEY,
		child TEXT NOT NULL,
		category TEXT NOT NULL,
		log_time TEXT,
		start_time TEXT,
		end_time TEXT,
		note TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS important_dates (
		id TEXT PRIMARY KEY,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
		label TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_templates (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		owner_name TEXT NOT NULL DEFAULT '',
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_overrides (
		id TEXT NOT NULL,
		schedule_id TEXT NOT NULL REFERENCES schedule_templates(id),
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		cancelled INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (schedule_id, date)
	)`,
}

// Migrate creates the schema if it does not exist. Every statement is
// idempotent, so Migrate is safe to run on every startup.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}
