package persistence

import (
	"context"
	"time"
)

// TaskFilter narrows task row queries.
type TaskFilter struct {
	// DueFrom/DueTo bound non-recurring rows by due date (inclusive).
	// Recurring definitions whose RepeatStart precedes DueTo are always
	// included so callers can expand them over the window.
	DueFrom *time.Time
	DueTo   *time.Time
	// CreatedBy restricts rows to a single owner when non-empty.
	CreatedBy string
	// Statuses restricts rows to the listed statuses when non-empty.
	Statuses []string
}

// TaskStore reads materialized task rows and per-date completion records.
type TaskStore interface {
	ListTaskRows(ctx context.Context, filter TaskFilter) ([]TaskRow, error)
	ListCompletions(ctx context.Context, taskIDs []string, from, to time.Time) ([]TaskCompletion, error)
	UpsertCompletion(ctx context.Context, completion TaskCompletion) error
	DeleteCompletion(ctx context.Context, taskID string, date time.Time) error
}

// LeaveFilter narrows leave queries to a window and optionally one employee.
type LeaveFilter struct {
	From       time.Time
	To         time.Time
	EmployeeID string
	Statuses   []string
}

// LeaveStore reads leave requests overlapping a window.
type LeaveStore interface {
	ListLeave(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, error)
}

// ChildLogFilter narrows child log queries.
type ChildLogFilter struct {
	From       time.Time
	To         time.Time
	Categories []string
	Child      string
}

// ChildLogStore reads child activity logs.
type ChildLogStore interface {
	ListLogs(ctx context.Context, filter ChildLogFilter) ([]ChildLog, error)
}

// ImportantDateStore reads annual markers. There is no range filter; the
// normalizer projects each record onto its next occurrence.
type ImportantDateStore interface {
	ListImportantDates(ctx context.Context) ([]ImportantDate, error)
}

// ScheduleStore reads weekly shift templates and reads/writes per-date
// overrides via idempotent keyed operations.
type ScheduleStore interface {
	ListTemplates(ctx context.Context, ownerID string) ([]ScheduleTemplate, error)
	GetTemplate(ctx context.Context, id string) (ScheduleTemplate, error)
	ListOverrides(ctx context.Context, from, to time.Time) ([]ScheduleOverride, error)
	GetOverride(ctx context.Context, scheduleID string, date time.Time) (ScheduleOverride, error)
	UpsertOverride(ctx context.Context, override ScheduleOverride) error
	DeleteOverride(ctx context.Context, scheduleID string, date time.Time) error
}
