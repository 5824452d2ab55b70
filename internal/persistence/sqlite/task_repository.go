package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// TaskRepository implements persistence.TaskStore on SQLite.
type TaskRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTaskRepository creates a SQLite task repository.
func NewTaskRepository(pool *ConnectionPool) *TaskRepository {
	return &TaskRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const taskColumns = `id, title, category, created_by, created_at, due_date, due_time, start_time, end_time, status, recurring, repeat_frequency, repeat_interval, repeat_weekdays, repeat_start`

// ListTaskRows returns rows matching the filter. Due-date bounds apply to
// materialized rows only; recurring definitions starting before the upper
// bound are always included so callers can expand them over the window.
func (r *TaskRepository) ListTaskRows(ctx context.Context, filter persistence.TaskFilter) ([]persistence.TaskRow, error) {
	query, args := r.buildListQuery(filter)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.TaskRow
	for rows.Next() {
		row, err := r.scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// ListCompletions returns per-date completion records for the given tasks
// within the inclusive date range.
func (r *TaskRepository) ListCompletions(ctx context.Context, taskIDs []string, from, to time.Time) ([]persistence.TaskCompletion, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(taskIDs))
	args := make([]any, 0, len(taskIDs)+2)
	for i, id := range taskIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, dateutil.FormatDate(from), dateutil.FormatDate(to))

	query := fmt.Sprintf(
		`SELECT task_id, date FROM task_completions WHERE task_id IN (%s) AND date >= ? AND date <= ? ORDER BY task_id, date`,
		strings.Join(placeholders, ","),
	)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.TaskCompletion
	for rows.Next() {
		var taskID, dateStr string
		if err := rows.Scan(&taskID, &dateStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		date, err := dateutil.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse completion date: %w", err)
		}
		out = append(out, persistence.TaskCompletion{TaskID: taskID, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// UpsertCompletion records a completion for (task, date). Re-recording the
// same completion is a no-op.
func (r *TaskRepository) UpsertCompletion(ctx context.Context, completion persistence.TaskCompletion) error {
	if completion.TaskID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO task_completions (task_id, date) VALUES (?, ?)
		 ON CONFLICT (task_id, date) DO NOTHING`,
		completion.TaskID, dateutil.FormatDate(completion.Date),
	)
	return r.mapper.MapError(err)
}

// DeleteCompletion removes a completion record. Missing records return
// persistence.ErrNotFound.
func (r *TaskRepository) DeleteCompletion(ctx context.Context, taskID string, date time.Time) error {
	result, err := r.helper.Exec(ctx,
		`DELETE FROM task_completions WHERE task_id = ? AND date = ?`,
		taskID, dateutil.FormatDate(date),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) buildListQuery(filter persistence.TaskFilter) (string, []any) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	var conditions []string
	var args []any

	if filter.CreatedBy != "" {
		conditions = append(conditions, "created_by = ?")
		args = append(args, filter.CreatedBy)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DueFrom != nil {
		conditions = append(conditions, "(recurring = 1 OR due_date IS NULL OR due_date >= ?)")
		args = append(args, dateutil.FormatDate(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		conditions = append(conditions, "((recurring = 1 AND (repeat_start IS NULL OR repeat_start <= ?)) OR (recurring = 0 AND (due_date IS NULL OR due_date <= ?)))")
		to := dateutil.FormatDate(*filter.DueTo)
		args = append(args, to, to)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY due_date ASC, id ASC"
	return query, args
}

func (r *TaskRepository) scanTaskRow(rows *sql.Rows) (persistence.TaskRow, error) {
	var row persistence.TaskRow
	var createdAtStr string
	var dueDate, dueTime, startTime, endTime, repeatStart sql.NullString
	var recurring int
	var weekdaysStr string

	err := rows.Scan(
		&row.ID,
		&row.Title,
		&row.Category,
		&row.CreatedBy,
		&createdAtStr,
		&dueDate,
		&dueTime,
		&startTime,
		&endTime,
		&row.Status,
		&recurring,
		&row.RepeatFrequency,
		&row.RepeatInterval,
		&weekdaysStr,
		&repeatStart,
	)
	if err != nil {
		return persistence.TaskRow{}, r.mapper.MapError(err)
	}

	if row.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.TaskRow{}, fmt.Errorf("parse created_at: %w", err)
	}
	if dueDate.Valid {
		date, err := dateutil.ParseDate(dueDate.String)
		if err != nil {
			return persistence.TaskRow{}, fmt.Errorf("parse due_date: %w", err)
		}
		row.DueDate = &date
	}
	if dueTime.Valid {
		row.DueTime = &dueTime.String
	}
	if startTime.Valid {
		row.StartTime = &startTime.String
	}
	if endTime.Valid {
		row.EndTime = &endTime.String
	}
	row.Recurring = recurring != 0
	if repeatStart.Valid {
		date, err := dateutil.ParseDate(repeatStart.String)
		if err != nil {
			return persistence.TaskRow{}, fmt.Errorf("parse repeat_start: %w", err)
		}
		row.RepeatStart = &date
	}
	// Missing interval defaults to "every period" at the storage boundary.
	if row.Recurring && row.RepeatInterval == 0 {
		row.RepeatInterval = 1
	}
	row.RepeatWeekdays = parseWeekdays(weekdaysStr)

	return row, nil
}

// parseWeekdays decodes a comma-separated list of weekday numbers (0=Sunday).
// Malformed entries are skipped rather than failing the whole row.
func parseWeekdays(value string) []time.Weekday {
	if value == "" {
		return nil
	}
	var out []time.Weekday
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		out = append(out, time.Weekday(n))
	}
	return out
}

// formatWeekdays encodes weekdays as a comma-separated list of numbers.
func formatWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(int(day))
	}
	return strings.Join(parts, ",")
}

// InsertTaskRow inserts a task row. Used by seeding and tests; the portal's
// write path for tasks lives in a separate service not covered here.
func (r *TaskRepository) InsertTaskRow(ctx context.Context, row persistence.TaskRow) error {
	if row.ID == "" || row.Title == "" {
		return persistence.ErrConstraintViolation
	}

	var dueDate, dueTime, startTime, endTime, repeatStart sql.NullString
	if row.DueDate != nil {
		dueDate = sql.NullString{String: dateutil.FormatDate(*row.DueDate), Valid: true}
	}
	if row.DueTime != nil {
		dueTime = sql.NullString{String: *row.DueTime, Valid: true}
	}
	if row.StartTime != nil {
		startTime = sql.NullString{String: *row.StartTime, Valid: true}
	}
	if row.EndTime != nil {
		endTime = sql.NullString{String: *row.EndTime, Valid: true}
	}
	if row.RepeatStart != nil {
		repeatStart = sql.NullString{String: dateutil.FormatDate(*row.RepeatStart), Valid: true}
	}

	recurring := 0
	if row.Recurring {
		recurring = 1
	}
	interval := row.RepeatInterval
	if interval == 0 {
		interval = 1
	}
	status := row.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.helper.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.Title,
		row.Category,
		row.CreatedBy,
		row.CreatedAt.UTC().Format(time.RFC3339),
		dueDate,
		dueTime,
		startTime,
		endTime,
		status,
		recurring,
		row.RepeatFrequency,
		interval,
		formatWeekdays(row.RepeatWeekdays),
		repeatStart,
	)
	return r.mapper.MapError(err)
}
