package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/household-portal/internal/persistence"
)

// ChildLogRepository implements persistence.ChildLogStore on SQLite.
type ChildLogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewChildLogRepository creates a SQLite child log repository.
func NewChildLogRepository(pool *ConnectionPool) *ChildLogRepository {
	return &ChildLogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ListLogs returns logs whose timestamps fall within the filter window. A log
// matches when any of its instants does; spans straddling the window edge are
// included.
func (r *ChildLogRepository) ListLogs(ctx context.Context, filter persistence.ChildLogFilter) ([]persistence.ChildLog, error) {
	from := filter.From.UTC().Format(time.RFC3339)
	// End of the To day, so same-day logs at any hour match.
	to := filter.To.UTC().Add(24 * time.Hour).Format(time.RFC3339)

	query := `
		SELECT id, child, category, log_time, start_time, end_time, note
		FROM child_logs
		WHERE (
			(log_time IS NOT NULL AND log_time >= ? AND log_time < ?)
			OR (start_time IS NOT NULL AND start_time < ? AND (end_time IS NULL OR end_time >= ?))
			OR (end_time IS NOT NULL AND end_time >= ? AND end_time < ?)
		)
	`
	args := []any{from, to, to, from, from, to}

	if filter.Child != "" {
		query += " AND child = ?"
		args = append(args, filter.Child)
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			placeholders[i] = "?"
			args = append(args, category)
		}
		query += fmt.Sprintf(" AND category IN (%s)", strings.Join(placeholders, ","))
	}
	query += " ORDER BY COALESCE(log_time, start_time, end_time) ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.ChildLog
	for rows.Next() {
		var log persistence.ChildLog
		var logTime, startTime, endTime sql.NullString
		err := rows.Scan(&log.ID, &log.Child, &log.Category, &logTime, &startTime, &endTime, &log.Note)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		if log.LogTime, err = parseNullableTimestamp(logTime, "log_time"); err != nil {
			return nil, err
		}
		if log.StartTime, err = parseNullableTimestamp(startTime, "start_time"); err != nil {
			return nil, err
		}
		if log.EndTime, err = parseNullableTimestamp(endTime, "end_time"); err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// InsertLog inserts a child log entry.
func (r *ChildLogRepository) InsertLog(ctx context.Context, log persistence.ChildLog) error {
	if log.ID == "" || log.Child == "" || log.Category == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO child_logs (id, child, category, log_time, start_time, end_time, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.Child,
		log.Category,
		formatNullableTimestamp(log.LogTime),
		formatNullableTimestamp(log.StartTime),
		formatNullableTimestamp(log.EndTime),
		log.Note,
	)
	return r.mapper.MapError(err)
}

func parseNullableTimestamp(value sql.NullString, column string) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", column, err)
	}
	return &parsed, nil
}

func formatNullableTimestamp(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.UTC().Format(time.RFC3339), Valid: true}
}
