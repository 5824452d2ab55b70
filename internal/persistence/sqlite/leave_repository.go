package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// LeaveRepository implements persistence.LeaveStore on SQLite.
type LeaveRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewLeaveRepository creates a SQLite leave repository.
func NewLeaveRepository(pool *ConnectionPool) *LeaveRepository {
	return &LeaveRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ListLeave returns leave requests whose span overlaps the filter window.
func (r *LeaveRepository) ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRequest, error) {
	query := `
		SELECT id, employee_id, employee_name, reason, status, start_date, end_date, total_days
		FROM leave_requests
		WHERE end_date >= ? AND start_date <= ?
	`
	args := []any{dateutil.FormatDate(filter.From), dateutil.FormatDate(filter.To)}

	if filter.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, filter.EmployeeID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	query += " ORDER BY start_date ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.LeaveRequest
	for rows.Next() {
		var request persistence.LeaveRequest
		var startStr, endStr string
		err := rows.Scan(
			&request.ID,
			&request.EmployeeID,
			&request.EmployeeName,
			&request.Reason,
			&request.Status,
			&startStr,
			&endStr,
			&request.TotalDays,
		)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		if request.StartDate, err = dateutil.ParseDate(startStr); err != nil {
			return nil, fmt.Errorf("parse start_date: %w", err)
		}
		if request.EndDate, err = dateutil.ParseDate(endStr); err != nil {
			return nil, fmt.Errorf("parse end_date: %w", err)
		}
		out = append(out, request)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range out {
		dates, err := r.loadSelectedDates(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].SelectedDates = dates
	}
	return out, nil
}

// InsertLeave inserts a leave request with its selected dates.
func (r *LeaveRepository) InsertLeave(ctx context.Context, request persistence.LeaveRequest) error {
	if request.ID == "" || request.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(tx,
			`INSERT INTO leave_requests (id, employee_id, employee_name, reason, status, start_date, end_date, total_days)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			request.ID,
			request.EmployeeID,
			request.EmployeeName,
			request.Reason,
			request.Status,
			dateutil.FormatDate(request.StartDate),
			dateutil.FormatDate(request.EndDate),
			request.TotalDays,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		for _, date := range request.SelectedDates {
			_, err := r.helper.ExecTx(tx,
				`INSERT INTO leave_selected_dates (leave_id, date) VALUES (?, ?)`,
				request.ID, dateutil.FormatDate(date),
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

func (r *LeaveRepository) loadSelectedDates(ctx context.Context, leaveID string) ([]time.Time, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT date FROM leave_selected_dates WHERE leave_id = ? ORDER BY date ASC`, leaveID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		date, err := dateutil.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse selected date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return dates, nil
}
