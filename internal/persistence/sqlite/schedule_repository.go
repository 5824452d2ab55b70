package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleStore on SQLite.
type ScheduleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewScheduleRepository creates a SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ListTemplates returns weekly shift templates, optionally for one owner.
func (r *ScheduleRepository) ListTemplates(ctx context.Context, ownerID string) ([]persistence.ScheduleTemplate, error) {
	query := `
		SELECT id, owner_id, owner_name, weekday, start_time, end_time, created_at, updated_at
		FROM schedule_templates
	`
	var args []any
	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}
	query += " ORDER BY owner_id ASC, weekday ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.ScheduleTemplate
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, template)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// GetTemplate returns one template by id.
func (r *ScheduleRepository) GetTemplate(ctx context.Context, id string) (persistence.ScheduleTemplate, error) {
	if id == "" {
		return persistence.ScheduleTemplate{}, persistence.ErrNotFound
	}

	var template persistence.ScheduleTemplate
	var weekday int
	var createdAtStr, updatedAtStr string
	err := r.helper.QueryRow(ctx, `
		SELECT id, owner_id, owner_name, weekday, start_time, end_time, created_at, updated_at
		FROM schedule_templates WHERE id = ?
	`, id).Scan(
		&template.ID,
		&template.OwnerID,
		&template.OwnerName,
		&weekday,
		&template.StartTime,
		&template.EndTime,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduleTemplate{}, persistence.ErrNotFound
		}
		return persistence.ScheduleTemplate{}, r.mapper.MapError(err)
	}

	template.Weekday = time.Weekday(weekday)
	if template.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.ScheduleTemplate{}, fmt.Errorf("parse created_at: %w", err)
	}
	if template.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.ScheduleTemplate{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return template, nil
}

// InsertTemplate inserts a weekly shift template.
func (r *ScheduleRepository) InsertTemplate(ctx context.Context, template persistence.ScheduleTemplate) error {
	if template.ID == "" || template.OwnerID == "" {
		return persistence.ErrConstraintViolation
	}
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	if template.UpdatedAt.IsZero() {
		template.UpdatedAt = now
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO schedule_templates (id, owner_id, owner_name, weekday, start_time, end_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		template.ID,
		template.OwnerID,
		template.OwnerName,
		int(template.Weekday),
		template.StartTime,
		template.EndTime,
		template.CreatedAt.UTC().Format(time.RFC3339),
		template.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return r.mapper.MapError(err)
}

// ListOverrides returns overrides dated within the inclusive range.
func (r *ScheduleRepository) ListOverrides(ctx context.Context, from, to time.Time) ([]persistence.ScheduleOverride, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, schedule_id, date, start_time, end_time, cancelled, created_at, updated_at
		FROM schedule_overrides
		WHERE date >= ? AND date <= ?
		ORDER BY schedule_id ASC, date ASC
	`, dateutil.FormatDate(from), dateutil.FormatDate(to))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.ScheduleOverride
	for rows.Next() {
		override, err := r.scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, override)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// GetOverride returns the override for (schedule, date).
func (r *ScheduleRepository) GetOverride(ctx context.Context, scheduleID string, date time.Time) (persistence.ScheduleOverride, error) {
	var override persistence.ScheduleOverride
	var dateStr, createdAtStr, updatedAtStr string
	var startTime, endTime sql.NullString
	var cancelled int

	err := r.helper.QueryRow(ctx, `
		SELECT id, schedule_id, date, start_time, end_time, cancelled, created_at, updated_at
		FROM schedule_overrides WHERE schedule_id = ? AND date = ?
	`, scheduleID, dateutil.FormatDate(date)).Scan(
		&override.ID,
		&override.ScheduleID,
		&dateStr,
		&startTime,
		&endTime,
		&cancelled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduleOverride{}, persistence.ErrNotFound
		}
		return persistence.ScheduleOverride{}, r.mapper.MapError(err)
	}

	return hydrateOverride(override, dateStr, startTime, endTime, cancelled, createdAtStr, updatedAtStr)
}

// UpsertOverride inserts or replaces the override keyed by (schedule, date).
func (r *ScheduleRepository) UpsertOverride(ctx context.Context, override persistence.ScheduleOverride) error {
	if override.ID == "" || override.ScheduleID == "" {
		return persistence.ErrConstraintViolation
	}

	var startTime, endTime sql.NullString
	if override.StartTime != nil {
		startTime = sql.NullString{String: *override.StartTime, Valid: true}
	}
	if override.EndTime != nil {
		endTime = sql.NullString{String: *override.EndTime, Valid: true}
	}
	cancelled := 0
	if override.Cancelled {
		cancelled = 1
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO schedule_overrides (id, schedule_id, date, start_time, end_time, cancelled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (schedule_id, date) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			cancelled = excluded.cancelled,
			updated_at = excluded.updated_at
	`,
		override.ID,
		override.ScheduleID,
		dateutil.FormatDate(override.Date),
		startTime,
		endTime,
		cancelled,
		override.CreatedAt.UTC().Format(time.RFC3339),
		override.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return r.mapper.MapError(err)
}

// DeleteOverride removes the override for (schedule, date). Missing overrides
// return persistence.ErrNotFound.
func (r *ScheduleRepository) DeleteOverride(ctx context.Context, scheduleID string, date time.Time) error {
	result, err := r.helper.Exec(ctx,
		`DELETE FROM schedule_overrides WHERE schedule_id = ? AND date = ?`,
		scheduleID, dateutil.FormatDate(date),
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

func (r *ScheduleRepository) scanTemplate(rows *sql.Rows) (persistence.ScheduleTemplate, error) {
	var template persistence.ScheduleTemplate
	var weekday int
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&template.ID,
		&template.OwnerID,
		&template.OwnerName,
		&weekday,
		&template.StartTime,
		&template.EndTime,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.ScheduleTemplate{}, r.mapper.MapError(err)
	}

	template.Weekday = time.Weekday(weekday)
	if template.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.ScheduleTemplate{}, fmt.Errorf("parse created_at: %w", err)
	}
	if template.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.ScheduleTemplate{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return template, nil
}

func (r *ScheduleRepository) scanOverride(rows *sql.Rows) (persistence.ScheduleOverride, error) {
	var override persistence.ScheduleOverride
	var dateStr, createdAtStr, updatedAtStr string
	var startTime, endTime sql.NullString
	var cancelled int

	err := rows.Scan(
		&override.ID,
		&override.ScheduleID,
		&dateStr,
		&startTime,
		&endTime,
		&cancelled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.ScheduleOverride{}, r.mapper.MapError(err)
	}
	return hydrateOverride(override, dateStr, startTime, endTime, cancelled, createdAtStr, updatedAtStr)
}

func hydrateOverride(override persistence.ScheduleOverride, dateStr string, startTime, endTime sql.NullString, cancelled int, createdAtStr, updatedAtStr string) (persistence.ScheduleOverride, error) {
	var err error
	if override.Date, err = dateutil.ParseDate(dateStr); err != nil {
		return persistence.ScheduleOverride{}, fmt.Errorf("parse date: %w", err)
	}
	if startTime.Valid {
		override.StartTime = &startTime.String
	}
	if endTime.Valid {
		override.EndTime = &endTime.String
	}
	override.Cancelled = cancelled != 0
	if override.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.ScheduleOverride{}, fmt.Errorf("parse created_at: %w", err)
	}
	if override.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.ScheduleOverride{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return override, nil
}
