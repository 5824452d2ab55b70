package sqlite

import (
	"context"
	"time"

	"github.com/example/household-portal/internal/persistence"
)

// ImportantDateRepository implements persistence.ImportantDateStore on SQLite.
type ImportantDateRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewImportantDateRepository creates a SQLite important date repository.
func NewImportantDateRepository(pool *ConnectionPool) *ImportantDateRepository {
	return &ImportantDateRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ListImportantDates returns all annual markers ordered by month and day.
func (r *ImportantDateRepository) ListImportantDates(ctx context.Context) ([]persistence.ImportantDate, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT id, month, day, label, employee_name FROM important_dates ORDER BY month ASC, day ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.ImportantDate
	for rows.Next() {
		var record persistence.ImportantDate
		var month int
		if err := rows.Scan(&record.ID, &month, &record.Day, &record.Label, &record.EmployeeName); err != nil {
			return nil, r.mapper.MapError(err)
		}
		record.Month = time.Month(month)
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

// InsertImportantDate inserts an annual marker.
func (r *ImportantDateRepository) InsertImportantDate(ctx context.Context, record persistence.ImportantDate) error {
	if record.ID == "" || record.Label == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx,
		`INSERT INTO important_dates (id, month, day, label, employee_name) VALUES (?, ?, ?, ?, ?)`,
		record.ID, int(record.Month), record.Day, record.Label, record.EmployeeName,
	)
	return r.mapper.MapError(err)
}
