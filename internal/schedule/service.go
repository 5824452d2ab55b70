package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// ErrNotFound is returned when the referenced schedule template does not exist.
var ErrNotFound = errors.New("schedule: not found")

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// OverrideInput captures caller provided override fields. A nil StartTime or
// EndTime keeps the template's value for that side.
type OverrideInput struct {
	StartTime *string
	EndTime   *string
	Cancelled bool
}

// Service manages per-date shift overrides on top of weekly templates.
type Service struct {
	store       persistence.ScheduleStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewService wires dependencies for override operations.
func NewService(store persistence.ScheduleStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Service {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, idGenerator: idGenerator, now: now, logger: logger}
}

// UpsertOverride records or replaces the exception for (scheduleID, date).
// The write is idempotent on its key: applying the same input twice yields
// the same resolved state.
func (s *Service) UpsertOverride(ctx context.Context, scheduleID string, date time.Time, input OverrideInput) (persistence.ScheduleOverride, error) {
	if s == nil || s.store == nil {
		return persistence.ScheduleOverride{}, fmt.Errorf("schedule service not configured")
	}

	vErr := &ValidationError{}
	if scheduleID == "" {
		vErr.add("schedule_id", "schedule id is required")
	}
	if date.IsZero() {
		vErr.add("date", "date is required")
	}
	if !input.Cancelled && input.StartTime == nil && input.EndTime == nil {
		vErr.add("override", "an override must cancel the shift or change its times")
	}
	if input.StartTime != nil {
		if _, err := dateutil.CombineClock(dateutil.AtNoon(date), *input.StartTime); err != nil {
			vErr.add("start_time", "must be a valid HH:MM value")
		}
	}
	if input.EndTime != nil {
		if _, err := dateutil.CombineClock(dateutil.AtNoon(date), *input.EndTime); err != nil {
			vErr.add("end_time", "must be a valid HH:MM value")
		}
	}
	if vErr.HasErrors() {
		return persistence.ScheduleOverride{}, vErr
	}

	template, err := s.store.GetTemplate(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ScheduleOverride{}, ErrNotFound
		}
		return persistence.ScheduleOverride{}, err
	}
	if dateutil.AtNoon(date).Weekday() != template.Weekday {
		vErr.add("date", "template does not cover this weekday")
		return persistence.ScheduleOverride{}, vErr
	}

	day := dateutil.AtNoon(date)
	now := s.now()
	override := persistence.ScheduleOverride{
		ID:         s.idGenerator(),
		ScheduleID: scheduleID,
		Date:       day,
		StartTime:  cloneString(input.StartTime),
		EndTime:    cloneString(input.EndTime),
		Cancelled:  input.Cancelled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Keep the existing row id on replace so the upsert stays a keyed write.
	if existing, err := s.store.GetOverride(ctx, scheduleID, day); err == nil {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return persistence.ScheduleOverride{}, err
	}

	if err := s.store.UpsertOverride(ctx, override); err != nil {
		return persistence.ScheduleOverride{}, err
	}

	s.logger.InfoContext(ctx, "shift override stored",
		"schedule_id", scheduleID,
		"date", dateutil.FormatDate(day),
		"cancelled", override.Cancelled,
	)
	return override, nil
}

// DeleteOverride removes the exception for (scheduleID, date), restoring the
// template times. Deleting a missing override is a no-op.
func (s *Service) DeleteOverride(ctx context.Context, scheduleID string, date time.Time) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("schedule service not configured")
	}

	err := s.store.DeleteOverride(ctx, scheduleID, dateutil.AtNoon(date))
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	return nil
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
