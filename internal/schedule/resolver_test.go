package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/household-portal/internal/persistence"
)

func mondayTemplate() persistence.ScheduleTemplate {
	return persistence.ScheduleTemplate{
		ID:        "sched-1",
		OwnerID:   "dana",
		Weekday:   time.Monday,
		StartTime: "09:00",
		EndTime:   "17:00",
	}
}

func strPtr(s string) *string { return &s }

func TestResolveShiftOccurrence_TemplateOnly(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	occ, err := ResolveShiftOccurrence(mondayTemplate(), nil, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ == nil {
		t.Fatal("expected an occurrence on the template weekday")
	}
	if occ.HasOverride || occ.Cancelled {
		t.Fatal("expected a plain template occurrence")
	}
	if occ.Start.Hour() != 9 || occ.End.Hour() != 17 {
		t.Fatalf("expected 09:00-17:00, got %v-%v", occ.Start, occ.End)
	}
}

func TestResolveShiftOccurrence_WeekdayMismatch(t *testing.T) {
	t.Parallel()

	tuesday := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	occ, err := ResolveShiftOccurrence(mondayTemplate(), nil, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ != nil {
		t.Fatalf("expected nil occurrence off the template weekday, got %+v", occ)
	}
}

func TestResolveShiftOccurrence_CancellingOverride(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	override := &persistence.ScheduleOverride{
		ID:         "ov-1",
		ScheduleID: "sched-1",
		Date:       monday,
		Cancelled:  true,
	}

	occ, err := ResolveShiftOccurrence(mondayTemplate(), override, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ == nil || !occ.Cancelled || !occ.HasOverride {
		t.Fatalf("expected cancelled occurrence, got %+v", occ)
	}
}

func TestResolveShiftOccurrence_TimeShiftingOverride(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	override := &persistence.ScheduleOverride{
		ID:         "ov-1",
		ScheduleID: "sched-1",
		Date:       monday,
		StartTime:  strPtr("11:00"),
		EndTime:    strPtr("19:30"),
	}

	occ, err := ResolveShiftOccurrence(mondayTemplate(), override, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ == nil || !occ.HasOverride || occ.Cancelled {
		t.Fatalf("expected overridden occurrence, got %+v", occ)
	}
	if occ.Start.Hour() != 11 || occ.End.Hour() != 19 || occ.End.Minute() != 30 {
		t.Fatalf("expected 11:00-19:30, got %v-%v", occ.Start, occ.End)
	}
	if occ.TemplateStart.Hour() != 9 || occ.TemplateEnd.Hour() != 17 {
		t.Fatal("expected pre-override times to be preserved for display")
	}
}

func TestResolveShiftOccurrence_PartialOverrideKeepsTemplateSide(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	override := &persistence.ScheduleOverride{
		ScheduleID: "sched-1",
		Date:       monday,
		EndTime:    strPtr("15:00"),
	}

	occ, err := ResolveShiftOccurrence(mondayTemplate(), override, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.Start.Hour() != 9 {
		t.Fatalf("expected template start to survive, got %v", occ.Start)
	}
	if occ.End.Hour() != 15 {
		t.Fatalf("expected overridden end, got %v", occ.End)
	}
}

func TestResolveShiftOccurrence_ForeignOverrideIgnored(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	override := &persistence.ScheduleOverride{
		ScheduleID: "sched-other",
		Date:       monday,
		Cancelled:  true,
	}

	occ, err := ResolveShiftOccurrence(mondayTemplate(), override, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ == nil || occ.HasOverride {
		t.Fatalf("expected override for another schedule to be ignored, got %+v", occ)
	}
}

func TestResolveShiftOccurrence_MalformedTemplateClock(t *testing.T) {
	t.Parallel()

	template := mondayTemplate()
	template.StartTime = "nine-ish"
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := ResolveShiftOccurrence(template, nil, monday); err == nil {
		t.Fatal("expected error for malformed clock value")
	}
}

// --- Service tests ---

type scheduleStoreStub struct {
	template     persistence.ScheduleTemplate
	templateErr  error
	overrides    map[string]persistence.ScheduleOverride
	upsertCalls  int
	deleteCalls  int
	deleteErr    error
	upsertErr    error
	lastUpserted persistence.ScheduleOverride
}

func newScheduleStoreStub(template persistence.ScheduleTemplate) *scheduleStoreStub {
	return &scheduleStoreStub{
		template:  template,
		overrides: make(map[string]persistence.ScheduleOverride),
	}
}

func (s *scheduleStoreStub) key(scheduleID string, date time.Time) string {
	return scheduleID + "|" + date.Format("2006-01-02")
}

func (s *scheduleStoreStub) ListTemplates(ctx context.Context, ownerID string) ([]persistence.ScheduleTemplate, error) {
	return []persistence.ScheduleTemplate{s.template}, nil
}

func (s *scheduleStoreStub) GetTemplate(ctx context.Context, id string) (persistence.ScheduleTemplate, error) {
	if s.templateErr != nil {
		return persistence.ScheduleTemplate{}, s.templateErr
	}
	if id != s.template.ID {
		return persistence.ScheduleTemplate{}, persistence.ErrNotFound
	}
	return s.template, nil
}

func (s *scheduleStoreStub) ListOverrides(ctx context.Context, from, to time.Time) ([]persistence.ScheduleOverride, error) {
	out := make([]persistence.ScheduleOverride, 0, len(s.overrides))
	for _, override := range s.overrides {
		out = append(out, override)
	}
	return out, nil
}

func (s *scheduleStoreStub) GetOverride(ctx context.Context, scheduleID string, date time.Time) (persistence.ScheduleOverride, error) {
	override, ok := s.overrides[s.key(scheduleID, date)]
	if !ok {
		return persistence.ScheduleOverride{}, persistence.ErrNotFound
	}
	return override, nil
}

func (s *scheduleStoreStub) UpsertOverride(ctx context.Context, override persistence.ScheduleOverride) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upsertCalls++
	s.lastUpserted = override
	s.overrides[s.key(override.ScheduleID, override.Date)] = override
	return nil
}

func (s *scheduleStoreStub) DeleteOverride(ctx context.Context, scheduleID string, date time.Time) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	key := s.key(scheduleID, date)
	if _, ok := s.overrides[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.overrides, key)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
}

func TestService_UpsertOverride_Idempotent(t *testing.T) {
	t.Parallel()

	store := newScheduleStoreStub(mondayTemplate())
	counter := 0
	svc := NewService(store, func() string { counter++; return "ov-" + string(rune('0'+counter)) }, fixedNow, nil)

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	input := OverrideInput{Cancelled: true}

	first, err := svc.UpsertOverride(context.Background(), "sched-1", monday, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.UpsertOverride(context.Background(), "sched-1", monday, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected keyed upsert to reuse the row id, got %s then %s", first.ID, second.ID)
	}
	if len(store.overrides) != 1 {
		t.Fatalf("expected a single override row, got %d", len(store.overrides))
	}
}

func TestService_UpsertOverride_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newScheduleStoreStub(mondayTemplate()), nil, fixedNow, nil)
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := svc.UpsertOverride(context.Background(), "sched-1", monday, OverrideInput{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for empty override, got %v", err)
	}

	_, err = svc.UpsertOverride(context.Background(), "sched-1", monday, OverrideInput{StartTime: strPtr("26:00")})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad clock, got %v", err)
	}
	if _, ok := vErr.FieldErrors["start_time"]; !ok {
		t.Fatalf("expected start_time field error, got %v", vErr.FieldErrors)
	}
}

func TestService_UpsertOverride_RejectsOffTemplateWeekday(t *testing.T) {
	t.Parallel()

	svc := NewService(newScheduleStoreStub(mondayTemplate()), nil, fixedNow, nil)
	tuesday := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	_, err := svc.UpsertOverride(context.Background(), "sched-1", tuesday, OverrideInput{Cancelled: true})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for off-template weekday, got %v", err)
	}
}

func TestService_UpsertOverride_UnknownSchedule(t *testing.T) {
	t.Parallel()

	svc := NewService(newScheduleStoreStub(mondayTemplate()), nil, fixedNow, nil)
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := svc.UpsertOverride(context.Background(), "missing", monday, OverrideInput{Cancelled: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteOverride_RestoresTemplateAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newScheduleStoreStub(mondayTemplate())
	svc := NewService(store, nil, fixedNow, nil)
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := svc.UpsertOverride(context.Background(), "sched-1", monday, OverrideInput{Cancelled: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteOverride(context.Background(), "sched-1", monday); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second delete is a no-op, not an error.
	if err := svc.DeleteOverride(context.Background(), "sched-1", monday); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}

	occ, err := ResolveShiftOccurrence(store.template, nil, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ == nil || occ.Start.Hour() != 9 || occ.End.Hour() != 17 {
		t.Fatalf("expected template 09:00-17:00 restored, got %+v", occ)
	}
}
