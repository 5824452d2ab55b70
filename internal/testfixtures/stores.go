package testfixtures

import (
	"context"
	"sync"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// The in-memory stores below implement the persistence interfaces over plain
// slices and count every fetch, so tests can assert that disabled sources are
// never queried. Each store can be primed with a failure via Err.

// TaskStoreStub is an in-memory persistence.TaskStore.
type TaskStoreStub struct {
	mu          sync.Mutex
	Rows        []persistence.TaskRow
	Completions []persistence.TaskCompletion
	Err         error

	ListRowsCalls        int
	ListCompletionsCalls int
}

func (s *TaskStoreStub) ListTaskRows(ctx context.Context, filter persistence.TaskFilter) ([]persistence.TaskRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListRowsCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	var out []persistence.TaskRow
	for _, row := range s.Rows {
		if filter.CreatedBy != "" && row.CreatedBy != filter.CreatedBy {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, row.Status) {
			continue
		}
		if !row.Recurring && row.DueDate != nil {
			due := dateutil.AtNoon(*row.DueDate)
			if filter.DueFrom != nil && due.Before(dateutil.AtNoon(*filter.DueFrom)) {
				continue
			}
			if filter.DueTo != nil && due.After(dateutil.AtNoon(*filter.DueTo)) {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *TaskStoreStub) ListCompletions(ctx context.Context, taskIDs []string, from, to time.Time) ([]persistence.TaskCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCompletionsCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	var out []persistence.TaskCompletion
	for _, completion := range s.Completions {
		if !containsString(taskIDs, completion.TaskID) {
			continue
		}
		day := dateutil.AtNoon(completion.Date)
		if day.Before(dateutil.AtNoon(from)) || day.After(dateutil.AtNoon(to)) {
			continue
		}
		out = append(out, completion)
	}
	return out, nil
}

func (s *TaskStoreStub) UpsertCompletion(ctx context.Context, completion persistence.TaskCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.Completions {
		if existing.TaskID == completion.TaskID && dateutil.SameDay(existing.Date, completion.Date) {
			s.Completions[i] = completion
			return nil
		}
	}
	s.Completions = append(s.Completions, completion)
	return nil
}

func (s *TaskStoreStub) DeleteCompletion(ctx context.Context, taskID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.Completions {
		if existing.TaskID == taskID && dateutil.SameDay(existing.Date, date) {
			s.Completions = append(s.Completions[:i], s.Completions[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

// LeaveStoreStub is an in-memory persistence.LeaveStore.
type LeaveStoreStub struct {
	mu       sync.Mutex
	Requests []persistence.LeaveRequest
	Err      error

	ListCalls int
}

func (s *LeaveStoreStub) ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	from := dateutil.AtNoon(filter.From)
	to := dateutil.AtNoon(filter.To)
	var out []persistence.LeaveRequest
	for _, request := range s.Requests {
		if filter.EmployeeID != "" && request.EmployeeID != filter.EmployeeID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, request.Status) {
			continue
		}
		start := dateutil.AtNoon(request.StartDate)
		end := dateutil.AtNoon(request.EndDate)
		if end.Before(from) || start.After(to) {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

// ChildLogStoreStub is an in-memory persistence.ChildLogStore.
type ChildLogStoreStub struct {
	mu   sync.Mutex
	Logs []persistence.ChildLog
	Err  error

	ListCalls int
}

func (s *ChildLogStoreStub) ListLogs(ctx context.Context, filter persistence.ChildLogFilter) ([]persistence.ChildLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	var out []persistence.ChildLog
	for _, log := range s.Logs {
		if filter.Child != "" && log.Child != filter.Child {
			continue
		}
		if len(filter.Categories) > 0 && !containsString(filter.Categories, log.Category) {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

// ImportantDateStoreStub is an in-memory persistence.ImportantDateStore.
type ImportantDateStoreStub struct {
	mu      sync.Mutex
	Records []persistence.ImportantDate
	Err     error

	ListCalls int
}

func (s *ImportantDateStoreStub) ListImportantDates(ctx context.Context) ([]persistence.ImportantDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]persistence.ImportantDate(nil), s.Records...), nil
}

// ScheduleStoreStub is an in-memory persistence.ScheduleStore.
type ScheduleStoreStub struct {
	mu        sync.Mutex
	Templates []persistence.ScheduleTemplate
	Overrides []persistence.ScheduleOverride
	Err       error

	ListTemplatesCalls int
	ListOverridesCalls int
	UpsertCalls        int
	DeleteCalls        int
}

func (s *ScheduleStoreStub) ListTemplates(ctx context.Context, ownerID string) ([]persistence.ScheduleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListTemplatesCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	var out []persistence.ScheduleTemplate
	for _, template := range s.Templates {
		if ownerID != "" && template.OwnerID != ownerID {
			continue
		}
		out = append(out, template)
	}
	return out, nil
}

func (s *ScheduleStoreStub) GetTemplate(ctx context.Context, id string) (persistence.ScheduleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return persistence.ScheduleTemplate{}, s.Err
	}
	for _, template := range s.Templates {
		if template.ID == id {
			return template, nil
		}
	}
	return persistence.ScheduleTemplate{}, persistence.ErrNotFound
}

func (s *ScheduleStoreStub) ListOverrides(ctx context.Context, from, to time.Time) ([]persistence.ScheduleOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListOverridesCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	var out []persistence.ScheduleOverride
	for _, override := range s.Overrides {
		day := dateutil.AtNoon(override.Date)
		if day.Before(dateutil.AtNoon(from)) || day.After(dateutil.AtNoon(to)) {
			continue
		}
		out = append(out, override)
	}
	return out, nil
}

func (s *ScheduleStoreStub) GetOverride(ctx context.Context, scheduleID string, date time.Time) (persistence.ScheduleOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return persistence.ScheduleOverride{}, s.Err
	}
	for _, override := range s.Overrides {
		if override.ScheduleID == scheduleID && dateutil.SameDay(override.Date, date) {
			return override, nil
		}
	}
	return persistence.ScheduleOverride{}, persistence.ErrNotFound
}

func (s *ScheduleStoreStub) UpsertOverride(ctx context.Context, override persistence.ScheduleOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpsertCalls++
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.Overrides {
		if existing.ScheduleID == override.ScheduleID && dateutil.SameDay(existing.Date, override.Date) {
			s.Overrides[i] = override
			return nil
		}
	}
	s.Overrides = append(s.Overrides, override)
	return nil
}

func (s *ScheduleStoreStub) DeleteOverride(ctx context.Context, scheduleID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.Overrides {
		if existing.ScheduleID == scheduleID && dateutil.SameDay(existing.Date, date) {
			s.Overrides = append(s.Overrides[:i], s.Overrides[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
