// Package calendar merges the five portal event sources into one normalized
// event stream and derives the dashboard summary counts.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/event"
	"github.com/example/household-portal/internal/persistence"
	"github.com/example/household-portal/internal/recurrence"
	"github.com/example/household-portal/internal/schedule"
	"github.com/example/household-portal/internal/task"
)

// Window is an inclusive calendar-date range, typically a visible month.
type Window struct {
	Start time.Time
	End   time.Time
}

// ChildLogToggles enables the individual child-log categories.
type ChildLogToggles struct {
	Feeding  bool
	Sleep    bool
	Diaper   bool
	Activity bool
}

// Categories lists the enabled category labels in stable order.
func (t ChildLogToggles) Categories() []string {
	var categories []string
	if t.Feeding {
		categories = append(categories, "feeding")
	}
	if t.Sleep {
		categories = append(categories, "sleep")
	}
	if t.Diaper {
		categories = append(categories, "diaper")
	}
	if t.Activity {
		categories = append(categories, "activity")
	}
	return categories
}

// Any reports whether at least one category is enabled.
func (t ChildLogToggles) Any() bool {
	return t.Feeding || t.Sleep || t.Diaper || t.Activity
}

// Toggles independently enables each event source. A disabled source is
// skipped entirely; no fetch is issued against it.
type Toggles struct {
	Tasks          bool
	Leave          bool
	ChildLogs      ChildLogToggles
	ImportantDates bool
	Schedules      bool
}

// AllSources returns toggles with every source enabled.
func AllSources() Toggles {
	return Toggles{
		Tasks:          true,
		Leave:          true,
		ChildLogs:      ChildLogToggles{Feeding: true, Sleep: true, Diaper: true, Activity: true},
		ImportantDates: true,
		Schedules:      true,
	}
}

// Query carries everything one aggregation call needs. The aggregator itself
// is stateless; toggles and scope arrive as explicit parameters.
type Query struct {
	Window  Window
	Toggles Toggles
	// EmployeeID scopes the result to one user. Scoped queries always exclude
	// important dates and schedules, which are organization-wide concerns.
	EmployeeID string
}

// SourceError records one source that failed during aggregation. The
// remaining sources still contribute, so callers can render a partial
// calendar and surface the failures separately.
type SourceError struct {
	Source event.SourceType
	Err    error
}

// Error implements the error interface.
func (e SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying failure.
func (e SourceError) Unwrap() error { return e.Err }

// Stores bundles the five read boundaries the aggregator fans out across.
type Stores struct {
	Tasks          persistence.TaskStore
	Leave          persistence.LeaveStore
	ChildLogs      persistence.ChildLogStore
	ImportantDates persistence.ImportantDateStore
	Schedules      persistence.ScheduleStore
}

// Aggregator fetches, resolves and normalizes events from all enabled sources.
type Aggregator struct {
	stores Stores
	now    func() time.Time
	logger *slog.Logger
}

// NewAggregator wires the aggregation dependencies.
func NewAggregator(stores Stores, now func() time.Time, logger *slog.Logger) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{stores: stores, now: now, logger: logger}
}

type sourceResult struct {
	source event.SourceType
	events []event.Event
	err    error
}

// Events fetches all enabled sources for the window concurrently and returns
// the merged event list. Output order is not guaranteed; two calls with
// identical inputs return the same set of events.
//
// Failure semantics: a source-level error empties that source and is reported
// in the returned SourceError slice, while context cancellation aborts the
// whole call with no partial result.
func (a *Aggregator) Events(ctx context.Context, q Query) ([]event.Event, []SourceError, error) {
	if a == nil {
		return nil, nil, fmt.Errorf("aggregator is nil")
	}
	start := dateutil.AtNoon(q.Window.Start)
	end := dateutil.AtNoon(q.Window.End)
	if q.Window.Start.IsZero() || q.Window.End.IsZero() || end.Before(start) {
		return nil, nil, fmt.Errorf("calendar: invalid window %v..%v", q.Window.Start, q.Window.End)
	}

	scoped := q.EmployeeID != ""

	type fetch struct {
		source event.SourceType
		run    func(context.Context) ([]event.Event, error)
	}

	var fetches []fetch
	if q.Toggles.Tasks && a.stores.Tasks != nil {
		fetches = append(fetches, fetch{event.SourceTask, func(ctx context.Context) ([]event.Event, error) {
			return a.taskEvents(ctx, start, end, q.EmployeeID)
		}})
	}
	if q.Toggles.Leave && a.stores.Leave != nil {
		fetches = append(fetches, fetch{event.SourceLeave, func(ctx context.Context) ([]event.Event, error) {
			return a.leaveEvents(ctx, start, end, q.EmployeeID)
		}})
	}
	if q.Toggles.ChildLogs.Any() && a.stores.ChildLogs != nil {
		categories := q.Toggles.ChildLogs.Categories()
		fetches = append(fetches, fetch{event.SourceChildLog, func(ctx context.Context) ([]event.Event, error) {
			return a.childLogEvents(ctx, start, end, categories)
		}})
	}
	if !scoped && q.Toggles.ImportantDates && a.stores.ImportantDates != nil {
		fetches = append(fetches, fetch{event.SourceImportantDate, func(ctx context.Context) ([]event.Event, error) {
			return a.importantDateEvents(ctx)
		}})
	}
	if !scoped && q.Toggles.Schedules && a.stores.Schedules != nil {
		fetches = append(fetches, fetch{event.SourceSchedule, func(ctx context.Context) ([]event.Event, error) {
			return a.scheduleEvents(ctx, start, end)
		}})
	}

	results := make([]sourceResult, len(fetches))
	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f fetch) {
			defer wg.Done()
			events, err := f.run(ctx)
			results[i] = sourceResult{source: f.source, events: events, err: err}
		}(i, f)
	}
	wg.Wait()

	// Cancellation aborts the whole call; no partial list reaches the UI.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var merged []event.Event
	var sourceErrors []SourceError
	for _, result := range results {
		if result.err != nil {
			a.logger.WarnContext(ctx, "calendar source failed",
				"source", string(result.source),
				"error", result.err,
			)
			sourceErrors = append(sourceErrors, SourceError{Source: result.source, Err: result.err})
			continue
		}
		merged = append(merged, result.events...)
	}

	return merged, sourceErrors, nil
}

func (a *Aggregator) taskEvents(ctx context.Context, start, end time.Time, employeeID string) ([]event.Event, error) {
	rows, err := a.stores.Tasks.ListTaskRows(ctx, persistence.TaskFilter{
		DueFrom:   &start,
		DueTo:     &end,
		CreatedBy: employeeID,
	})
	if err != nil {
		return nil, err
	}

	var materialized []persistence.TaskRow
	var definitions []persistence.TaskRow
	var definitionIDs []string
	for _, row := range rows {
		if row.Recurring {
			definitions = append(definitions, row)
			definitionIDs = append(definitionIDs, row.ID)
			continue
		}
		materialized = append(materialized, row)
	}

	var completions task.CompletionSet
	if len(definitionIDs) > 0 {
		records, err := a.stores.Tasks.ListCompletions(ctx, definitionIDs, start, end)
		if err != nil {
			return nil, err
		}
		completions = task.NewCompletionSet(records)
	}

	today := dateutil.AtNoon(a.now())
	var events []event.Event

	for _, row := range task.DedupeRepeats(materialized, today, task.FilterAll) {
		status := task.EffectiveStatus(row, completions, today)
		if evt, ok := event.NormalizeTask(row, status); ok {
			events = append(events, evt)
		}
	}

	for _, def := range definitions {
		if def.RepeatStart == nil {
			// Never due without an anchor; a data-integrity problem, not a
			// render failure.
			a.logger.WarnContext(ctx, "recurring task definition missing start date", "task_id", def.ID)
			continue
		}
		rule := ruleFromRow(def)
		definition := recurrence.Definition{Recurring: true, StartDate: *def.RepeatStart, Rule: &rule}
		for _, day := range recurrence.OccurrencesInRange(definition, start, end) {
			occurrence := def
			occurrence.DueDate = &day
			status := task.EffectiveStatus(def, completions, day)
			if evt, ok := event.NormalizeTask(occurrence, status); ok {
				events = append(events, evt)
			}
		}
	}

	return events, nil
}

func (a *Aggregator) leaveEvents(ctx context.Context, start, end time.Time, employeeID string) ([]event.Event, error) {
	requests, err := a.stores.Leave.ListLeave(ctx, persistence.LeaveFilter{
		From:       start,
		To:         end,
		EmployeeID: employeeID,
		Statuses:   []string{"approved", "pending"},
	})
	if err != nil {
		return nil, err
	}

	var events []event.Event
	for _, request := range requests {
		if evt, ok := event.NormalizeLeave(request); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

func (a *Aggregator) childLogEvents(ctx context.Context, start, end time.Time, categories []string) ([]event.Event, error) {
	logs, err := a.stores.ChildLogs.ListLogs(ctx, persistence.ChildLogFilter{
		From:       start,
		To:         end,
		Categories: categories,
	})
	if err != nil {
		return nil, err
	}

	var events []event.Event
	for _, log := range logs {
		if evt, ok := event.NormalizeChildLog(log); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

func (a *Aggregator) importantDateEvents(ctx context.Context) ([]event.Event, error) {
	records, err := a.stores.ImportantDates.ListImportantDates(ctx)
	if err != nil {
		return nil, err
	}

	today := dateutil.AtNoon(a.now())
	var events []event.Event
	for _, record := range records {
		if evt, ok := event.NormalizeImportantDate(record, today); ok {
			events = append(events, evt)
		}
	}
	return events, nil
}

func (a *Aggregator) scheduleEvents(ctx context.Context, start, end time.Time) ([]event.Event, error) {
	templates, err := a.stores.Schedules.ListTemplates(ctx, "")
	if err != nil {
		return nil, err
	}
	overrides, err := a.stores.Schedules.ListOverrides(ctx, start, end)
	if err != nil {
		return nil, err
	}
	index := schedule.NewOverrideIndex(overrides)

	var events []event.Event
	for _, template := range templates {
		for day := start; !day.After(end); day = dateutil.NextDay(day) {
			if day.Weekday() != template.Weekday {
				continue
			}
			occurrence, err := schedule.ResolveShiftOccurrence(template, index.Lookup(template.ID, day), day)
			if err != nil {
				// One bad record drops one day, never the whole template.
				a.logger.WarnContext(ctx, "dropping unresolvable shift",
					"schedule_id", template.ID,
					"date", dateutil.FormatDate(day),
					"error", err,
				)
				continue
			}
			if evt, ok := event.NormalizeShift(template, occurrence); ok {
				events = append(events, evt)
			}
		}
	}
	return events, nil
}

func ruleFromRow(row persistence.TaskRow) recurrence.Rule {
	interval := row.RepeatInterval
	if interval == 0 {
		// Missing interval means "every period"; negative stays invalid.
		interval = 1
	}
	return recurrence.Rule{
		Frequency: recurrence.ParseFrequency(row.RepeatFrequency),
		Interval:  interval,
		Weekdays:  row.RepeatWeekdays,
	}
}
