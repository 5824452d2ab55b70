package calendar

import (
	"context"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
	"github.com/example/household-portal/internal/recurrence"
	"github.com/example/household-portal/internal/task"
)

// Summary holds the dashboard widget counts for one day.
type Summary struct {
	PendingTasks int `json:"pendingTasks"`
	OverdueTasks int `json:"overdueTasks"`
	OnLeaveToday int `json:"onLeaveToday"`
}

// Summary computes the widget counts as of the given day. Recurring tasks
// contribute one pending count per definition due that day and not yet
// completed; materialized tasks count after batch reduction so a repeating
// batch contributes a single open item.
func (a *Aggregator) Summary(ctx context.Context, day time.Time) (Summary, error) {
	today := dateutil.AtNoon(day)
	if day.IsZero() {
		today = dateutil.AtNoon(a.now())
	}

	var summary Summary

	if a.stores.Tasks != nil {
		rows, err := a.stores.Tasks.ListTaskRows(ctx, persistence.TaskFilter{
			Statuses: []string{task.StatusPending, task.StatusInProgress},
		})
		if err != nil {
			return Summary{}, err
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

		for _, row := range task.DedupeRepeats(materialized, today, task.FilterAll) {
			switch {
			case row.DueDate == nil:
				summary.PendingTasks++
			case dateutil.AtNoon(*row.DueDate).Before(today):
				summary.OverdueTasks++
			default:
				summary.PendingTasks++
			}
		}

		var completions task.CompletionSet
		if len(definitionIDs) > 0 {
			records, err := a.stores.Tasks.ListCompletions(ctx, definitionIDs, today, today)
			if err != nil {
				return Summary{}, err
			}
			completions = task.NewCompletionSet(records)
		}
		for _, def := range definitions {
			if def.RepeatStart == nil {
				continue
			}
			rule := ruleFromRow(def)
			definition := recurrence.Definition{Recurring: true, StartDate: *def.RepeatStart, Rule: &rule}
			if !recurrence.IsDueOn(definition, today) {
				continue
			}
			if !completions.Done(def.ID, today) {
				summary.PendingTasks++
			}
		}
	}

	if a.stores.Leave != nil {
		requests, err := a.stores.Leave.ListLeave(ctx, persistence.LeaveFilter{
			From:     today,
			To:       today,
			Statuses: []string{"approved"},
		})
		if err != nil {
			return Summary{}, err
		}
		onLeave := make(map[string]struct{})
		for _, request := range requests {
			if !coversDay(request, today) {
				continue
			}
			key := request.EmployeeID
			if key == "" {
				key = request.ID
			}
			onLeave[key] = struct{}{}
		}
		summary.OnLeaveToday = len(onLeave)
	}

	return summary, nil
}

// coversDay reports whether the leave request includes the given day. With
// selected dates the exact set decides; otherwise the start/end span does.
func coversDay(request persistence.LeaveRequest, day time.Time) bool {
	if len(request.SelectedDates) > 0 {
		for _, d := range request.SelectedDates {
			if dateutil.SameDay(d, day) {
				return true
			}
		}
		return false
	}
	start := dateutil.AtNoon(request.StartDate)
	end := dateutil.AtNoon(request.EndDate)
	if request.StartDate.IsZero() || request.EndDate.IsZero() {
		return false
	}
	return !day.Before(start) && !day.After(end)
}
