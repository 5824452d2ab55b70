package event

import (
	"strings"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
	"github.com/example/household-portal/internal/schedule"
)

// Normalizers tolerate missing optional fields; a record without enough data
// to place on a calendar is dropped (ok == false), never defaulted to a
// misleading zero value.

// NormalizeTask converts a task row into a calendar event. A row without a
// due date cannot be placed and is dropped.
func NormalizeTask(row persistence.TaskRow, status string) (Event, bool) {
	if row.DueDate == nil || row.Title == "" {
		return Event{}, false
	}
	day := dateutil.AtNoon(*row.DueDate)

	evt := Event{
		ID:     "task-" + row.ID + "-" + dateutil.FormatDate(day),
		Title:  row.Title,
		Start:  day,
		End:    day,
		AllDay: true,
		Color:  taskColor(row.Category),
		Source: SourceTask,
		Props: map[string]any{
			"status":    status,
			"category":  row.Category,
			"createdBy": row.CreatedBy,
			"recurring": row.Recurring,
		},
	}

	// Timed activities carry a start/end span; point deadlines carry a due time.
	if row.StartTime != nil && row.EndTime != nil {
		start, err1 := dateutil.CombineClock(day, *row.StartTime)
		end, err2 := dateutil.CombineClock(day, *row.EndTime)
		if err1 == nil && err2 == nil {
			evt.Start = start
			evt.End = end
			evt.AllDay = false
			return evt, true
		}
	}
	if row.DueTime != nil {
		if at, err := dateutil.CombineClock(day, *row.DueTime); err == nil {
			evt.Start = at
			evt.End = at
			evt.AllDay = false
		}
	}
	return evt, true
}

// NormalizeLeave converts a leave request into one event spanning its dates.
// When SelectedDates is present the span is their min..max.
func NormalizeLeave(leave persistence.LeaveRequest) (Event, bool) {
	start, end := leave.StartDate, leave.EndDate
	if len(leave.SelectedDates) > 0 {
		start, end = boundDates(leave.SelectedDates)
	}
	if start.IsZero() || end.IsZero() {
		return Event{}, false
	}

	title := leave.EmployeeName
	if title == "" {
		title = leave.EmployeeID
	}
	if title == "" {
		return Event{}, false
	}

	return Event{
		ID:     "leave-" + leave.ID,
		Title:  title + " (leave)",
		Start:  dateutil.AtNoon(start),
		End:    dateutil.AtNoon(end),
		AllDay: true,
		Color:  leaveColor(leave.Reason),
		Source: SourceLeave,
		Props: map[string]any{
			"employeeId": leave.EmployeeID,
			"reason":     leave.Reason,
			"status":     leave.Status,
			"isHoliday":  isHolidayReason(leave.Reason),
			"totalDays":  leave.TotalDays,
		},
	}, true
}

// NormalizeChildLog converts a child activity log into a point event, or a
// span for sleep entries carrying both bounds. With only one bound set the
// event degrades to that single instant.
func NormalizeChildLog(log persistence.ChildLog) (Event, bool) {
	var start, end time.Time
	switch {
	case log.StartTime != nil && log.EndTime != nil:
		start, end = *log.StartTime, *log.EndTime
	case log.StartTime != nil:
		start, end = *log.StartTime, *log.StartTime
	case log.EndTime != nil:
		start, end = *log.EndTime, *log.EndTime
	case log.LogTime != nil:
		start, end = *log.LogTime, *log.LogTime
	default:
		return Event{}, false
	}
	if log.Child == "" {
		return Event{}, false
	}

	title := log.Child + ": " + log.Category
	return Event{
		ID:     "log-" + log.ID,
		Title:  title,
		Start:  start,
		End:    end,
		AllDay: false,
		Color:  colorChildLog,
		Source: SourceChildLog,
		Props: map[string]any{
			"child":       log.Child,
			"logCategory": log.Category,
			"note":        log.Note,
		},
	}, true
}

// NormalizeImportantDate projects an annual month-day marker onto its next
// occurrence from today. If this year's date has already passed, next year's
// is used; past years are never materialized.
func NormalizeImportantDate(record persistence.ImportantDate, today time.Time) (Event, bool) {
	if record.Day < 1 || record.Day > 31 || record.Month < time.January || record.Month > time.December {
		return Event{}, false
	}

	day := dateutil.AtNoon(today)
	next := time.Date(day.Year(), record.Month, record.Day, 12, 0, 0, 0, time.UTC)
	if next.Month() != record.Month || next.Day() != record.Day {
		// time.Date normalized an impossible combination such as Feb 30.
		return Event{}, false
	}
	if next.Before(day) {
		next = time.Date(day.Year()+1, record.Month, record.Day, 12, 0, 0, 0, time.UTC)
		if next.Month() != record.Month || next.Day() != record.Day {
			return Event{}, false
		}
	}

	title := record.Label
	if record.EmployeeName != "" {
		title = record.EmployeeName + ": " + record.Label
	}
	if strings.TrimSpace(title) == "" {
		return Event{}, false
	}

	return Event{
		ID:     "important-" + record.ID,
		Title:  title,
		Start:  next,
		End:    next,
		AllDay: true,
		Color:  colorImportantDate,
		Source: SourceImportantDate,
		Props: map[string]any{
			"month":        int(record.Month),
			"day":          record.Day,
			"employeeName": record.EmployeeName,
		},
	}, true
}

// NormalizeShift wraps a resolved shift occurrence. Cancelled occurrences are
// dropped; overridden ones carry the original template times for display.
func NormalizeShift(template persistence.ScheduleTemplate, occurrence *schedule.Occurrence) (Event, bool) {
	if occurrence == nil || occurrence.Cancelled {
		return Event{}, false
	}

	title := template.OwnerName
	if title == "" {
		title = template.OwnerID
	}

	props := map[string]any{
		"ownerId":     template.OwnerID,
		"hasOverride": occurrence.HasOverride,
	}
	if occurrence.HasOverride {
		// Display wants HH:MM clock values, not timestamps.
		props["originalStart"] = occurrence.TemplateStart.Format(dateutil.ClockLayout)
		props["originalEnd"] = occurrence.TemplateEnd.Format(dateutil.ClockLayout)
	}

	return Event{
		ID:     "schedule-" + template.ID + "-" + dateutil.FormatDate(occurrence.Date),
		Title:  title + " shift",
		Start:  occurrence.Start,
		End:    occurrence.End,
		AllDay: false,
		Color:  colorSchedule,
		Source: SourceSchedule,
		Props:  props,
	}, true
}

func boundDates(dates []time.Time) (time.Time, time.Time) {
	min, max := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max
}

func isHolidayReason(reason string) bool {
	return strings.Contains(strings.ToLower(reason), "holiday")
}

func leaveColor(reason string) string {
	if isHolidayReason(reason) {
		return colorLeaveHoliday
	}
	return colorLeave
}
