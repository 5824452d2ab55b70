package persistence

import "time"

// TaskRow represents a materialized task record: either a standalone task, a
// physically generated instance of a repeating definition, or the repeating
// definition itself.
type TaskRow struct {
	ID        string
	Title     string
	Category  string
	CreatedBy string
	// CreatedAt is truncated to the day for batch identity purposes.
	CreatedAt time.Time
	DueDate   *time.Time
	// DueTime, StartTime and EndTime are HH:MM clock values. StartTime/EndTime
	// are set for timed activities; DueTime for point deadlines.
	DueTime   *string
	StartTime *string
	EndTime   *string
	Status    string

	// Recurrence fields; only meaningful when Recurring is true.
	Recurring       bool
	RepeatFrequency string
	RepeatInterval  int
	RepeatWeekdays  []time.Weekday
	RepeatStart     *time.Time
}

// TaskCompletion marks a recurring task done for one calendar date without
// mutating the shared definition row.
type TaskCompletion struct {
	TaskID string
	Date   time.Time
}

// LeaveRequest represents an approved or pending absence.
type LeaveRequest struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Reason       string
	Status       string
	StartDate    time.Time
	EndDate      time.Time
	// SelectedDates, when present, enumerates the exact days taken instead of
	// the contiguous StartDate..EndDate span.
	SelectedDates []time.Time
	TotalDays     float64
}

// ChildLog records one child activity entry.
type ChildLog struct {
	ID       string
	Child    string
	Category string
	LogTime  *time.Time
	// StartTime/EndTime bound sleep entries; either side may be missing.
	StartTime *time.Time
	EndTime   *time.Time
	Note      string
}

// ImportantDate is a recurring annual marker (birthday, anniversary) stored
// as a month-day pair with no year.
type ImportantDate struct {
	ID           string
	Month        time.Month
	Day          int
	Label        string
	EmployeeName string
}

// ScheduleTemplate is a weekly recurring work shift.
type ScheduleTemplate struct {
	ID        string
	OwnerID   string
	OwnerName string
	Weekday   time.Weekday
	// StartTime and EndTime are HH:MM clock values.
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleOverride is a per-date exception layered onto a weekly template.
// At most one override exists per (ScheduleID, Date).
type ScheduleOverride struct {
	ID         string
	ScheduleID string
	Date       time.Time
	// StartTime/EndTime substitute the template times when set; a missing side
	// keeps the template's value.
	StartTime *string
	EndTime   *string
	Cancelled bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
