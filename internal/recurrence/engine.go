// Package recurrence decides whether a repeating task definition is due on a
// given calendar date.
package recurrence

import (
	"strings"
	"time"

	"github.com/example/household-portal/internal/dateutil"
)

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily repeats every Interval days.
	FrequencyDaily
	// FrequencyWeekly repeats every Interval weeks, optionally restricted to
	// selected weekdays.
	FrequencyWeekly
	// FrequencyMonthly repeats on the start date's day-of-month every Interval months.
	FrequencyMonthly
	// FrequencyYearly repeats on the start date's month and day every Interval years.
	FrequencyYearly
)

// ParseFrequency maps a stored frequency label to its enum value. Unknown
// labels map to FrequencyUnspecified, which the evaluator treats as never due.
func ParseFrequency(value string) Frequency {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "daily":
		return FrequencyDaily
	case "weekly":
		return FrequencyWeekly
	case "monthly":
		return FrequencyMonthly
	case "yearly":
		return FrequencyYearly
	default:
		return FrequencyUnspecified
	}
}

// String returns the storage label for the frequency.
func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	case FrequencyYearly:
		return "yearly"
	default:
		return "unspecified"
	}
}

// Rule describes a compact recurrence configuration attached to a task
// definition.
type Rule struct {
	Frequency Frequency
	// Interval is the repeat step; it must be positive. Callers loading rules
	// from storage default a missing interval to 1 before evaluation.
	Interval int
	// Weekdays restricts weekly rules to the listed days. Empty means the
	// start date's weekday.
	Weekdays []time.Weekday
}

// Definition pairs a recurrence rule with its first possible occurrence.
type Definition struct {
	Recurring bool
	StartDate time.Time
	Rule      *Rule
}

// IsDueOn reports whether the definition produces an occurrence on the target
// calendar date.
//
// The evaluator fails closed: a non-recurring definition, a missing or
// malformed rule (unknown frequency, non-positive interval), a zero start
// date, or a target before the start date all yield false. One bad definition
// must never break a whole calendar render.
func IsDueOn(def Definition, target time.Time) bool {
	if !def.Recurring || def.Rule == nil || def.StartDate.IsZero() {
		return false
	}
	rule := *def.Rule
	if rule.Interval <= 0 {
		return false
	}

	start := dateutil.AtNoon(def.StartDate)
	day := dateutil.AtNoon(target)
	if day.Before(start) {
		return false
	}

	switch rule.Frequency {
	case FrequencyDaily:
		return dateutil.DaysBetween(start, day)%rule.Interval == 0

	case FrequencyWeekly:
		if len(rule.Weekdays) == 0 {
			return dateutil.DaysBetween(start, day)%(7*rule.Interval) == 0
		}
		if !containsWeekday(rule.Weekdays, day.Weekday()) {
			return false
		}
		// Week counting floors the raw day delta; it is not aligned to
		// calendar week boundaries.
		return dateutil.WeeksBetween(start, day)%rule.Interval == 0

	case FrequencyMonthly:
		if day.Day() != start.Day() {
			return false
		}
		return dateutil.MonthsBetween(start, day)%rule.Interval == 0

	case FrequencyYearly:
		if day.Month() != start.Month() || day.Day() != start.Day() {
			return false
		}
		return (day.Year()-start.Year())%rule.Interval == 0

	default:
		return false
	}
}

// OccurrencesInRange lists the due dates for the definition between from and
// to inclusive, noon-anchored and in chronological order.
func OccurrencesInRange(def Definition, from, to time.Time) []time.Time {
	start := dateutil.AtNoon(from)
	end := dateutil.AtNoon(to)
	if end.Before(start) {
		return nil
	}

	var due []time.Time
	for day := start; !day.After(end); day = dateutil.NextDay(day) {
		if IsDueOn(def, day) {
			due = append(due, day)
		}
	}
	return due
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, candidate := range days {
		if candidate == day {
			return true
		}
	}
	return false
}
