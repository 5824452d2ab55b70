// Package dateutil provides calendar-date arithmetic for the portal engine.
//
// Every date that participates in recurrence or batching is anchored to noon
// UTC before any comparison or subtraction. Midnight-anchored timestamps shift
// across a day boundary when a DST transition or zone conversion nudges them
// by an hour; a noon anchor keeps whole-day deltas exact.
package dateutil

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ISODate is the storage layout for calendar dates.
const ISODate = "2006-01-02"

// ClockLayout is the storage layout for times of day.
const ClockLayout = "15:04"

// ErrEmptyDate indicates an empty or blank date string was supplied.
var ErrEmptyDate = errors.New("dateutil: empty date")

// AtNoon returns the civil date of t, anchored at 12:00 UTC. The date is read
// in t's own location so a timestamp keeps the calendar day it was written in.
func AtNoon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return AtNoon(a).Equal(AtNoon(b))
}

// DaysBetween returns the number of whole days from a to b. The result is
// negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	delta := AtNoon(b).Sub(AtNoon(a))
	return int(math.Round(delta.Hours() / 24))
}

// WeeksBetween returns the floor of the whole-day delta divided by seven.
// It intentionally does not align to calendar week boundaries.
func WeeksBetween(a, b time.Time) int {
	days := DaysBetween(a, b)
	if days < 0 {
		return -(((-days) + 6) / 7)
	}
	return days / 7
}

// MonthsBetween returns the month-index difference between a and b, ignoring
// the day component.
func MonthsBetween(a, b time.Time) int {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return (by-ay)*12 + int(bm) - int(am)
}

// ParseDate parses an ISO calendar date into its noon-anchored form. Empty or
// blank input is rejected explicitly rather than yielding a zero time that
// would compare as a valid first-century date.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, ErrEmptyDate
	}
	parsed, err := time.Parse(ISODate, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: invalid date %q: %w", value, err)
	}
	return AtNoon(parsed), nil
}

// FormatDate renders the civil date of t in ISO layout.
func FormatDate(t time.Time) string {
	return AtNoon(t).Format(ISODate)
}

// CombineClock places an HH:MM clock value onto the civil date of day,
// returning a UTC timestamp.
func CombineClock(day time.Time, clock string) (time.Time, error) {
	trimmed := strings.TrimSpace(clock)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("dateutil: empty clock value")
	}
	parsed, err := time.Parse(ClockLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: invalid clock %q: %w", clock, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

// NextDay advances t by one civil day, staying noon-anchored.
func NextDay(t time.Time) time.Time {
	return AtNoon(t).AddDate(0, 0, 1)
}
