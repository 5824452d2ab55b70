// Package schedule derives concrete shift occurrences from weekly templates
// and per-date overrides.
package schedule

import (
	"fmt"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// Occurrence is one resolved shift for a concrete date.
type Occurrence struct {
	ScheduleID string
	Date       time.Time
	Start      time.Time
	End        time.Time
	// Cancelled means an override removed the shift; callers omit the event.
	Cancelled   bool
	HasOverride bool
	// TemplateStart/TemplateEnd carry the pre-override times for display when
	// HasOverride is set.
	TemplateStart time.Time
	TemplateEnd   time.Time
}

// ResolveShiftOccurrence applies an optional override onto the weekly
// template for one date. It returns nil when the template does not cover the
// date's weekday. Passing the same override twice yields the same occurrence.
func ResolveShiftOccurrence(template persistence.ScheduleTemplate, override *persistence.ScheduleOverride, date time.Time) (*Occurrence, error) {
	day := dateutil.AtNoon(date)
	if day.Weekday() != template.Weekday {
		return nil, nil
	}

	templateStart, err := dateutil.CombineClock(day, template.StartTime)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", template.ID, err)
	}
	templateEnd, err := dateutil.CombineClock(day, template.EndTime)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", template.ID, err)
	}

	occurrence := &Occurrence{
		ScheduleID:    template.ID,
		Date:          day,
		Start:         templateStart,
		End:           templateEnd,
		TemplateStart: templateStart,
		TemplateEnd:   templateEnd,
	}

	if override == nil || override.ScheduleID != template.ID || !dateutil.SameDay(override.Date, day) {
		return occurrence, nil
	}

	if override.Cancelled {
		occurrence.Cancelled = true
		occurrence.HasOverride = true
		return occurrence, nil
	}

	if override.StartTime != nil {
		start, err := dateutil.CombineClock(day, *override.StartTime)
		if err != nil {
			return nil, fmt.Errorf("override for schedule %s: %w", template.ID, err)
		}
		occurrence.Start = start
		occurrence.HasOverride = true
	}
	if override.EndTime != nil {
		end, err := dateutil.CombineClock(day, *override.EndTime)
		if err != nil {
			return nil, fmt.Errorf("override for schedule %s: %w", template.ID, err)
		}
		occurrence.End = end
		occurrence.HasOverride = true
	}

	return occurrence, nil
}

// OverrideIndex keys overrides by (scheduleID, date) for window resolution.
type OverrideIndex map[string]persistence.ScheduleOverride

// NewOverrideIndex builds the keyed lookup. Later entries win on duplicate
// keys, matching the last-write-wins storage semantics.
func NewOverrideIndex(overrides []persistence.ScheduleOverride) OverrideIndex {
	index := make(OverrideIndex, len(overrides))
	for _, override := range overrides {
		index[overrideKey(override.ScheduleID, override.Date)] = override
	}
	return index
}

// Lookup returns the override for the schedule and date, if any.
func (x OverrideIndex) Lookup(scheduleID string, date time.Time) *persistence.ScheduleOverride {
	if x == nil {
		return nil
	}
	override, ok := x[overrideKey(scheduleID, date)]
	if !ok {
		return nil
	}
	return &override
}

func overrideKey(scheduleID string, date time.Time) string {
	return scheduleID + "|" + dateutil.FormatDate(date)
}
