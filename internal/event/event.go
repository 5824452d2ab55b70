// Package event defines the normalized calendar event shape and converts raw
// records from each source domain into it.
package event

import "time"

// SourceType discriminates the five event domains merged by the aggregator.
type SourceType string

const (
	SourceTask          SourceType = "task"
	SourceLeave         SourceType = "leave"
	SourceChildLog      SourceType = "log"
	SourceImportantDate SourceType = "important"
	SourceSchedule      SourceType = "schedule"
)

// Event is the normalized output entity consumed by calendar rendering and
// summary widgets. Events are constructed fresh per aggregation call, never
// persisted, and treated as immutable once produced.
type Event struct {
	// ID is prefixed by source type: task-, leave-, log-, important-, schedule-.
	ID     string
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
	Color  string
	Source SourceType
	// Props carries source-specific metadata for the rendering layer.
	Props map[string]any
}

// Event colors, keyed by source and task category. The rendering layer treats
// these as opaque CSS values.
const (
	colorTaskDefault   = "#3b82f6"
	colorTaskChore     = "#8b5cf6"
	colorTaskErrand    = "#f59e0b"
	colorTaskActivity  = "#06b6d4"
	colorTaskSupply    = "#84cc16"
	colorLeave         = "#ef4444"
	colorLeaveHoliday  = "#f97316"
	colorChildLog      = "#ec4899"
	colorImportantDate = "#eab308"
	colorSchedule      = "#10b981"
)

func taskColor(category string) string {
	switch category {
	case "chore":
		return colorTaskChore
	case "errand":
		return colorTaskErrand
	case "activity":
		return colorTaskActivity
	case "supply":
		return colorTaskSupply
	default:
		return colorTaskDefault
	}
}
