package task

import (
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// CompletionSet indexes per-date completion records for quick lookup.
type CompletionSet map[string]struct{}

// NewCompletionSet builds an index keyed by (taskID, day).
func NewCompletionSet(completions []persistence.TaskCompletion) CompletionSet {
	set := make(CompletionSet, len(completions))
	for _, completion := range completions {
		set[completionKey(completion.TaskID, completion.Date)] = struct{}{}
	}
	return set
}

// Done reports whether the task was completed on the given day.
func (s CompletionSet) Done(taskID string, day time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[completionKey(taskID, day)]
	return ok
}

// EffectiveStatus derives a recurring task's status for one occurrence date.
// A completion record for that date wins over the stored row status, so one
// user's completion never leaks into other occurrences of the definition.
func EffectiveStatus(row persistence.TaskRow, completions CompletionSet, day time.Time) string {
	if completions.Done(row.ID, day) {
		return StatusCompleted
	}
	if row.Recurring {
		// The shared definition row's status reflects no single occurrence.
		return StatusPending
	}
	if row.Status == "" {
		return StatusPending
	}
	return row.Status
}

func completionKey(taskID string, day time.Time) string {
	return taskID + "|" + dateutil.FormatDate(day)
}
