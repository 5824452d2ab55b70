// Package task groups materialized task rows into logical repeat batches and
// picks the single row that represents "now" for display.
package task

import (
	"sort"
	"strings"
	"time"

	"github.com/example/household-portal/internal/dateutil"
	"github.com/example/household-portal/internal/persistence"
)

// Task statuses as stored.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// StatusFilter selects which statuses the caller is displaying.
type StatusFilter int

const (
	// FilterAll surfaces completed history plus one representative per batch.
	FilterAll StatusFilter = iota
	// FilterCompletedOnly surfaces completed rows only, with no representative
	// reduction, so history stays fully visible.
	FilterCompletedOnly
)

// BatchKey builds the heuristic identity key for a repeat batch. Rows sharing
// title, creator and creation day are assumed to come from one repeating
// definition; there is no foreign key linking generated instances back to it.
// Two unrelated tasks matching on all three fields will merge; replacing the
// heuristic needs only this function and its callers' key column.
func BatchKey(row persistence.TaskRow) string {
	var b strings.Builder
	b.WriteString(row.Title)
	b.WriteString("|")
	b.WriteString(row.CreatedBy)
	b.WriteString("|")
	b.WriteString(dateutil.FormatDate(row.CreatedAt))
	return b.String()
}

// GroupBatches partitions rows by their batch identity key.
func GroupBatches(rows []persistence.TaskRow) map[string][]persistence.TaskRow {
	batches := make(map[string][]persistence.TaskRow, len(rows))
	for _, row := range rows {
		key := BatchKey(row)
		batches[key] = append(batches[key], row)
	}
	return batches
}

// DedupeRepeats reduces each repeat batch to the rows worth displaying for
// the given day and re-sorts the result ascending by due date.
//
// Completed rows always pass through. Pending and in-progress rows within a
// multi-row batch collapse to exactly one representative: the earliest row
// due today or later, or, when the whole batch is past due, the single most
// recent overdue row. A batch of size one passes through unchanged.
func DedupeRepeats(rows []persistence.TaskRow, today time.Time, filter StatusFilter) []persistence.TaskRow {
	day := dateutil.AtNoon(today)

	out := make([]persistence.TaskRow, 0, len(rows))
	for _, batch := range GroupBatches(rows) {
		out = append(out, reduceBatch(batch, day, filter)...)
	}

	sortByDueDate(out)
	return out
}

func reduceBatch(batch []persistence.TaskRow, day time.Time, filter StatusFilter) []persistence.TaskRow {
	if len(batch) == 1 {
		if filter == FilterCompletedOnly && batch[0].Status != StatusCompleted {
			return nil
		}
		return batch
	}

	kept := make([]persistence.TaskRow, 0, len(batch))
	open := make([]persistence.TaskRow, 0, len(batch))
	for _, row := range batch {
		if row.Status == StatusCompleted {
			kept = append(kept, row)
			continue
		}
		open = append(open, row)
	}

	if filter == FilterCompletedOnly || len(open) == 0 {
		return kept
	}

	if rep, ok := pickRepresentative(open, day); ok {
		kept = append(kept, rep)
	}
	return kept
}

// pickRepresentative chooses the one open row that stands for the batch: the
// smallest due date on or after day, falling back to the largest past due
// date so an entirely overdue batch is never hidden.
func pickRepresentative(open []persistence.TaskRow, day time.Time) (persistence.TaskRow, bool) {
	var (
		future, past, undated persistence.TaskRow
		hasFuture, hasPast    bool
		hasUndated            bool
	)

	for _, row := range open {
		if row.DueDate == nil {
			if !hasUndated || row.ID < undated.ID {
				undated = row
			}
			hasUndated = true
			continue
		}
		due := dateutil.AtNoon(*row.DueDate)
		if !due.Before(day) {
			if !hasFuture || due.Before(dateutil.AtNoon(*future.DueDate)) {
				future = row
			}
			hasFuture = true
			continue
		}
		if !hasPast || due.After(dateutil.AtNoon(*past.DueDate)) {
			past = row
		}
		hasPast = true
	}

	switch {
	case hasFuture:
		return future, true
	case hasPast:
		return past, true
	case hasUndated:
		return undated, true
	default:
		return persistence.TaskRow{}, false
	}
}

// sortByDueDate orders rows ascending by due date with undated rows last,
// breaking ties by ID for determinism.
func sortByDueDate(rows []persistence.TaskRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].DueDate, rows[j].DueDate
		switch {
		case a == nil && b == nil:
			return rows[i].ID < rows[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		}
		an, bn := dateutil.AtNoon(*a), dateutil.AtNoon(*b)
		if an.Equal(bn) {
			return rows[i].ID < rows[j].ID
		}
		return an.Before(bn)
	})
}
