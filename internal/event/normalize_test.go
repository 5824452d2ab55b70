package event

import (
	"testing"
	"time"

	"github.com/example/household-portal/internal/persistence"
	"github.com/example/household-portal/internal/schedule"
)

func noon(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func noonPtr(y int, m time.Month, d int) *time.Time {
	t := noon(y, m, d)
	return &t
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestNormalizeTask(t *testing.T) {
	t.Parallel()

	t.Run("all-day deadline", func(t *testing.T) {
		t.Parallel()
		row := persistence.TaskRow{
			ID:        "t1",
			Title:     "Take out recycling",
			Category:  "chore",
			CreatedBy: "alex",
			DueDate:   noonPtr(2025, time.January, 8),
		}

		evt, ok := NormalizeTask(row, "pending")
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.AllDay {
			t.Fatal("expected all-day event without a due time")
		}
		if evt.ID != "task-t1-2025-01-08" {
			t.Fatalf("unexpected id %s", evt.ID)
		}
		if evt.Source != SourceTask {
			t.Fatalf("unexpected source %s", evt.Source)
		}
		if evt.Props["status"] != "pending" {
			t.Fatalf("expected status prop, got %v", evt.Props["status"])
		}
	})

	t.Run("timed activity span", func(t *testing.T) {
		t.Parallel()
		row := persistence.TaskRow{
			ID:        "t2",
			Title:     "Swimming lesson",
			Category:  "activity",
			DueDate:   noonPtr(2025, time.January, 8),
			StartTime: strPtr("16:00"),
			EndTime:   strPtr("17:00"),
		}

		evt, ok := NormalizeTask(row, "pending")
		if !ok {
			t.Fatal("expected event")
		}
		if evt.AllDay {
			t.Fatal("expected timed event")
		}
		if evt.Start.Hour() != 16 || evt.End.Hour() != 17 {
			t.Fatalf("expected 16:00-17:00, got %v-%v", evt.Start, evt.End)
		}
	})

	t.Run("due time point event", func(t *testing.T) {
		t.Parallel()
		row := persistence.TaskRow{
			ID:      "t3",
			Title:   "Call the dentist",
			DueDate: noonPtr(2025, time.January, 8),
			DueTime: strPtr("14:30"),
		}

		evt, ok := NormalizeTask(row, "pending")
		if !ok {
			t.Fatal("expected event")
		}
		if evt.AllDay || evt.Start.Hour() != 14 || !evt.Start.Equal(evt.End) {
			t.Fatalf("expected 14:30 point event, got %+v", evt)
		}
	})

	t.Run("missing due date dropped", func(t *testing.T) {
		t.Parallel()
		if _, ok := NormalizeTask(persistence.TaskRow{ID: "t4", Title: "Orphan"}, "pending"); ok {
			t.Fatal("expected row without due date to be dropped")
		}
	})

	t.Run("malformed due time degrades to all-day", func(t *testing.T) {
		t.Parallel()
		row := persistence.TaskRow{
			ID:      "t5",
			Title:   "Fuzzy deadline",
			DueDate: noonPtr(2025, time.January, 8),
			DueTime: strPtr("soon"),
		}
		evt, ok := NormalizeTask(row, "pending")
		if !ok || !evt.AllDay {
			t.Fatalf("expected all-day fallback, got ok=%v evt=%+v", ok, evt)
		}
	})
}

func TestNormalizeLeave(t *testing.T) {
	t.Parallel()

	t.Run("contiguous span", func(t *testing.T) {
		t.Parallel()
		leave := persistence.LeaveRequest{
			ID:           "l1",
			EmployeeID:   "emp-1",
			EmployeeName: "Dana",
			Reason:       "vacation",
			Status:       "approved",
			StartDate:    noon(2025, time.February, 3),
			EndDate:      noon(2025, time.February, 7),
			TotalDays:    5,
		}

		evt, ok := NormalizeLeave(leave)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(noon(2025, time.February, 3)) || !evt.End.Equal(noon(2025, time.February, 7)) {
			t.Fatalf("unexpected span %v-%v", evt.Start, evt.End)
		}
		if evt.Props["isHoliday"] != false {
			t.Fatal("expected non-holiday leave")
		}
		if evt.Props["totalDays"] != 5.0 {
			t.Fatalf("expected totalDays passed through verbatim, got %v", evt.Props["totalDays"])
		}
	})

	t.Run("selected dates take min and max", func(t *testing.T) {
		t.Parallel()
		leave := persistence.LeaveRequest{
			ID:           "l2",
			EmployeeName: "Dana",
			Reason:       "public holiday",
			StartDate:    noon(2025, time.February, 1),
			EndDate:      noon(2025, time.February, 28),
			SelectedDates: []time.Time{
				noon(2025, time.February, 14),
				noon(2025, time.February, 10),
				noon(2025, time.February, 21),
			},
		}

		evt, ok := NormalizeLeave(leave)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(noon(2025, time.February, 10)) || !evt.End.Equal(noon(2025, time.February, 21)) {
			t.Fatalf("expected selected-dates bounds, got %v-%v", evt.Start, evt.End)
		}
		if evt.Props["isHoliday"] != true {
			t.Fatal("expected holiday-tagged reason to set isHoliday")
		}
	})

	t.Run("unusable record dropped", func(t *testing.T) {
		t.Parallel()
		if _, ok := NormalizeLeave(persistence.LeaveRequest{ID: "l3"}); ok {
			t.Fatal("expected record without dates to be dropped")
		}
	})
}

func TestNormalizeChildLog(t *testing.T) {
	t.Parallel()

	t.Run("point event", func(t *testing.T) {
		t.Parallel()
		log := persistence.ChildLog{
			ID:       "c1",
			Child:    "Mia",
			Category: "feeding",
			LogTime:  timePtr(time.Date(2025, 1, 8, 7, 30, 0, 0, time.UTC)),
		}

		evt, ok := NormalizeChildLog(log)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(evt.End) {
			t.Fatal("expected instantaneous event")
		}
		if evt.Props["logCategory"] != "feeding" || evt.Props["child"] != "Mia" {
			t.Fatalf("unexpected props %v", evt.Props)
		}
	})

	t.Run("sleep span", func(t *testing.T) {
		t.Parallel()
		log := persistence.ChildLog{
			ID:        "c2",
			Child:     "Mia",
			Category:  "sleep",
			StartTime: timePtr(time.Date(2025, 1, 8, 13, 0, 0, 0, time.UTC)),
			EndTime:   timePtr(time.Date(2025, 1, 8, 14, 30, 0, 0, time.UTC)),
		}

		evt, ok := NormalizeChildLog(log)
		if !ok {
			t.Fatal("expected event")
		}
		if evt.Start.Hour() != 13 || evt.End.Hour() != 14 {
			t.Fatalf("unexpected span %v-%v", evt.Start, evt.End)
		}
	})

	t.Run("single bound degrades", func(t *testing.T) {
		t.Parallel()
		log := persistence.ChildLog{
			ID:        "c3",
			Child:     "Mia",
			Category:  "sleep",
			StartTime: timePtr(time.Date(2025, 1, 8, 13, 0, 0, 0, time.UTC)),
		}

		evt, ok := NormalizeChildLog(log)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(evt.End) {
			t.Fatal("expected point event from single bound")
		}
	})

	t.Run("no timestamps dropped", func(t *testing.T) {
		t.Parallel()
		if _, ok := NormalizeChildLog(persistence.ChildLog{ID: "c4", Child: "Mia"}); ok {
			t.Fatal("expected log without any timestamp to be dropped")
		}
	})
}

func TestNormalizeImportantDate(t *testing.T) {
	t.Parallel()

	today := noon(2025, time.June, 15)

	t.Run("upcoming this year", func(t *testing.T) {
		t.Parallel()
		record := persistence.ImportantDate{ID: "i1", Month: time.September, Day: 3, Label: "Birthday", EmployeeName: "Dana"}

		evt, ok := NormalizeImportantDate(record, today)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(noon(2025, time.September, 3)) {
			t.Fatalf("expected projection onto 2025-09-03, got %v", evt.Start)
		}
	})

	t.Run("already passed rolls to next year", func(t *testing.T) {
		t.Parallel()
		record := persistence.ImportantDate{ID: "i2", Month: time.March, Day: 1, Label: "Anniversary"}

		evt, ok := NormalizeImportantDate(record, today)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(noon(2026, time.March, 1)) {
			t.Fatalf("expected projection onto 2026-03-01, got %v", evt.Start)
		}
	})

	t.Run("today counts as upcoming", func(t *testing.T) {
		t.Parallel()
		record := persistence.ImportantDate{ID: "i3", Month: time.June, Day: 15, Label: "Visit"}

		evt, ok := NormalizeImportantDate(record, today)
		if !ok {
			t.Fatal("expected event")
		}
		if !evt.Start.Equal(today) {
			t.Fatalf("expected today's projection, got %v", evt.Start)
		}
	})

	t.Run("impossible dates dropped", func(t *testing.T) {
		t.Parallel()
		if _, ok := NormalizeImportantDate(persistence.ImportantDate{ID: "i4", Month: time.February, Day: 30, Label: "Ghost"}, today); ok {
			t.Fatal("expected Feb 30 to be dropped")
		}
		if _, ok := NormalizeImportantDate(persistence.ImportantDate{ID: "i5", Month: 0, Day: 10, Label: "Ghost"}, today); ok {
			t.Fatal("expected zero month to be dropped")
		}
	})
}

func TestNormalizeShift(t *testing.T) {
	t.Parallel()

	template := persistence.ScheduleTemplate{
		ID:        "s1",
		OwnerID:   "emp-1",
		OwnerName: "Dana",
		Weekday:   time.Monday,
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	monday := noon(2025, time.March, 10)

	t.Run("plain occurrence", func(t *testing.T) {
		t.Parallel()
		occ, err := schedule.ResolveShiftOccurrence(template, nil, monday)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		evt, ok := NormalizeShift(template, occ)
		if !ok {
			t.Fatal("expected event")
		}
		if evt.Props["hasOverride"] != false {
			t.Fatal("expected hasOverride false")
		}
		if _, present := evt.Props["originalStart"]; present {
			t.Fatal("expected no original times without an override")
		}
	})

	t.Run("overridden occurrence keeps originals", func(t *testing.T) {
		t.Parallel()
		override := &persistence.ScheduleOverride{
			ScheduleID: "s1",
			Date:       monday,
			StartTime:  strPtr("11:00"),
			EndTime:    strPtr("19:00"),
		}
		occ, err := schedule.ResolveShiftOccurrence(template, override, monday)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		evt, ok := NormalizeShift(template, occ)
		if !ok {
			t.Fatal("expected event")
		}
		if evt.Props["hasOverride"] != true {
			t.Fatal("expected hasOverride true")
		}
		if got := evt.Props["originalStart"]; got != "09:00" {
			t.Fatalf("expected original 09:00 start, got %v", got)
		}
		if got := evt.Props["originalEnd"]; got != "17:00" {
			t.Fatalf("expected original 17:00 end, got %v", got)
		}
	})

	t.Run("cancelled occurrence omitted", func(t *testing.T) {
		t.Parallel()
		override := &persistence.ScheduleOverride{ScheduleID: "s1", Date: monday, Cancelled: true}
		occ, err := schedule.ResolveShiftOccurrence(template, override, monday)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := NormalizeShift(template, occ); ok {
			t.Fatal("expected cancelled shift to be omitted")
		}
	})
}
