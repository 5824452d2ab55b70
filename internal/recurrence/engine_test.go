package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func recurring(start time.Time, rule Rule) Definition {
	return Definition{Recurring: true, StartDate: start, Rule: &rule}
}

func TestIsDueOn_Daily(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 6)
	def := recurring(start, Rule{Frequency: FrequencyDaily, Interval: 3})

	cases := []struct {
		name   string
		target time.Time
		want   bool
	}{
		{"start date itself", start, true},
		{"one interval later", start.AddDate(0, 0, 3), true},
		{"many intervals later", start.AddDate(0, 0, 30), true},
		{"off-interval day", start.AddDate(0, 0, 4), false},
		{"before start fails closed", start.AddDate(0, 0, -3), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDueOn(def, tc.target); got != tc.want {
				t.Fatalf("IsDueOn(%s) = %v, want %v", tc.target.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestIsDueOn_DailyMidnightBoundaries(t *testing.T) {
	t.Parallel()

	// A zoned just-before-midnight timestamp and a UTC midnight timestamp on
	// the same civil date must evaluate identically.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	def := recurring(start, Rule{Frequency: FrequencyDaily, Interval: 2})

	zoned := time.Date(2025, 3, 3, 23, 30, 0, 0, time.FixedZone("CET", 60*60))
	if !IsDueOn(def, zoned) {
		t.Fatal("expected zoned timestamp on a due date to match")
	}
}

func TestIsDueOn_WeeklySameWeekday(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 6) // Monday
	def := recurring(start, Rule{Frequency: FrequencyWeekly, Interval: 2})

	if !IsDueOn(def, start.AddDate(0, 0, 14)) {
		t.Fatal("expected Monday two weeks later to be due")
	}
	if IsDueOn(def, start.AddDate(0, 0, 7)) {
		t.Fatal("expected off-interval Monday to be skipped")
	}
	if IsDueOn(def, start.AddDate(0, 0, 15)) {
		t.Fatal("expected Tuesday to be skipped")
	}
}

func TestIsDueOn_WeeklyWithWeekdaySet(t *testing.T) {
	t.Parallel()

	// startDate = 2025-01-06 (Monday), WEEKLY interval=1 byDay=[MO,WE,FR].
	start := date(2025, time.January, 6)
	def := recurring(start, Rule{
		Frequency: FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	})

	if !IsDueOn(def, date(2025, time.January, 8)) {
		t.Fatal("expected Wednesday 2025-01-08 to be due")
	}
	if !IsDueOn(def, date(2025, time.January, 13)) {
		t.Fatal("expected Monday 2025-01-13 (week 2) to be due")
	}
	if IsDueOn(def, date(2025, time.January, 7)) {
		t.Fatal("expected Tuesday 2025-01-07 to be skipped")
	}
}

func TestIsDueOn_WeeklyAlternatingWeeks(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 6) // Monday
	def := recurring(start, Rule{
		Frequency: FrequencyWeekly,
		Interval:  2,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
	})

	cases := []struct {
		name   string
		target time.Time
		want   bool
	}{
		{"monday week 0", date(2025, time.January, 6), true},
		{"wednesday week 0", date(2025, time.January, 8), true},
		{"monday week 1 skipped", date(2025, time.January, 13), false},
		{"wednesday week 1 skipped", date(2025, time.January, 15), false},
		{"monday week 2", date(2025, time.January, 20), true},
		{"wednesday week 2", date(2025, time.January, 22), true},
		{"friday never due", date(2025, time.January, 24), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDueOn(def, tc.target); got != tc.want {
				t.Fatalf("IsDueOn(%s) = %v, want %v", tc.target.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestIsDueOn_Monthly(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 15)
	def := recurring(start, Rule{Frequency: FrequencyMonthly, Interval: 2})

	if !IsDueOn(def, date(2025, time.March, 15)) {
		t.Fatal("expected the 15th two months later to be due")
	}
	if IsDueOn(def, date(2025, time.February, 15)) {
		t.Fatal("expected off-interval month to be skipped")
	}
	if IsDueOn(def, date(2025, time.March, 16)) {
		t.Fatal("expected mismatched day-of-month to be skipped")
	}
	if !IsDueOn(def, date(2026, time.January, 15)) {
		t.Fatal("expected due date across a year boundary")
	}
}

func TestIsDueOn_MonthlyDay31(t *testing.T) {
	t.Parallel()

	def := recurring(date(2025, time.January, 31), Rule{Frequency: FrequencyMonthly, Interval: 1})

	// Months without a 31st produce no occurrence; there is no clamping.
	if IsDueOn(def, date(2025, time.February, 28)) {
		t.Fatal("expected no occurrence in February")
	}
	if !IsDueOn(def, date(2025, time.March, 31)) {
		t.Fatal("expected occurrence on March 31st")
	}
}

func TestIsDueOn_Yearly(t *testing.T) {
	t.Parallel()

	def := recurring(date(2023, time.June, 10), Rule{Frequency: FrequencyYearly, Interval: 2})

	if !IsDueOn(def, date(2025, time.June, 10)) {
		t.Fatal("expected anniversary two years later to be due")
	}
	if IsDueOn(def, date(2024, time.June, 10)) {
		t.Fatal("expected off-interval year to be skipped")
	}
	if IsDueOn(def, date(2025, time.July, 10)) {
		t.Fatal("expected mismatched month to be skipped")
	}
}

func TestIsDueOn_FailsClosed(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 6)
	target := start.AddDate(0, 0, 7)

	cases := []struct {
		name string
		def  Definition
	}{
		{"non-recurring definition", Definition{Recurring: false, StartDate: start, Rule: &Rule{Frequency: FrequencyDaily, Interval: 1}}},
		{"missing rule", Definition{Recurring: true, StartDate: start}},
		{"zero start date", recurring(time.Time{}, Rule{Frequency: FrequencyDaily, Interval: 1})},
		{"unknown frequency", recurring(start, Rule{Frequency: FrequencyUnspecified, Interval: 1})},
		{"zero interval", recurring(start, Rule{Frequency: FrequencyDaily, Interval: 0})},
		{"negative interval", recurring(start, Rule{Frequency: FrequencyWeekly, Interval: -1})},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if IsDueOn(tc.def, target) {
				t.Fatal("expected malformed definition to never be due")
			}
		})
	}
}

func TestOccurrencesInRange(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 6)
	def := recurring(start, Rule{
		Frequency: FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday, time.Friday},
	})

	got := OccurrencesInRange(def, date(2025, time.January, 1), date(2025, time.January, 17))

	want := []time.Time{
		date(2025, time.January, 6),
		date(2025, time.January, 10),
		date(2025, time.January, 13),
		date(2025, time.January, 17),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}

	if out := OccurrencesInRange(def, date(2025, time.January, 17), date(2025, time.January, 1)); out != nil {
		t.Fatalf("expected inverted range to yield nothing, got %v", out)
	}
}

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	cases := map[string]Frequency{
		"daily":   FrequencyDaily,
		"WEEKLY":  FrequencyWeekly,
		" monthly": FrequencyMonthly,
		"yearly":  FrequencyYearly,
		"":        FrequencyUnspecified,
		"hourly":  FrequencyUnspecified,
	}

	for input, want := range cases {
		if got := ParseFrequency(input); got != want {
			t.Fatalf("ParseFrequency(%q) = %v, want %v", input, got, want)
		}
	}
}
