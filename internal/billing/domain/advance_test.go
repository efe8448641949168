package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextDueDateFixedUnits(t *testing.T) {
	start := date(2024, time.August, 1, 10, 0)

	cases := []struct {
		name  string
		unit  CycleUnit
		value int
		want  time.Time
	}{
		{"three minutes", CycleUnitMinutes, 3, date(2024, time.August, 1, 10, 3)},
		{"two hours", CycleUnitHours, 2, date(2024, time.August, 1, 12, 0)},
		{"one day", CycleUnitDays, 1, date(2024, time.August, 2, 10, 0)},
		{"two weeks", CycleUnitWeeks, 2, date(2024, time.August, 15, 10, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(start, tc.unit, tc.value, 1)
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextDueDateMonthClamping(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		value  int
		anchor int
		want   time.Time
	}{
		{
			name:   "anchor 31 into non-leap february",
			start:  date(2025, time.January, 31, 9, 0),
			value:  1,
			anchor: 31,
			want:   date(2025, time.February, 28, 9, 0),
		},
		{
			name:   "anchor 31 into leap february",
			start:  date(2024, time.January, 31, 9, 0),
			value:  1,
			anchor: 31,
			want:   date(2024, time.February, 29, 9, 0),
		},
		{
			name:   "anchor 30 into a 31-day month stays on 30",
			start:  date(2024, time.July, 30, 9, 0),
			value:  1,
			anchor: 30,
			want:   date(2024, time.August, 30, 9, 0),
		},
		{
			name:   "anchor restored after a short month",
			start:  date(2025, time.February, 28, 9, 0),
			value:  1,
			anchor: 31,
			want:   date(2025, time.March, 31, 9, 0),
		},
		{
			name:   "multi-month advance across year boundary",
			start:  date(2024, time.November, 30, 9, 0),
			value:  3,
			anchor: 30,
			want:   date(2025, time.February, 28, 9, 0),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextDueDate(tc.start, CycleUnitMonths, tc.value, tc.anchor)
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextDueDatePreservesTimeOfDay(t *testing.T) {
	start := time.Date(2025, time.January, 31, 23, 45, 12, 500, time.UTC)
	got := NextDueDate(start, CycleUnitMonths, 1, 31)
	if got.Hour() != 23 || got.Minute() != 45 || got.Second() != 12 || got.Nanosecond() != 500 {
		t.Fatalf("time of day not preserved: %v", got)
	}
}

func TestNextDueDateAnchorNeverDegrades(t *testing.T) {
	// Repeated advances from anchor day 31 always land on
	// min(31, days in month), never permanently on a shorter day.
	due := date(2024, time.January, 31, 8, 0)
	for i := 0; i < 24; i++ {
		due = NextDueDate(due, CycleUnitMonths, 1, 31)
		last := time.Date(due.Year(), due.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		want := 31
		if last < want {
			want = last
		}
		if due.Day() != want {
			t.Fatalf("advance %d: landed on day %d of %v, want %d", i+1, due.Day(), due.Month(), want)
		}
	}
}
