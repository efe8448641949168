package reminder

import (
	"strings"
	"testing"
	"time"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
)

func dayProfile(due time.Time) billingdomain.Profile {
	return billingdomain.Profile{
		DueDate:    due,
		CycleUnit:  billingdomain.CycleUnitDays,
		CycleValue: 1,
		AnchorDay:  1,
		RentAmount: 30000,
		Balance:    30000,
		Status:     billingdomain.RentStatusUnpaid,
	}
}

func TestEvaluatePreconditions(t *testing.T) {
	now := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)
	overdue := dayProfile(now.Add(-48 * time.Hour))
	exit := now

	cases := []struct {
		name      string
		profile   billingdomain.Profile
		recipient string
	}{
		{"no recipient", overdue, ""},
		{"vacated", func() billingdomain.Profile { p := overdue; p.Vacated = true; return p }(), "9876543210"},
		{"exit date set", func() billingdomain.Profile { p := overdue; p.ExitDate = &exit; return p }(), "9876543210"},
		{"already paid", func() billingdomain.Profile { p := overdue; p.Status = billingdomain.RentStatusPaid; return p }(), "9876543210"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if d := Evaluate(tc.profile, tc.recipient, now); d.ShouldSend {
				t.Fatalf("expected no reminder, got %+v", d)
			}
		})
	}
}

func TestEvaluateOverdueDays(t *testing.T) {
	now := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)
	d := Evaluate(dayProfile(now.Add(-48*time.Hour)), "9876543210", now)
	if !d.ShouldSend {
		t.Fatal("expected reminder")
	}
	if !strings.Contains(d.Title, "Overdue") {
		t.Fatalf("title = %q, want overdue", d.Title)
	}
	if !strings.Contains(d.Body, "2 day(s)") {
		t.Fatalf("body = %q, want 2 day(s)", d.Body)
	}
}

func TestEvaluateOverdueFloorsAtOne(t *testing.T) {
	now := time.Date(2024, time.August, 1, 10, 0, 30, 0, time.UTC)
	p := dayProfile(now.Add(-30 * time.Second))
	p.CycleUnit = billingdomain.CycleUnitMinutes
	d := Evaluate(p, "9876543210", now)
	if !d.ShouldSend {
		t.Fatal("expected reminder")
	}
	if !strings.Contains(d.Body, "1 minute(s)") {
		t.Fatalf("body = %q, want floor of 1 minute", d.Body)
	}
}

func TestEvaluateOverdueUsesProfileUnit(t *testing.T) {
	now := time.Date(2024, time.August, 1, 16, 0, 0, 0, time.UTC)
	p := dayProfile(now.Add(-5 * time.Hour))
	p.CycleUnit = billingdomain.CycleUnitHours
	d := Evaluate(p, "9876543210", now)
	if !strings.Contains(d.Body, "5 hour(s)") {
		t.Fatalf("body = %q, want hours phrasing", d.Body)
	}
}

func TestEvaluateUpcomingDayWindow(t *testing.T) {
	now := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		until    time.Duration
		send     bool
		fragment string
	}{
		{"due today", 0, true, "today"},
		{"two days out", 2 * 24 * time.Hour, true, "2 day(s)"},
		{"just inside the window", 5*24*time.Hour - time.Minute, true, "4 day(s)"},
		{"exactly five days out", 5 * 24 * time.Hour, false, ""},
		{"well outside", 9 * 24 * time.Hour, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(dayProfile(now.Add(tc.until)), "9876543210", now)
			if d.ShouldSend != tc.send {
				t.Fatalf("shouldSend = %v, want %v", d.ShouldSend, tc.send)
			}
			if tc.send && !strings.Contains(d.Body, tc.fragment) {
				t.Fatalf("body = %q, want %q", d.Body, tc.fragment)
			}
		})
	}
}

func TestEvaluateUpcomingNamesCalendarDate(t *testing.T) {
	now := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)
	d := Evaluate(dayProfile(now.Add(2*24*time.Hour)), "9876543210", now)
	if !strings.Contains(d.Body, "12 Aug 2024") {
		t.Fatalf("body = %q, want calendar date", d.Body)
	}
}

func TestEvaluateUpcomingSubDayWindows(t *testing.T) {
	now := time.Date(2024, time.August, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		unit  billingdomain.CycleUnit
		until time.Duration
		send  bool
	}{
		{"minute cycle inside 5m", billingdomain.CycleUnitMinutes, 4 * time.Minute, true},
		{"minute cycle outside 5m", billingdomain.CycleUnitMinutes, 6 * time.Minute, false},
		{"hour cycle inside 3h", billingdomain.CycleUnitHours, 2 * time.Hour, true},
		{"hour cycle outside 3h", billingdomain.CycleUnitHours, 4 * time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := dayProfile(now.Add(tc.until))
			p.CycleUnit = tc.unit
			if d := Evaluate(p, "9876543210", now); d.ShouldSend != tc.send {
				t.Fatalf("shouldSend = %v, want %v", d.ShouldSend, tc.send)
			}
		})
	}
}

func TestEvaluateMonthCycleUsesDayWindow(t *testing.T) {
	now := time.Date(2024, time.August, 10, 9, 0, 0, 0, time.UTC)
	p := dayProfile(now.Add(3 * 24 * time.Hour))
	p.CycleUnit = billingdomain.CycleUnitMonths
	p.AnchorDay = 13
	d := Evaluate(p, "9876543210", now)
	if !d.ShouldSend {
		t.Fatal("expected reminder inside the 5-day window")
	}
	if !strings.Contains(d.Body, "3 day(s)") {
		t.Fatalf("body = %q, want days phrasing", d.Body)
	}
}
