package domain

import "time"

// NextDueDate advances a due date by one billing cycle.
//
// Sub-month units are exact duration arithmetic. Month advances shift the
// calendar month and clamp the day to min(anchorDay, last day of the target
// month), so a tenant anchored on the 31st is billed on Feb 28/29 and
// returns to the 31st whenever the month allows it. The time of day is
// preserved.
//
// Inputs must already be validated (value > 0, anchorDay in 1..31, known
// unit); see ValidateProfile.
func NextDueDate(date time.Time, unit CycleUnit, value int, anchorDay int) time.Time {
	switch unit {
	case CycleUnitMinutes:
		return date.Add(time.Duration(value) * time.Minute)
	case CycleUnitHours:
		return date.Add(time.Duration(value) * time.Hour)
	case CycleUnitDays:
		return date.Add(time.Duration(value) * 24 * time.Hour)
	case CycleUnitWeeks:
		return date.Add(time.Duration(value) * 7 * 24 * time.Hour)
	case CycleUnitMonths:
		year, month, _ := date.Date()
		hour, min, sec := date.Clock()
		// Day 1 first so the month shift itself can never overflow into
		// the following month.
		first := time.Date(year, month+time.Month(value), 1, hour, min, sec, date.Nanosecond(), date.Location())
		day := anchorDay
		if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
			day = last
		}
		return time.Date(first.Year(), first.Month(), day, hour, min, sec, date.Nanosecond(), date.Location())
	}
	return date
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
