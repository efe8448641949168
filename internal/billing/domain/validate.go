package domain

import "strings"

// ParseCycleUnit normalizes a raw unit string into a CycleUnit.
func ParseCycleUnit(raw string) (CycleUnit, error) {
	switch CycleUnit(strings.ToLower(strings.TrimSpace(raw))) {
	case CycleUnitMinutes:
		return CycleUnitMinutes, nil
	case CycleUnitHours:
		return CycleUnitHours, nil
	case CycleUnitDays:
		return CycleUnitDays, nil
	case CycleUnitWeeks:
		return CycleUnitWeeks, nil
	case CycleUnitMonths:
		return CycleUnitMonths, nil
	default:
		return "", ErrInvalidCycleUnit
	}
}

// ValidateProfile rejects malformed profiles before any cycle math runs.
func ValidateProfile(p Profile) error {
	if p.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if _, err := ParseCycleUnit(string(p.CycleUnit)); err != nil {
		return err
	}
	if p.CycleValue <= 0 {
		return ErrInvalidCycleValue
	}
	if p.AnchorDay < 1 || p.AnchorDay > 31 {
		return ErrInvalidAnchorDay
	}
	if p.RentAmount < 0 {
		return ErrNegativeRent
	}
	return nil
}
