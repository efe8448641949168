package domain

import "time"

// Reconcile catches a billing profile up to now: it counts the whole cycles
// elapsed since the due date, emits one rent charge per cycle dated at that
// cycle's nominal due timestamp, advances the due date through NextDueDate,
// and recomputes balance and status.
//
// The function is pure and idempotent: a second call with the same now
// returns the profile unchanged with zero cycles. Frozen (vacated or
// exiting) profiles never accrue. A now that is not strictly after the due
// date is not overdue; the tenant has the whole due instant to pay.
func Reconcile(p Profile, now time.Time) (Result, error) {
	if err := ValidateProfile(p); err != nil {
		return Result{}, err
	}

	res := Result{Profile: p}
	if p.Frozen() {
		return res, nil
	}
	if !now.After(p.DueDate) {
		return res, nil
	}

	// Count cycles by stepping the advancer itself rather than dividing by
	// an average cycle length, so month arithmetic here can never disagree
	// with NextDueDate. Cost is O(cyclesProcessed).
	due := p.DueDate
	for {
		next := NextDueDate(due, p.CycleUnit, p.CycleValue, p.AnchorDay)
		if next.After(now) {
			break
		}
		res.Charges = append(res.Charges, Charge{Amount: p.RentAmount, DueAt: due})
		due = next
		res.CyclesProcessed++
	}
	if res.CyclesProcessed == 0 {
		return res, nil
	}

	accrued := int64(res.CyclesProcessed) * p.RentAmount

	// A profile that had fully cleared starts the new arrears from zero;
	// an overpayment carried forward does not mute future cycles.
	base := p.Balance
	if p.Status == RentStatusPaid {
		base = 0
		res.Profile.PaidAmount = 0
	}

	res.Profile.DueDate = due
	res.Profile.Balance = base + accrued
	if res.Profile.Balance <= 0 {
		res.Profile.Status = RentStatusPaid
	} else {
		res.Profile.Status = RentStatusUnpaid
	}
	return res, nil
}

// SettledStatus derives the status after a payment against the owed amount.
// Partial is only ever produced here, never by cycle accrual.
func SettledStatus(balance int64) RentStatus {
	if balance <= 0 {
		return RentStatusPaid
	}
	return RentStatusPartial
}
