// Package domain contains the pure rent billing core: cycle math,
// reconciliation, and the profile value types they operate on. Nothing in
// this package touches the database or the wall clock; `now` is always a
// parameter.
package domain

import (
	"errors"
	"time"
)

// CycleUnit is the granularity at which rent recurs.
type CycleUnit string

const (
	CycleUnitMinutes CycleUnit = "minutes"
	CycleUnitHours   CycleUnit = "hours"
	CycleUnitDays    CycleUnit = "days"
	CycleUnitWeeks   CycleUnit = "weeks"
	CycleUnitMonths  CycleUnit = "months"
)

// RentStatus is derived from the outstanding balance, never set on its own.
type RentStatus string

const (
	RentStatusPaid    RentStatus = "paid"
	RentStatusUnpaid  RentStatus = "unpaid"
	RentStatusPartial RentStatus = "partial"
)

var (
	ErrInvalidCycleUnit  = errors.New("invalid_cycle_unit")
	ErrInvalidCycleValue = errors.New("invalid_cycle_value")
	ErrInvalidAnchorDay  = errors.New("invalid_anchor_day")
	ErrMissingDueDate    = errors.New("missing_due_date")
	ErrNegativeRent      = errors.New("negative_rent_amount")
)

// Profile is the billing slice of a guest record. Amounts are in minor
// currency units.
type Profile struct {
	DueDate    time.Time
	CycleUnit  CycleUnit
	CycleValue int
	AnchorDay  int
	RentAmount int64
	Balance    int64
	PaidAmount int64
	Status     RentStatus
	Vacated    bool
	ExitDate   *time.Time
}

// Frozen reports whether the profile accrues no further cycles.
func (p Profile) Frozen() bool {
	return p.Vacated || p.ExitDate != nil
}

// Charge is a single rent debit produced by reconciliation, dated at the
// cycle's nominal due timestamp.
type Charge struct {
	Amount int64
	DueAt  time.Time
}

// Result is the outcome of reconciling a profile against a reference time.
type Result struct {
	Profile         Profile
	CyclesProcessed int
	Charges         []Charge
}
