// Package domain contains the guest record and the guest service contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
)

// Guest is a tenant occupying a bed, together with the billing fields the
// reconciler operates on. Amounts are minor currency units.
type Guest struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID snowflake.ID `gorm:"not null;index" json:"property_id"`
	BedID      snowflake.ID `gorm:"index" json:"bed_id,omitempty"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Phone      string       `gorm:"type:text;index" json:"phone"`
	MoveInDate time.Time    `gorm:"not null" json:"move_in_date"`

	DueDate        time.Time                `gorm:"not null;index" json:"due_date"`
	RentCycleUnit  billingdomain.CycleUnit  `gorm:"type:text;not null" json:"rent_cycle_unit"`
	RentCycleValue int                      `gorm:"not null" json:"rent_cycle_value"`
	AnchorDay      int                      `gorm:"not null" json:"billing_anchor_day"`
	RentAmount     int64                    `gorm:"not null" json:"rent_amount"`
	Balance        int64                    `gorm:"not null;default:0" json:"balance"`
	RentPaid       int64                    `gorm:"not null;default:0" json:"rent_paid"`
	RentStatus     billingdomain.RentStatus `gorm:"type:text;not null;default:'unpaid'" json:"rent_status"`

	IsVacated bool       `gorm:"not null;default:false;index" json:"is_vacated"`
	ExitDate  *time.Time `gorm:"column:exit_date" json:"exit_date,omitempty"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Guest) TableName() string { return "guests" }

// BillingProfile projects the guest row into the pure billing core's type.
func (g Guest) BillingProfile() billingdomain.Profile {
	return billingdomain.Profile{
		DueDate:    g.DueDate,
		CycleUnit:  g.RentCycleUnit,
		CycleValue: g.RentCycleValue,
		AnchorDay:  g.AnchorDay,
		RentAmount: g.RentAmount,
		Balance:    g.Balance,
		PaidAmount: g.RentPaid,
		Status:     g.RentStatus,
		Vacated:    g.IsVacated,
		ExitDate:   g.ExitDate,
	}
}

// ApplyProfile writes a reconciled profile back onto the guest row.
func (g *Guest) ApplyProfile(p billingdomain.Profile) {
	g.DueDate = p.DueDate
	g.Balance = p.Balance
	g.RentPaid = p.PaidAmount
	g.RentStatus = p.Status
}

// OnboardGuestRequest creates a guest and opens their first billing cycle.
type OnboardGuestRequest struct {
	PropertyID snowflake.ID
	BedCode    string
	Name       string
	Phone      string
	MoveInDate time.Time
	CycleUnit  string
	CycleValue int
	AnchorDay  int
	RentAmount int64
}

// ListGuestsRequest filters the guest list.
type ListGuestsRequest struct {
	PropertyID snowflake.ID
	Status     string
	Active     bool
	Limit      int
	Offset     int
}

// ReconcileOutcome reports what a reconciliation run did to one guest.
type ReconcileOutcome struct {
	Guest           Guest
	CyclesProcessed int
}

// Service is the guest billing surface exposed to the HTTP layer and the
// scheduler.
type Service interface {
	Onboard(ctx context.Context, req OnboardGuestRequest) (Guest, error)
	Get(ctx context.Context, id snowflake.ID) (Guest, error)
	List(ctx context.Context, req ListGuestsRequest) ([]Guest, error)
	RecordPayment(ctx context.Context, id snowflake.ID, amount int64, note string) (Guest, error)
	AddCharge(ctx context.Context, id snowflake.ID, amount int64, note string) (Guest, error)
	Vacate(ctx context.Context, id snowflake.ID, exitDate time.Time) (Guest, error)
	Reconcile(ctx context.Context, id snowflake.ID, now time.Time) (ReconcileOutcome, error)
	ListDue(ctx context.Context, before time.Time, limit int) ([]Guest, error)
}

var (
	ErrGuestNotFound    = errors.New("guest_not_found")
	ErrGuestVacated     = errors.New("guest_vacated")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidMoveIn    = errors.New("invalid_move_in_date")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidExitDate  = errors.New("invalid_exit_date")
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrBedNotFound      = errors.New("bed_not_found")
	ErrBedOccupied      = errors.New("bed_occupied")
)
