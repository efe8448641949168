package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryDirection represents debit or credit postings against a guest.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "debit"
	EntryDirectionCredit EntryDirection = "credit"
)

const (
	SourceTypeRentCharge   = "rent_charge"
	SourceTypePayment      = "payment"
	SourceTypeManualCharge = "manual_charge"
	SourceTypeAdjustment   = "adjustment"
)

// RentLedgerEntry is one append-only debit or credit against a guest's
// outstanding balance. The running sum of debits minus credits is the
// balance; the flat column on the guest row is only a cached projection.
type RentLedgerEntry struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	GuestID    snowflake.ID   `gorm:"not null;index" json:"guest_id"`
	Direction  EntryDirection `gorm:"type:text;not null" json:"direction"`
	SourceType string         `gorm:"type:text;not null;index" json:"source_type"`
	Amount     int64          `gorm:"not null" json:"amount"`
	Note       string         `gorm:"type:text" json:"note"`
	OccurredAt time.Time      `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (RentLedgerEntry) TableName() string { return "rent_ledger_entries" }
