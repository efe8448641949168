package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Posting describes a single ledger line to append for a guest.
type Posting struct {
	GuestID    snowflake.ID
	Direction  EntryDirection
	SourceType string
	Amount     int64
	Note       string
	OccurredAt time.Time
}

// LedgerService appends rent ledger entries and derives balances.
type LedgerService interface {
	PostEntry(ctx context.Context, tx *gorm.DB, posting Posting) error
	Balance(ctx context.Context, tx *gorm.DB, guestID snowflake.ID) (int64, error)
	ListEntries(ctx context.Context, guestID snowflake.ID) ([]RentLedgerEntry, error)
}

// Service is the package alias for LedgerService.
type Service = LedgerService

var (
	ErrInvalidGuest      = errors.New("invalid_guest")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidDirection  = errors.New("invalid_direction")
	ErrInvalidSourceType = errors.New("invalid_source_type")
	ErrInvalidOccurredAt = errors.New("invalid_occurred_at")
)
