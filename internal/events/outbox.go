// Package events stores billing events in a transactional outbox so
// downstream dispatchers observe exactly what was committed.
package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeRentCycleCharged    = "rent.cycle_charged"
	TypeRentPaymentRecorded = "rent.payment_recorded"
	TypeGuestVacated        = "guest.vacated"
	TypeReminderSent        = "reminder.sent"
)

// Event describes a billing event to store in the outbox.
type Event struct {
	GuestID   snowflake.ID
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// BillingEvent is the persisted outbox row.
type BillingEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	GuestID   snowflake.ID      `gorm:"not null;index" json:"guest_id"`
	Type      string            `gorm:"type:text;not null;index" json:"type"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex" json:"dedupe_key,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BillingEvent) TableName() string { return "billing_events" }

// Outbox inserts billing events into the billing_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event using an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	if event.GuestID == 0 {
		return errors.New("invalid_guest_id")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	row := BillingEvent{
		ID:      o.genID.Generate(),
		GuestID: event.GuestID,
		Type:    name,
		Payload: payload,
	}
	if key := strings.TrimSpace(event.DedupeKey); key != "" {
		row.DedupeKey = &key
	}

	result := db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		if row.DedupeKey != nil && errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil
		}
		return result.Error
	}
	return nil
}
