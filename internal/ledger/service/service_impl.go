package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/roombox/roombox/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

// PostEntry appends a validated ledger line. A nil tx posts outside any
// caller transaction.
func (s *Service) PostEntry(ctx context.Context, tx *gorm.DB, posting ledgerdomain.Posting) error {
	if err := ledgerdomain.ValidatePosting(posting); err != nil {
		return err
	}
	if tx == nil {
		tx = s.db
	}
	entry := ledgerdomain.RentLedgerEntry{
		ID:         s.genID.Generate(),
		GuestID:    posting.GuestID,
		Direction:  posting.Direction,
		SourceType: posting.SourceType,
		Amount:     posting.Amount,
		Note:       posting.Note,
		OccurredAt: posting.OccurredAt.UTC(),
	}
	return tx.WithContext(ctx).Create(&entry).Error
}

// Balance derives the outstanding balance as sum(debits) - sum(credits).
func (s *Service) Balance(ctx context.Context, tx *gorm.DB, guestID snowflake.ID) (int64, error) {
	if guestID == 0 {
		return 0, ledgerdomain.ErrInvalidGuest
	}
	if tx == nil {
		tx = s.db
	}
	var balance int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0)
		 FROM rent_ledger_entries
		 WHERE guest_id = ?`,
		ledgerdomain.EntryDirectionDebit,
		guestID,
	).Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ListEntries returns a guest's ledger in posting order.
func (s *Service) ListEntries(ctx context.Context, guestID snowflake.ID) ([]ledgerdomain.RentLedgerEntry, error) {
	if guestID == 0 {
		return nil, ledgerdomain.ErrInvalidGuest
	}
	var entries []ledgerdomain.RentLedgerEntry
	err := s.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("occurred_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
