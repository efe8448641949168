package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
	"github.com/roombox/roombox/internal/clock"
	"github.com/roombox/roombox/internal/events"
	guestdomain "github.com/roombox/roombox/internal/guest/domain"
	ledgerdomain "github.com/roombox/roombox/internal/ledger/domain"
	propertydomain "github.com/roombox/roombox/internal/property/domain"
)

// ErrConcurrentReconcile signals that another reconciliation advanced the
// guest's due date first. The whole transaction rolls back and the caller
// may retry against fresh state.
var ErrConcurrentReconcile = errors.New("concurrent_reconcile")

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	ledgerSvc ledgerdomain.Service
	outbox    *events.Outbox
	clk       clock.Clock
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	LedgerSvc ledgerdomain.Service
	Outbox    *events.Outbox
	Clock     clock.Clock
}

func NewService(p Params) guestdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("guest.service"),
		genID:     p.GenID,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
		clk:       p.Clock,
	}
}

func (s *Service) Onboard(ctx context.Context, req guestdomain.OnboardGuestRequest) (guestdomain.Guest, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return guestdomain.Guest{}, guestdomain.ErrInvalidName
	}
	if req.MoveInDate.IsZero() {
		return guestdomain.Guest{}, guestdomain.ErrInvalidMoveIn
	}
	unit, err := billingdomain.ParseCycleUnit(req.CycleUnit)
	if err != nil {
		return guestdomain.Guest{}, err
	}
	anchorDay := req.AnchorDay
	if anchorDay == 0 {
		anchorDay = req.MoveInDate.Day()
	}

	moveIn := req.MoveInDate.UTC()
	guest := guestdomain.Guest{
		ID:             s.genID.Generate(),
		PropertyID:     req.PropertyID,
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		MoveInDate:     moveIn,
		RentCycleUnit:  unit,
		RentCycleValue: req.CycleValue,
		AnchorDay:      anchorDay,
		RentAmount:     req.RentAmount,
		Balance:        req.RentAmount,
		RentStatus:     billingdomain.RentStatusUnpaid,
	}
	if req.RentAmount == 0 {
		guest.RentStatus = billingdomain.RentStatusPaid
	}

	profile := guest.BillingProfile()
	profile.DueDate = moveIn
	if err := billingdomain.ValidateProfile(profile); err != nil {
		return guestdomain.Guest{}, err
	}
	guest.DueDate = billingdomain.NextDueDate(moveIn, unit, req.CycleValue, anchorDay)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property propertydomain.Property
		if err := tx.First(&property, "id = ?", req.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guestdomain.ErrPropertyNotFound
			}
			return err
		}

		if code := strings.TrimSpace(req.BedCode); code != "" {
			bedID, err := s.claimBed(ctx, tx, req.PropertyID, code)
			if err != nil {
				return err
			}
			guest.BedID = bedID
		}

		if err := tx.Create(&guest).Error; err != nil {
			return err
		}

		// The move-in cycle is charged up front.
		return s.ledgerSvc.PostEntry(ctx, tx, ledgerdomain.Posting{
			GuestID:    guest.ID,
			Direction:  ledgerdomain.EntryDirectionDebit,
			SourceType: ledgerdomain.SourceTypeRentCharge,
			Amount:     guest.RentAmount,
			Note:       "move-in cycle",
			OccurredAt: moveIn,
		})
	})
	if err != nil {
		return guestdomain.Guest{}, err
	}

	s.log.Info("guest onboarded",
		zap.String("guest_id", guest.ID.String()),
		zap.String("due_date", guest.DueDate.Format(time.RFC3339)),
	)
	return guest, nil
}

func (s *Service) claimBed(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, code string) (snowflake.ID, error) {
	var bed propertydomain.Bed
	err := tx.WithContext(ctx).
		First(&bed, "property_id = ? AND code = ?", propertyID, code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, guestdomain.ErrBedNotFound
		}
		return 0, err
	}
	if bed.Occupied {
		return 0, guestdomain.ErrBedOccupied
	}
	result := tx.WithContext(ctx).Model(&propertydomain.Bed{}).
		Where("id = ? AND occupied = ?", bed.ID, false).
		Update("occupied", true)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, guestdomain.ErrBedOccupied
	}
	return bed.ID, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (guestdomain.Guest, error) {
	var guest guestdomain.Guest
	err := s.db.WithContext(ctx).First(&guest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return guestdomain.Guest{}, guestdomain.ErrGuestNotFound
		}
		return guestdomain.Guest{}, err
	}
	return guest, nil
}

func (s *Service) List(ctx context.Context, req guestdomain.ListGuestsRequest) ([]guestdomain.Guest, error) {
	query := s.db.WithContext(ctx).Model(&guestdomain.Guest{})
	if req.PropertyID != 0 {
		query = query.Where("property_id = ?", req.PropertyID)
	}
	if req.Status != "" {
		query = query.Where("rent_status = ?", req.Status)
	}
	if req.Active {
		query = query.Where("is_vacated = ? AND exit_date IS NULL", false)
	}
	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var guests []guestdomain.Guest
	err := query.Order("id ASC").Limit(limit).Offset(req.Offset).Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// ListDue returns active guests whose due date has passed, oldest first.
func (s *Service) ListDue(ctx context.Context, before time.Time, limit int) ([]guestdomain.Guest, error) {
	if limit <= 0 {
		limit = 50
	}
	var guests []guestdomain.Guest
	err := s.db.WithContext(ctx).
		Where("is_vacated = ? AND exit_date IS NULL AND due_date < ?", false, before).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

func (s *Service) RecordPayment(ctx context.Context, id snowflake.ID, amount int64, note string) (guestdomain.Guest, error) {
	if amount <= 0 {
		return guestdomain.Guest{}, guestdomain.ErrInvalidAmount
	}
	now := s.clk.Now()

	var guest guestdomain.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guestdomain.ErrGuestNotFound
			}
			return err
		}

		if err := s.ledgerSvc.PostEntry(ctx, tx, ledgerdomain.Posting{
			GuestID:    guest.ID,
			Direction:  ledgerdomain.EntryDirectionCredit,
			SourceType: ledgerdomain.SourceTypePayment,
			Amount:     amount,
			Note:       note,
			OccurredAt: now,
		}); err != nil {
			return err
		}

		balance, err := s.ledgerSvc.Balance(ctx, tx, guest.ID)
		if err != nil {
			return err
		}

		guest.Balance = balance
		guest.RentStatus = billingdomain.SettledStatus(balance)
		if guest.RentStatus == billingdomain.RentStatusPaid {
			guest.RentPaid = 0
		} else {
			guest.RentPaid += amount
		}
		guest.UpdatedAt = now

		if err := tx.Model(&guestdomain.Guest{}).Where("id = ?", guest.ID).Updates(map[string]any{
			"balance":     guest.Balance,
			"rent_paid":   guest.RentPaid,
			"rent_status": guest.RentStatus,
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			GuestID: guest.ID,
			Type:    events.TypeRentPaymentRecorded,
			Payload: map[string]any{
				"amount":  amount,
				"balance": guest.Balance,
				"status":  string(guest.RentStatus),
			},
		})
	})
	if err != nil {
		return guestdomain.Guest{}, err
	}

	// Settle any due-date interaction the payment may have unlocked.
	outcome, err := s.Reconcile(ctx, id, now)
	if err != nil {
		if errors.Is(err, ErrConcurrentReconcile) {
			return s.Get(ctx, id)
		}
		return guestdomain.Guest{}, err
	}
	return outcome.Guest, nil
}

func (s *Service) AddCharge(ctx context.Context, id snowflake.ID, amount int64, note string) (guestdomain.Guest, error) {
	if amount <= 0 {
		return guestdomain.Guest{}, guestdomain.ErrInvalidAmount
	}
	now := s.clk.Now()

	var guest guestdomain.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guestdomain.ErrGuestNotFound
			}
			return err
		}
		if guest.IsVacated {
			return guestdomain.ErrGuestVacated
		}

		if err := s.ledgerSvc.PostEntry(ctx, tx, ledgerdomain.Posting{
			GuestID:    guest.ID,
			Direction:  ledgerdomain.EntryDirectionDebit,
			SourceType: ledgerdomain.SourceTypeManualCharge,
			Amount:     amount,
			Note:       note,
			OccurredAt: now,
		}); err != nil {
			return err
		}

		balance, err := s.ledgerSvc.Balance(ctx, tx, guest.ID)
		if err != nil {
			return err
		}

		guest.Balance = balance
		switch {
		case balance <= 0:
			guest.RentStatus = billingdomain.RentStatusPaid
		case guest.RentPaid > 0:
			guest.RentStatus = billingdomain.RentStatusPartial
		default:
			guest.RentStatus = billingdomain.RentStatusUnpaid
		}
		guest.UpdatedAt = now

		return tx.Model(&guestdomain.Guest{}).Where("id = ?", guest.ID).Updates(map[string]any{
			"balance":     guest.Balance,
			"rent_status": guest.RentStatus,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		return guestdomain.Guest{}, err
	}
	return guest, nil
}

func (s *Service) Vacate(ctx context.Context, id snowflake.ID, exitDate time.Time) (guestdomain.Guest, error) {
	if exitDate.IsZero() {
		return guestdomain.Guest{}, guestdomain.ErrInvalidExitDate
	}
	now := s.clk.Now()

	var guest guestdomain.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guestdomain.ErrGuestNotFound
			}
			return err
		}
		if guest.IsVacated {
			return guestdomain.ErrGuestVacated
		}
		if exitDate.Before(guest.MoveInDate) {
			return guestdomain.ErrInvalidExitDate
		}

		exit := exitDate.UTC()
		guest.IsVacated = true
		guest.ExitDate = &exit
		guest.UpdatedAt = now

		if err := tx.Model(&guestdomain.Guest{}).Where("id = ?", guest.ID).Updates(map[string]any{
			"is_vacated": true,
			"exit_date":  exit,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		if guest.BedID != 0 {
			if err := tx.Model(&propertydomain.Bed{}).
				Where("id = ?", guest.BedID).
				Update("occupied", false).Error; err != nil {
				return err
			}
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			GuestID: guest.ID,
			Type:    events.TypeGuestVacated,
			Payload: map[string]any{
				"exit_date": exit.Format(time.RFC3339),
				"balance":   guest.Balance,
			},
		})
	})
	if err != nil {
		return guestdomain.Guest{}, err
	}
	return guest, nil
}

// Reconcile catches one guest up to now inside a single transaction. The
// final guest update is guarded by a compare-and-swap on the old due date,
// so two concurrent runs against the same stale profile cannot both charge:
// the loser's transaction rolls back with ErrConcurrentReconcile.
func (s *Service) Reconcile(ctx context.Context, id snowflake.ID, now time.Time) (guestdomain.ReconcileOutcome, error) {
	var outcome guestdomain.ReconcileOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guest guestdomain.Guest
		if err := tx.First(&guest, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guestdomain.ErrGuestNotFound
			}
			return err
		}

		previousDue := guest.DueDate
		carryover := guest.Balance
		wasPaid := guest.RentStatus == billingdomain.RentStatusPaid

		res, err := billingdomain.Reconcile(guest.BillingProfile(), now)
		if err != nil {
			return err
		}
		outcome.CyclesProcessed = res.CyclesProcessed
		if res.CyclesProcessed == 0 {
			outcome.Guest = guest
			return nil
		}

		// A paid profile accrues from a clean slate; an overpayment left on
		// the ledger is cleared with an explicit adjustment so the ledger
		// keeps equalling the flat balance.
		if wasPaid && carryover < 0 {
			if err := s.ledgerSvc.PostEntry(ctx, tx, ledgerdomain.Posting{
				GuestID:    guest.ID,
				Direction:  ledgerdomain.EntryDirectionDebit,
				SourceType: ledgerdomain.SourceTypeAdjustment,
				Amount:     -carryover,
				Note:       "overpayment carryover cleared",
				OccurredAt: now,
			}); err != nil {
				return err
			}
		}

		for _, charge := range res.Charges {
			if err := s.ledgerSvc.PostEntry(ctx, tx, ledgerdomain.Posting{
				GuestID:    guest.ID,
				Direction:  ledgerdomain.EntryDirectionDebit,
				SourceType: ledgerdomain.SourceTypeRentCharge,
				Amount:     charge.Amount,
				Note:       "rent cycle",
				OccurredAt: charge.DueAt,
			}); err != nil {
				return err
			}
		}

		balance, err := s.ledgerSvc.Balance(ctx, tx, guest.ID)
		if err != nil {
			return err
		}
		res.Profile.Balance = balance
		if balance <= 0 {
			res.Profile.Status = billingdomain.RentStatusPaid
		} else {
			res.Profile.Status = billingdomain.RentStatusUnpaid
		}

		guest.ApplyProfile(res.Profile)
		guest.UpdatedAt = now

		result := tx.Model(&guestdomain.Guest{}).
			Where("id = ? AND due_date = ?", guest.ID, previousDue).
			Updates(map[string]any{
				"due_date":    guest.DueDate,
				"balance":     guest.Balance,
				"rent_paid":   guest.RentPaid,
				"rent_status": guest.RentStatus,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConcurrentReconcile
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			GuestID:   guest.ID,
			Type:      events.TypeRentCycleCharged,
			DedupeKey: "cycle:" + guest.ID.String() + ":" + guest.DueDate.UTC().Format(time.RFC3339),
			Payload: map[string]any{
				"cycles_processed": res.CyclesProcessed,
				"balance":          guest.Balance,
				"due_date":         guest.DueDate.Format(time.RFC3339),
			},
		}); err != nil {
			return err
		}

		outcome.Guest = guest
		return nil
	})
	if err != nil {
		return guestdomain.ReconcileOutcome{}, err
	}
	return outcome, nil
}
