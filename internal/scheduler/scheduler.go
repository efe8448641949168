// Package scheduler runs the periodic billing sweeps: catching overdue
// guests up through the reconciler and dispatching rent reminders.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roombox/roombox/internal/clock"
	"github.com/roombox/roombox/internal/events"
	guestdomain "github.com/roombox/roombox/internal/guest/domain"
	guestservice "github.com/roombox/roombox/internal/guest/service"
	"github.com/roombox/roombox/internal/notification"
	"github.com/roombox/roombox/internal/reminder"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GuestSvc guestdomain.Service
	Notifier notification.Notifier
	Outbox   *events.Outbox
	Clock    clock.Clock
	Config   Config `optional:"true"`
}

type Scheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	guestSvc guestdomain.Service
	notifier notification.Notifier
	outbox   *events.Outbox
	clk      clock.Clock
	cfg      Config
	sent     *dedupeWindow
}

func NewScheduler(p Params) *Scheduler {
	return &Scheduler{
		db:       p.DB,
		log:      p.Log.Named("scheduler"),
		guestSvc: p.GuestSvc,
		notifier: p.Notifier,
		outbox:   p.Outbox,
		clk:      p.Clock,
		cfg:      p.Config.withDefaults(),
		sent:     newDedupeWindow(),
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.clk.Now()
	if err := s.sweepReconcile(ctx, now); err != nil {
		return err
	}
	return s.sweepReminders(ctx, now)
}

// sweepReconcile catches every overdue active guest up to now. A failure on
// one guest is recorded and the batch continues; the per-guest CAS inside
// the guest service makes replays safe.
func (s *Scheduler) sweepReconcile(ctx context.Context, now time.Time) error {
	guests, err := s.guestSvc.ListDue(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, guest := range guests {
		outcome, err := s.guestSvc.Reconcile(ctx, guest.ID, now)
		if err != nil {
			if errors.Is(err, guestservice.ErrConcurrentReconcile) {
				continue
			}
			s.log.Warn("reconcile failed",
				zap.String("guest_id", guest.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if outcome.CyclesProcessed > 0 {
			s.log.Info("guest reconciled",
				zap.String("guest_id", guest.ID.String()),
				zap.Int("cycles_processed", outcome.CyclesProcessed),
				zap.Int64("balance", outcome.Guest.Balance),
			)
		}
	}
	return nil
}

// sweepReminders evaluates reminder decisions for unpaid active guests and
// dispatches at most one message per guest per dedupe window.
func (s *Scheduler) sweepReminders(ctx context.Context, now time.Time) error {
	candidates, err := s.listReminderCandidates(ctx, now)
	if err != nil {
		return err
	}
	for _, guest := range candidates {
		decision := reminder.Evaluate(guest.BillingProfile(), guest.Phone, now)
		if !decision.ShouldSend {
			continue
		}

		key := guest.ID.String() + ":" + guest.DueDate.UTC().Format(time.RFC3339) + ":" + decision.Title
		if !s.sent.Allow(key, now, s.reminderWindow(guest.RentCycleUnit)) {
			continue
		}

		msg := notification.Message{
			Recipient: guest.Phone,
			Title:     decision.Title,
			Body:      decision.Body,
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.log.Warn("reminder send failed",
				zap.String("guest_id", guest.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.outbox.Publish(ctx, events.Event{
			GuestID:   guest.ID,
			Type:      events.TypeReminderSent,
			DedupeKey: "reminder:" + key,
			Payload: map[string]any{
				"title": decision.Title,
				"body":  decision.Body,
			},
		}); err != nil {
			s.log.Warn("reminder event failed",
				zap.String("guest_id", guest.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// listReminderCandidates pulls active unpaid guests whose due date is either
// already past or inside the widest upcoming window.
func (s *Scheduler) listReminderCandidates(ctx context.Context, now time.Time) ([]guestdomain.Guest, error) {
	horizon := now.Add(5 * 24 * time.Hour)
	var guests []guestdomain.Guest
	err := s.db.WithContext(ctx).
		Where("is_vacated = ? AND exit_date IS NULL AND rent_status <> ? AND due_date < ? AND phone <> ''",
			false, billingdomain.RentStatusPaid, horizon).
		Order("due_date ASC, id ASC").
		Limit(s.cfg.BatchSize).
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// reminderWindow scales the repeat-suppression window to the cycle unit so
// minute-cycle test guests are not silenced for hours.
func (s *Scheduler) reminderWindow(unit billingdomain.CycleUnit) time.Duration {
	switch unit {
	case billingdomain.CycleUnitMinutes:
		return time.Minute
	case billingdomain.CycleUnitHours:
		return 30 * time.Minute
	default:
		return s.cfg.ReminderLookback
	}
}
