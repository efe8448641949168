package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roombox/roombox/internal/clock"
	"github.com/roombox/roombox/internal/events"
	guestdomain "github.com/roombox/roombox/internal/guest/domain"
	guestservice "github.com/roombox/roombox/internal/guest/service"
	ledgerdomain "github.com/roombox/roombox/internal/ledger/domain"
	ledgerservice "github.com/roombox/roombox/internal/ledger/service"
	"github.com/roombox/roombox/internal/notification"
	propertydomain "github.com/roombox/roombox/internal/property/domain"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (c *captureNotifier) Send(_ context.Context, msg notification.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func setupScheduler(t *testing.T, now time.Time) (*Scheduler, guestdomain.Service, *captureNotifier, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "scheduler.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&propertydomain.Property{},
		&propertydomain.Bed{},
		&guestdomain.Guest{},
		&ledgerdomain.RentLedgerEntry{},
		&events.BillingEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&propertydomain.Property{ID: 1001, Name: "Sunrise PG"}).Error; err != nil {
		t.Fatalf("insert property: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	clk := clock.Fixed{At: now}
	outbox := events.NewOutbox(db, node)
	ledgerSvc := ledgerservice.NewService(ledgerservice.Params{DB: db, Log: zap.NewNop(), GenID: node})
	guestSvc := guestservice.NewService(guestservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		LedgerSvc: ledgerSvc,
		Outbox:    outbox,
		Clock:     clk,
	})
	notifier := &captureNotifier{}
	sched := NewScheduler(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GuestSvc: guestSvc,
		Notifier: notifier,
		Outbox:   outbox,
		Clock:    clk,
	})
	return sched, guestSvc, notifier, db
}

func TestRunOnceReconcilesAndReminds(t *testing.T) {
	now := time.Date(2024, time.August, 1, 10, 4, 0, 0, time.UTC)
	sched, guestSvc, notifier, db := setupScheduler(t, now)

	guest, err := guestSvc.Onboard(context.Background(), guestdomain.OnboardGuestRequest{
		PropertyID: 1001,
		Name:       "Asha",
		Phone:      "9876543210",
		MoveInDate: time.Date(2024, time.August, 1, 9, 57, 0, 0, time.UTC),
		CycleUnit:  "minutes",
		CycleValue: 3,
		AnchorDay:  1,
		RentAmount: 1,
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var updated guestdomain.Guest
	if err := db.First(&updated, "id = ?", guest.ID).Error; err != nil {
		t.Fatalf("load guest: %v", err)
	}
	if want := time.Date(2024, time.August, 1, 10, 3, 0, 0, time.UTC); !updated.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", updated.DueDate, want)
	}
	if updated.Balance != 2 {
		t.Fatalf("balance = %d, want 2", updated.Balance)
	}

	if notifier.count() != 1 {
		t.Fatalf("reminders sent = %d, want 1", notifier.count())
	}
	if notifier.sent[0].Recipient != "9876543210" {
		t.Fatalf("recipient = %q", notifier.sent[0].Recipient)
	}
}

func TestRunOnceDedupesReminders(t *testing.T) {
	now := time.Date(2024, time.August, 1, 10, 4, 0, 0, time.UTC)
	sched, guestSvc, notifier, _ := setupScheduler(t, now)

	_, err := guestSvc.Onboard(context.Background(), guestdomain.OnboardGuestRequest{
		PropertyID: 1001,
		Name:       "Asha",
		Phone:      "9876543210",
		MoveInDate: time.Date(2024, time.August, 1, 9, 57, 0, 0, time.UTC),
		CycleUnit:  "minutes",
		CycleValue: 3,
		AnchorDay:  1,
		RentAmount: 1,
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("reminders sent = %d, want 1 after dedupe", notifier.count())
	}
}

func TestRunOnceSkipsVacatedAndPaid(t *testing.T) {
	now := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	sched, guestSvc, notifier, _ := setupScheduler(t, now)

	vacated, err := guestSvc.Onboard(context.Background(), guestdomain.OnboardGuestRequest{
		PropertyID: 1001,
		Name:       "Gone",
		Phone:      "9000000001",
		MoveInDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		CycleUnit:  "months",
		CycleValue: 1,
		AnchorDay:  1,
		RentAmount: 30000,
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if _, err := guestSvc.Vacate(context.Background(), vacated.ID, time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("vacate: %v", err)
	}

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if notifier.count() != 0 {
		t.Fatalf("reminders sent = %d, want 0", notifier.count())
	}
}

func TestDedupeWindow(t *testing.T) {
	d := newDedupeWindow()
	now := time.Date(2024, time.August, 1, 10, 0, 0, 0, time.UTC)

	if !d.Allow("g1", now, time.Minute) {
		t.Fatal("first send blocked")
	}
	if d.Allow("g1", now.Add(30*time.Second), time.Minute) {
		t.Fatal("repeat inside window allowed")
	}
	if !d.Allow("g1", now.Add(90*time.Second), time.Minute) {
		t.Fatal("send after window blocked")
	}
	if !d.Allow("g2", now, time.Minute) {
		t.Fatal("independent key blocked")
	}
	if d.Allow("", now, time.Minute) {
		t.Fatal("empty key allowed")
	}
}
