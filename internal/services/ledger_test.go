package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campaigndeck/campaigndeck-backend/internal/db"
	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/repos"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	changed []string
}

func (r *recordingNotifier) LedgerCreated(entry *types.LedgerEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, entry.LedgerID)
}

func (r *recordingNotifier) StatusChanged(entry *types.LedgerEntry, actor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, fmt.Sprintf("%s:%s:%s", entry.LedgerID, entry.Status, actor))
}

func (r *recordingNotifier) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created), len(r.changed)
}

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func newTestService(t *testing.T) (LedgerService, *recordingNotifier) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log := mustTestLogger(t)
	notifier := &recordingNotifier{}
	svc := NewLedgerService(gormDB, log, repos.NewLedgerRepo(gormDB, log), repos.NewLedgerEventRepo(gormDB, log), notifier)
	return svc, notifier
}

func createIntake(t *testing.T, svc LedgerService, name string) *types.LedgerEntry {
	t.Helper()
	entry, err := svc.Create(context.Background(), nil, CreateLedgerInput{
		ProjectName: name,
		Owner:       types.Owner{Name: "Sarah Chen", Email: "sarah@company.com"},
		Channels:    []string{"instagram", "email"},
		Snapshot:    map[string]any{"objective": "awareness"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return entry
}

func TestCreateStartsInIntakeWithCreatedEvent(t *testing.T) {
	svc, notifier := newTestService(t)

	entry := createIntake(t, svc, "Summer Sale")
	if entry.Status != types.StatusIntake {
		t.Fatalf("status=%s, want intake", entry.Status)
	}
	if len(entry.Events) != 1 || entry.Events[0].Type != types.EventTypeCreated {
		t.Fatalf("events=%+v, want single created event", entry.Events)
	}
	if entry.Events[0].Actor != "sarah@company.com" {
		t.Fatalf("created actor=%s, want owner email", entry.Events[0].Actor)
	}

	created, changed := notifier.counts()
	if created != 1 || changed != 0 {
		t.Fatalf("notifier calls created=%d changed=%d, want 1/0", created, changed)
	}
}

func TestAdvanceStatusHappyPath(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	entry := createIntake(t, svc, "Summer Sale")

	updated, err := svc.AdvanceStatus(ctx, nil, entry.LedgerID, types.StatusActive, "mike@company.com")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != types.StatusActive {
		t.Fatalf("status=%s, want active", updated.Status)
	}
	if !updated.UpdatedAt.After(entry.UpdatedAt) {
		t.Fatalf("updated_at did not move forward: %v -> %v", entry.UpdatedAt, updated.UpdatedAt)
	}
	if len(updated.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(updated.Events))
	}
	change := updated.Events[1]
	if change.Type != types.EventTypeStatusChange || change.Actor != "mike@company.com" {
		t.Fatalf("status_change event wrong: %+v", change)
	}
	if change.Payload["from"] != string(types.StatusIntake) || change.Payload["to"] != string(types.StatusActive) {
		t.Fatalf("payload=%v, want from=intake to=active", change.Payload)
	}

	_, changed := notifier.counts()
	if changed != 1 {
		t.Fatalf("notifier changed calls=%d, want 1", changed)
	}
}

func TestAdvanceStatusFullChain(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry := createIntake(t, svc, "Chain")
	chain := []types.LedgerStatus{types.StatusActive, types.StatusShipped, types.StatusArchived}
	for _, next := range chain {
		updated, err := svc.AdvanceStatus(ctx, nil, entry.LedgerID, next, "sarah@company.com")
		if err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("status=%s, want %s", updated.Status, next)
		}
	}

	final, err := svc.GetByID(ctx, nil, entry.LedgerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(final.Events) != 4 {
		t.Fatalf("got %d events after full chain, want 4", len(final.Events))
	}
}

func TestAdvanceStatusRejectsSkippedStep(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	entry := createIntake(t, svc, "No Skipping")

	_, err := svc.AdvanceStatus(ctx, nil, entry.LedgerID, types.StatusShipped, "sarah@company.com")
	var invalid *types.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("err=%v, want InvalidTransitionError", err)
	}
	if invalid.From != types.StatusIntake || invalid.To != types.StatusShipped {
		t.Fatalf("error fields wrong: %+v", invalid)
	}

	// The rejected advance must leave the entry untouched.
	loaded, err := svc.GetByID(ctx, nil, entry.LedgerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != types.StatusIntake || len(loaded.Events) != 1 {
		t.Fatalf("entry changed by rejected advance: status=%s events=%d", loaded.Status, len(loaded.Events))
	}
	if !loaded.UpdatedAt.Equal(entry.UpdatedAt) {
		t.Fatalf("updated_at changed by rejected advance")
	}

	_, changed := notifier.counts()
	if changed != 0 {
		t.Fatalf("notifier fired on rejected advance")
	}
}

func TestAdvanceStatusRejectsArchivedEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry := createIntake(t, svc, "Done")
	for _, next := range []types.LedgerStatus{types.StatusActive, types.StatusShipped, types.StatusArchived} {
		if _, err := svc.AdvanceStatus(ctx, nil, entry.LedgerID, next, "sarah@company.com"); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}

	for _, proposed := range []types.LedgerStatus{types.StatusIntake, types.StatusActive, types.StatusShipped, types.StatusArchived} {
		_, err := svc.AdvanceStatus(ctx, nil, entry.LedgerID, proposed, "sarah@company.com")
		var invalid *types.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("advance archived -> %s: err=%v, want InvalidTransitionError", proposed, err)
		}
	}
}

func TestAdvanceStatusUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AdvanceStatus(context.Background(), nil, "ldg_missing", types.StatusActive, "sarah@company.com")
	if !errors.Is(err, types.ErrLedgerNotFound) {
		t.Fatalf("err=%v, want ErrLedgerNotFound", err)
	}
}

func TestGetByIDUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), nil, "ldg_missing")
	if !errors.Is(err, types.ErrLedgerNotFound) {
		t.Fatalf("err=%v, want ErrLedgerNotFound", err)
	}
}

func TestListReflectsRecentActivity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	older := createIntake(t, svc, "older")
	createIntake(t, svc, "newer")

	if _, err := svc.AdvanceStatus(ctx, nil, older.LedgerID, types.StatusActive, "sarah@company.com"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	entries, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("list returned %d entries, want 2", len(entries))
	}
	if entries[0].LedgerID != older.LedgerID {
		t.Fatalf("advanced entry should sort first, got %s", entries[0].LedgerID)
	}
}
