package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/repos"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

// CreateLedgerInput carries the intake form. Required-field validation is
// the caller's job (the HTTP handler); the service trusts its input.
type CreateLedgerInput struct {
	ProjectName string
	Owner       types.Owner
	Channels    []string
	Snapshot    map[string]any
	BriefID     string
}

type LedgerService interface {
	Create(ctx context.Context, tx *gorm.DB, input CreateLedgerInput) (*types.LedgerEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.LedgerEntry, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.LedgerEntry, error)
	AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, proposed types.LedgerStatus, actor string) (*types.LedgerEntry, error)
}

type ledgerService struct {
	db         *gorm.DB
	log        *logger.Logger
	ledgerRepo repos.LedgerRepo
	eventRepo  repos.LedgerEventRepo
	notifier   LedgerNotifier
}

func NewLedgerService(db *gorm.DB, baseLog *logger.Logger, ledgerRepo repos.LedgerRepo, eventRepo repos.LedgerEventRepo, notifier LedgerNotifier) LedgerService {
	return &ledgerService{
		db:         db,
		log:        baseLog.With("service", "LedgerService"),
		ledgerRepo: ledgerRepo,
		eventRepo:  eventRepo,
		notifier:   notifier,
	}
}

func (s *ledgerService) Create(ctx context.Context, tx *gorm.DB, input CreateLedgerInput) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	entry := types.NewLedgerEntry(input.ProjectName, input.Owner, input.Channels, input.Snapshot, input.BriefID)

	created, err := s.ledgerRepo.Create(ctx, transaction, entry)
	if err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}

	s.log.Info("ledger created", "ledger_id", created.LedgerID, "project_name", created.ProjectName)

	if s.notifier != nil {
		s.notifier.LedgerCreated(created)
	}
	return created, nil
}

func (s *ledgerService) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	entry, err := s.ledgerRepo.GetByID(ctx, transaction, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, types.ErrLedgerNotFound
	}
	return entry, nil
}

func (s *ledgerService) List(ctx context.Context, tx *gorm.DB) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return s.ledgerRepo.List(ctx, transaction)
}

// AdvanceStatus moves an entry one step along the transition chain. The
// status write, the updated_at refresh and the status_change event land in
// one transaction; a rejected advance leaves the entry untouched. The
// guarded update doubles as the optimistic concurrency check: if another
// writer changed the status between read and write, the advance fails with
// ErrLedgerConflict instead of recording a stale transition.
func (s *ledgerService) AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, proposed types.LedgerStatus, actor string) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	var updated *types.LedgerEntry
	var from types.LedgerStatus

	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		entry, err := s.ledgerRepo.GetByID(ctx, txx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return types.ErrLedgerNotFound
		}
		if !types.CanTransition(entry.Status, proposed) {
			return &types.InvalidTransitionError{From: entry.Status, To: proposed}
		}
		from = entry.Status

		now := time.Now().UTC()
		ok, err := s.ledgerRepo.AdvanceStatus(ctx, txx, id, from, proposed, now)
		if err != nil {
			return err
		}
		if !ok {
			return types.ErrLedgerConflict
		}

		event := types.NewStatusChangeEvent(id, from, proposed, actor, now)
		if _, err := s.eventRepo.Append(ctx, txx, []*types.LedgerEvent{event}); err != nil {
			return err
		}

		updated, err = s.ledgerRepo.GetByID(ctx, txx, id)
		if err != nil {
			return err
		}
		if updated == nil {
			return fmt.Errorf("ledger %s disappeared during advance", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ledger status advanced", "ledger_id", id, "from", from, "to", proposed, "actor", actor)

	if s.notifier != nil {
		s.notifier.StatusChanged(updated, actor)
	}
	return updated, nil
}
