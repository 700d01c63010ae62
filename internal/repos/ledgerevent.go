package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

type LedgerEventRepo interface {
	Append(ctx context.Context, tx *gorm.DB, events []*types.LedgerEvent) ([]*types.LedgerEvent, error)
	GetByLedgerID(ctx context.Context, tx *gorm.DB, ledgerID string) ([]*types.LedgerEvent, error)
}

type ledgerEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerEventRepo(db *gorm.DB, baseLog *logger.Logger) LedgerEventRepo {
	return &ledgerEventRepo{db: db, log: baseLog.With("repo", "LedgerEventRepo")}
}

// Append writes new audit events. Events are insert-only; nothing in this
// repo updates or deletes them.
func (r *ledgerEventRepo) Append(ctx context.Context, tx *gorm.DB, events []*types.LedgerEvent) ([]*types.LedgerEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.LedgerEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *ledgerEventRepo) GetByLedgerID(ctx context.Context, tx *gorm.DB, ledgerID string) ([]*types.LedgerEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LedgerEvent
	if ledgerID == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("ledger_id = ?", ledgerID).
		Order("timestamp ASC").
		Order("event_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
