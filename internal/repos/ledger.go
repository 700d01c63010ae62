package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

type LedgerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.LedgerEntry) (*types.LedgerEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.LedgerEntry, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.LedgerEntry, error)
	AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, from, to types.LedgerStatus, at time.Time) (bool, error)
}

type ledgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerRepo(db *gorm.DB, baseLog *logger.Logger) LedgerRepo {
	return &ledgerRepo{db: db, log: baseLog.With("repo", "LedgerRepo")}
}

func (r *ledgerRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.LedgerEntry) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if entry == nil {
		return nil, errors.New("nil ledger entry")
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByID loads an entry with its events, assets and outputs. Returns
// (nil, nil) when no entry exists for the id.
func (r *ledgerRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == "" {
		return nil, nil
	}

	var entry types.LedgerEntry
	err := preloadLedger(transaction.WithContext(ctx)).
		Where("ledger_id = ?", id).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalizeLedger(&entry)
	return &entry, nil
}

// List returns every entry ordered by recency of update. Ties on updated_at
// break by created_at, then ledger_id, so the order is deterministic.
func (r *ledgerRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var entries []*types.LedgerEntry
	err := preloadLedger(transaction.WithContext(ctx)).
		Order("updated_at DESC").
		Order("created_at DESC").
		Order("ledger_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		normalizeLedger(entry)
	}
	return entries, nil
}

// AdvanceStatus performs the guarded status write: the row is only touched
// while it still carries the expected current status. Reports whether a row
// was updated.
func (r *ledgerRepo) AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, from, to types.LedgerStatus, at time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Where("ledger_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func preloadLedger(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC").Order("event_id ASC")
		}).
		Preload("Assets").
		Preload("Outputs")
}

// normalizeLedger keeps the read model's empty collections as [] so entries
// marshal the same whether freshly built or loaded.
func normalizeLedger(entry *types.LedgerEntry) {
	if entry == nil {
		return
	}
	if entry.Events == nil {
		entry.Events = []types.LedgerEvent{}
	}
	if entry.Assets == nil {
		entry.Assets = []types.Asset{}
	}
	if entry.Outputs == nil {
		entry.Outputs = []types.Output{}
	}
	if entry.Channels == nil {
		entry.Channels = []string{}
	}
	if entry.Brief.Snapshot == nil {
		entry.Brief.Snapshot = map[string]any{}
	}
}
