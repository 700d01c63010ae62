package types

import "time"

// Asset references a creative file in the DAM. Present in the schema as an
// extension point; no core operation populates it yet.
type Asset struct {
	AssetID   string    `gorm:"column:asset_id;primaryKey" json:"asset_id"`
	LedgerID  string    `gorm:"column:ledger_id;not null;index" json:"-"`
	DamRef    string    `gorm:"column:dam_ref" json:"dam_ref"`
	AssetType string    `gorm:"column:asset_type" json:"asset_type"`
	Filename  string    `gorm:"column:filename" json:"filename"`
	AddedAt   time.Time `gorm:"column:added_at;not null" json:"added_at"`
	AddedBy   string    `gorm:"column:added_by" json:"added_by"`
}

func (Asset) TableName() string { return "ledger_asset" }
