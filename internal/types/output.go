package types

import "time"

// Output is a channel-specific deliverable variant. Present in the schema as
// an extension point; no core operation populates it yet.
type Output struct {
	OutputID   string    `gorm:"column:output_id;primaryKey" json:"output_id"`
	LedgerID   string    `gorm:"column:ledger_id;not null;index" json:"-"`
	VariantRef string    `gorm:"column:variant_ref" json:"variant_ref"`
	Channel    string    `gorm:"column:channel" json:"channel"`
	Status     string    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Output) TableName() string { return "ledger_output" }
