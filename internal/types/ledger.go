package types

import (
	"time"

	"gorm.io/datatypes"
)

// Brief is the intake-time capture of campaign intent. The snapshot is an
// arbitrary document and is immutable after creation.
type Brief struct {
	BriefID  string            `gorm:"column:brief_id;not null" json:"brief_id"`
	Snapshot datatypes.JSONMap `gorm:"column:brief_snapshot" json:"snapshot"`
}

// Owner is the accountable party; the email doubles as the actor identity on
// audit events.
type Owner struct {
	Name  string `gorm:"column:owner_name;not null" json:"name"`
	Email string `gorm:"column:owner_email;not null" json:"email"`
}

// LedgerEntry is the aggregate root of a tracked campaign. Only status and
// the append-only collections change after creation.
type LedgerEntry struct {
	LedgerID    string                      `gorm:"column:ledger_id;primaryKey" json:"ledger_id"`
	ProjectName string                      `gorm:"column:project_name;not null" json:"project_name"`
	Brief       Brief                       `gorm:"embedded" json:"brief"`
	Owner       Owner                       `gorm:"embedded" json:"owner"`
	Channels    datatypes.JSONSlice[string] `gorm:"column:channels" json:"channels"`
	Status      LedgerStatus                `gorm:"column:status;not null;index" json:"status"`
	Assets      []Asset                     `gorm:"foreignKey:LedgerID;references:LedgerID;constraint:OnDelete:CASCADE" json:"assets"`
	Outputs     []Output                    `gorm:"foreignKey:LedgerID;references:LedgerID;constraint:OnDelete:CASCADE" json:"outputs"`
	Events      []LedgerEvent               `gorm:"foreignKey:LedgerID;references:LedgerID;constraint:OnDelete:CASCADE" json:"events"`
	CreatedAt   time.Time                   `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;not null;index" json:"updated_at"`
}

func (LedgerEntry) TableName() string { return "ledger_entry" }

// NewLedgerEntry builds a fresh entry in intake status with its single
// "created" event attributed to the owner. Empty collections are initialized
// so the entry marshals with [] / {} rather than null.
func NewLedgerEntry(projectName string, owner Owner, channels []string, snapshot map[string]any, briefID string) *LedgerEntry {
	now := time.Now().UTC()
	if briefID == "" {
		briefID = NewBriefID()
	}
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	if channels == nil {
		channels = []string{}
	}
	ledgerID := NewLedgerID()

	return &LedgerEntry{
		LedgerID:    ledgerID,
		ProjectName: projectName,
		Brief: Brief{
			BriefID:  briefID,
			Snapshot: datatypes.JSONMap(snapshot),
		},
		Owner:    owner,
		Channels: datatypes.JSONSlice[string](channels),
		Status:   StatusIntake,
		Assets:   []Asset{},
		Outputs:  []Output{},
		Events: []LedgerEvent{
			{
				EventID:   NewEventID(),
				LedgerID:  ledgerID,
				Type:      EventTypeCreated,
				Actor:     owner.Email,
				Timestamp: now,
				Payload:   datatypes.JSONMap{},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
