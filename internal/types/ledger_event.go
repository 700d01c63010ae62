package types

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerEventType captures what a ledger event records.
type LedgerEventType string

const (
	EventTypeCreated      LedgerEventType = "created"
	EventTypeStatusChange LedgerEventType = "status_change"
)

// LedgerEvent is an immutable audit fact appended to a ledger's trail.
// Events are never edited or removed once written. A status_change payload
// carries {from, to}.
type LedgerEvent struct {
	EventID   string            `gorm:"column:event_id;primaryKey" json:"event_id"`
	LedgerID  string            `gorm:"column:ledger_id;not null;index" json:"-"`
	Type      LedgerEventType   `gorm:"column:type;not null" json:"type"`
	Actor     string            `gorm:"column:actor;not null" json:"actor"`
	Timestamp time.Time         `gorm:"column:timestamp;not null" json:"timestamp"`
	Payload   datatypes.JSONMap `gorm:"column:payload" json:"payload"`
}

func (LedgerEvent) TableName() string { return "ledger_event" }

// NewStatusChangeEvent records a transition from -> to performed by actor.
func NewStatusChangeEvent(ledgerID string, from, to LedgerStatus, actor string, at time.Time) *LedgerEvent {
	return &LedgerEvent{
		EventID:   NewEventID(),
		LedgerID:  ledgerID,
		Type:      EventTypeStatusChange,
		Actor:     actor,
		Timestamp: at,
		Payload: datatypes.JSONMap{
			"from": string(from),
			"to":   string(to),
		},
	}
}
