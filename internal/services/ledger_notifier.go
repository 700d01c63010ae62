package services

import (
	"context"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify/bus"
	"github.com/campaigndeck/campaigndeck-backend/internal/types"
)

// LedgerNotifier fans successful mutations out to the notification bus.
// Calls return immediately; publish errors are logged and absorbed so they
// can never surface into a store operation's result.
type LedgerNotifier interface {
	LedgerCreated(entry *types.LedgerEntry)
	StatusChanged(entry *types.LedgerEntry, actor string)
}

type busNotifier struct {
	log *logger.Logger
	bus bus.Bus
}

func NewLedgerNotifier(baseLog *logger.Logger, b bus.Bus) LedgerNotifier {
	return &busNotifier{
		log: baseLog.With("service", "LedgerNotifier"),
		bus: b,
	}
}

func (n *busNotifier) LedgerCreated(entry *types.LedgerEntry) {
	if n == nil || n.bus == nil || entry == nil {
		return
	}
	n.publish(notify.Notification{
		Kind:        notify.KindLedgerCreated,
		LedgerID:    entry.LedgerID,
		ProjectName: entry.ProjectName,
		Status:      string(entry.Status),
		Actor:       entry.Owner.Email,
	})
}

func (n *busNotifier) StatusChanged(entry *types.LedgerEntry, actor string) {
	if n == nil || n.bus == nil || entry == nil {
		return
	}
	n.publish(notify.Notification{
		Kind:        notify.KindStatusChanged,
		LedgerID:    entry.LedgerID,
		ProjectName: entry.ProjectName,
		Status:      string(entry.Status),
		Actor:       actor,
	})
}

func (n *busNotifier) publish(msg notify.Notification) {
	go func() {
		if err := n.bus.Publish(context.Background(), msg); err != nil {
			n.log.Warn("notification publish failed", "ledger_id", msg.LedgerID, "kind", msg.Kind, "error", err)
		}
	}()
}
