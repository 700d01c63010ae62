package services

import (
	"context"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify/bus"
	"github.com/campaigndeck/campaigndeck-backend/internal/platform/slack"
)

// NotificationDispatcher drains the notification bus and forwards each
// message to the Slack sink. It runs as its own task so sink latency and
// failures stay off the request path entirely.
type NotificationDispatcher struct {
	log  *logger.Logger
	bus  bus.Bus
	sink slack.Client
}

func NewNotificationDispatcher(baseLog *logger.Logger, b bus.Bus, sink slack.Client) *NotificationDispatcher {
	return &NotificationDispatcher{
		log:  baseLog.With("service", "NotificationDispatcher"),
		bus:  b,
		sink: sink,
	}
}

func (d *NotificationDispatcher) Start(ctx context.Context) error {
	if d == nil || d.bus == nil {
		return nil
	}
	return d.bus.StartForwarder(ctx, func(n notify.Notification) {
		if d.sink == nil {
			return
		}
		sent, err := d.sink.Send(ctx, n)
		if err != nil {
			d.log.Warn("notification delivery failed", "ledger_id", n.LedgerID, "kind", n.Kind, "error", err)
			return
		}
		if !sent {
			d.log.Debug("notification skipped, sink not configured", "ledger_id", n.LedgerID, "kind", n.Kind)
			return
		}
		d.log.Info("notification delivered", "ledger_id", n.LedgerID, "kind", n.Kind, "status", n.Status)
	})
}
