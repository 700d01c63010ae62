package bus

import (
	"context"
	"strings"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify"
)

// Bus decouples notification producers from the dispatcher that talks to the
// outbound sink. Publish must never block a store operation for long, and a
// failed publish is the publisher's to log and drop.
type Bus interface {
	Publish(ctx context.Context, n notify.Notification) error
	StartForwarder(ctx context.Context, onMsg func(n notify.Notification)) error
	Close() error
}

// New picks the backend from the resolved config: redis when an address is
// configured, otherwise the single-process local bus.
func New(log *logger.Logger, redisAddr, channel string) (Bus, error) {
	if strings.TrimSpace(redisAddr) != "" {
		return NewRedisBus(log, redisAddr, channel)
	}
	return NewLocalBus(log)
}
