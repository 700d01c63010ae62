package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify"
)

const localBusBuffer = 256

type localBus struct {
	log    *logger.Logger
	ch     chan notify.Notification
	mu     sync.Mutex
	closed bool
}

// NewLocalBus is the single-process fallback when no REDIS_ADDR is
// configured: a buffered in-memory channel drained by the forwarder.
// Publishing never blocks; if the buffer is full the notification is dropped
// and logged, which is acceptable for a best-effort side channel.
func NewLocalBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &localBus{
		log: log.With("service", "LocalNotifyBus"),
		ch:  make(chan notify.Notification, localBusBuffer),
	}, nil
}

func (b *localBus) Publish(ctx context.Context, n notify.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("local notify bus closed")
	}
	select {
	case b.ch <- n:
		return nil
	default:
		b.log.Warn("notify buffer full, dropping notification", "ledger_id", n.LedgerID, "kind", n.Kind)
		return nil
	}
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(n notify.Notification)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-b.ch:
				if !ok {
					return
				}
				onMsg(n)
			}
		}
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.ch)
	return nil
}
