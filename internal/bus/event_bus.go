// Package bus carries inbound gateway events to the dispatcher.
package bus

import (
	"context"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// Bus is the producer side seen by the gateway client.
type Bus interface {
	Publish(ctx context.Context, ev onebot.Event) error
}

// EventBus is a buffered, ordered event stream. The gateway publishes in
// arrival order and a single consumer reads via Subscribe.
type EventBus struct {
	ch chan onebot.Event
}

func NewEventBus(bufSize int) *EventBus {
	if bufSize < 0 {
		bufSize = 0
	}
	return &EventBus{ch: make(chan onebot.Event, bufSize)}
}

// Publish enqueues ev, blocking while the buffer is full until ctx ends.
func (b *EventBus) Publish(ctx context.Context, ev onebot.Event) error {
	select {
	case b.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a receive-only view of the stream.
func (b *EventBus) Subscribe() <-chan onebot.Event {
	return b.ch
}

// Len reports the number of queued events.
func (b *EventBus) Len() int { return len(b.ch) }
