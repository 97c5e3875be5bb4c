package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

func TestEventBus_PreservesOrder(t *testing.T) {
	b := NewEventBus(4)
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		if err := b.Publish(ctx, &onebot.MessageEvent{MessageID: i}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	for i := int64(1); i <= 3; i++ {
		ev := (<-b.Subscribe()).(*onebot.MessageEvent)
		if ev.MessageID != i {
			t.Errorf("got message %d, want %d", ev.MessageID, i)
		}
	}
}

func TestEventBus_PublishHonoursContextWhenFull(t *testing.T) {
	b := NewEventBus(1)
	if err := b.Publish(context.Background(), &onebot.NoticeEvent{}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Publish(ctx, &onebot.NoticeEvent{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Publish on full bus = %v, want deadline exceeded", err)
	}
}
