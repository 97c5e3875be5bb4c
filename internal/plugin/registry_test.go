package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

func noop(context.Context, onebot.Event) error { return nil }

func TestRegistry_RegisterRejectsDuplicatesAndEmpty(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Plugin{Name: "a"}); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := r.Register(&Plugin{Name: "a"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := r.Register(&Plugin{}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("Get(a) not found")
	}
}

func TestRegistry_MatchGroupsByPluginInOrder(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&Plugin{Name: "first", Handlers: map[Category]Handler{
		OnGroupMessage: noop,
		OnMessage:      noop,
	}})
	_ = r.Register(&Plugin{Name: "second", Handlers: map[Category]Handler{
		OnPrivateMessage: noop,
		OnNotice:         noop,
	}})
	_ = r.Register(&Plugin{Name: "third", Handlers: map[Category]Handler{
		OnMessage: noop,
	}})

	groups := r.Match([]string{"message", "message.group", "message.group.normal"})
	if len(groups) != 2 {
		t.Fatalf("expected 2 plugin groups, got %d", len(groups))
	}
	if groups[0][0].Plugin.Name != "first" || groups[1][0].Plugin.Name != "third" {
		t.Errorf("plugin order not preserved")
	}
	if len(groups[0]) != 2 || groups[0][0].Category != OnMessage || groups[0][1].Category != OnGroupMessage {
		t.Errorf("first plugin bindings = %+v, want message then message.group", groups[0])
	}

	if got := r.Match([]string{"request", "request.friend"}); len(got) != 0 {
		t.Errorf("expected no request handlers, got %d", len(got))
	}
}

func TestTypedHandlersIgnoreOtherEvents(t *testing.T) {
	called := false
	h := MessageHandler(func(context.Context, *onebot.MessageEvent) error {
		called = true
		return nil
	})
	_ = h(context.Background(), &onebot.NoticeEvent{})
	if called {
		t.Error("message handler ran for a notice")
	}
	_ = h(context.Background(), &onebot.MessageEvent{})
	if !called {
		t.Error("message handler did not run for a message")
	}
}
