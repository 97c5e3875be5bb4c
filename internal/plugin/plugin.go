// Package plugin defines the contract between the host and plugins.
package plugin

import (
	"context"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// Category selects which events a handler receives. Categories are dotted
// paths built from the event: "message", "message.group",
// "message.group.normal", "notice.group_increase", "request.group" and so on.
// A handler registered on a path receives every event at or below it.
type Category string

const (
	OnMessage        Category = "message"
	OnGroupMessage   Category = "message.group"
	OnPrivateMessage Category = "message.private"
	OnNotice         Category = "notice"
	OnRequest        Category = "request"
	OnGroupRequest   Category = "request.group"
	OnFriendRequest  Category = "request.friend"
)

// Handler processes one event. A returned error is logged by the dispatcher.
type Handler func(ctx context.Context, ev onebot.Event) error

// CronFunc is the body of a scheduled task.
type CronFunc func(ctx context.Context) error

// CronRegistrar registers fn to run on the cron expression spec.
type CronRegistrar func(spec string, fn CronFunc)

// Plugin describes one registered plugin. It is not modified after
// registration.
type Plugin struct {
	Name        string
	Version     string
	Description string
	Handlers    map[Category]Handler
	// Crons, when set, is called once at load time to register schedules.
	Crons func(register CronRegistrar)
}

// Categories lists the categories p subscribes to.
func (p *Plugin) Categories() []Category {
	out := make([]Category, 0, len(p.Handlers))
	for c := range p.Handlers {
		out = append(out, c)
	}
	return out
}

// MessageHandler adapts a function taking *onebot.MessageEvent. Events of
// other types are ignored.
func MessageHandler(fn func(ctx context.Context, ev *onebot.MessageEvent) error) Handler {
	return func(ctx context.Context, ev onebot.Event) error {
		if m, ok := ev.(*onebot.MessageEvent); ok {
			return fn(ctx, m)
		}
		return nil
	}
}

// NoticeHandler adapts a function taking *onebot.NoticeEvent.
func NoticeHandler(fn func(ctx context.Context, ev *onebot.NoticeEvent) error) Handler {
	return func(ctx context.Context, ev onebot.Event) error {
		if n, ok := ev.(*onebot.NoticeEvent); ok {
			return fn(ctx, n)
		}
		return nil
	}
}

// RequestHandler adapts a function taking *onebot.RequestEvent.
func RequestHandler(fn func(ctx context.Context, ev *onebot.RequestEvent) error) Handler {
	return func(ctx context.Context, ev onebot.Event) error {
		if r, ok := ev.(*onebot.RequestEvent); ok {
			return fn(ctx, r)
		}
		return nil
	}
}
