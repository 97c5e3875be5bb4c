// Package dispatch fans inbound events out to plugin handlers.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
)

// Dispatcher consumes an event stream and runs every matching handler.
// Each plugin's matched handlers run on their own goroutine; the dispatcher
// never waits for them before taking the next event.
type Dispatcher struct {
	registry *plugin.Registry
	events   <-chan onebot.Event
	wg       sync.WaitGroup
}

func New(registry *plugin.Registry, events <-chan onebot.Event) *Dispatcher {
	return &Dispatcher{registry: registry, events: events}
}

// Run dispatches events until ctx is cancelled or the stream closes.
func (d *Dispatcher) Run(ctx context.Context) error {
	slog.Info("dispatch: started", "plugins", d.registry.Len())
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				slog.Info("dispatch: event stream closed")
				return nil
			}
			d.Dispatch(ctx, ev)
		case <-ctx.Done():
			slog.Info("dispatch: stopped")
			return ctx.Err()
		}
	}
}

// Dispatch starts the handlers matching ev and returns how many plugins were
// scheduled.
func (d *Dispatcher) Dispatch(ctx context.Context, ev onebot.Event) int {
	groups := d.registry.Match(ev.Categories())
	for _, bindings := range groups {
		d.wg.Add(1)
		go func(bindings []plugin.Binding) {
			defer d.wg.Done()
			for _, b := range bindings {
				invoke(ctx, b, ev)
			}
		}(bindings)
	}
	return len(groups)
}

// Wait blocks until every started handler has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// invoke runs one handler, logging a returned error or a panic.
func invoke(ctx context.Context, b plugin.Binding, ev onebot.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatch: handler panicked",
				"plugin", b.Plugin.Name,
				"category", b.Category,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	if err := b.Handler(ctx, ev); err != nil {
		slog.Error("dispatch: handler failed", "plugin", b.Plugin.Name, "category", b.Category, "err", err)
	}
}
