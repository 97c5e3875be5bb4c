// Package container wires the cyberbot runtime using go.uber.org/dig.
package container

import (
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/bus"
	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/cron"
	"github.com/wwcxin/cyberbot-new/internal/dispatch"
	"github.com/wwcxin/cyberbot-new/internal/gateway"
	"github.com/wwcxin/cyberbot-new/internal/permission"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/plugins"
)

// Container holds the resolved runtime singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	client     *gateway.WSClient
	bot        *bot.Bot
	registry   *plugin.Registry
	dispatcher *dispatch.Dispatcher
	scheduler  *cron.Scheduler
}

func (c *Container) Gateway() *gateway.WSClient        { return c.client }
func (c *Container) Bot() *bot.Bot                     { return c.bot }
func (c *Container) Registry() *plugin.Registry        { return c.registry }
func (c *Container) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }
func (c *Container) Scheduler() *cron.Scheduler        { return c.scheduler }

// configPath is a named string type so dig can tell it apart from plain
// strings.
type configPath string

// New builds and wires the runtime from cfg. path is the config file the
// permission resolver re-reads on every check.
func New(cfg *config.Config, path string) (*Container, error) {
	d := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func() configPath { return configPath(path) },
		newEventBus,
		newGateway,
		func(c *gateway.WSClient) gateway.API { return c },
		newResolver,
		bot.New,
		newRegistry,
		newDispatcher,
		newScheduler,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		client *gateway.WSClient,
		b *bot.Bot,
		registry *plugin.Registry,
		dispatcher *dispatch.Dispatcher,
		scheduler *cron.Scheduler,
	) {
		result = &Container{
			client:     client,
			bot:        b,
			registry:   registry,
			dispatcher: dispatcher,
			scheduler:  scheduler,
		}
	})
	return result, err
}

func newEventBus(cfg *config.Config) *bus.EventBus {
	return bus.NewEventBus(cfg.Gateway.EventBuffer)
}

func newGateway(cfg *config.Config, b *bus.EventBus) *gateway.WSClient {
	return gateway.NewWSClient(gateway.Options{
		URL:               cfg.Gateway.URL,
		AccessToken:       cfg.Gateway.AccessToken,
		ReconnectInterval: cfg.Gateway.ReconnectInterval(),
	}, b)
}

func newResolver(path configPath) *permission.Resolver {
	return permission.NewResolver(string(path))
}

func newRegistry(cfg *config.Config, b *bot.Bot) (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	for _, p := range plugins.Build(cfg.Plugins, plugins.Deps{Bot: b, ConfigDir: cfg.Plugins.ConfigDir}) {
		if err := reg.Register(p); err != nil {
			return nil, fmt.Errorf("register plugin %s: %w", p.Name, err)
		}
		slog.Info("container: plugin loaded", "plugin", p.Name, "version", p.Version)
	}
	return reg, nil
}

func newDispatcher(reg *plugin.Registry, b *bus.EventBus) *dispatch.Dispatcher {
	return dispatch.New(reg, b.Subscribe())
}

func newScheduler(cfg *config.Config, reg *plugin.Registry) *cron.Scheduler {
	s := cron.NewScheduler(cfg.Cron.Location())
	for _, p := range reg.List() {
		s.Load(p)
	}
	return s
}
