// Package plugins is the catalog of built-in plugins.
package plugins

import (
	"fmt"
	"log/slog"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/plugins/chatgpt"
	"github.com/wwcxin/cyberbot-new/internal/plugins/demo"
	"github.com/wwcxin/cyberbot-new/internal/plugins/kmy"
	"github.com/wwcxin/cyberbot-new/internal/plugins/news"
)

// Deps are what plugin factories receive.
type Deps struct {
	Bot       *bot.Bot
	ConfigDir string
}

// Factory builds one plugin. Per-plugin settings come from
// <ConfigDir>/<name>.yaml.
type Factory func(d Deps) (*plugin.Plugin, error)

// Catalog maps plugin names to factories, in load order.
var Catalog = []struct {
	Name string
	New  Factory
}{
	{demo.Name, newDemo},
	{news.Name, newNews},
	{chatgpt.Name, newChatGPT},
	{kmy.Name, newKMY},
}

// Names lists the built-in plugin names.
func Names() []string {
	out := make([]string, 0, len(Catalog))
	for _, e := range Catalog {
		out = append(out, e.Name)
	}
	return out
}

// Build creates every plugin enabled by cfg. A plugin whose factory fails is
// logged and skipped.
func Build(cfg config.PluginsConfig, d Deps) []*plugin.Plugin {
	var out []*plugin.Plugin
	for _, e := range Catalog {
		if !cfg.IsEnabled(e.Name) {
			slog.Debug("plugins: disabled", "plugin", e.Name)
			continue
		}
		p, err := e.New(d)
		if err != nil {
			slog.Error("plugins: build failed", "plugin", e.Name, "err", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func newDemo(d Deps) (*plugin.Plugin, error) {
	cfg := demo.DefaultConfig()
	if err := config.LoadPluginConfig(d.ConfigDir, demo.Name, &cfg); err != nil {
		return nil, err
	}
	return demo.New(d.Bot, cfg).Plugin(), nil
}

func newNews(d Deps) (*plugin.Plugin, error) {
	cfg := news.DefaultConfig()
	if err := config.LoadPluginConfig(d.ConfigDir, news.Name, &cfg); err != nil {
		return nil, err
	}
	n, err := news.New(d.Bot, cfg)
	if err != nil {
		return nil, err
	}
	return n.Plugin(), nil
}

func newChatGPT(d Deps) (*plugin.Plugin, error) {
	cfg := chatgpt.DefaultConfig()
	if err := config.LoadPluginConfig(d.ConfigDir, chatgpt.Name, &cfg); err != nil {
		return nil, err
	}
	return chatgpt.New(d.Bot, cfg).Plugin(), nil
}

func newKMY(d Deps) (*plugin.Plugin, error) {
	cfg := kmy.DefaultConfig()
	if err := config.LoadPluginConfig(d.ConfigDir, "kmy", &cfg); err != nil {
		return nil, fmt.Errorf("kmy: %w", err)
	}
	return kmy.New(d.Bot, cfg).Plugin(), nil
}
