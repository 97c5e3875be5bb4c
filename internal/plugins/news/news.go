// Package news posts the daily "60s" news image: on demand with the 60s
// command, and to every joined group on a schedule.
package news

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/shared/botutil"
)

const Name = "news"

const msgFetchFailed = "获取新闻失败，请稍后重试"

// Config is read from news.yaml.
type Config struct {
	Command        string  `yaml:"command"`
	Cron           string  `yaml:"cron"`
	APIURL         string  `yaml:"apiUrl"`
	Proxy          string  `yaml:"proxy"`
	Blacklist      []int64 `yaml:"blacklist"`
	IntervalMillis int     `yaml:"intervalMillis"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
}

func DefaultConfig() Config {
	return Config{
		Command:        "60s",
		Cron:           "1 8 * * *",
		APIURL:         "https://60s.b23.run/v2/60s?encoding=image",
		IntervalMillis: 100,
		TimeoutSeconds: 10,
	}
}

type News struct {
	bot    *bot.Bot
	cfg    Config
	client *http.Client
}

func New(b *bot.Bot, cfg Config) (*News, error) {
	if cfg.Command == "" {
		cfg.Command = DefaultConfig().Command
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	client, err := botutil.NewHTTPClient(time.Duration(cfg.TimeoutSeconds)*time.Second, cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return &News{bot: b, cfg: cfg, client: client}, nil
}

func (n *News) Plugin() *plugin.Plugin {
	p := &plugin.Plugin{
		Name:        Name,
		Version:     "1.0.1",
		Description: "每日 60 秒新闻",
		Handlers: map[plugin.Category]plugin.Handler{
			plugin.OnMessage: plugin.MessageHandler(n.onMessage),
		},
	}
	if n.cfg.Cron != "" {
		p.Crons = func(register plugin.CronRegistrar) {
			register(n.cfg.Cron, n.Broadcast)
		}
	}
	return p
}

func (n *News) onMessage(ctx context.Context, ev *onebot.MessageEvent) error {
	if onebot.Text(ev) != n.cfg.Command {
		return nil
	}
	img, err := n.fetchImage(ctx)
	if err != nil {
		slog.Error("news: fetch image failed", "err", err)
		n.bot.Reply(ctx, ev, msgFetchFailed)
		return nil
	}
	n.bot.Reply(ctx, ev, onebot.ImageSegment(img))
	return nil
}

// Broadcast sends today's image to every group the bot is in, except the
// blacklisted ones. A failed send is logged and the next group is tried.
func (n *News) Broadcast(ctx context.Context) error {
	img, err := n.fetchImage(ctx)
	if err != nil {
		return fmt.Errorf("fetch news image: %w", err)
	}
	groups, err := n.bot.API().GetGroupList(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	// rate.Every of a non-positive interval is unlimited.
	limiter := rate.NewLimiter(rate.Every(time.Duration(n.cfg.IntervalMillis)*time.Millisecond), 1)

	sent := 0
	for _, g := range groups {
		if slices.Contains(n.cfg.Blacklist, g.GroupID) {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if !n.bot.SendGroupMessage(ctx, g.GroupID, onebot.ImageSegment(img)).Delivered() {
			slog.Warn("news: broadcast to group failed", "group", g.GroupID)
			continue
		}
		sent++
	}
	slog.Info("news: broadcast done", "groups", len(groups), "sent", sent)
	return nil
}

func (n *News) fetchImage(ctx context.Context) (string, error) {
	body, err := botutil.Fetch(ctx, n.client, n.cfg.APIURL)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", errors.New("empty image")
	}
	return "base64://" + base64.StdEncoding.EncodeToString(body), nil
}
