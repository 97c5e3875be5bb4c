// Package demo shows the plugin surface: quoted replies with recall, private
// sends, images, an HTTP lookup, and request handling.
package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/shared/botutil"
)

const Name = "demo"

// Config is read from demo.yaml.
type Config struct {
	RecallSeconds    int    `yaml:"recallSeconds"`
	WallpaperURL     string `yaml:"wallpaperUrl"`
	HitokotoURL      string `yaml:"hitokotoUrl"`
	AutoApproveGroup bool   `yaml:"autoApproveGroup"`
}

func DefaultConfig() Config {
	return Config{
		RecallSeconds:    5,
		WallpaperURL:     "https://p2.qpic.cn/gdynamic/m7yRCticIwlKMnXkIat8nNRyD95wf24YNBoiblNYKYdXs/0",
		HitokotoURL:      "https://v1.hitokoto.cn/",
		AutoApproveGroup: true,
	}
}

type Demo struct {
	bot         *bot.Bot
	cfg         Config
	client      *http.Client
	recallAfter time.Duration
}

func New(b *bot.Bot, cfg Config) *Demo {
	client, _ := botutil.NewHTTPClient(10*time.Second, "")
	return &Demo{
		bot:         b,
		cfg:         cfg,
		client:      client,
		recallAfter: time.Duration(cfg.RecallSeconds) * time.Second,
	}
}

func (d *Demo) Plugin() *plugin.Plugin {
	return &plugin.Plugin{
		Name:        Name,
		Version:     "1.0.0",
		Description: "A simple plugin that demos the bot API",
		Handlers: map[plugin.Category]plugin.Handler{
			plugin.OnMessage: plugin.MessageHandler(d.onMessage),
			plugin.OnRequest: plugin.RequestHandler(d.onRequest),
			plugin.OnNotice: plugin.NoticeHandler(func(_ context.Context, ev *onebot.NoticeEvent) error {
				slog.Debug("demo: notice", "type", ev.NoticeType, "group", ev.GroupID, "user", ev.UserID)
				return nil
			}),
		},
	}
}

func (d *Demo) onMessage(ctx context.Context, ev *onebot.MessageEvent) error {
	switch ev.RawMessage {
	case "hello":
		res := d.bot.ReplyQuote(ctx, ev, "Hi there!")
		if res.Delivered() && d.recallAfter > 0 {
			d.recall(context.WithoutCancel(ctx), res.MessageID)
		}
	case "love":
		d.bot.SendPrivateMessage(ctx, ev.UserID, []any{"爱你哟 ", onebot.FaceSegment(66)})
	case "壁纸":
		d.bot.Reply(ctx, ev, onebot.ImageSegment(d.cfg.WallpaperURL))
	case "一言":
		text, err := d.hitokoto(ctx)
		if err != nil {
			return fmt.Errorf("hitokoto: %w", err)
		}
		d.bot.Reply(ctx, ev, text)
	}
	return nil
}

func (d *Demo) recall(ctx context.Context, messageID int64) {
	time.AfterFunc(d.recallAfter, func() {
		d.bot.DeleteMessage(ctx, messageID)
	})
}

func (d *Demo) hitokoto(ctx context.Context) (string, error) {
	body, err := botutil.Fetch(ctx, d.client, d.cfg.HitokotoURL)
	if err != nil {
		return "", err
	}
	var out struct {
		Hitokoto string `json:"hitokoto"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if out.Hitokoto == "" {
		return "", errors.New("empty hitokoto")
	}
	return out.Hitokoto, nil
}

func (d *Demo) onRequest(ctx context.Context, ev *onebot.RequestEvent) error {
	slog.Info("demo: request", "type", ev.RequestType, "sub_type", ev.SubType, "group", ev.GroupID, "user", ev.UserID)
	if ev.RequestType == "group" && d.cfg.AutoApproveGroup {
		if d.bot.ApproveGroupJoinRequest(ctx, ev.Flag, true, "") {
			slog.Info("demo: group request approved", "group", ev.GroupID, "user", ev.UserID)
		}
	}
	return nil
}
