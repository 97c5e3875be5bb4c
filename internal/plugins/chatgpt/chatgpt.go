// Package chatgpt answers ".gpt <question>" with an OpenAI-compatible chat
// completion. Quoting a message with a bare ".gpt" asks about the quoted text.
package chatgpt

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/shared/botutil"
	"github.com/wwcxin/cyberbot-new/internal/shared/stringutils"
)

const Name = "chatgpt"

const (
	msgEmpty  = "AI 返回内容为空"
	msgFailed = "AI 请求失败，请稍后重试"

	apiKeyEnv = "MODELSCOPE_API_KEY"
)

const defaultSystemPrompt = "请你扮演一个在 QQ 群里进行互动的全能问答机器人，你拥有海量的知识储备，" +
	"可以极其熟练、正确的回答各种问题，你的回答生动而形象，回复内容中恰到好处地插入许多 emoji，得体而不胡哨。" +
	"除非群友特殊说明，请尽可能使用中文回复。接下来请你回复或解答以下群友的问题，请直接回复下列内容："

// Config is read from chatgpt.yaml. An empty APIKey falls back to
// $MODELSCOPE_API_KEY.
type Config struct {
	Trigger        string  `yaml:"trigger"`
	BaseURL        string  `yaml:"baseUrl"`
	APIKey         string  `yaml:"apiKey"`
	Model          string  `yaml:"model"`
	SystemPrompt   string  `yaml:"systemPrompt"`
	BlockedGroups  []int64 `yaml:"blockedGroups"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	MaxRetries     int     `yaml:"maxRetries"`
	// FetchLinks appends the readable text of a linked page to the prompt.
	FetchLinks   bool `yaml:"fetchLinks"`
	LinkMaxChars int  `yaml:"linkMaxChars"`
}

func DefaultConfig() Config {
	return Config{
		Trigger:        ".gpt",
		BaseURL:        "https://api.bltcy.ai/v1/",
		Model:          "gpt-5-mini",
		SystemPrompt:   defaultSystemPrompt,
		TimeoutSeconds: 120,
		MaxRetries:     2,
		FetchLinks:     true,
		LinkMaxChars:   4000,
	}
}

type ChatGPT struct {
	bot    *bot.Bot
	cfg    Config
	client openai.Client
	web    *http.Client
}

func New(b *bot.Bot, cfg Config) *ChatGPT {
	def := DefaultConfig()
	cfg.Trigger = stringutils.StringOrDefault(cfg.Trigger, def.Trigger)
	cfg.Model = stringutils.StringOrDefault(cfg.Model, def.Model)
	cfg.APIKey = stringutils.StringOrDefault(cfg.APIKey, os.Getenv(apiKeyEnv))
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.LinkMaxChars <= 0 {
		cfg.LinkMaxChars = def.LinkMaxChars
	}

	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	web, _ := botutil.NewHTTPClient(15*time.Second, "")
	return &ChatGPT{bot: b, cfg: cfg, client: openai.NewClient(opts...), web: web}
}

func (c *ChatGPT) Plugin() *plugin.Plugin {
	return &plugin.Plugin{
		Name:        Name,
		Version:     "1.0.0",
		Description: "chatgpt",
		Handlers: map[plugin.Category]plugin.Handler{
			plugin.OnMessage: plugin.MessageHandler(c.onMessage),
		},
	}
}

func (c *ChatGPT) onMessage(ctx context.Context, ev *onebot.MessageEvent) error {
	rest, ok := stringutils.CutCommand(onebot.Text(ev), c.cfg.Trigger)
	if !ok {
		return nil
	}
	if ev.IsGroup() && slices.Contains(c.cfg.BlockedGroups, ev.GroupID) {
		return nil
	}

	prompt := c.bot.GetQuotedText(ctx, ev)
	if prompt == "" {
		prompt = rest
	}
	if prompt == "" {
		return nil
	}

	answer, err := c.Complete(ctx, c.withLinkContext(ctx, prompt))
	if err != nil {
		slog.Error("chatgpt: completion failed", "model", c.cfg.Model, "err", err)
		c.bot.ReplyQuote(ctx, ev, msgFailed)
		return nil
	}
	if answer == "" {
		c.bot.Reply(ctx, ev, msgEmpty)
		return nil
	}
	c.bot.ReplyQuote(ctx, ev, answer)
	return nil
}

// Complete sends prompt after the system prompt and returns the first
// choice with any <think> block removed.
func (c *ChatGPT) Complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if c.cfg.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(c.cfg.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	slog.Debug("chatgpt: completion", "model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	return stringutils.StripThink(resp.Choices[0].Message.Content), nil
}
