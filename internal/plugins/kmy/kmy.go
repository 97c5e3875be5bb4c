// Package kmy is the 科目一 driving-theory quiz. A member sends the command,
// gets a random question, and the next A-D answer from the same member in
// the same group is graded.
package kmy

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/session"
)

const Name = "科目一"

const (
	msgBankFailed = "题库加载失败，请稍后重试"
	msgBusy       = "您正在答题中，请先回答当前题目或等待超时"
)

var reAnswer = regexp.MustCompile(`^[A-Da-d]+$`)

// Config is read from kmy.yaml.
type Config struct {
	Command      string `yaml:"command"`
	BankFile     string `yaml:"bankFile"`
	TTLSeconds   int    `yaml:"ttlSeconds"`
	SweepSeconds int    `yaml:"sweepSeconds"`
}

func DefaultConfig() Config {
	return Config{Command: "科目一", TTLSeconds: 300, SweepSeconds: 60}
}

// Replier is the part of the bot the quiz needs.
type Replier interface {
	Reply(ctx context.Context, ev *onebot.MessageEvent, content any) onebot.SendResult
}

type Quiz struct {
	bot   Replier
	cfg   Config
	bank  *Bank
	store *session.Store[Question]
}

func New(bot Replier, cfg Config, opts ...session.Option) *Quiz {
	if cfg.Command == "" {
		cfg.Command = DefaultConfig().Command
	}
	opts = append([]session.Option{
		session.WithTTL(time.Duration(cfg.TTLSeconds) * time.Second),
		session.WithSweepInterval(time.Duration(cfg.SweepSeconds) * time.Second),
	}, opts...)
	return &Quiz{
		bot:   bot,
		cfg:   cfg,
		bank:  NewBank(cfg.BankFile),
		store: session.NewStore[Question](Name, opts...),
	}
}

// Store exposes the answer sessions.
func (q *Quiz) Store() *session.Store[Question] { return q.store }

// Plugin returns the descriptor registered with the host.
func (q *Quiz) Plugin() *plugin.Plugin {
	return &plugin.Plugin{
		Name:        Name,
		Version:     "1.0.0",
		Description: "科目一练习",
		Handlers: map[plugin.Category]plugin.Handler{
			plugin.OnGroupMessage: plugin.MessageHandler(q.onGroupMessage),
		},
		Crons: func(register plugin.CronRegistrar) {
			register(fmt.Sprintf("@every %s", q.store.SweepInterval()), func(context.Context) error {
				q.store.Sweep()
				return nil
			})
		},
	}
}

func (q *Quiz) onGroupMessage(ctx context.Context, ev *onebot.MessageEvent) error {
	text := strings.TrimSpace(ev.RawMessage)
	if text == "" {
		text = strings.TrimSpace(onebot.PlainText(ev.Message))
	}
	key := session.Key{GroupID: ev.GroupID, UserID: ev.UserID}

	if text == q.cfg.Command {
		q.start(ctx, ev, key)
		return nil
	}

	st, ok := q.store.Get(key)
	if !ok || !st.Waiting {
		return nil
	}
	answer := strings.ToUpper(text)
	if !reAnswer.MatchString(answer) {
		return nil
	}

	correct := CheckAnswer(answer, st.Payload.Answer)
	q.bot.Reply(ctx, ev, Feedback(correct, st.Payload))
	q.store.Delete(key)

	slog.Info("kmy: answered", "group", ev.GroupID, "user", ev.UserID, "question", st.Payload.ID,
		"answer", answer, "correct", correct)
	return nil
}

func (q *Quiz) start(ctx context.Context, ev *onebot.MessageEvent, key session.Key) {
	question, err := q.bank.Random()
	if err != nil {
		slog.Error("kmy: question bank unavailable", "err", err)
		q.bot.Reply(ctx, ev, msgBankFailed)
		return
	}
	if q.store.Waiting(key) {
		q.bot.Reply(ctx, ev, msgBusy)
		return
	}

	q.store.Set(key, question, true)
	slog.Info("kmy: question sent", "group", ev.GroupID, "user", ev.UserID, "question", question.ID)
	q.bot.Reply(ctx, ev, QuestionMessage(question))
}
