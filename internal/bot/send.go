package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wwcxin/cyberbot-new/internal/gateway"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// Reply sends content back to where ev came from: the group for group
// messages, the sender for private ones. content is normalized with
// onebot.Compose.
func (b *Bot) Reply(ctx context.Context, ev *onebot.MessageEvent, content any) onebot.SendResult {
	return b.reply(ctx, ev, content, false)
}

// ReplyQuote is Reply with the original message quoted.
func (b *Bot) ReplyQuote(ctx context.Context, ev *onebot.MessageEvent, content any) onebot.SendResult {
	return b.reply(ctx, ev, content, true)
}

func (b *Bot) reply(ctx context.Context, ev *onebot.MessageEvent, content any, quote bool) onebot.SendResult {
	if ev == nil {
		slog.Warn("bot: reply without event")
		return onebot.SendResult{}
	}

	msg := onebot.Compose(content)
	if quote {
		msg = append(onebot.Segments{onebot.ReplySegment(ev.MessageID)}, msg...)
	}

	var (
		res onebot.SendResult
		err error
	)
	switch {
	case ev.IsGroup() && ev.GroupID != 0:
		res, err = b.api.SendGroupMsg(ctx, ev.GroupID, msg)
	case ev.IsPrivate() && ev.UserID != 0:
		res, err = b.api.SendPrivateMsg(ctx, ev.UserID, msg)
	default:
		slog.Warn("bot: cannot route reply", "message_type", ev.MessageType, "group", ev.GroupID, "user", ev.UserID)
		return onebot.SendResult{}
	}
	if err != nil {
		slog.Error("bot: reply failed", "message_type", ev.MessageType, "group", ev.GroupID, "user", ev.UserID, "err", err)
		return onebot.SendResult{}
	}
	return res
}

// SendPrivateMessage sends content to a user.
func (b *Bot) SendPrivateMessage(ctx context.Context, userID int64, content any) onebot.SendResult {
	res, err := b.api.SendPrivateMsg(ctx, userID, onebot.Compose(content))
	if err != nil {
		slog.Error("bot: private send failed", "user", userID, "err", err)
		return onebot.SendResult{}
	}
	slog.Info("bot: private message sent", "user", userID, "message_id", res.MessageID)
	return res
}

// SendGroupMessage sends content to a group.
func (b *Bot) SendGroupMessage(ctx context.Context, groupID int64, content any) onebot.SendResult {
	res, err := b.api.SendGroupMsg(ctx, groupID, onebot.Compose(content))
	if err != nil {
		slog.Error("bot: group send failed", "group", groupID, "err", err)
		return onebot.SendResult{}
	}
	slog.Info("bot: group message sent", "group", groupID, "message_id", res.MessageID)
	return res
}

// FakeMessage sends a batch of forward nodes to a group (isGroup) or a user.
// Unlike the other sends its failure is returned.
func (b *Bot) FakeMessage(ctx context.Context, target int64, nodes []onebot.Node, isGroup bool) (onebot.ForwardResult, error) {
	segs := make(onebot.Segments, 0, len(nodes))
	for _, n := range nodes {
		segs = append(segs, n)
	}
	t := gateway.ForwardTarget{UserID: target}
	if isGroup {
		t = gateway.ForwardTarget{GroupID: target}
	}
	res, err := b.api.SendForwardMsg(ctx, t, segs)
	if err != nil {
		slog.Error("bot: forward send failed", "target", target, "group", isGroup, "err", err)
		return onebot.ForwardResult{}, fmt.Errorf("send forward message to %d: %w", target, err)
	}
	return res, nil
}

// DeleteMessage recalls a message.
func (b *Bot) DeleteMessage(ctx context.Context, messageID int64) bool {
	if err := b.api.DeleteMsg(ctx, messageID); err != nil {
		slog.Error("bot: delete message failed", "message_id", messageID, "err", err)
		return false
	}
	return true
}
