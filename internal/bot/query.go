package bot

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// IsAtBot reports whether the bot's own account is among the mentions of ev.
// The bot id is fetched on every call.
func (b *Bot) IsAtBot(ctx context.Context, ev *onebot.MessageEvent) bool {
	ats := onebot.Ats(ev)
	if len(ats) == 0 {
		return false
	}
	info, err := b.api.GetLoginInfo(ctx)
	if err != nil {
		slog.Warn("bot: login info lookup failed", "err", err)
		return false
	}
	return slices.Contains(ats, info.UserID)
}

// GetQuoteMessage fetches the message ev replies to, or nil.
func (b *Bot) GetQuoteMessage(ctx context.Context, ev *onebot.MessageEvent) *onebot.MessageDetail {
	id, ok := onebot.ReplyMessageID(ev)
	if !ok {
		return nil
	}
	msg, err := b.api.GetMsg(ctx, id)
	if err != nil {
		slog.Warn("bot: quoted message lookup failed", "message_id", id, "err", err)
		return nil
	}
	return msg
}

// GetQuotedText returns the raw text of the message ev replies to, or "".
func (b *Bot) GetQuotedText(ctx context.Context, ev *onebot.MessageEvent) string {
	msg := b.GetQuoteMessage(ctx, ev)
	if msg == nil {
		return ""
	}
	if msg.RawMessage != "" {
		return msg.RawMessage
	}
	return onebot.PlainText(msg.Message)
}

// GetImageLink returns the first image url of ev, or of the message it
// replies to when ev itself has none. Lookup failures yield "".
func (b *Bot) GetImageLink(ctx context.Context, ev *onebot.MessageEvent) string {
	if ev == nil {
		return ""
	}
	if u := onebot.FirstImageURL(ev.Message); u != "" {
		return u
	}
	if msg := b.GetQuoteMessage(ctx, ev); msg != nil {
		return onebot.FirstImageURL(msg.Message)
	}
	return ""
}

// GetTemporaryDirectLink returns the first image url of the quoted message.
// Such urls expire; see GetDynamicDirectLink.
func (b *Bot) GetTemporaryDirectLink(ctx context.Context, ev *onebot.MessageEvent) string {
	msg := b.GetQuoteMessage(ctx, ev)
	if msg == nil {
		return ""
	}
	return onebot.FirstImageURL(msg.Message)
}

var (
	reAppID = regexp.MustCompile(`appid=(\d+)`)
	reRKey  = regexp.MustCompile(`&rkey=[^&]*`)
)

// rkey list index per image appid: private images use the first key, group
// images the second.
var rkeyIndex = map[string]int{"1406": 0, "1407": 1}

// GetDynamicDirectLink rewrites a QQ image url with the current rkey so it
// stays fetchable. Any failure yields "".
func (b *Bot) GetDynamicDirectLink(ctx context.Context, url string) string {
	m := reAppID.FindStringSubmatch(url)
	if m == nil {
		slog.Warn("bot: no appid in image url", "url", url)
		return ""
	}
	idx, ok := rkeyIndex[m[1]]
	if !ok {
		slog.Warn("bot: unsupported image appid", "appid", m[1])
		return ""
	}

	keys, err := b.api.GetRKeyList(ctx)
	if err != nil {
		slog.Error("bot: rkey lookup failed", "err", err)
		return ""
	}
	if idx >= len(keys) || keys[idx].RKey == "" {
		slog.Warn("bot: rkey missing", "appid", m[1])
		return ""
	}

	rkey := keys[idx].RKey
	if !strings.HasPrefix(rkey, "&rkey=") {
		rkey = "&rkey=" + rkey
	}
	return reRKey.ReplaceAllString(url, "") + rkey
}
