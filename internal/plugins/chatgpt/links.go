package chatgpt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/wwcxin/cyberbot-new/internal/shared/botutil"
	"github.com/wwcxin/cyberbot-new/internal/shared/stringutils"
)

var reLink = regexp.MustCompile(`https?://[^\s<>"]+`)

// withLinkContext appends the readable text of the first link in prompt.
// Any fetch or extraction failure leaves prompt unchanged.
func (c *ChatGPT) withLinkContext(ctx context.Context, prompt string) string {
	if !c.cfg.FetchLinks {
		return prompt
	}
	link := reLink.FindString(prompt)
	if link == "" {
		return prompt
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return prompt
	}

	body, err := botutil.Fetch(ctx, c.web, link)
	if err != nil {
		slog.Warn("chatgpt: link fetch failed", "url", link, "err", err)
		return prompt
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		slog.Warn("chatgpt: link extraction failed", "url", link, "err", err)
		return prompt
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return prompt
	}
	return fmt.Sprintf("%s\n\n链接内容（%s）：\n%s", prompt, article.Title, stringutils.Truncate(text, c.cfg.LinkMaxChars))
}
