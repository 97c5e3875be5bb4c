package onebot

import (
	"strconv"
	"strings"
)

// Text returns the first text segment of ev, trimmed, or "".
func Text(ev *MessageEvent) string {
	if ev == nil {
		return ""
	}
	for _, seg := range ev.Message {
		if t, ok := seg.(Text); ok {
			return strings.TrimSpace(t.Text)
		}
	}
	return ""
}

// PlainText concatenates every text segment of segs.
func PlainText(segs Segments) string {
	var sb strings.Builder
	for _, seg := range segs {
		if t, ok := seg.(Text); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// ReplyID returns the trimmed id of the first reply segment of ev, or "".
func ReplyID(ev *MessageEvent) string {
	if ev == nil {
		return ""
	}
	for _, seg := range ev.Message {
		if r, ok := seg.(Reply); ok {
			return strings.TrimSpace(r.ID)
		}
	}
	return ""
}

// ReplyMessageID is ReplyID parsed as a message id.
func ReplyMessageID(ev *MessageEvent) (int64, bool) {
	id := ReplyID(ev)
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Ats returns the numeric targets of every mention in ev, in order.
// Mentions of "all" and malformed ids are skipped.
func Ats(ev *MessageEvent) []int64 {
	if ev == nil {
		return nil
	}
	var out []int64
	for _, seg := range ev.Message {
		at, ok := seg.(At)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(at.QQ), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// FirstAt returns the first mentioned user id.
func FirstAt(ev *MessageEvent) (int64, bool) {
	ats := Ats(ev)
	if len(ats) == 0 {
		return 0, false
	}
	return ats[0], true
}

// FirstImageURL returns the url of the first image segment in segs that has
// one, trimmed, or "".
func FirstImageURL(segs Segments) string {
	for _, seg := range segs {
		img, ok := seg.(Image)
		if !ok {
			continue
		}
		if u := strings.TrimSpace(img.URL); u != "" {
			return u
		}
	}
	return ""
}
