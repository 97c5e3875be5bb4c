package demo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/gateway/gatewaytest"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/permission"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
)

func newDemo(t *testing.T) (*Demo, *gatewaytest.Fake) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hitokoto":"山重水复疑无路","from":"游山西村"}`))
	}))
	t.Cleanup(srv.Close)

	fake := gatewaytest.New()
	b := bot.New(fake, permission.NewResolver(filepath.Join(t.TempDir(), "none.json")))
	cfg := DefaultConfig()
	cfg.HitokotoURL = srv.URL
	d := New(b, cfg)
	d.recallAfter = 10 * time.Millisecond
	return d, fake
}

func say(t *testing.T, d *Demo, text string) {
	t.Helper()
	ev := &onebot.MessageEvent{
		MessageType: onebot.MessageGroup,
		MessageID:   9,
		GroupID:     10,
		UserID:      20,
		Message:     onebot.Compose(text),
		RawMessage:  text,
	}
	if err := d.Plugin().Handlers[plugin.OnMessage](context.Background(), ev); err != nil {
		t.Fatalf("handler(%q): %v", text, err)
	}
}

// ─── Messages ────────────────────────────────────────────────────────────────

func TestHello_QuotesThenRecalls(t *testing.T) {
	d, fake := newDemo(t)
	say(t, d, "hello")

	sends := fake.CallsTo("send_group_msg")
	if len(sends) != 1 || onebot.PlainText(sends[0].Message) != "Hi there!" {
		t.Fatalf("expected quoted greeting, got %+v", sends)
	}
	if _, ok := sends[0].Message[0].(onebot.Reply); !ok {
		t.Error("greeting should quote the message")
	}

	deletes := fake.WaitFor("delete_msg", 1, 2*time.Second)
	if len(deletes) != 1 || deletes[0].Args["message_id"] != int64(1001) {
		t.Fatalf("expected recall of 1001, got %+v", deletes)
	}
}

func TestLove_SendsPrivately(t *testing.T) {
	d, fake := newDemo(t)
	say(t, d, "love")
	calls := fake.CallsTo("send_private_msg")
	if len(calls) != 1 || calls[0].UserID != 20 {
		t.Fatalf("expected private send to 20, got %+v", fake.Calls())
	}
	if face, ok := calls[0].Message[len(calls[0].Message)-1].(onebot.Face); !ok || face.ID != "66" {
		t.Errorf("expected trailing face 66, got %#v", calls[0].Message)
	}
}

func TestWallpaperAndHitokoto(t *testing.T) {
	d, fake := newDemo(t)
	say(t, d, "壁纸")
	say(t, d, "一言")

	calls := fake.CallsTo("send_group_msg")
	if len(calls) != 2 {
		t.Fatalf("expected two replies, got %d", len(calls))
	}
	if img, ok := calls[0].Message[0].(onebot.Image); !ok || img.File != DefaultConfig().WallpaperURL {
		t.Errorf("wallpaper reply = %#v", calls[0].Message)
	}
	if got := onebot.PlainText(calls[1].Message); got != "山重水复疑无路" {
		t.Errorf("hitokoto reply = %q", got)
	}
}

func TestUnknownTextIsIgnored(t *testing.T) {
	d, fake := newDemo(t)
	say(t, d, "hello there")
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no actions, got %+v", fake.Calls())
	}
}

// ─── Requests ────────────────────────────────────────────────────────────────

func TestGroupRequest_AutoApproved(t *testing.T) {
	d, fake := newDemo(t)
	h := d.Plugin().Handlers[plugin.OnRequest]

	h(context.Background(), &onebot.RequestEvent{RequestType: "friend", Flag: "f1"})
	h(context.Background(), &onebot.RequestEvent{RequestType: "group", SubType: "add", GroupID: 10, UserID: 3, Flag: "g1"})

	calls := fake.CallsTo("set_group_add_request")
	if len(calls) != 1 || calls[0].Args["flag"] != "g1" || calls[0].Args["approve"] != true {
		t.Fatalf("expected one approval for g1, got %+v", calls)
	}
}
