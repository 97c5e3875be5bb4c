package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wwcxin/cyberbot-new/internal/bot"
	"github.com/wwcxin/cyberbot-new/internal/gateway/gatewaytest"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
	"github.com/wwcxin/cyberbot-new/internal/permission"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
)

type completionServer struct {
	mu      sync.Mutex
	reply   string
	status  int
	prompts []string
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	for _, m := range req.Messages {
		if m.Role == "user" {
			s.prompts = append(s.prompts, m.Content)
		}
	}
	status, reply := s.status, s.reply
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": reply},
		}},
		"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
	})
}

func newChat(t *testing.T, srv *completionServer) (*ChatGPT, *gatewaytest.Fake) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	fake := gatewaytest.New()
	b := bot.New(fake, permission.NewResolver(filepath.Join(t.TempDir(), "none.json")))
	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL + "/v1/"
	cfg.APIKey = "sk-test"
	cfg.MaxRetries = 0
	cfg.BlockedGroups = []int64{99}
	return New(b, cfg), fake
}

func groupMsg(group int64, segs ...any) *onebot.MessageEvent {
	return &onebot.MessageEvent{
		MessageType: onebot.MessageGroup,
		MessageID:   77,
		GroupID:     group,
		UserID:      5,
		Message:     onebot.Compose(segs...),
	}
}

func handle(t *testing.T, c *ChatGPT, ev *onebot.MessageEvent) {
	t.Helper()
	if err := c.Plugin().Handlers[plugin.OnMessage](context.Background(), ev); err != nil {
		t.Fatalf("handler: %v", err)
	}
}

// ─── Prompt selection ────────────────────────────────────────────────────────

func TestAsk_RepliesWithCompletion(t *testing.T) {
	srv := &completionServer{reply: "<think>hmm</think>答案是 42"}
	c, fake := newChat(t, srv)

	handle(t, c, groupMsg(10, ".gpt 生命的意义"))

	calls := fake.CallsTo("send_group_msg")
	if len(calls) != 1 {
		t.Fatalf("expected one reply, got %+v", fake.Calls())
	}
	if got := onebot.PlainText(calls[0].Message); got != "答案是 42" {
		t.Errorf("reply = %q", got)
	}
	if _, ok := calls[0].Message[0].(onebot.Reply); !ok {
		t.Error("answer should quote the question")
	}
	if len(srv.prompts) != 1 || srv.prompts[0] != "生命的意义" {
		t.Errorf("prompts = %v", srv.prompts)
	}
}

func TestAsk_UsesQuotedText(t *testing.T) {
	srv := &completionServer{reply: "ok"}
	c, fake := newChat(t, srv)
	fake.Messages[300] = onebot.MessageDetail{MessageID: 300, RawMessage: "被引用的问题"}

	handle(t, c, groupMsg(10, onebot.ReplySegment(300), ".gpt"))

	if len(srv.prompts) != 1 || srv.prompts[0] != "被引用的问题" {
		t.Errorf("prompts = %v", srv.prompts)
	}
}

func TestAsk_Ignored(t *testing.T) {
	srv := &completionServer{reply: "ok"}
	c, fake := newChat(t, srv)

	handle(t, c, groupMsg(10, "hello"))
	handle(t, c, groupMsg(10, ".gpt"))
	handle(t, c, groupMsg(99, ".gpt blocked group"))

	if len(srv.prompts) != 0 {
		t.Errorf("no completion expected, got %v", srv.prompts)
	}
	if len(fake.CallsTo("send_group_msg")) != 0 {
		t.Error("no reply expected")
	}
}

// ─── Failures ────────────────────────────────────────────────────────────────

func TestAsk_EmptyCompletion(t *testing.T) {
	c, fake := newChat(t, &completionServer{reply: "<think>only thinking</think>"})
	handle(t, c, groupMsg(10, ".gpt hi"))
	calls := fake.CallsTo("send_group_msg")
	if len(calls) != 1 || onebot.PlainText(calls[0].Message) != msgEmpty {
		t.Fatalf("expected empty notice, got %+v", calls)
	}
}

func TestAsk_APIError(t *testing.T) {
	c, fake := newChat(t, &completionServer{status: http.StatusInternalServerError})
	handle(t, c, groupMsg(10, ".gpt hi"))
	calls := fake.CallsTo("send_group_msg")
	if len(calls) != 1 || onebot.PlainText(calls[0].Message) != msgFailed {
		t.Fatalf("expected failure notice, got %+v", calls)
	}
}

// ─── Link context ────────────────────────────────────────────────────────────

const articleHTML = `<!DOCTYPE html><html><head><title>海豚观察报告</title></head><body>
<nav><a href="/">首页</a></nav>
<article>
<h1>海豚观察报告</h1>
<p>Bottlenose dolphins were observed near the harbour entrance for the third consecutive morning, travelling in a pod of roughly twelve animals including two calves.</p>
<p>Researchers noted that the pod spent most of the observation window feeding along the sandbar, with frequent breaching behaviour recorded shortly after sunrise each day.</p>
<p>The survey team plans to continue photographing dorsal fins so that individual animals can be matched against the existing regional identification catalogue.</p>
</article>
<footer>版权所有</footer>
</body></html>`

func TestAsk_AppendsLinkedArticle(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer page.Close()

	srv := &completionServer{reply: "summary"}
	c, _ := newChat(t, srv)
	handle(t, c, groupMsg(10, ".gpt 总结一下 "+page.URL+"/post"))

	if len(srv.prompts) != 1 {
		t.Fatalf("prompts = %v", srv.prompts)
	}
	if !strings.Contains(srv.prompts[0], "sandbar") {
		t.Errorf("prompt should carry the article text, got %q", srv.prompts[0])
	}
}

func TestAsk_LinkFailureKeepsPrompt(t *testing.T) {
	srv := &completionServer{reply: "ok"}
	c, _ := newChat(t, srv)
	handle(t, c, groupMsg(10, ".gpt 看看 http://127.0.0.1:1/none"))

	if len(srv.prompts) != 1 || srv.prompts[0] != "看看 http://127.0.0.1:1/none" {
		t.Errorf("prompts = %v", srv.prompts)
	}
}
