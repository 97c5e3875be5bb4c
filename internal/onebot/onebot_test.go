package onebot

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ─── ParseEvent ───────────────────────────────────────────────────────────────

func TestParseEvent_GroupMessage(t *testing.T) {
	raw := []byte(`{
		"post_type":"message","message_type":"group","sub_type":"normal",
		"message_id":1001,"group_id":42,"user_id":7,
		"sender":{"user_id":7,"nickname":"n","role":"member"},
		"message":[{"type":"reply","data":{"id":"55"}},{"type":"at","data":{"qq":123}},{"type":"text","data":{"text":"  科目一 "}}],
		"raw_message":"[CQ:reply,id=55]科目一"}`)

	ev, err := ParseEvent(raw)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	msg, ok := ev.(*MessageEvent)
	if !ok {
		t.Fatalf("expected *MessageEvent, got %T", ev)
	}
	if !msg.IsGroup() || msg.GroupID != 42 || msg.UserID != 7 || msg.MessageID != 1001 {
		t.Errorf("unexpected header fields: %+v", msg)
	}
	if got := Text(msg); got != "科目一" {
		t.Errorf("Text = %q, want %q", got, "科目一")
	}
	if got := ReplyID(msg); got != "55" {
		t.Errorf("ReplyID = %q, want 55", got)
	}
	if id, ok := FirstAt(msg); !ok || id != 123 {
		t.Errorf("FirstAt = %d,%v, want 123,true", id, ok)
	}
	want := []string{"message", "message.group", "message.group.normal"}
	if got := msg.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
}

func TestParseEvent_StringBodyIsEmpty(t *testing.T) {
	raw := []byte(`{"post_type":"message","message_type":"private","user_id":7,"message":"hello","raw_message":"hello"}`)
	ev, err := ParseEvent(raw)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	msg := ev.(*MessageEvent)
	if len(msg.Message) != 0 {
		t.Errorf("expected empty segments for string body, got %v", msg.Message)
	}
	if Text(msg) != "" {
		t.Errorf("expected empty text")
	}
	if msg.RawMessage != "hello" {
		t.Errorf("raw message lost: %q", msg.RawMessage)
	}
}

func TestParseEvent_NoticeAndRequest(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"post_type":"notice","notice_type":"group_increase","sub_type":"approve","group_id":1,"user_id":2}`))
	if err != nil {
		t.Fatalf("notice: %v", err)
	}
	n := ev.(*NoticeEvent)
	if n.PostType() != PostNotice || len(n.Raw) == 0 {
		t.Errorf("unexpected notice: %+v", n)
	}
	if got := n.Categories(); got[1] != "notice.group_increase" {
		t.Errorf("Categories = %v", got)
	}

	ev, err = ParseEvent([]byte(`{"post_type":"request","request_type":"group","sub_type":"add","group_id":1,"user_id":2,"flag":"f1"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	r := ev.(*RequestEvent)
	if r.Flag != "f1" || r.Categories()[1] != "request.group" {
		t.Errorf("unexpected request: %+v", r)
	}
}

func TestParseEvent_MetaNotDispatchable(t *testing.T) {
	_, err := ParseEvent([]byte(`{"post_type":"meta_event","meta_event_type":"heartbeat"}`))
	if !errors.Is(err, ErrNotDispatchable) {
		t.Fatalf("expected ErrNotDispatchable, got %v", err)
	}
	if _, err := ParseEvent([]byte(`{"post_type":"bogus"}`)); err == nil {
		t.Fatal("expected error for unknown post_type")
	}
	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

// ─── Segments ────────────────────────────────────────────────────────────────

func TestSegments_MarshalWireFormat(t *testing.T) {
	segs := Compose(ReplySegment(9), "hi", ImageSegment("base64://AAAA"))
	data, err := json.Marshal(segs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`{"data":{"id":"9"},"type":"reply"}`,
		`{"data":{"text":"hi"},"type":"text"}`,
		`{"data":{"file":"base64://AAAA"},"type":"image"}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("marshalled %s missing %s", got, want)
		}
	}
}

func TestSegments_UnknownKindPreserved(t *testing.T) {
	var segs Segments
	if err := json.Unmarshal([]byte(`[{"type":"json","data":{"data":"{}"}}]`), &segs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	u, ok := segs[0].(Unknown)
	if !ok || u.Kind() != "json" {
		t.Fatalf("expected Unknown json segment, got %#v", segs[0])
	}
	data, err := json.Marshal(segs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"type":"json"`) {
		t.Errorf("unknown kind lost on marshal: %s", data)
	}
}

// ─── Compose ─────────────────────────────────────────────────────────────────

func TestCompose_NormalizesMixedContent(t *testing.T) {
	got := Compose("a", []any{AtSegment(5), "b"}, nil, Segments{FaceSegment(66)}, 7)
	kinds := make([]string, 0, len(got))
	for _, s := range got {
		kinds = append(kinds, s.Kind())
	}
	want := []string{KindText, KindAt, KindText, KindFace, KindText}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if got[4].(Text).Text != "7" {
		t.Errorf("expected fmt rendering of 7, got %q", got[4].(Text).Text)
	}
}

// ─── Extraction ──────────────────────────────────────────────────────────────

func TestExtraction_Sentinels(t *testing.T) {
	ev := &MessageEvent{Message: Segments{Image{File: "x"}, At{QQ: "all"}}}
	if Text(ev) != "" || ReplyID(ev) != "" {
		t.Error("expected empty sentinels")
	}
	if _, ok := FirstAt(ev); ok {
		t.Error("@all should not count as a numeric mention")
	}
	if FirstImageURL(ev.Message) != "" {
		t.Error("image without url should yield empty")
	}
	if Text(nil) != "" || Ats(nil) != nil {
		t.Error("nil event should yield sentinels")
	}
	if _, ok := ReplyMessageID(&MessageEvent{Message: Segments{Reply{ID: "abc"}}}); ok {
		t.Error("non-numeric reply id should not parse")
	}
}

func TestAvatarLinks(t *testing.T) {
	if got := GroupAvatarLink(123, 0); got != "https://p.qlogo.cn/gh/123/123/40" {
		t.Errorf("GroupAvatarLink = %s", got)
	}
	if got := UserAvatarLink(456, 640); got != "https://q2.qlogo.cn/headimg_dl?dst_uin=456&spec=640" {
		t.Errorf("UserAvatarLink = %s", got)
	}
}
