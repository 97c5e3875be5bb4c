// Package onebot models OneBot11 events, message segments and action results.
package onebot

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Post types carried in the "post_type" field.
const (
	PostMessage   = "message"
	PostNotice    = "notice"
	PostRequest   = "request"
	PostMetaEvent = "meta_event"
)

// Message types of a message event.
const (
	MessageGroup   = "group"
	MessagePrivate = "private"
)

// ErrNotDispatchable is returned by ParseEvent for frames that are valid
// OneBot posts but never reach plugins (meta events, self-sent echoes).
var ErrNotDispatchable = errors.New("onebot: event is not dispatchable")

// Event is an inbound event. Implemented by *MessageEvent, *NoticeEvent and
// *RequestEvent only.
type Event interface {
	PostType() string
	// Categories lists the dispatch categories this event belongs to, from the
	// most generic ("message") to the most specific ("message.group.normal").
	Categories() []string
	isEvent()
}

type Sender struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Card     string `json:"card,omitempty"`
	Role     string `json:"role,omitempty"`
}

// MessageEvent is a group or private chat message. GroupID is zero for
// private messages.
type MessageEvent struct {
	Time        int64    `json:"time"`
	SelfID      int64    `json:"self_id"`
	MessageType string   `json:"message_type"`
	SubType     string   `json:"sub_type"`
	MessageID   int64    `json:"message_id"`
	GroupID     int64    `json:"group_id,omitempty"`
	UserID      int64    `json:"user_id"`
	Sender      Sender   `json:"sender"`
	Message     Segments `json:"message"`
	RawMessage  string   `json:"raw_message"`
}

func (*MessageEvent) PostType() string { return PostMessage }
func (*MessageEvent) isEvent()         {}

func (e *MessageEvent) Categories() []string {
	return categories(PostMessage, e.MessageType, e.SubType)
}

func (e *MessageEvent) IsGroup() bool   { return e.MessageType == MessageGroup }
func (e *MessageEvent) IsPrivate() bool { return e.MessageType == MessagePrivate }

// NoticeEvent covers group membership changes, recalls, pokes and the like.
// Raw keeps the full frame for notice-specific fields.
type NoticeEvent struct {
	Time       int64           `json:"time"`
	SelfID     int64           `json:"self_id"`
	NoticeType string          `json:"notice_type"`
	SubType    string          `json:"sub_type"`
	GroupID    int64           `json:"group_id,omitempty"`
	UserID     int64           `json:"user_id"`
	OperatorID int64           `json:"operator_id,omitempty"`
	TargetID   int64           `json:"target_id,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

func (*NoticeEvent) PostType() string { return PostNotice }
func (*NoticeEvent) isEvent()         {}

func (e *NoticeEvent) Categories() []string {
	return categories(PostNotice, e.NoticeType, e.SubType)
}

// RequestEvent is a friend or group-join request. Flag is the opaque token
// passed back when approving or rejecting.
type RequestEvent struct {
	Time        int64  `json:"time"`
	SelfID      int64  `json:"self_id"`
	RequestType string `json:"request_type"`
	SubType     string `json:"sub_type"`
	GroupID     int64  `json:"group_id,omitempty"`
	UserID      int64  `json:"user_id"`
	Comment     string `json:"comment"`
	Flag        string `json:"flag"`
}

func (*RequestEvent) PostType() string { return PostRequest }
func (*RequestEvent) isEvent()         {}

func (e *RequestEvent) Categories() []string {
	return categories(PostRequest, e.RequestType, e.SubType)
}

func categories(post, detail, sub string) []string {
	out := []string{post}
	if detail == "" {
		return out
	}
	out = append(out, post+"."+detail)
	if sub != "" {
		out = append(out, post+"."+detail+"."+sub)
	}
	return out
}

// ParseEvent decodes one inbound post frame.
func ParseEvent(raw []byte) (Event, error) {
	var head struct {
		PostType string `json:"post_type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch head.PostType {
	case PostMessage:
		var ev MessageEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode message event: %w", err)
		}
		return &ev, nil
	case PostNotice:
		var ev NoticeEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode notice event: %w", err)
		}
		ev.Raw = append(json.RawMessage(nil), raw...)
		return &ev, nil
	case PostRequest:
		var ev RequestEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode request event: %w", err)
		}
		return &ev, nil
	case PostMetaEvent, "message_sent":
		return nil, ErrNotDispatchable
	default:
		return nil, fmt.Errorf("decode event: unknown post_type %q", head.PostType)
	}
}
