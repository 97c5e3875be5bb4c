// Package gatewaytest provides an in-memory gateway.API for tests.
package gatewaytest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/gateway"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// ErrInjected is returned by actions listed in Fake.Fail.
var ErrInjected = errors.New("gatewaytest: injected failure")

// Call records one action invocation.
type Call struct {
	Action  string
	GroupID int64
	UserID  int64
	Message onebot.Segments
	Args    map[string]any
}

// Fake records every action and answers from its fields. Zero value is not
// usable; call New.
type Fake struct {
	mu    sync.Mutex
	calls []Call
	next  int64

	// Fail makes the named actions return ErrInjected.
	Fail map[string]bool

	LoginInfo  onebot.LoginInfo
	Groups     []onebot.GroupInfo
	Members    map[[2]int64]onebot.GroupMemberInfo
	Messages   map[int64]onebot.MessageDetail
	RKeys      []onebot.RKey
	ForwardRes onebot.ForwardResult
}

func New() *Fake {
	return &Fake{
		Fail:     make(map[string]bool),
		Members:  make(map[[2]int64]onebot.GroupMemberInfo),
		Messages: make(map[int64]onebot.MessageDetail),
		next:     1000,
	}
}

var _ gateway.API = (*Fake)(nil)

// Calls returns a snapshot of recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns recorded calls of one action.
func (f *Fake) CallsTo(action string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// WaitFor polls until at least n calls of action were recorded or the
// timeout elapses.
func (f *Fake) WaitFor(action string, n int, timeout time.Duration) []Call {
	deadline := time.Now().Add(timeout)
	for {
		calls := f.CallsTo(action)
		if len(calls) >= n || time.Now().After(deadline) {
			return calls
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (f *Fake) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.Fail[c.Action] {
		return ErrInjected
	}
	return nil
}

func (f *Fake) nextID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next
}

func (f *Fake) SendGroupMsg(_ context.Context, groupID int64, message onebot.Segments) (onebot.SendResult, error) {
	if err := f.record(Call{Action: "send_group_msg", GroupID: groupID, Message: message}); err != nil {
		return onebot.SendResult{}, err
	}
	return onebot.SendResult{MessageID: f.nextID()}, nil
}

func (f *Fake) SendPrivateMsg(_ context.Context, userID int64, message onebot.Segments) (onebot.SendResult, error) {
	if err := f.record(Call{Action: "send_private_msg", UserID: userID, Message: message}); err != nil {
		return onebot.SendResult{}, err
	}
	return onebot.SendResult{MessageID: f.nextID()}, nil
}

func (f *Fake) SendForwardMsg(_ context.Context, target gateway.ForwardTarget, nodes onebot.Segments) (onebot.ForwardResult, error) {
	if err := f.record(Call{Action: "send_forward_msg", GroupID: target.GroupID, UserID: target.UserID, Message: nodes}); err != nil {
		return onebot.ForwardResult{}, err
	}
	return f.ForwardRes, nil
}

func (f *Fake) DeleteMsg(_ context.Context, messageID int64) error {
	return f.record(Call{Action: "delete_msg", Args: map[string]any{"message_id": messageID}})
}

func (f *Fake) GetMsg(_ context.Context, messageID int64) (*onebot.MessageDetail, error) {
	if err := f.record(Call{Action: "get_msg", Args: map[string]any{"message_id": messageID}}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.Messages[messageID]
	if !ok {
		return nil, &gateway.ActionError{Action: "get_msg", RetCode: 1200, Message: "message not found"}
	}
	return &msg, nil
}

func (f *Fake) GetLoginInfo(context.Context) (*onebot.LoginInfo, error) {
	if err := f.record(Call{Action: "get_login_info"}); err != nil {
		return nil, err
	}
	info := f.LoginInfo
	return &info, nil
}

func (f *Fake) GetGroupList(context.Context) ([]onebot.GroupInfo, error) {
	if err := f.record(Call{Action: "get_group_list"}); err != nil {
		return nil, err
	}
	return append([]onebot.GroupInfo(nil), f.Groups...), nil
}

func (f *Fake) GetGroupMemberInfo(_ context.Context, groupID, userID int64) (*onebot.GroupMemberInfo, error) {
	if err := f.record(Call{Action: "get_group_member_info", GroupID: groupID, UserID: userID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.Members[[2]int64{groupID, userID}]
	if !ok {
		return nil, &gateway.ActionError{Action: "get_group_member_info", RetCode: 1200, Message: "member not found"}
	}
	return &info, nil
}

func (f *Fake) SetGroupKick(_ context.Context, groupID, userID int64, rejectAddRequest bool) error {
	return f.record(Call{Action: "set_group_kick", GroupID: groupID, UserID: userID,
		Args: map[string]any{"reject_add_request": rejectAddRequest}})
}

func (f *Fake) SetGroupBan(_ context.Context, groupID, userID int64, duration time.Duration) error {
	return f.record(Call{Action: "set_group_ban", GroupID: groupID, UserID: userID,
		Args: map[string]any{"duration": duration}})
}

func (f *Fake) SetGroupWholeBan(_ context.Context, groupID int64, enable bool) error {
	return f.record(Call{Action: "set_group_whole_ban", GroupID: groupID, Args: map[string]any{"enable": enable}})
}

func (f *Fake) SetGroupName(_ context.Context, groupID int64, name string) error {
	return f.record(Call{Action: "set_group_name", GroupID: groupID, Args: map[string]any{"group_name": name}})
}

func (f *Fake) SetGroupAdmin(_ context.Context, groupID, userID int64, enable bool) error {
	return f.record(Call{Action: "set_group_admin", GroupID: groupID, UserID: userID, Args: map[string]any{"enable": enable}})
}

func (f *Fake) SetGroupSpecialTitle(_ context.Context, groupID, userID int64, title string) error {
	return f.record(Call{Action: "set_group_special_title", GroupID: groupID, UserID: userID,
		Args: map[string]any{"special_title": title}})
}

func (f *Fake) SetGroupAddRequest(_ context.Context, flag string, approve bool, reason string) error {
	return f.record(Call{Action: "set_group_add_request",
		Args: map[string]any{"flag": flag, "approve": approve, "reason": reason}})
}

func (f *Fake) GetRKeyList(context.Context) ([]onebot.RKey, error) {
	if err := f.record(Call{Action: "nc_get_rkey"}); err != nil {
		return nil, err
	}
	return append([]onebot.RKey(nil), f.RKeys...), nil
}
