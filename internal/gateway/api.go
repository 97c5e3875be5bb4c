// Package gateway talks to a OneBot11 implementation (NapCat, Lagrange, ...).
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// ErrNotConnected is returned when an action is called with no live connection.
var ErrNotConnected = errors.New("gateway: not connected")

// ActionError is a OneBot response with status "failed".
type ActionError struct {
	Action  string
	RetCode int
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("gateway: %s failed (retcode %d): %s", e.Action, e.RetCode, e.Message)
}

// ForwardTarget addresses a forwarded message batch. Exactly one of GroupID
// and UserID is set.
type ForwardTarget struct {
	GroupID int64
	UserID  int64
}

// API is the set of OneBot actions the bot runtime relies on. Every call is a
// network round trip and may fail.
type API interface {
	SendGroupMsg(ctx context.Context, groupID int64, message onebot.Segments) (onebot.SendResult, error)
	SendPrivateMsg(ctx context.Context, userID int64, message onebot.Segments) (onebot.SendResult, error)
	SendForwardMsg(ctx context.Context, target ForwardTarget, nodes onebot.Segments) (onebot.ForwardResult, error)
	DeleteMsg(ctx context.Context, messageID int64) error
	GetMsg(ctx context.Context, messageID int64) (*onebot.MessageDetail, error)

	GetLoginInfo(ctx context.Context) (*onebot.LoginInfo, error)
	GetGroupList(ctx context.Context) ([]onebot.GroupInfo, error)
	GetGroupMemberInfo(ctx context.Context, groupID, userID int64) (*onebot.GroupMemberInfo, error)

	SetGroupKick(ctx context.Context, groupID, userID int64, rejectAddRequest bool) error
	SetGroupBan(ctx context.Context, groupID, userID int64, duration time.Duration) error
	SetGroupWholeBan(ctx context.Context, groupID int64, enable bool) error
	SetGroupName(ctx context.Context, groupID int64, name string) error
	SetGroupAdmin(ctx context.Context, groupID, userID int64, enable bool) error
	SetGroupSpecialTitle(ctx context.Context, groupID, userID int64, title string) error
	SetGroupAddRequest(ctx context.Context, flag string, approve bool, reason string) error

	// GetRKeyList returns the NapCat image rkeys (nc_get_rkey).
	GetRKeyList(ctx context.Context) ([]onebot.RKey, error)
}
