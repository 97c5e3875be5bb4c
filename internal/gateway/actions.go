package gateway

import (
	"context"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

var _ API = (*WSClient)(nil)

func (c *WSClient) SendGroupMsg(ctx context.Context, groupID int64, message onebot.Segments) (onebot.SendResult, error) {
	var res onebot.SendResult
	err := c.Call(ctx, "send_group_msg", map[string]any{
		"group_id": groupID,
		"message":  message,
	}, &res)
	return res, err
}

func (c *WSClient) SendPrivateMsg(ctx context.Context, userID int64, message onebot.Segments) (onebot.SendResult, error) {
	var res onebot.SendResult
	err := c.Call(ctx, "send_private_msg", map[string]any{
		"user_id": userID,
		"message": message,
	}, &res)
	return res, err
}

func (c *WSClient) SendForwardMsg(ctx context.Context, target ForwardTarget, nodes onebot.Segments) (onebot.ForwardResult, error) {
	params := map[string]any{"message": nodes}
	if target.GroupID != 0 {
		params["group_id"] = target.GroupID
	} else {
		params["user_id"] = target.UserID
	}
	var res onebot.ForwardResult
	err := c.Call(ctx, "send_forward_msg", params, &res)
	return res, err
}

func (c *WSClient) DeleteMsg(ctx context.Context, messageID int64) error {
	return c.Call(ctx, "delete_msg", map[string]any{"message_id": messageID}, nil)
}

func (c *WSClient) GetMsg(ctx context.Context, messageID int64) (*onebot.MessageDetail, error) {
	var res onebot.MessageDetail
	if err := c.Call(ctx, "get_msg", map[string]any{"message_id": messageID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *WSClient) GetLoginInfo(ctx context.Context) (*onebot.LoginInfo, error) {
	var res onebot.LoginInfo
	if err := c.Call(ctx, "get_login_info", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *WSClient) GetGroupList(ctx context.Context) ([]onebot.GroupInfo, error) {
	var res []onebot.GroupInfo
	if err := c.Call(ctx, "get_group_list", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *WSClient) GetGroupMemberInfo(ctx context.Context, groupID, userID int64) (*onebot.GroupMemberInfo, error) {
	var res onebot.GroupMemberInfo
	err := c.Call(ctx, "get_group_member_info", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *WSClient) SetGroupKick(ctx context.Context, groupID, userID int64, rejectAddRequest bool) error {
	return c.Call(ctx, "set_group_kick", map[string]any{
		"group_id":           groupID,
		"user_id":            userID,
		"reject_add_request": rejectAddRequest,
	}, nil)
}

// SetGroupBan mutes a member; a zero duration lifts the mute. The wire unit
// is whole seconds.
func (c *WSClient) SetGroupBan(ctx context.Context, groupID, userID int64, duration time.Duration) error {
	return c.Call(ctx, "set_group_ban", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"duration": int64(duration / time.Second),
	}, nil)
}

func (c *WSClient) SetGroupWholeBan(ctx context.Context, groupID int64, enable bool) error {
	return c.Call(ctx, "set_group_whole_ban", map[string]any{
		"group_id": groupID,
		"enable":   enable,
	}, nil)
}

func (c *WSClient) SetGroupName(ctx context.Context, groupID int64, name string) error {
	return c.Call(ctx, "set_group_name", map[string]any{
		"group_id":   groupID,
		"group_name": name,
	}, nil)
}

func (c *WSClient) SetGroupAdmin(ctx context.Context, groupID, userID int64, enable bool) error {
	return c.Call(ctx, "set_group_admin", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"enable":   enable,
	}, nil)
}

func (c *WSClient) SetGroupSpecialTitle(ctx context.Context, groupID, userID int64, title string) error {
	return c.Call(ctx, "set_group_special_title", map[string]any{
		"group_id":      groupID,
		"user_id":       userID,
		"special_title": title,
	}, nil)
}

func (c *WSClient) SetGroupAddRequest(ctx context.Context, flag string, approve bool, reason string) error {
	params := map[string]any{
		"flag":    flag,
		"approve": approve,
	}
	if reason != "" {
		params["reason"] = reason
	}
	return c.Call(ctx, "set_group_add_request", params, nil)
}

func (c *WSClient) GetRKeyList(ctx context.Context) ([]onebot.RKey, error) {
	var res []onebot.RKey
	if err := c.Call(ctx, "nc_get_rkey", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}
