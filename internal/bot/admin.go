package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

func (b *Bot) adminResult(action string, err error, attrs ...any) bool {
	if err != nil {
		slog.Error("bot: "+action+" failed", append(attrs, "err", err)...)
		return false
	}
	return true
}

// Kick removes a member; rejectAddRequest blocks their future join requests.
func (b *Bot) Kick(ctx context.Context, groupID, userID int64, rejectAddRequest bool) bool {
	err := b.api.SetGroupKick(ctx, groupID, userID, rejectAddRequest)
	return b.adminResult("kick", err, "group", groupID, "user", userID)
}

// Ban mutes a member for duration; zero lifts the mute.
func (b *Bot) Ban(ctx context.Context, groupID, userID int64, duration time.Duration) bool {
	err := b.api.SetGroupBan(ctx, groupID, userID, duration)
	return b.adminResult("ban", err, "group", groupID, "user", userID, "duration", duration)
}

func (b *Bot) BanAll(ctx context.Context, groupID int64, enable bool) bool {
	err := b.api.SetGroupWholeBan(ctx, groupID, enable)
	return b.adminResult("whole ban", err, "group", groupID, "enable", enable)
}

func (b *Bot) SetGroupName(ctx context.Context, groupID int64, name string) bool {
	err := b.api.SetGroupName(ctx, groupID, name)
	return b.adminResult("set group name", err, "group", groupID)
}

func (b *Bot) SetAdmin(ctx context.Context, groupID, userID int64, enable bool) bool {
	err := b.api.SetGroupAdmin(ctx, groupID, userID, enable)
	return b.adminResult("set admin", err, "group", groupID, "user", userID, "enable", enable)
}

func (b *Bot) SetTitle(ctx context.Context, groupID, userID int64, title string) bool {
	err := b.api.SetGroupSpecialTitle(ctx, groupID, userID, title)
	return b.adminResult("set title", err, "group", groupID, "user", userID)
}

// ApproveGroupJoinRequest answers a join request identified by flag.
// reason is only shown on rejection.
func (b *Bot) ApproveGroupJoinRequest(ctx context.Context, flag string, approve bool, reason string) bool {
	err := b.api.SetGroupAddRequest(ctx, flag, approve, reason)
	return b.adminResult("answer join request", err, "flag", flag, "approve", approve)
}

func (b *Bot) RejectGroupJoinRequest(ctx context.Context, flag, reason string) bool {
	return b.ApproveGroupJoinRequest(ctx, flag, false, reason)
}

// IsGroupAdmin reports whether the member is an admin or the owner.
// Lookup failures count as false.
func (b *Bot) IsGroupAdmin(ctx context.Context, groupID, userID int64) bool {
	info, err := b.api.GetGroupMemberInfo(ctx, groupID, userID)
	if err != nil {
		slog.Debug("bot: member lookup failed", "group", groupID, "user", userID, "err", err)
		return false
	}
	return info.Role == onebot.RoleAdmin || info.Role == onebot.RoleOwner
}

func (b *Bot) IsGroupOwner(ctx context.Context, groupID, userID int64) bool {
	info, err := b.api.GetGroupMemberInfo(ctx, groupID, userID)
	if err != nil {
		slog.Error("bot: member lookup failed", "group", groupID, "user", userID, "err", err)
		return false
	}
	return info.Role == onebot.RoleOwner
}
