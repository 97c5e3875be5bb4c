package onebot

import "fmt"

const (
	DefaultGroupAvatarSize = 40
	DefaultUserAvatarSize  = 160
)

// GroupAvatarLink returns the avatar url of a group. size <= 0 uses
// DefaultGroupAvatarSize.
func GroupAvatarLink(groupID int64, size int) string {
	if size <= 0 {
		size = DefaultGroupAvatarSize
	}
	return fmt.Sprintf("https://p.qlogo.cn/gh/%d/%d/%d", groupID, groupID, size)
}

// UserAvatarLink returns the avatar url of a user. size <= 0 uses
// DefaultUserAvatarSize.
func UserAvatarLink(userID int64, size int) string {
	if size <= 0 {
		size = DefaultUserAvatarSize
	}
	return fmt.Sprintf("https://q2.qlogo.cn/headimg_dl?dst_uin=%d&spec=%d", userID, size)
}
