package onebot

// Action result payloads. Field names follow the OneBot11 / NapCat wire format.

type SendResult struct {
	MessageID int64 `json:"message_id"`
}

// Delivered reports whether the gateway assigned a message id.
func (r SendResult) Delivered() bool { return r.MessageID != 0 }

type ForwardResult struct {
	MessageID int64  `json:"message_id"`
	ResID     string `json:"res_id,omitempty"`
}

type LoginInfo struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// Group member roles as reported by get_group_member_info.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type GroupMemberInfo struct {
	GroupID      int64  `json:"group_id"`
	UserID       int64  `json:"user_id"`
	Nickname     string `json:"nickname"`
	Card         string `json:"card"`
	Role         string `json:"role"`
	Title        string `json:"title"`
	JoinTime     int64  `json:"join_time"`
	LastSentTime int64  `json:"last_sent_time"`
}

type GroupInfo struct {
	GroupID        int64  `json:"group_id"`
	GroupName      string `json:"group_name"`
	MemberCount    int    `json:"member_count"`
	MaxMemberCount int    `json:"max_member_count"`
}

// MessageDetail is the result of get_msg.
type MessageDetail struct {
	Time        int64    `json:"time"`
	MessageType string   `json:"message_type"`
	MessageID   int64    `json:"message_id"`
	RealID      int64    `json:"real_id"`
	GroupID     int64    `json:"group_id,omitempty"`
	UserID      int64    `json:"user_id"`
	Sender      Sender   `json:"sender"`
	Message     Segments `json:"message"`
	RawMessage  string   `json:"raw_message"`
}

// RKey is one entry of the NapCat image rkey list. The value is returned in
// query form ("&rkey=...").
type RKey struct {
	Type      string `json:"type,omitempty"`
	RKey      string `json:"rkey"`
	CreatedAt int64  `json:"created_at,omitempty"`
	TTL       int64  `json:"ttl,omitempty"`
}
