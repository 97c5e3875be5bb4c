// Package session keeps short-lived per-conversation interaction state in
// memory, keyed by (group, user) and expired by a periodic sweep.
package session

import (
	"fmt"
	"time"
)

// Key identifies one conversation. GroupID is zero for private chats.
type Key struct {
	GroupID int64
	UserID  int64
}

func (k Key) String() string { return fmt.Sprintf("%d:%d", k.GroupID, k.UserID) }

// State is the stored entry. Payload is owned by the caller and never
// inspected by the store.
type State[T any] struct {
	Payload   T
	Waiting   bool
	CreatedAt time.Time
}

// Age returns how long the state has existed at now.
func (s State[T]) Age(now time.Time) time.Duration { return now.Sub(s.CreatedAt) }
