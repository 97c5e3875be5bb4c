// Package bot is the surface plugins use to talk back to chat: replies,
// sends, group administration and lookups that need a gateway round trip.
//
// Fire-and-forget operations never return errors: sends yield a zero message
// id and admin actions yield false, with the cause logged. FakeMessage is the
// one operation whose failure propagates.
package bot

import (
	"github.com/wwcxin/cyberbot-new/internal/gateway"
	"github.com/wwcxin/cyberbot-new/internal/permission"
)

type Bot struct {
	api   gateway.API
	perms *permission.Resolver
}

func New(api gateway.API, perms *permission.Resolver) *Bot {
	return &Bot{api: api, perms: perms}
}

// API exposes the raw gateway for actions Bot does not wrap.
func (b *Bot) API() gateway.API { return b.api }

func (b *Bot) IsMaster(userID int64) bool { return b.perms.IsMaster(userID) }
func (b *Bot) IsAdmin(userID int64) bool  { return b.perms.IsAdmin(userID) }
func (b *Bot) HasRight(userID int64) bool { return b.perms.HasRight(userID) }
