// Package permission resolves caller roles from the bot configuration file.
package permission

import (
	"encoding/json"
	"log/slog"
	"os"
	"slices"
)

// Role is the privilege level of a user id.
type Role int

const (
	RoleNone Role = iota
	RoleAdmin
	RoleMaster
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Resolver answers role checks against the "master" and "admins" id lists of
// a JSON document. The document is read on every check, so edits apply
// without a restart. Any read or parse failure denies.
type Resolver struct {
	path     string
	readFile func(string) ([]byte, error)
}

func NewResolver(path string) *Resolver {
	return &Resolver{path: path, readFile: os.ReadFile}
}

// Path returns the document location.
func (r *Resolver) Path() string { return r.path }

func (r *Resolver) IsMaster(userID int64) bool {
	return r.listed("master", userID)
}

func (r *Resolver) IsAdmin(userID int64) bool {
	return r.listed("admins", userID)
}

// HasRight reports IsMaster || IsAdmin, stopping at the first match.
func (r *Resolver) HasRight(userID int64) bool {
	return r.IsMaster(userID) || r.IsAdmin(userID)
}

// Role returns the highest role held by userID.
func (r *Resolver) Role(userID int64) Role {
	switch {
	case r.IsMaster(userID):
		return RoleMaster
	case r.IsAdmin(userID):
		return RoleAdmin
	default:
		return RoleNone
	}
}

// listed decodes only the named list so a malformed sibling key does not
// affect the result.
func (r *Resolver) listed(key string, userID int64) bool {
	data, err := r.readFile(r.path)
	if err != nil {
		slog.Warn("permission: read config", "path", r.path, "err", err)
		return false
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("permission: parse config", "path", r.path, "err", err)
		return false
	}
	raw, ok := doc[key]
	if !ok {
		return false
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		slog.Warn("permission: malformed id list", "key", key, "err", err)
		return false
	}
	return slices.Contains(ids, userID)
}
