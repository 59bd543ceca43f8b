// Package access decides who may drive the configuration panel.
package access

import (
	"slices"

	"github.com/small-frappuccino/rolepanel/pkg/files"
)

const (
	// DeniedMessage answers actors that are neither owner nor bot admin.
	DeniedMessage = "🔒 Cette commande est réservée au **propriétaire du serveur** ou aux **administrateurs du bot**."
	// OwnerOnlyMessage answers non-owners attempting to manage the admin list.
	OwnerOnlyMessage = "🔒 Seul le **propriétaire du serveur** peut gérer les admins du bot."
)

// Actor is the member behind an interaction.
type Actor struct {
	UserID  string
	RoleIDs []string
}

// IsOwner reports whether actor owns the guild.
func IsOwner(actor Actor, ownerID string) bool {
	return actor.UserID != "" && actor.UserID == ownerID
}

// HasAccess reports whether actor may use the configuration panel: the owner,
// an admin user, or a member holding any admin role.
func HasAccess(actor Actor, ownerID string, cfg *files.GuildConfig) bool {
	if IsOwner(actor, ownerID) {
		return true
	}
	if cfg == nil || actor.UserID == "" {
		return false
	}
	if cfg.IsAdminUser(actor.UserID) {
		return true
	}
	return slices.ContainsFunc(actor.RoleIDs, cfg.IsAdminRole)
}

// DeniedError is returned when a gate refuses an actor.
type DeniedError struct {
	OwnerOnly bool
}

func (e DeniedError) Error() string {
	if e.OwnerOnly {
		return "access denied: owner only"
	}
	return "access denied"
}

// Message returns the user-facing refusal text.
func (e DeniedError) Message() string {
	if e.OwnerOnly {
		return OwnerOnlyMessage
	}
	return DeniedMessage
}

// RequireAccess returns a DeniedError unless HasAccess holds.
func RequireAccess(actor Actor, ownerID string, cfg *files.GuildConfig) error {
	if HasAccess(actor, ownerID, cfg) {
		return nil
	}
	return DeniedError{}
}

// RequireOwner returns an owner-only DeniedError unless actor owns the guild.
func RequireOwner(actor Actor, ownerID string) error {
	if IsOwner(actor, ownerID) {
		return nil
	}
	return DeniedError{OwnerOnly: true}
}
