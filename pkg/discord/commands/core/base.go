package core

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/access"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// ContextBuilder creates contexts for command execution
type ContextBuilder struct {
	session *discordgo.Session
}

// NewContextBuilder creates a new context builder
func NewContextBuilder(session *discordgo.Session) *ContextBuilder {
	return &ContextBuilder{session: session}
}

// BuildContext creates a complete context for command execution
func (cb *ContextBuilder) BuildContext(i *discordgo.InteractionCreate) *Context {
	userID := extractUserID(i)
	guildID := i.GuildID

	ownerID := ""
	if guildID != "" {
		ownerID = cb.guildOwnerID(guildID)
	}

	var roles []string
	if i.Member != nil {
		roles = i.Member.Roles
	}

	return &Context{
		Session:     cb.session,
		Interaction: i,
		Logger:      interactionLogger(i, guildID, userID),
		GuildID:     guildID,
		ChannelID:   i.ChannelID,
		UserID:      userID,
		OwnerID:     ownerID,
		Actor:       access.Actor{UserID: userID, RoleIDs: roles},
	}
}

// guildOwnerID resolves the owner from the state cache, falling back to REST.
func (cb *ContextBuilder) guildOwnerID(guildID string) string {
	if cb.session == nil {
		return ""
	}
	if cb.session.State != nil {
		if g, _ := cb.session.State.Guild(guildID); g != nil && g.OwnerID != "" {
			return g.OwnerID
		}
	}
	guild, err := cb.session.Guild(guildID)
	if err != nil || guild == nil {
		log.DiscordLogger().Warn("Failed to resolve guild owner", "guildID", guildID, "error", err)
		return ""
	}
	return guild.OwnerID
}

// extractUserID extracts the user ID from the interaction
func extractUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	} else if i.User != nil {
		return i.User.ID
	}
	return ""
}

func interactionLogger(i *discordgo.InteractionCreate, guildID, userID string) *slog.Logger {
	return log.DiscordLogger().With(
		"interactionID", i.ID,
		"action", InteractionLabel(i),
		"guildID", guildID,
		"userID", userID,
	)
}

// InteractionLabel returns "/name" for slash commands and the custom id for components and modals.
func InteractionLabel(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return "/" + i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return ""
}

// CustomIDPrefix returns the segment before the first ':' of a custom id.
func CustomIDPrefix(customID string) string {
	prefix, _, _ := strings.Cut(customID, ":")
	return prefix
}

// IsSlashCommandInteraction checks if the interaction is a slash command
func IsSlashCommandInteraction(i *discordgo.InteractionCreate) bool {
	return i.Type == discordgo.InteractionApplicationCommand
}

// IsComponentInteraction checks if the interaction is a button, select menu or modal submit
func IsComponentInteraction(i *discordgo.InteractionCreate) bool {
	return i.Type == discordgo.InteractionMessageComponent || i.Type == discordgo.InteractionModalSubmit
}
