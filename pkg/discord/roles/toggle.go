// Package roles handles the role buttons of a deployed panel.
package roles

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panel"
	"github.com/small-frappuccino/rolepanel/pkg/discord/perf"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

const (
	NotConfiguredMessage = "❌ Ce rôle n'est plus configuré sur ce serveur."
	// FailureMessage answers a refusal from Discord (permission or hierarchy).
	FailureMessage = "❌ Impossible d'attribuer le rôle. Vérifiez que le bot a la permission `Gérer les rôles` et que son rôle est au-dessus du rôle cible dans la hiérarchie."
	// RetryMessage answers any other failure.
	RetryMessage = "❌ Impossible de modifier vos rôles pour le moment. Réessayez dans quelques instants."

	activityLabel = "Bouton rôle"
)

// Gateway grants and revokes roles and answers the button.
type Gateway interface {
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
}

// ConfigSource resolves the entry behind a button.
type ConfigSource interface {
	Load(guildID string) *files.GuildConfig
}

// Recorder receives the outcome of every toggle.
type Recorder interface {
	Record(ctx context.Context, a logging.Activity)
}

// SessionGateway implements Gateway over a discordgo session.
type SessionGateway struct {
	session *discordgo.Session
}

func NewSessionGateway(s *discordgo.Session) *SessionGateway {
	return &SessionGateway{session: s}
}

func (g *SessionGateway) AddRole(guildID, userID, roleID string) error {
	return errutil.HandleDiscordError("GuildMemberRoleAdd", func() error {
		return g.session.GuildMemberRoleAdd(guildID, userID, roleID)
	})
}

func (g *SessionGateway) RemoveRole(guildID, userID, roleID string) error {
	return errutil.HandleDiscordError("GuildMemberRoleRemove", func() error {
		return g.session.GuildMemberRoleRemove(guildID, userID, roleID)
	})
}

func (g *SessionGateway) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return g.session.InteractionRespond(i, resp)
}

// ToggleHandler flips the clicked role on the clicking member.
type ToggleHandler struct {
	configs  ConfigSource
	activity Recorder
	gateway  Gateway
}

// NewToggleHandler builds the handler; a nil gateway uses the interaction's session.
func NewToggleHandler(configs ConfigSource, activity Recorder, gateway Gateway) *ToggleHandler {
	return &ToggleHandler{configs: configs, activity: activity, gateway: gateway}
}

// Prefix implements core.ComponentHandler.
func (h *ToggleHandler) Prefix() string { return panel.RoleButtonPrefix }

func (h *ToggleHandler) gatewayFor(ctx *core.Context) Gateway {
	if h.gateway != nil {
		return h.gateway
	}
	return NewSessionGateway(ctx.Session)
}

func reply(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// HandleComponent implements core.ComponentHandler.
func (h *ToggleHandler) HandleComponent(ctx *core.Context) error {
	defer perf.Track("role_toggle", "guildID", ctx.GuildID)()
	g := h.gatewayFor(ctx)
	i := ctx.Interaction.Interaction

	roleID := strings.TrimPrefix(ctx.CustomID(), panel.RoleButtonPrefix+":")
	if ctx.GuildID == "" || roleID == "" {
		return g.Respond(i, reply(NotConfiguredMessage))
	}

	entry, ok := h.configs.Load(ctx.GuildID).EntryByRole(roleID)
	if !ok {
		return g.Respond(i, reply(NotConfiguredMessage))
	}

	var held bool
	if i.Member != nil {
		held = slices.Contains(i.Member.Roles, roleID)
	}

	var (
		err    error
		msg    string
		detail string
	)
	if held {
		err = g.RemoveRole(ctx.GuildID, ctx.UserID, roleID)
		msg = fmt.Sprintf("✅ Rôle **%s** retiré.", entry.Label)
		detail = fmt.Sprintf("Rôle retiré : %s (%s)", entry.Label, roleID)
	} else {
		err = g.AddRole(ctx.GuildID, ctx.UserID, roleID)
		msg = fmt.Sprintf("✅ Rôle **%s** attribué.", entry.Label)
		detail = fmt.Sprintf("Rôle attribué : %s (%s)", entry.Label, roleID)
	}

	if err != nil {
		ctx.Logger.Warn("Role toggle failed", "roleID", roleID, "remove", held, "error", err)
		h.record(logging.FromContext(ctx, logging.StatusError, errutil.Describe(err)))
		if errutil.IsMissingPermissions(err) {
			return g.Respond(i, reply(FailureMessage))
		}
		return g.Respond(i, reply(RetryMessage))
	}

	h.record(logging.FromContext(ctx, logging.StatusSuccess, detail))
	return g.Respond(i, reply(msg))
}

func (h *ToggleHandler) record(a logging.Activity) {
	if h.activity == nil {
		return
	}
	h.activity.Record(context.Background(), a.WithLabel(activityLabel).WithCategory(files.LogCategoryRoles))
}
