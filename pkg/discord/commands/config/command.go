package config

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/access"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

// Command returns the /config slash command backed by h.
func (h *Handler) Command() core.Command {
	return &configCommand{h: h}
}

type configCommand struct {
	h *Handler
}

func (c *configCommand) Name() string { return "config" }

func (c *configCommand) Description() string {
	return "Configure les paramètres du bot pour ce serveur."
}

func (c *configCommand) Options() []*discordgo.ApplicationCommandOption { return nil }
func (c *configCommand) RequiresGuild() bool                           { return true }
func (c *configCommand) RequiresPermissions() bool                     { return true }

// Handle opens a fresh main panel and arms its inactivity timer.
func (c *configCommand) Handle(ctx *core.Context) error {
	h := c.h
	p := h.platformFor(ctx)
	i := ctx.Interaction.Interaction

	cfg := h.docs.Load(ctx.GuildID)
	if err := access.RequireAccess(ctx.Actor, ctx.OwnerID, cfg); err != nil {
		msg := access.DeniedMessage
		var denied access.DeniedError
		if errors.As(err, &denied) {
			msg = denied.Message()
		}
		refused := logging.FromContext(ctx, logging.StatusDenied, "Pas admin du bot").WithCategory(files.LogCategoryAdmin)
		h.record(ctx, &refused)
		return p.Respond(i, ephemeralResponse(msg))
	}

	menu := mainPanel()
	if err := p.Respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     menu.Embeds,
			Components: menu.Components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		return err
	}

	opened := logging.FromContext(ctx, logging.StatusSuccess, "Menu config ouvert").
		WithCategory(files.LogCategoryRoles).
		AsVisual()
	h.record(ctx, &opened)

	// Later components carry the reply's message id; fall back to the
	// interaction id when the reply cannot be fetched.
	key := i.ID
	if msg, err := p.OriginalResponse(i); err == nil && msg != nil && msg.ID != "" {
		key = msg.ID
	} else if err != nil {
		ctx.Logger.Debug("Original response not fetched", "error", err)
	}
	h.touch(p, key, i)
	return nil
}
