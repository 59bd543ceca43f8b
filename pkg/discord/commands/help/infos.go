package help

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

const (
	infosRestrictedMessage = "❌ Cette commande est réservée à un serveur spécifique."
	infosNoChannelMessage  = "❌ Le salon cible pour cette commande est introuvable."
	infosPublishedMessage  = "✅ Les informations du bot ont été publiées dans le salon cible."
	infosFailedMessage     = "❌ Une erreur est survenue lors de l'exécution de cette commande."
)

// InfosTarget is where /infos may be used and where it publishes.
type InfosTarget struct {
	GuildID    string
	ChannelID  string
	InviteURL  string
	SupportURL string
}

// Enabled reports whether the command has somewhere to publish.
func (t InfosTarget) Enabled() bool {
	return t.GuildID != "" && t.ChannelID != ""
}

// InfosCommand publishes the bot presentation embed in one fixed channel.
type InfosCommand struct {
	target   InfosTarget
	activity Recorder
}

func NewInfosCommand(target InfosTarget, activity Recorder) *InfosCommand {
	if target.SupportURL == "" {
		target.SupportURL = DefaultSupportURL
	}
	return &InfosCommand{target: target, activity: activity}
}

func (c *InfosCommand) Name() string { return "infos" }
func (c *InfosCommand) Description() string {
	return "Affiche les informations du bot (commande réservée à un serveur spécifique)."
}
func (c *InfosCommand) Options() []*discordgo.ApplicationCommandOption { return nil }
func (c *InfosCommand) RequiresGuild() bool                           { return true }
func (c *InfosCommand) RequiresPermissions() bool                     { return false }

// InfosEmbed presents the bot with its invite and support links.
func InfosEmbed(inviteURL, supportURL string) *discordgo.MessageEmbed {
	desc := "Voici les informations importantes concernant le bot :\n\n"
	if inviteURL != "" {
		desc += "• **Ajouter le bot sur votre serveur** : [Cliquez ici](" + inviteURL + ")\n"
	}
	desc += "• **Lien du serveur support** : [Rejoindre](" + supportURL + ")\n" +
		"• **Gestion RGPD** : Utilisez les commandes `/rgpd` pour consulter ou supprimer vos données."
	return &discordgo.MessageEmbed{
		Title:       "ℹ️ Informations du bot",
		Description: desc,
		Color:       theme.Primary(),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Merci d'utiliser mon bot !"},
	}
}

func (c *InfosCommand) Handle(ctx *core.Context) error {
	if ctx.GuildID != c.target.GuildID {
		c.record(ctx, logging.StatusDenied, "Serveur non autorisé")
		return c.ephemeral(ctx, infosRestrictedMessage)
	}

	_, err := ctx.Session.ChannelMessageSendEmbed(c.target.ChannelID, InfosEmbed(c.target.InviteURL, c.target.SupportURL))
	switch {
	case err == nil:
		c.record(ctx, logging.StatusSuccess, "Informations publiées")
		return c.ephemeral(ctx, infosPublishedMessage)
	case errutil.IsUnknownChannel(err):
		ctx.Logger.Warn("Infos channel not found", "channelID", c.target.ChannelID)
		c.record(ctx, logging.StatusError, errutil.Describe(err))
		return c.ephemeral(ctx, infosNoChannelMessage)
	default:
		ctx.Logger.Error("Failed to publish infos", "channelID", c.target.ChannelID, "error", err)
		c.record(ctx, logging.StatusError, errutil.Describe(err))
		return c.ephemeral(ctx, infosFailedMessage)
	}
}

func (c *InfosCommand) ephemeral(ctx *core.Context, content string) error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (c *InfosCommand) record(ctx *core.Context, status logging.Status, detail string) {
	if c.activity == nil {
		return
	}
	c.activity.Record(context.Background(), logging.FromContext(ctx, status, detail))
}
